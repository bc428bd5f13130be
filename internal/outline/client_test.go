package outline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTimer implements backoff.Timer, recording requested waits and firing
// immediately so tests never sleep.
type fakeTimer struct {
	waits []time.Duration
	ch    chan time.Time
}

func (t *fakeTimer) Start(d time.Duration) {
	t.waits = append(t.waits, d)
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	t.ch = ch
}

func (t *fakeTimer) Stop() {}

func (t *fakeTimer) C() <-chan time.Time { return t.ch }

func testRetryPolicy(timer *fakeTimer) RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, DefaultWait: 60 * time.Second, Timer: timer}
}

func writeData(w http.ResponseWriter, data interface{}) {
	json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func TestTestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth.info", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		writeData(w, map[string]interface{}{"user": map[string]string{"id": "u1", "name": "Alice"}})
	}))
	defer server.Close()

	client := New(server.URL, "test-key")
	info, err := client.TestConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Alice", info.User.Name)
}

func TestCreateCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/collections.create", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Docs", payload["name"])
		assert.Equal(t, "#4E5C6E", payload["color"])

		writeData(w, Collection{ID: "col1", Name: "Docs", Color: "#4E5C6E"})
	}))
	defer server.Close()

	client := New(server.URL, "test-key")
	collection, err := client.CreateCollection(context.Background(), "Docs", "desc", "#4E5C6E")
	require.NoError(t, err)
	assert.Equal(t, "col1", collection.ID)
}

func TestCreateDocumentRetriesOnRateLimit(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeData(w, Document{ID: "doc1", Title: "T", CollectionID: "col1"})
	}))
	defer server.Close()

	timer := &fakeTimer{}
	client := New(server.URL, "test-key", WithRetryPolicy(testRetryPolicy(timer)))

	doc, err := client.CreateDocument(context.Background(), CreateDocumentRequest{
		Title: "T", Text: "body", CollectionID: "col1", Publish: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "doc1", doc.ID)
	assert.Equal(t, 2, attempts)

	// Exactly one wait, matching the Retry-After header
	assert.Equal(t, []time.Duration{2 * time.Second}, timer.waits)
}

func TestCreateDocumentRateLimitExhausted(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Retry-After", "0.1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	timer := &fakeTimer{}
	client := New(server.URL, "test-key", WithRetryPolicy(testRetryPolicy(timer)))

	_, err := client.CreateDocument(context.Background(), CreateDocumentRequest{
		Title: "T", Text: "body", CollectionID: "col1",
	})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.RateLimited())

	// Three attempts total, no fourth, so only two waits
	assert.Equal(t, 3, attempts)
	assert.Len(t, timer.waits, 2)
}

func TestCreateDocumentRateLimitDefaultWait(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			// No Retry-After header
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeData(w, Document{ID: "doc1"})
	}))
	defer server.Close()

	timer := &fakeTimer{}
	client := New(server.URL, "test-key", WithRetryPolicy(testRetryPolicy(timer)))

	_, err := client.CreateDocument(context.Background(), CreateDocumentRequest{Title: "T"})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{60 * time.Second}, timer.waits)
}

func TestCreateDocumentFailsImmediatelyOnOtherErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"validation_error"}`)
	}))
	defer server.Close()

	timer := &fakeTimer{}
	client := New(server.URL, "test-key", WithRetryPolicy(testRetryPolicy(timer)))

	_, err := client.CreateDocument(context.Background(), CreateDocumentRequest{Title: "T"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "validation_error")

	assert.Equal(t, 1, attempts)
	assert.Empty(t, timer.waits)
}

func TestCreateAttachment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/attachments.create", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "img.png", payload["name"])
		assert.Equal(t, "image/png", payload["contentType"])
		assert.Equal(t, float64(2048), payload["size"])
		assert.Equal(t, "documentAttachment", payload["preset"])

		writeData(w, AttachmentUpload{
			UploadURL:  "https://storage.example.com/presigned",
			Form:       map[string]string{"key": "uploads/img.png"},
			Attachment: Attachment{ID: "att1", URL: "https://x/att1", Name: "img.png", Size: 2048},
		})
	}))
	defer server.Close()

	client := New(server.URL, "test-key")
	upload, err := client.CreateAttachment(context.Background(), "img.png", "image/png", 2048)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/presigned", upload.UploadURL)
	assert.Equal(t, "uploads/img.png", upload.Form["key"])
	assert.Equal(t, "https://x/att1", upload.Attachment.URL)
}

func TestUploadToStorage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The presigned destination is credential-less
		assert.Empty(t, r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1 << 20))
		assert.Equal(t, "uploads/img.png", r.FormValue("key"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "img.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "pngbytes", string(content))

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := New(server.URL, "test-key")
	err := client.UploadToStorage(context.Background(), server.URL+"/upload",
		map[string]string{"key": "uploads/img.png"},
		"img.png", "image/png", strings.NewReader("pngbytes"))
	require.NoError(t, err)
}

func TestUploadToStorageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := New(server.URL, "test-key")
	err := client.UploadToStorage(context.Background(), server.URL+"/upload",
		nil, "img.png", "image/png", strings.NewReader("x"))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestDeleteDocumentPermanent(t *testing.T) {
	var payload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents.delete", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		writeData(w, map[string]bool{"success": true})
	}))
	defer server.Close()

	client := New(server.URL, "test-key")
	require.NoError(t, client.DeleteDocument(context.Background(), "doc1", true))
	assert.Equal(t, "doc1", payload["id"])
	assert.Equal(t, true, payload["permanent"])
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"2", 2 * time.Second},
		{"0.5", 500 * time.Millisecond},
		{"", 0},
		{"soon", 0},
		{"-1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRetryAfter(tt.value))
		})
	}
}

