package outline

// Collection is an Outline collection (the top-level grouping for documents).
type Collection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Document is a created Outline document.
type Document struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	CollectionID     string `json:"collectionId"`
	ParentDocumentID string `json:"parentDocumentId,omitempty"`
	URL              string `json:"url"`
}

// Attachment is an Outline attachment record.
type Attachment struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// AttachmentUpload is the result of attachments.create: the attachment record
// plus the presigned destination the file bytes must be delivered to.
type AttachmentUpload struct {
	UploadURL  string            `json:"uploadUrl"`
	Form       map[string]string `json:"form"`
	Attachment Attachment        `json:"attachment"`
}

// AuthInfo is the response of auth.info, used as a connectivity probe.
type AuthInfo struct {
	User struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"user"`
}

// CreateDocumentRequest is the payload for documents.create.
type CreateDocumentRequest struct {
	Title            string `json:"title"`
	Text             string `json:"text"`
	CollectionID     string `json:"collectionId"`
	ParentDocumentID string `json:"parentDocumentId,omitempty"`
	Publish          bool   `json:"publish"`
}
