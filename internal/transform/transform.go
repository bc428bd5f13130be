// Package transform holds the pure text transformations applied to Docmost
// markdown before it is sent to Outline. All functions operate on whole
// document strings and perform no I/O.
package transform

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Uploaded describes an attachment that has been uploaded to Outline.
type Uploaded struct {
	URL  string
	Size int64
}

// Matches image syntax ![...](path) and link syntax [...](path) where the
// target points into the attachment pool, with up to two leading slashes.
var attachmentRefPattern = regexp.MustCompile(`!?\[[^\]]*\]\((/?/?files/[^)]+)\)`)

// Matches <details><summary>Title</summary> body </details> blocks,
// case-insensitive, body spanning multiple lines, non-greedy.
var detailsPattern = regexp.MustCompile(`(?is)<details>\s*<summary>([^<]+)</summary>\s*(.*?)</details>`)

// ExtractAttachmentReferences returns every attachment reference found in the
// content, in order of appearance, duplicates retained. Leading slashes are
// stripped, so "/files/uuid/img.png" and "files/uuid/img.png" both yield
// "files/uuid/img.png".
func ExtractAttachmentReferences(content string) []string {
	matches := attachmentRefPattern.FindAllStringSubmatch(content, -1)
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, strings.TrimLeft(m[1], "/"))
	}
	return refs
}

// ConvertDetailsToHeadings converts <details>/<summary> blocks into a level-3
// heading followed by a blank line and the block body. Blocks that do not
// match the expected nested shape are left untouched.
func ConvertDetailsToHeadings(content string) string {
	return detailsPattern.ReplaceAllStringFunc(content, func(block string) string {
		m := detailsPattern.FindStringSubmatch(block)
		title := strings.TrimSpace(m[1])
		body := strings.TrimSpace(m[2])
		return fmt.Sprintf("### %s\n\n%s", title, body)
	})
}

// ReplaceAttachmentURLs rewrites attachment references to their uploaded
// Outline URLs. Image occurrences keep their alt text; link occurrences are
// rewritten to "[filename size](url)" where filename is the last path segment
// of the link text when the text contains a separator. Each reference is
// matched in its bare, single-slash and double-slash spellings.
func ReplaceAttachmentURLs(content string, mapping map[string]Uploaded) string {
	result := content

	for ref, up := range mapping {
		for _, spelling := range []string{ref, "/" + ref, "//" + ref} {
			escaped := regexp.QuoteMeta(spelling)

			imageRe := regexp.MustCompile(`!\[([^\]]*)\]\(` + escaped + `\)`)
			result = imageRe.ReplaceAllStringFunc(result, func(match string) string {
				alt := imageRe.FindStringSubmatch(match)[1]
				return fmt.Sprintf("![%s](%s)", alt, up.URL)
			})

			linkRe := regexp.MustCompile(`\[([^\]]*)\]\(` + escaped + `\)`)
			result = linkRe.ReplaceAllStringFunc(result, func(match string) string {
				text := strings.TrimSpace(linkRe.FindStringSubmatch(match)[1])
				name := text
				if strings.Contains(text, "/") {
					name = path.Base(text)
				}
				return fmt.Sprintf("[%s %d](%s)", name, up.Size, up.URL)
			})
		}
	}

	return result
}

// TransformContent applies all transformations in order: callout blocks
// first, then attachment URL rewriting. The order matters: URL rewriting must
// not re-match text produced by the callout rewrite.
func TransformContent(content string, mapping map[string]Uploaded) string {
	result := ConvertDetailsToHeadings(content)
	return ReplaceAttachmentURLs(result, mapping)
}
