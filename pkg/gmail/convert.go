package gmail

import (
	"encoding/base64"
	"strings"
	"time"

	emaildomain "lifehub-backend/internal/email/domain"
	"lifehub-backend/pkg/sanitize"

	"google.golang.org/api/gmail/v1"
)

// remoteToLocal is the fixed label translation table. System labels the table
// does not know pass through lower-cased as custom labels.
var remoteToLocal = map[string]string{
	"INBOX":               "inbox",
	"UNREAD":              "unread",
	"STARRED":             "starred",
	"IMPORTANT":           "important",
	"SENT":                "sent",
	"DRAFT":               "draft",
	"SPAM":                "spam",
	"TRASH":               "trash",
	"CATEGORY_PERSONAL":   "category_personal",
	"CATEGORY_SOCIAL":     "category_social",
	"CATEGORY_PROMOTIONS": "category_promotions",
	"CATEGORY_UPDATES":    "category_updates",
	"CATEGORY_FORUMS":     "category_forums",
}

var localToRemote = func() map[string]string {
	m := make(map[string]string, len(remoteToLocal))
	for remote, local := range remoteToLocal {
		m[local] = remote
	}
	return m
}()

// ToLocalLabels translates remote label identifiers into the local label set.
func ToLocalLabels(remoteIDs []string) emaildomain.LabelSet {
	labels := emaildomain.LabelSet{}
	for _, id := range remoteIDs {
		if local, ok := remoteToLocal[id]; ok {
			labels = labels.With(local)
			continue
		}
		labels = labels.With(strings.ToLower(id))
	}
	return labels
}

// ToRemoteLabels translates local label names back into remote identifiers.
// Unknown labels pass through unchanged.
func ToRemoteLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if id, ok := localToRemote[l]; ok {
			out = append(out, id)
			continue
		}
		out = append(out, l)
	}
	return out
}

// ToEmail maps a wire message to a canonical record. The body is deliberately
// left empty; it is fetched on demand, outside the bulk-sync path. Inbound
// records are in sync by construction, so NeedsRemoteSync starts false.
func ToEmail(msg *gmail.Message) *emaildomain.Email {
	remoteID := msg.Id
	labels := ToLocalLabels(msg.LabelIds)

	email := &emaildomain.Email{
		RemoteID:        &remoteID,
		ThreadID:        msg.ThreadId,
		Snippet:         msg.Snippet,
		Labels:          labels,
		SyncedLabels:    labels.Sorted(),
		InternalDate:    time.Unix(msg.InternalDate/1000, 0).UTC(),
		NeedsRemoteSync: false,
	}

	if msg.Payload != nil {
		email.Subject = getHeader(msg.Payload.Headers, "Subject")
		email.Sender = getHeader(msg.Payload.Headers, "From")
		email.Recipients = getHeader(msg.Payload.Headers, "To")
		email.Cc = getHeader(msg.Payload.Headers, "Cc")
		email.Attachments = collectAttachments(msg.Payload)
	}

	return email
}

// ExtractBody walks the message parts and returns the display body. Plain
// text wins when both representations exist; HTML is reduced to a sanitized
// fragment with cid: references resolved against the inline attachments.
func ExtractBody(payload *gmail.MessagePart, attachments []emaildomain.Attachment) string {
	if payload == nil {
		return ""
	}

	plain := findPart(payload, "text/plain")
	if plain != "" {
		return plain
	}

	html := findPart(payload, "text/html")
	if html == "" {
		return ""
	}

	parts := make(map[string]sanitize.InlinePart, len(attachments))
	for _, a := range attachments {
		if a.ContentID == "" || a.Data == "" {
			continue
		}
		parts[a.ContentID] = sanitize.InlinePart{
			Filename: a.Filename,
			MimeType: a.MimeType,
			Data:     a.Data,
		}
	}

	// Resolve cid: references before sanitizing; the policy strips the cid
	// scheme, so resolution must see the raw references.
	return sanitize.HTML(sanitize.ResolveCIDs(html, parts))
}

func findPart(part *gmail.MessagePart, mimeType string) string {
	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		return decodeBody(part.Body.Data)
	}
	for _, p := range part.Parts {
		if body := findPart(p, mimeType); body != "" {
			return body
		}
	}
	return ""
}

func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}

func collectAttachments(part *gmail.MessagePart) []emaildomain.Attachment {
	var attachments []emaildomain.Attachment
	if part == nil {
		return attachments
	}

	if part.Filename != "" && part.Body != nil {
		att := emaildomain.Attachment{
			RemoteID:  part.Body.AttachmentId,
			Filename:  part.Filename,
			MimeType:  part.MimeType,
			Size:      part.Body.Size,
			ContentID: strings.Trim(getHeader(part.Headers, "Content-ID"), "<>"),
		}
		attachments = append(attachments, att)
	}

	for _, p := range part.Parts {
		attachments = append(attachments, collectAttachments(p)...)
	}

	return attachments
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
