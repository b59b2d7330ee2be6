package gmail

import (
	"encoding/base64"
	"testing"
	"time"

	emaildomain "lifehub-backend/internal/email/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
)

func TestToLocalLabels(t *testing.T) {
	labels := ToLocalLabels([]string{"INBOX", "CATEGORY_SOCIAL", "UNREAD", "Label_42"})

	assert.Equal(t, emaildomain.LabelSet{"inbox", "category_social", "unread", "label_42"}, labels)
}

func TestToRemoteLabels(t *testing.T) {
	remote := ToRemoteLabels([]string{"inbox", "starred", "project-x"})

	assert.Equal(t, []string{"INBOX", "STARRED", "project-x"}, remote)
}

func TestLabelTranslationRoundTrip(t *testing.T) {
	for remote, local := range remoteToLocal {
		assert.Equal(t, []string{remote}, ToRemoteLabels([]string{local}))
	}
}

func TestToEmail(t *testing.T) {
	msg := &gmail.Message{
		Id:           "msg-1",
		ThreadId:     "thr-1",
		Snippet:      "a short preview",
		LabelIds:     []string{"INBOX", "CATEGORY_SOCIAL"},
		InternalDate: 1756400000000, // milliseconds
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Hello there"},
				{Name: "From", Value: "alice@example.com"},
				{Name: "To", Value: "bob@example.com"},
				{Name: "Cc", Value: "carol@example.com"},
			},
		},
	}

	email := ToEmail(msg)

	require.NotNil(t, email.RemoteID)
	assert.Equal(t, "msg-1", *email.RemoteID)
	assert.Equal(t, "thr-1", email.ThreadID)
	assert.Equal(t, "Hello there", email.Subject)
	assert.Equal(t, "alice@example.com", email.Sender)
	assert.Equal(t, "bob@example.com", email.Recipients)
	assert.Equal(t, "carol@example.com", email.Cc)
	assert.Equal(t, emaildomain.LabelSet{"inbox", "category_social"}, email.Labels)
	assert.Equal(t, emaildomain.LabelSet{"category_social", "inbox"}, email.SyncedLabels)
	assert.Equal(t, time.Unix(1756400000, 0).UTC(), email.InternalDate)
	assert.False(t, email.NeedsRemoteSync)
	assert.Empty(t, email.Body, "body is fetched on demand, not during sync")
}

func encodeBody(s string) string {
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(s))
}

func TestExtractBodyPrefersPlainText(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encodeBody("<p>html version</p>")}},
			{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encodeBody("plain version")}},
		},
	}

	body := ExtractBody(payload, nil)

	assert.Equal(t, "plain version", body)
}

func TestExtractBodySanitizesHTML(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "text/html",
		Body:     &gmail.MessagePartBody{Data: encodeBody(`<html><body><p>hi</p><script>bad()</script></body></html>`)},
	}

	body := ExtractBody(payload, nil)

	assert.Contains(t, body, "<p>hi</p>")
	assert.NotContains(t, body, "script")
}

func TestExtractBodyResolvesInlineImages(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "text/html",
		Body:     &gmail.MessagePartBody{Data: encodeBody(`<img src="cid:pic1">`)},
	}
	attachments := []emaildomain.Attachment{
		{ContentID: "pic1", Filename: "pic.png", MimeType: "image/png", Data: "aW1n"},
	}

	body := ExtractBody(payload, attachments)

	assert.Contains(t, body, "data:image/png;base64,aW1n")
}

func TestExtractBodySanitizesAfterResolvingInlineImages(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "text/html",
		Body: &gmail.MessagePartBody{
			Data: encodeBody(`<script>alert(1)</script><img src="cid:pic1" onerror="x()">`),
		},
	}
	attachments := []emaildomain.Attachment{
		{ContentID: "pic1", Filename: "pic.png", MimeType: "image/png", Data: "aW1n"},
	}

	body := ExtractBody(payload, attachments)

	assert.Contains(t, body, `src="data:image/png;base64,aW1n"`, "the resolved data URI survives the policy")
	assert.NotContains(t, body, "script")
	assert.NotContains(t, body, "onerror")
}

func TestExtractBodyNestedParts(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmail.MessagePart{
			{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encodeBody("nested plain")}},
				},
			},
		},
	}

	assert.Equal(t, "nested plain", ExtractBody(payload, nil))
}

func TestCollectAttachments(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmail.MessagePart{
			{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encodeBody("body")}},
			{
				Filename: "report.pdf",
				MimeType: "application/pdf",
				Body:     &gmail.MessagePartBody{AttachmentId: "att-1", Size: 1024},
			},
			{
				Filename: "logo.png",
				MimeType: "image/png",
				Body:     &gmail.MessagePartBody{AttachmentId: "att-2", Size: 256},
				Headers:  []*gmail.MessagePartHeader{{Name: "Content-ID", Value: "<logo@mail>"}},
			},
		},
	}

	attachments := collectAttachments(payload)

	require.Len(t, attachments, 2)
	assert.Equal(t, "report.pdf", attachments[0].Filename)
	assert.Equal(t, "att-1", attachments[0].RemoteID)
	assert.Equal(t, int64(1024), attachments[0].Size)
	assert.False(t, attachments[0].IsInline())

	assert.Equal(t, "logo@mail", attachments[1].ContentID, "angle brackets are trimmed")
	assert.True(t, attachments[1].IsInline())
}

func TestDecodeBodyHandlesPadding(t *testing.T) {
	// Providers sometimes pad URL-safe base64; decoding must accept both.
	padded := base64.URLEncoding.EncodeToString([]byte("hi"))
	assert.Equal(t, "hi", decodeBody(padded))
	assert.Equal(t, "hi", decodeBody(encodeBody("hi")))
	assert.Equal(t, "", decodeBody("!!not base64!!"))
}
