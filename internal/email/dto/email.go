package dto

import emaildomain "lifehub-backend/internal/email/domain"

type ListEmailsResponse struct {
	Emails []*emaildomain.Email `json:"emails"`
	Total  int64                `json:"total"`
	Page   int                  `json:"page"`
	Limit  int                  `json:"limit"`
}

type ComposeEmailRequest struct {
	To      string `json:"to" binding:"required"`
	Cc      string `json:"cc"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

type ModifyLabelsRequest struct {
	Add    []string `json:"add"`
	Remove []string `json:"remove"`
}

type AttachmentResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

type AttachmentDownloadResponse struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type DraftReplyRequest struct {
	Tone   string `json:"tone"`
	Length string `json:"length"`
}

type DraftReplyResponse struct {
	Reply string `json:"reply"`
}
