package usecase

import (
	"context"

	emaildomain "lifehub-backend/internal/email/domain"
	emaildto "lifehub-backend/internal/email/dto"
)

type EmailUsecase interface {
	List(userID, label string, page, limit int) (*emaildto.ListEmailsResponse, error)
	Get(userID, id string) (*emaildomain.Email, error)
	GetBody(ctx context.Context, userID, id string) (*emaildomain.Email, error)
	Attachments(userID, emailID string) ([]*emaildto.AttachmentResponse, error)
	DownloadAttachment(ctx context.Context, userID, emailID, attachmentID string) (*emaildto.AttachmentDownloadResponse, error)

	Compose(userID string, req *emaildto.ComposeEmailRequest) (*emaildomain.Email, error)
	SetStarred(userID, id string, starred bool) (*emaildomain.Email, error)
	SetRead(userID, id string, read bool) (*emaildomain.Email, error)
	ModifyLabels(userID, id string, add, remove []string) (*emaildomain.Email, error)
	Trash(userID, id string) error

	DraftReply(ctx context.Context, userID, id, tone, length string) (string, error)
}
