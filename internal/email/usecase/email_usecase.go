package usecase

import (
	"context"
	"errors"
	"time"

	connectiondomain "lifehub-backend/internal/connection/domain"
	connectionusecase "lifehub-backend/internal/connection/usecase"
	emaildomain "lifehub-backend/internal/email/domain"
	emaildto "lifehub-backend/internal/email/dto"
	"lifehub-backend/internal/email/repository"
	"lifehub-backend/pkg/gemini"
	"lifehub-backend/pkg/gmail"

	"github.com/google/uuid"
)

var ErrEmailNotFound = errors.New("email not found")

// emailUsecase implements EmailUsecase interface
type emailUsecase struct {
	repo        repository.EmailRepository
	connUsecase connectionusecase.ConnectionUsecase
	gmailSvc    *gmail.Service
	geminiSvc   *gemini.GeminiService
}

// NewEmailUsecase creates a new instance of emailUsecase
func NewEmailUsecase(
	repo repository.EmailRepository,
	connUsecase connectionusecase.ConnectionUsecase,
	gmailSvc *gmail.Service,
	geminiSvc *gemini.GeminiService,
) EmailUsecase {
	return &emailUsecase{
		repo:        repo,
		connUsecase: connUsecase,
		gmailSvc:    gmailSvc,
		geminiSvc:   geminiSvc,
	}
}

func (u *emailUsecase) List(userID, label string, page, limit int) (*emaildto.ListEmailsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	emails, total, err := u.repo.List(userID, label, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &emaildto.ListEmailsResponse{
		Emails: emails,
		Total:  total,
		Page:   page,
		Limit:  limit,
	}, nil
}

func (u *emailUsecase) Get(userID, id string) (*emaildomain.Email, error) {
	email, err := u.repo.FindByID(userID, id)
	if err != nil {
		return nil, err
	}
	if email == nil {
		return nil, ErrEmailNotFound
	}
	return email, nil
}

// GetBody returns the email with its full body. The first fetch goes to the
// provider and is cached permanently; bulk sync never fetches bodies.
func (u *emailUsecase) GetBody(ctx context.Context, userID, id string) (*emaildomain.Email, error) {
	email, err := u.Get(userID, id)
	if err != nil {
		return nil, err
	}

	if email.BodyCached || email.RemoteID == nil {
		return email, nil
	}

	creds, err := u.credentials(ctx, userID)
	if err != nil {
		return nil, err
	}

	body, fetched, err := u.gmailSvc.FetchBody(ctx, creds, *email.RemoteID)
	if err != nil {
		return nil, err
	}

	email.Body = body
	email.BodyCached = true
	if err := u.repo.Update(email); err != nil {
		return nil, err
	}

	if err := u.backfillAttachments(email.ID, fetched); err != nil {
		return nil, err
	}

	return email, nil
}

// backfillAttachments merges freshly-fetched attachment parts into the stored
// rows, filling payloads without duplicating metadata created at sync time.
func (u *emailUsecase) backfillAttachments(emailID string, fetched []emaildomain.Attachment) error {
	existing, err := u.repo.Attachments(emailID)
	if err != nil {
		return err
	}

	byRemoteID := make(map[string]*emaildomain.Attachment, len(existing))
	byFilename := make(map[string]*emaildomain.Attachment, len(existing))
	for i := range existing {
		if existing[i].RemoteID != "" {
			byRemoteID[existing[i].RemoteID] = &existing[i]
		}
		byFilename[existing[i].Filename] = &existing[i]
	}

	for _, f := range fetched {
		target := byRemoteID[f.RemoteID]
		if target == nil {
			target = byFilename[f.Filename]
		}
		if target == nil {
			f.ID = uuid.New().String()
			f.EmailID = emailID
			if err := u.repo.SaveAttachment(&f); err != nil {
				return err
			}
			continue
		}
		if f.Data != "" && target.Data == "" {
			target.Data = f.Data
			if err := u.repo.SaveAttachment(target); err != nil {
				return err
			}
		}
	}

	return nil
}

// Attachments lists the downloadable files. Inline images referenced from the
// body never show up here.
func (u *emailUsecase) Attachments(userID, emailID string) ([]*emaildto.AttachmentResponse, error) {
	if _, err := u.Get(userID, emailID); err != nil {
		return nil, err
	}

	attachments, err := u.repo.Attachments(emailID)
	if err != nil {
		return nil, err
	}

	out := make([]*emaildto.AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		if a.IsInline() {
			continue
		}
		out = append(out, &emaildto.AttachmentResponse{
			ID:       a.ID,
			Filename: a.Filename,
			MimeType: a.MimeType,
			Size:     a.Size,
		})
	}
	return out, nil
}

func (u *emailUsecase) DownloadAttachment(ctx context.Context, userID, emailID, attachmentID string) (*emaildto.AttachmentDownloadResponse, error) {
	email, err := u.Get(userID, emailID)
	if err != nil {
		return nil, err
	}

	att, err := u.repo.FindAttachment(emailID, attachmentID)
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, errors.New("attachment not found")
	}

	if att.Data == "" {
		if email.RemoteID == nil || att.RemoteID == "" {
			return nil, errors.New("attachment payload is not available")
		}
		creds, err := u.credentials(ctx, userID)
		if err != nil {
			return nil, err
		}
		data, err := u.gmailSvc.GetAttachment(ctx, creds, *email.RemoteID, att.RemoteID)
		if err != nil {
			return nil, err
		}
		att.Data = data
		if err := u.repo.SaveAttachment(att); err != nil {
			return nil, err
		}
	}

	return &emaildto.AttachmentDownloadResponse{
		Filename: att.Filename,
		MimeType: att.MimeType,
		Data:     att.Data,
	}, nil
}

// Compose stores an outgoing email locally; the next outbound sync pass
// pushes it and records the remote id.
func (u *emailUsecase) Compose(userID string, req *emaildto.ComposeEmailRequest) (*emaildomain.Email, error) {
	email := &emaildomain.Email{
		ID:              uuid.New().String(),
		UserID:          userID,
		Subject:         req.Subject,
		Recipients:      req.To,
		Cc:              req.Cc,
		Body:            req.Body,
		BodyCached:      true,
		Labels:          emaildomain.LabelSet{"sent"},
		SyncedLabels:    emaildomain.LabelSet{},
		InternalDate:    time.Now().UTC(),
		NeedsRemoteSync: true,
	}

	if err := u.repo.Create(email); err != nil {
		return nil, err
	}
	return email, nil
}

func (u *emailUsecase) SetStarred(userID, id string, starred bool) (*emaildomain.Email, error) {
	return u.mutateLabels(userID, id, func(labels emaildomain.LabelSet) emaildomain.LabelSet {
		if starred {
			return labels.With("starred")
		}
		return labels.Without("starred")
	})
}

func (u *emailUsecase) SetRead(userID, id string, read bool) (*emaildomain.Email, error) {
	return u.mutateLabels(userID, id, func(labels emaildomain.LabelSet) emaildomain.LabelSet {
		if read {
			return labels.Without("unread")
		}
		return labels.With("unread")
	})
}

func (u *emailUsecase) ModifyLabels(userID, id string, add, remove []string) (*emaildomain.Email, error) {
	return u.mutateLabels(userID, id, func(labels emaildomain.LabelSet) emaildomain.LabelSet {
		for _, l := range add {
			labels = labels.With(l)
		}
		for _, l := range remove {
			labels = labels.Without(l)
		}
		return labels
	})
}

// mutateLabels applies a local label change and flags the record for the
// next outbound pass. Every mutation path funnels through here so the flag
// can never be missed.
func (u *emailUsecase) mutateLabels(userID, id string, mutate func(emaildomain.LabelSet) emaildomain.LabelSet) (*emaildomain.Email, error) {
	email, err := u.Get(userID, id)
	if err != nil {
		return nil, err
	}

	email.Labels = mutate(email.Labels)
	email.NeedsRemoteSync = true
	if err := u.repo.Update(email); err != nil {
		return nil, err
	}
	return email, nil
}

// Trash soft-deletes a synced email so the outbound pass can propagate the
// deletion. A never-pushed email has nothing remote to delete and goes away
// immediately.
func (u *emailUsecase) Trash(userID, id string) error {
	email, err := u.Get(userID, id)
	if err != nil {
		return err
	}

	if email.RemoteID == nil {
		return u.repo.Delete(email.ID)
	}

	now := time.Now().UTC()
	email.IsDeleted = true
	email.DeletedAt = &now
	email.NeedsRemoteSync = true
	return u.repo.Update(email)
}

func (u *emailUsecase) DraftReply(ctx context.Context, userID, id, tone, length string) (string, error) {
	email, err := u.GetBody(ctx, userID, id)
	if err != nil {
		return "", err
	}

	text := "Subject: " + email.Subject + "\nFrom: " + email.Sender + "\n\n" + email.Body
	return u.geminiSvc.DraftReply(ctx, text, tone, length)
}

func (u *emailUsecase) credentials(ctx context.Context, userID string) (gmail.Credentials, error) {
	conn, err := u.connUsecase.Connection(userID, connectiondomain.ProviderGmail)
	if err != nil {
		return gmail.Credentials{}, err
	}
	if conn == nil {
		return gmail.Credentials{}, errors.New("gmail is not connected")
	}

	token, err := u.connUsecase.ValidToken(ctx, conn)
	if err != nil {
		return gmail.Credentials{}, err
	}

	return gmail.Credentials{
		AccessToken:  token,
		RefreshToken: conn.RefreshToken,
		OnRefresh:    u.connUsecase.TokenUpdate(conn),
	}, nil
}
