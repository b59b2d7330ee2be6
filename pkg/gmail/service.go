package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	connectiondomain "lifehub-backend/internal/connection/domain"
	emaildomain "lifehub-backend/internal/email/domain"
	"lifehub-backend/pkg/remote"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// TokenUpdateFunc is a callback function that handles token updates
type TokenUpdateFunc = connectiondomain.TokenUpdateFunc

// Credentials carries the tokens for one call plus the persistence callback
// fired when the underlying token source refreshes mid-operation.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	OnRefresh    TokenUpdateFunc
}

type Service struct {
	clientID     string
	clientSecret string
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			fmt.Printf("Failed to update token: %v\n", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

func (s *Service) client(ctx context.Context, creds Credentials) (*gmail.Service, error) {
	token := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	wrappedSource := &notifyTokenSource{
		src:      config.TokenSource(ctx, token),
		current:  token,
		callback: creds.OnRefresh,
	}

	httpClient := oauth2.NewClient(ctx, wrappedSource)

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}

	return srv, nil
}

// MessagePage is one page of canonical records from a list call.
type MessagePage struct {
	Emails        []*emaildomain.Email
	NextPageToken string
}

// ListMessages fetches one page of messages for a label. Bodies are not
// extracted here; only headers, labels, the snippet, and attachment metadata.
// A single attempt per call, the caller decides whether to retry.
func (s *Service) ListMessages(ctx context.Context, creds Credentials, labelID, pageToken string, maxResults int64) (*MessagePage, error) {
	srv, err := s.client(ctx, creds)
	if err != nil {
		return nil, remote.Wrap("gmail.list", err)
	}

	user := "me"

	if maxResults <= 0 {
		maxResults = 100
	}
	if maxResults > 500 {
		maxResults = 500 // Gmail API maximum
	}

	listQuery := srv.Users.Messages.List(user).MaxResults(maxResults).Context(ctx)
	if labelID != "" {
		listQuery = listQuery.LabelIds(labelID)
	}
	if pageToken != "" {
		listQuery = listQuery.PageToken(pageToken)
	}

	resp, err := listQuery.Do()
	if err != nil {
		return nil, remote.Wrap("gmail.list", err)
	}

	page := &MessagePage{
		Emails:        make([]*emaildomain.Email, 0, len(resp.Messages)),
		NextPageToken: resp.NextPageToken,
	}

	for _, msg := range resp.Messages {
		fullMsg, err := srv.Users.Messages.Get(user, msg.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, remote.Wrap("gmail.get", err)
		}
		page.Emails = append(page.Emails, ToEmail(fullMsg))
	}

	return page, nil
}

// FetchBody retrieves a message's full body on demand. Inline image parts are
// downloaded so cid: references resolve; file attachments stay metadata-only
// until explicitly downloaded.
func (s *Service) FetchBody(ctx context.Context, creds Credentials, remoteID string) (string, []emaildomain.Attachment, error) {
	srv, err := s.client(ctx, creds)
	if err != nil {
		return "", nil, remote.Wrap("gmail.body", err)
	}

	user := "me"
	msg, err := srv.Users.Messages.Get(user, remoteID).Format("full").Context(ctx).Do()
	if err != nil {
		return "", nil, remote.Wrap("gmail.body", err)
	}

	attachments := collectAttachments(msg.Payload)
	for i := range attachments {
		if !attachments[i].IsInline() || attachments[i].RemoteID == "" {
			continue
		}
		data, err := s.fetchAttachmentData(ctx, srv, remoteID, attachments[i].RemoteID)
		if err != nil {
			return "", nil, err
		}
		attachments[i].Data = data
	}

	return ExtractBody(msg.Payload, attachments), attachments, nil
}

// GetAttachment downloads one attachment's payload as standard base64.
func (s *Service) GetAttachment(ctx context.Context, creds Credentials, remoteID, attachmentID string) (string, error) {
	srv, err := s.client(ctx, creds)
	if err != nil {
		return "", remote.Wrap("gmail.attachment", err)
	}

	return s.fetchAttachmentData(ctx, srv, remoteID, attachmentID)
}

func (s *Service) fetchAttachmentData(ctx context.Context, srv *gmail.Service, remoteID, attachmentID string) (string, error) {
	user := "me"
	body, err := srv.Users.Messages.Attachments.Get(user, remoteID, attachmentID).Context(ctx).Do()
	if err != nil {
		return "", remote.Wrap("gmail.attachment", err)
	}

	// Gmail returns URL-safe base64; normalize to standard encoding.
	raw, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(body.Data)
	if err != nil {
		return "", remote.Wrap("gmail.attachment", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// ModifyLabels applies a label delta. Labels are local names; translation to
// remote identifiers happens here.
func (s *Service) ModifyLabels(ctx context.Context, creds Credentials, remoteID string, add, remove []string) error {
	srv, err := s.client(ctx, creds)
	if err != nil {
		return remote.Wrap("gmail.modify", err)
	}

	user := "me"
	modifyReq := &gmail.ModifyMessageRequest{}

	if len(add) > 0 {
		modifyReq.AddLabelIds = ToRemoteLabels(add)
	}
	if len(remove) > 0 {
		modifyReq.RemoveLabelIds = ToRemoteLabels(remove)
	}

	_, err = srv.Users.Messages.Modify(user, remoteID, modifyReq).Context(ctx).Do()
	if err != nil {
		return remote.Wrap("gmail.modify", err)
	}

	return nil
}

// Trash moves a message to the remote trash.
func (s *Service) Trash(ctx context.Context, creds Credentials, remoteID string) error {
	srv, err := s.client(ctx, creds)
	if err != nil {
		return remote.Wrap("gmail.trash", err)
	}

	user := "me"
	_, err = srv.Users.Messages.Trash(user, remoteID).Context(ctx).Do()
	if err != nil {
		return remote.Wrap("gmail.trash", err)
	}

	return nil
}

// Create sends a locally-composed email through the remote account and
// returns the remote identifier assigned to it.
func (s *Service) Create(ctx context.Context, creds Credentials, email *emaildomain.Email) (string, error) {
	srv, err := s.client(ctx, creds)
	if err != nil {
		return "", remote.Wrap("gmail.create", err)
	}

	user := "me"

	var raw bytes.Buffer
	raw.WriteString(fmt.Sprintf("To: %s\r\n", email.Recipients))
	if email.Cc != "" {
		raw.WriteString(fmt.Sprintf("Cc: %s\r\n", email.Cc))
	}
	// Encode subject to handle non-ASCII characters (RFC 2047)
	encodedSubject := fmt.Sprintf("=?utf-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(email.Subject)))
	raw.WriteString(fmt.Sprintf("Subject: %s\r\n", encodedSubject))
	raw.WriteString("MIME-Version: 1.0\r\n")
	raw.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	raw.WriteString(email.Body)

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw.Bytes()),
	}

	sent, err := srv.Users.Messages.Send(user, msg).Context(ctx).Do()
	if err != nil {
		return "", remote.Wrap("gmail.create", err)
	}

	return sent.Id, nil
}
