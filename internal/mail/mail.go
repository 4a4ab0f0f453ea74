// Package mail sends HTML email with attachments through the Gmail API.
package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Attachment is a file sent alongside a message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is an outgoing email.
type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// GmailConfig holds the OAuth client and the offline refresh token of the sending
// account.
type GmailConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	From         string
}

// GmailSender sends mail as the configured account.
type GmailSender struct {
	svc  *gmail.Service
	from string
}

type gmailOptions struct {
	tokenURL    string
	apiEndpoint string
}

// GmailOption customises NewGmailSender.
type GmailOption func(*gmailOptions)

// WithGmailEndpoints points the sender at alternative token and API servers.
func WithGmailEndpoints(tokenURL, apiEndpoint string) GmailOption {
	return func(o *gmailOptions) {
		o.tokenURL = tokenURL
		o.apiEndpoint = apiEndpoint
	}
}

// NewGmailSender builds a sender that refreshes its access token from cfg.RefreshToken.
func NewGmailSender(ctx context.Context, cfg GmailConfig, opts ...GmailOption) (*GmailSender, error) {
	if cfg.RefreshToken == "" {
		return nil, errors.New("gmail refresh token is required")
	}
	if cfg.From == "" {
		return nil, errors.New("mail sender address is required")
	}
	var o gmailOptions
	for _, opt := range opts {
		opt(&o)
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailSendScope},
	}
	if o.tokenURL != "" {
		oauthConfig.Endpoint = oauth2.Endpoint{TokenURL: o.tokenURL, AuthStyle: oauth2.AuthStyleInParams}
	}
	tokens := oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	clientOpts := []option.ClientOption{option.WithTokenSource(tokens)}
	if o.apiEndpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(o.apiEndpoint))
	}
	svc, err := gmail.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &GmailSender{svc: svc, from: cfg.From}, nil
}

// Send implements Sender.
func (s *GmailSender) Send(ctx context.Context, msg Message) error {
	raw, err := Compose(s.from, msg)
	if err != nil {
		return err
	}
	_, err = s.svc.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

// Compose renders msg as a multipart/mixed RFC 5322 message.
func Compose(from string, msg Message) ([]byte, error) {
	if strings.TrimSpace(msg.To) == "" {
		return nil, errors.New("mail recipient is required")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	htmlPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/html; charset=UTF-8"},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, err
	}
	if err := writeBase64(htmlPart, []byte(msg.HTML)); err != nil {
		return nil, err
	}

	for _, a := range msg.Attachments {
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {mime.FormatMediaType(contentType, map[string]string{"name": a.Name})},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": a.Name})},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			return nil, err
		}
		if err := writeBase64(part, a.Data); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "From: %s\r\n", from)
	fmt.Fprintf(&out, "To: %s\r\n", msg.To)
	fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", msg.Subject))
	out.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&out, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

// writeBase64 writes data base64 encoded in 76 character lines.
func writeBase64(w io.Writer, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		if _, err := w.Write([]byte(encoded[:76] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[76:]
	}
	_, err := w.Write([]byte(encoded + "\r\n"))
	return err
}
