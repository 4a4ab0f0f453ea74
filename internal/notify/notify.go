// Package notify issues completion certificates: it renders the PDF and emails it to the
// goal owner.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"example.com/ecosangam/internal/certificate"
	"example.com/ecosangam/internal/events"
	"example.com/ecosangam/internal/mail"
)

// Subject is the subject line of certificate emails.
const Subject = "🎉 Your Eco Goal Completion Certificate!"

var certificatesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecosangam",
	Subsystem: "notify",
	Name:      "certificates_total",
	Help:      "Completion certificates by outcome.",
}, []string{"result"})

func init() {
	prometheus.MustRegister(certificatesSent)
}

// DeliveryStore remembers delivered certificates.
type DeliveryStore interface {
	Delivered(ctx context.Context, key string) (bool, error)
	Record(ctx context.Context, key, email, goalTitle string) error
}

// Notifier renders and emails completion certificates.
type Notifier struct {
	renderer   *certificate.Renderer
	sender     mail.Sender
	deliveries DeliveryStore
	logger     zerolog.Logger
	now        func() time.Time
}

// Option customises a Notifier.
type Option func(*Notifier)

// WithDeliveryStore suppresses repeat deliveries of the same event key.
func WithDeliveryStore(store DeliveryStore) Option {
	return func(n *Notifier) { n.deliveries = store }
}

// WithLogger sets the notifier logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(n *Notifier) { n.logger = logger }
}

// NewNotifier constructs a Notifier.
func NewNotifier(renderer *certificate.Renderer, sender mail.Sender, opts ...Option) *Notifier {
	n := &Notifier{
		renderer: renderer,
		sender:   sender,
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NotifyGoalCompleted sends the certificate for a goal.completed event once per key.
// Events without a recipient are logged and dropped.
func (n *Notifier) NotifyGoalCompleted(ctx context.Context, key string, completed events.GoalCompleted) error {
	logger := n.logger.With().Str("key", key).Str("goal_title", completed.GoalTitle).Logger()
	if completed.Email == "" {
		certificatesSent.WithLabelValues("skipped").Inc()
		logger.Warn().Msg("completion event has no email; certificate not sent")
		return nil
	}
	if n.deliveries != nil {
		done, err := n.deliveries.Delivered(ctx, key)
		if err != nil {
			return fmt.Errorf("check certificate delivery: %w", err)
		}
		if done {
			certificatesSent.WithLabelValues("duplicate").Inc()
			logger.Debug().Msg("certificate already delivered")
			return nil
		}
	}

	if err := n.SendCertificate(ctx, completed); err != nil {
		return err
	}

	if n.deliveries != nil {
		if err := n.deliveries.Record(ctx, key, completed.Email, completed.GoalTitle); err != nil {
			logger.Error().Err(err).Msg("failed to record certificate delivery")
		}
	}
	logger.Info().Str("email", completed.Email).Msg("certificate delivered")
	return nil
}

// SendCertificate renders and emails a certificate without delivery bookkeeping.
func (n *Notifier) SendCertificate(ctx context.Context, completed events.GoalCompleted) error {
	if completed.Email == "" {
		return errors.New("certificate recipient email is required")
	}
	pdf, err := n.renderer.RenderBytes(certificate.FromEvent(completed))
	if err != nil {
		certificatesSent.WithLabelValues("error").Inc()
		return err
	}
	html, err := renderBody(completed.Name)
	if err != nil {
		certificatesSent.WithLabelValues("error").Inc()
		return err
	}
	err = n.sender.Send(ctx, mail.Message{
		To:      completed.Email,
		Subject: Subject,
		HTML:    html,
		Attachments: []mail.Attachment{{
			Name:        certificate.FileName(n.now()),
			ContentType: "application/pdf",
			Data:        pdf,
		}},
	})
	if err != nil {
		certificatesSent.WithLabelValues("error").Inc()
		return err
	}
	certificatesSent.WithLabelValues("sent").Inc()
	return nil
}

var bodyTemplate = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>EcoSangam – Eco Goal Certificate</title>
  <style>
    body    { margin:0; font-family:'Segoe UI',Roboto,sans-serif; background:#f6f9fc; color:#333; }
    .outer  { width:100%; padding:40px 0; }
    .card   { max-width:600px; margin:0 auto; background:#ffffff; border-radius:12px; overflow:hidden; box-shadow:0 6px 16px rgba(0,0,0,0.08); }
    .header { background:#28a745; padding:30px; text-align:center; }
    .header h1 { margin:0; color:#fff; font-size:28px; letter-spacing:1px; }
    .badge  { display:inline-block; background:#fff; color:#28a745; border-radius:50px; padding:6px 14px; font-size:13px; margin-top:12px; }
    .content{ padding:30px 40px; line-height:1.6; font-size:16px; }
    .content h2 { color:#28a745; margin:0 0 12px; font-size:20px; }
    .footer { font-size:12px; color:#777; text-align:center; padding-bottom:25px; }
  </style>
</head>
<body>
  <div class="outer">
    <div class="card">
      <div class="header">
        <h1>EcoSangam</h1>
        <div class="badge">Certificate Earned</div>
      </div>
      <div class="content">
        <h2>Congratulations, {{.Name}}! 🎉</h2>
        <p>You’ve successfully completed your eco goal on EcoSangam! 🌱<br /><br />
        Attached is your official certificate.</p>
        <p>We thank you for making the world a greener place 💚.</p>
      </div>
      <div class="footer">
        You’re receiving this email because you completed a certified goal on EcoSangam.
      </div>
    </div>
  </div>
</body>
</html>`))

func renderBody(name string) (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, struct{ Name string }{name}); err != nil {
		return "", fmt.Errorf("render certificate email: %w", err)
	}
	return buf.String(), nil
}
