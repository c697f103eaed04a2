package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tokokita/ecommerce_backend/internal/middleware"
	"github.com/tokokita/ecommerce_backend/internal/platform/config"
	"github.com/wneessen/go-mail"
)

// SMTPTransport delivers mail through an SMTP relay.
type SMTPTransport struct {
	client *mail.Client
	from   string
}

// NewSMTPTransport builds a client from the SMTP_* settings. Authentication is enabled
// only when a username is configured.
func NewSMTPTransport(cfg *config.Config) (*SMTPTransport, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}
	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return &SMTPTransport{client: client, from: cfg.MailFrom}, nil
}

func (t *SMTPTransport) Deliver(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(t.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return t.client.DialAndSendWithContext(ctx, msg)
}

// LogTransport writes messages to the log instead of sending them.
type LogTransport struct {
	logger *slog.Logger
}

func NewLogTransport(logger *slog.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Deliver(ctx context.Context, to, subject, htmlBody string) error {
	logger := t.logger
	if logger == nil {
		logger = middleware.GetLoggerFromCtx(ctx)
	}
	logger.Info("Email (not sent)", slog.String("to", to), slog.String("subject", subject), slog.String("body", htmlBody))
	return nil
}
