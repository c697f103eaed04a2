package notification

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	portssvc "github.com/tokokita/ecommerce_backend/internal/core/ports/services"
	"github.com/tokokita/ecommerce_backend/internal/middleware"
	"github.com/tokokita/ecommerce_backend/internal/platform/config"
	"github.com/tokokita/ecommerce_backend/internal/platform/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names.
const (
	TemplateVerification = "verification"
	TemplateWelcome      = "welcome"
)

const validityPeriod = "15 minutes"

// Transport delivers a rendered HTML message.
type Transport interface {
	Deliver(ctx context.Context, to, subject, htmlBody string) error
}

// Sender renders the embedded templates and hands them to a Transport.
type Sender struct {
	transport Transport
	templates *template.Template
	appName   string
}

var _ portssvc.NotificationSender = (*Sender)(nil)

// NewSender creates a sender over transport.
func NewSender(transport Transport, appName string) (*Sender, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}
	return &Sender{transport: transport, templates: tpl, appName: appName}, nil
}

// NewSenderFromConfig uses SMTP when SMTP_HOST is set and the log transport otherwise.
func NewSenderFromConfig(cfg *config.Config, logger *slog.Logger) (*Sender, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set, emails will only be logged")
		return NewSender(NewLogTransport(logger), cfg.AppName)
	}
	transport, err := NewSMTPTransport(cfg)
	if err != nil {
		return nil, err
	}
	return NewSender(transport, cfg.AppName)
}

// Send renders name with data and delivers it. appName is always available to templates.
func (s *Sender) Send(ctx context.Context, name, to, subject string, data map[string]any) (err error) {
	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeError
		}
		metrics.RecordEmail(name, outcome)
	}()

	if data == nil {
		data = map[string]any{}
	}
	data["appName"] = s.appName

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name+".html", data); err != nil {
		return fmt.Errorf("failed to render %s email: %w", name, err)
	}
	if err := s.transport.Deliver(ctx, to, subject, body.String()); err != nil {
		return fmt.Errorf("failed to send %s email: %w", name, err)
	}
	middleware.GetLoggerFromCtx(ctx).Debug("Email sent", slog.String("template", name), slog.String("to", to))
	return nil
}

func (s *Sender) SendVerificationEmail(ctx context.Context, email, code string) error {
	return s.Send(ctx, TemplateVerification, email, "Verify Your Email", map[string]any{
		"code":           code,
		"validityPeriod": validityPeriod,
	})
}

func (s *Sender) SendWelcomeEmail(ctx context.Context, email, username string) error {
	return s.Send(ctx, TemplateWelcome, email, "Welcome to "+s.appName, map[string]any{
		"username": username,
	})
}
