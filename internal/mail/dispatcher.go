// Package mail delivers rendered invoices over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"github.com/Gnanapravallika/AutoMate-Hub/internal/core"
)

// Config holds SMTP transport settings. The zero value of Username and
// Password means no transport is configured and dispatches run in dry-run
// mode.
type Config struct {
	Server   string
	Port     int
	Username string
	Password string
	From     string
	StartTLS bool
}

// Configured reports whether real credentials are present.
func (c Config) Configured() bool {
	return c.Username != "" && c.Password != ""
}

// Dispatcher sends one invoice email per call. It never panics or returns
// an error for the unconfigured state: in that case the dispatch is
// simulated and the outcome says so, rather than silently reporting a real
// delivery.
type Dispatcher struct {
	cfg Config
}

// NewDispatcher creates a Dispatcher over the given transport settings.
func NewDispatcher(cfg Config) *Dispatcher {
	return &Dispatcher{cfg: cfg}
}

// Dispatch sends the message with the rendered document attached.
// Transport failures come back as errors; the caller records them per row
// without interrupting sibling records.
func (d *Dispatcher) Dispatch(ctx context.Context, recipient, subject, body, attachment string) (core.DispatchOutcome, error) {
	if !d.cfg.Configured() {
		slog.Warn("mail transport not configured, dispatch simulated", "to", recipient)
		return core.DispatchOutcome{Recipient: recipient, Success: true, Simulated: true}, nil
	}

	msg := gomail.NewMsg()
	if err := msg.From(d.cfg.From); err != nil {
		return failure(recipient, err), fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return failure(recipient, err), fmt.Errorf("invalid recipient %q: %w", recipient, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	if attachment != "" {
		msg.AttachFile(attachment)
	}

	tlsPolicy := gomail.TLSOpportunistic
	if d.cfg.StartTLS {
		tlsPolicy = gomail.TLSMandatory
	}

	client, err := gomail.NewClient(d.cfg.Server,
		gomail.WithPort(d.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(d.cfg.Username),
		gomail.WithPassword(d.cfg.Password),
		gomail.WithTLSPolicy(tlsPolicy),
	)
	if err != nil {
		return failure(recipient, err), fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return failure(recipient, err), fmt.Errorf("send to %s: %w", recipient, err)
	}

	slog.Info("email sent", "to", recipient)
	return core.DispatchOutcome{Recipient: recipient, Success: true}, nil
}

func failure(recipient string, err error) core.DispatchOutcome {
	return core.DispatchOutcome{Recipient: recipient, Success: false, Reason: err.Error()}
}
