package mail

import (
	"context"
	"testing"
)

func TestConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{name: "empty config", cfg: Config{}, want: false},
		{name: "username only", cfg: Config{Username: "u"}, want: false},
		{name: "password only", cfg: Config{Password: "p"}, want: false},
		{name: "both set", cfg: Config{Username: "u", Password: "p"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Configured(); got != tt.want {
				t.Errorf("Configured() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestDispatch_DryRun: with no credentials configured, Dispatch performs no
// I/O and reports a simulated success instead of failing or silently
// claiming a real delivery.
func TestDispatch_DryRun(t *testing.T) {
	d := NewDispatcher(Config{Server: "smtp.example.com", Port: 587})

	outcome, err := d.Dispatch(context.Background(), "alice@example.com", "Invoice", "body", "/tmp/invoice.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Success {
		t.Error("dry-run outcome should report success")
	}
	if !outcome.Simulated {
		t.Error("dry-run outcome should be flagged simulated")
	}
	if outcome.Recipient != "alice@example.com" {
		t.Errorf("Recipient = %q", outcome.Recipient)
	}
}

func TestDispatch_InvalidRecipient(t *testing.T) {
	d := NewDispatcher(Config{
		Server:   "smtp.example.com",
		Port:     587,
		Username: "u",
		Password: "p",
		From:     "billing@example.com",
	})

	outcome, err := d.Dispatch(context.Background(), "not-an-address", "Invoice", "body", "")
	if err == nil {
		t.Fatal("expected error for invalid recipient")
	}
	if outcome.Success {
		t.Error("outcome should not report success")
	}
	if outcome.Reason == "" {
		t.Error("outcome should carry a failure reason")
	}
}

func TestDispatch_InvalidFrom(t *testing.T) {
	d := NewDispatcher(Config{
		Server:   "smtp.example.com",
		Port:     587,
		Username: "u",
		Password: "p",
		From:     "not-an-address",
	})

	if _, err := d.Dispatch(context.Background(), "alice@example.com", "Invoice", "body", ""); err == nil {
		t.Fatal("expected error for invalid sender")
	}
}
