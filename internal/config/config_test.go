package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every variable the loader reads so tests start clean.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"SERVER_IDLE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT", "SERVER_REQUEST_TIMEOUT",
		"MAIL_SERVER", "MAIL_PORT", "MAIL_USERNAME", "MAIL_PASSWORD", "MAIL_FROM", "MAIL_TLS",
		"UPLOAD_DIR", "INVOICE_DIR",
		"UPLOAD_MAX_FILE_SIZE", "PROCESS_MAX_WORKERS", "PROCESS_MAX_CONCURRENT_BATCHES",
		"PROCESS_DISPATCH_TIMEOUT",
		"COMPANY_NAME", "COMPANY_EMAIL",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout)
	}
	if cfg.Mail.Server != "smtp.gmail.com" || cfg.Mail.Port != 587 {
		t.Errorf("Mail = %q:%d, want smtp.gmail.com:587", cfg.Mail.Server, cfg.Mail.Port)
	}
	if !cfg.Mail.StartTLS {
		t.Error("Mail.StartTLS default should be true")
	}
	if cfg.Mail.Username != "" {
		t.Errorf("Mail.Username = %q, want unset (dry-run mode)", cfg.Mail.Username)
	}
	if cfg.Storage.InvoiceDir != "temp/invoices" {
		t.Errorf("Storage.InvoiceDir = %q", cfg.Storage.InvoiceDir)
	}
	if cfg.Process.MaxWorkers != 4 {
		t.Errorf("Process.MaxWorkers = %d, want 4", cfg.Process.MaxWorkers)
	}
	if cfg.Process.MaxConcurrentBatches != 5 {
		t.Errorf("Process.MaxConcurrentBatches = %d, want 5", cfg.Process.MaxConcurrentBatches)
	}
	if cfg.Process.DispatchTimeout != 30*time.Second {
		t.Errorf("Process.DispatchTimeout = %v, want 30s", cfg.Process.DispatchTimeout)
	}
	if cfg.Company.Name != "AutoMate Hub" {
		t.Errorf("Company.Name = %q", cfg.Company.Name)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %q/%q, want info/text", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("MAIL_USERNAME", "billing@example.com")
	t.Setenv("MAIL_PASSWORD", "secret")
	t.Setenv("MAIL_TLS", "false")
	t.Setenv("PROCESS_MAX_WORKERS", "8")
	t.Setenv("PROCESS_DISPATCH_TIMEOUT", "5s")
	t.Setenv("INVOICE_DIR", "/var/lib/invoices")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Mail.Username != "billing@example.com" {
		t.Errorf("Mail.Username = %q", cfg.Mail.Username)
	}
	if cfg.Mail.StartTLS {
		t.Error("Mail.StartTLS should be false")
	}
	if cfg.Process.MaxWorkers != 8 {
		t.Errorf("Process.MaxWorkers = %d, want 8", cfg.Process.MaxWorkers)
	}
	if cfg.Process.DispatchTimeout != 5*time.Second {
		t.Errorf("Process.DispatchTimeout = %v, want 5s", cfg.Process.DispatchTimeout)
	}
	if cfg.Storage.InvoiceDir != "/var/lib/invoices" {
		t.Errorf("Storage.InvoiceDir = %q", cfg.Storage.InvoiceDir)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non-numeric port", key: "SERVER_PORT", value: "not-a-port"},
		{name: "port out of range", key: "SERVER_PORT", value: "70000"},
		{name: "bad duration", key: "PROCESS_DISPATCH_TIMEOUT", value: "fast"},
		{name: "bad bool", key: "MAIL_TLS", value: "maybe"},
		{name: "zero workers", key: "PROCESS_MAX_WORKERS", value: "0"},
		{name: "zero batch slots", key: "PROCESS_MAX_CONCURRENT_BATCHES", value: "0"},
		{name: "bad log level", key: "LOG_LEVEL", value: "loud"},
		{name: "bad log format", key: "LOG_FORMAT", value: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load succeeded with %s=%q, want error", tt.key, tt.value)
			}
		})
	}
}

func TestServerConfig_Addr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{host: "0.0.0.0", port: 8080, want: "0.0.0.0:8080"},
		{host: "", port: 9000, want: ":9000"},
		{host: "localhost", port: 80, want: "localhost:80"},
	}

	for _, tt := range tests {
		c := ServerConfig{Host: tt.host, Port: tt.port}
		if got := c.Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}

func TestMailConfig_FromAddress(t *testing.T) {
	c := MailConfig{Username: "user@example.com"}
	if got := c.FromAddress(); got != "user@example.com" {
		t.Errorf("FromAddress() = %q, want username fallback", got)
	}

	c.From = "billing@example.com"
	if got := c.FromAddress(); got != "billing@example.com" {
		t.Errorf("FromAddress() = %q, want explicit From", got)
	}
}

func TestConfig_StringMasksCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAIL_USERNAME", "billing@example.com")
	t.Setenv("MAIL_PASSWORD", "hunter2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := cfg.String()
	if strings.Contains(s, "hunter2") || strings.Contains(s, "billing@example.com") {
		t.Errorf("String() leaks credentials: %s", s)
	}
	if !strings.Contains(s, "[MASKED]") {
		t.Errorf("String() should mask credentials: %s", s)
	}
}
