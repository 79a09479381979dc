// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig
	Mail    MailConfig
	Storage StorageConfig
	Process ProcessConfig
	Company CompanyConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 120s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"120s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// MailConfig holds SMTP transport settings. Username and Password have no
// defaults: when either is unset the dispatcher runs in dry-run mode and
// every outcome is flagged simulated.
type MailConfig struct {
	// Server is the SMTP host (default: smtp.gmail.com)
	Server string `env:"MAIL_SERVER" default:"smtp.gmail.com"`

	// Port is the SMTP port (default: 587)
	Port int `env:"MAIL_PORT" default:"587"`

	// Username authenticates against the SMTP server
	Username string `env:"MAIL_USERNAME"`

	// Password authenticates against the SMTP server
	Password string `env:"MAIL_PASSWORD"`

	// From is the sender address (default: the username)
	From string `env:"MAIL_FROM"`

	// StartTLS requires TLS negotiation before sending (default: true)
	StartTLS bool `env:"MAIL_TLS" default:"true"`
}

// StorageConfig holds filesystem locations for uploads and rendered invoices.
type StorageConfig struct {
	// UploadDir is where raw uploads may be staged (default: temp/uploads)
	UploadDir string `env:"UPLOAD_DIR" default:"temp/uploads"`

	// InvoiceDir is where generated PDFs are written and served from
	// (default: temp/invoices)
	InvoiceDir string `env:"INVOICE_DIR" default:"temp/invoices"`
}

// ProcessConfig holds batch processing settings.
type ProcessConfig struct {
	// MaxUploadSize is the maximum allowed CSV payload in bytes (default: 10MB)
	MaxUploadSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`

	// MaxWorkers bounds concurrent record pipelines (default: 4)
	MaxWorkers int `env:"PROCESS_MAX_WORKERS" default:"4"`

	// MaxConcurrentBatches caps simultaneous batch uploads (default: 5)
	MaxConcurrentBatches int `env:"PROCESS_MAX_CONCURRENT_BATCHES" default:"5"`

	// DispatchTimeout bounds each email dispatch call (default: 30s)
	DispatchTimeout time.Duration `env:"PROCESS_DISPATCH_TIMEOUT" default:"30s"`
}

// CompanyConfig identifies the invoicing party on documents and emails.
type CompanyConfig struct {
	// Name appears on invoices and in email bodies (default: AutoMate Hub)
	Name string `env:"COMPANY_NAME" default:"AutoMate Hub"`

	// Email appears as the sender contact on invoices (default: billing@example.com)
	Email string `env:"COMPANY_EMAIL" default:"billing@example.com"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + strconv.Itoa(c.Port)
	}
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Configured reports whether SMTP credentials are present. Without them
// dispatch runs in dry-run mode and no mail leaves the process.
func (c *MailConfig) Configured() bool {
	return c.Username != "" && c.Password != ""
}

// FromAddress returns the configured sender, falling back to the username.
func (c *MailConfig) FromAddress() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}
