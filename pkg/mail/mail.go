// Package mail builds HTML e-mails and hands them to a delivery driver.
//
//	err := mail.To("inquiry@sudevifoods.com").
//	    Subject("New Job Application - Sales Executive").
//	    Body(html).
//	    SendContext(ctx)
//
// MAIL_DRIVER picks the driver: wire (raw SMTP conversation, default),
// smtp (net/smtp), gomail or log.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/metrics"
)

// ErrIncompleteConfig matches any *ConfigError.
var ErrIncompleteConfig = errors.New("mail: incomplete SMTP configuration")

// ErrNoRecipients is returned when a message has no To/Cc/Bcc address.
var ErrNoRecipients = errors.New("mail: no recipients")

// ErrHeaderInjection is returned when a header value spans lines.
var ErrHeaderInjection = errors.New("mail: line break in header value")

// Config holds SMTP credentials.
type Config struct {
	Host          string
	Port          string
	Username      string
	Password      string
	From          string
	FromName      string
	AllowInsecure bool
	Timeout       time.Duration
}

// ConfigFromEnv reads the SMTP_* settings.
func ConfigFromEnv() Config {
	return Config{
		Host:          config.SMTPHost(),
		Port:          config.SMTPPort(),
		Username:      config.SMTPUser(),
		Password:      config.SMTPPass(),
		From:          config.SMTPFrom(),
		FromName:      config.SMTPFromName(),
		AllowInsecure: config.SMTPAllowInsecure(),
		Timeout:       config.GetDuration("SMTP_TIMEOUT", 20*time.Second),
	}
}

// ConfigError lists the SMTP settings that are missing.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "SMTP configuration is incomplete. Missing: " + strings.Join(e.Missing, ", ")
}

func (e *ConfigError) Is(target error) bool { return target == ErrIncompleteConfig }

// Validate reports every missing SMTP setting at once.
func (c Config) Validate() error {
	var missing []string
	for _, f := range []struct{ key, val string }{
		{"SMTP_HOST", c.Host},
		{"SMTP_PORT", c.Port},
		{"SMTP_USER", c.Username},
		{"SMTP_PASS", c.Password},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

func (c Config) sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 20 * time.Second
}

// Envelope is what a driver delivers: the SMTP sender, the recipients and
// the fully rendered RFC 5322 message.
type Envelope struct {
	From       string
	Recipients []string
	Data       []byte
}

// Driver delivers an envelope.
type Driver interface {
	Name() string
	Send(ctx context.Context, env Envelope) error
}

var (
	driverMu sync.RWMutex
	driver   Driver
)

// SetDriver replaces the process-wide driver.
func SetDriver(d Driver) {
	driverMu.Lock()
	driver = d
	driverMu.Unlock()
}

// DefaultDriver returns the driver configured by MAIL_DRIVER, creating it
// on first use.
func DefaultDriver() Driver {
	driverMu.RLock()
	d := driver
	driverMu.RUnlock()
	if d != nil {
		return d
	}

	driverMu.Lock()
	defer driverMu.Unlock()
	if driver == nil {
		driver = NewDriver(config.MailDriver(), ConfigFromEnv())
	}
	return driver
}

// NewDriver builds a driver by name; unknown names fall back to wire.
func NewDriver(name string, cfg Config) Driver {
	switch name {
	case "smtp":
		return NewSMTPDriver(cfg)
	case "gomail":
		return NewGomailDriver(cfg)
	case "log":
		return NewLogDriver()
	default:
		return NewWireDriver(cfg)
	}
}

func deliver(ctx context.Context, d Driver, env Envelope) error {
	start := time.Now()
	err := d.Send(ctx, env)

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.Notifications.WithLabelValues("mail:"+d.Name(), result).Inc()

	log := logger.WithCtx(ctx).With("driver", d.Name(), "recipients", len(env.Recipients), "duration", time.Since(start).String())
	if err != nil {
		log.Error("mail delivery failed", "error", err)
		return fmt.Errorf("mail: %s: %w", d.Name(), err)
	}
	log.Info("mail delivered")
	return nil
}
