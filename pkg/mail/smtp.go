package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
)

// SMTPDriver delivers through net/smtp: implicit TLS on 465, otherwise
// smtp.SendMail, which upgrades with STARTTLS when the server offers it.
type SMTPDriver struct {
	cfg Config
}

func NewSMTPDriver(cfg Config) *SMTPDriver { return &SMTPDriver{cfg: cfg} }

func (d *SMTPDriver) Name() string { return "smtp" }

func (d *SMTPDriver) Send(ctx context.Context, env Envelope) error {
	if err := d.cfg.Validate(); err != nil {
		return err
	}
	addr := net.JoinHostPort(d.cfg.Host, d.cfg.Port)
	auth := smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)

	if d.cfg.Port != "465" {
		return smtp.SendMail(addr, auth, env.From, env.Recipients, env.Data)
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: d.cfg.timeout()},
		Config:    &tls.Config{ServerName: d.cfg.Host, MinVersion: tls.VersionTLS12},
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("tls dial: %w", err)
	}
	c, err := smtp.NewClient(conn, d.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if err := c.Auth(auth); err != nil {
		return err
	}
	if err := c.Mail(env.From); err != nil {
		return err
	}
	for _, rcpt := range env.Recipients {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(env.Data); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
