package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

// GomailDriver hands the rendered message to a gomail dialer.
type GomailDriver struct {
	cfg Config
}

func NewGomailDriver(cfg Config) *GomailDriver { return &GomailDriver{cfg: cfg} }

func (d *GomailDriver) Name() string { return "gomail" }

func (d *GomailDriver) dialer() (*gomail.Dialer, error) {
	port, err := strconv.Atoi(d.cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT %q", d.cfg.Port)
	}
	dl := gomail.NewDialer(d.cfg.Host, port, d.cfg.Username, d.cfg.Password)
	dl.SSL = port == 465
	dl.TLSConfig = &tls.Config{ServerName: d.cfg.Host, MinVersion: tls.VersionTLS12}
	return dl, nil
}

func (d *GomailDriver) Send(ctx context.Context, env Envelope) error {
	if err := d.cfg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	dl, err := d.dialer()
	if err != nil {
		return err
	}

	sc, err := dl.Dial()
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer sc.Close()
	return sc.Send(env.From, env.Recipients, bytes.NewReader(env.Data))
}
