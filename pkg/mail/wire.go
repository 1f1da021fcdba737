package mail

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/textproto"
	"os"
	"strings"
	"time"

	"github.com/sudeviagro/backoffice/pkg/logger"
)

// ErrInsecureAuth is returned when the server offers no STARTTLS and
// SMTP_ALLOW_INSECURE is off.
var ErrInsecureAuth = errors.New("mail: server does not offer STARTTLS; refusing to send credentials in clear text")

// ReplyError is an unexpected SMTP reply.
type ReplyError struct {
	Command string
	Code    int
	Message string
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("smtp %s: %d %s", e.Command, e.Code, e.Message)
}

// Temporary reports a 4xx reply.
func (e *ReplyError) Temporary() bool { return e.Code >= 400 && e.Code < 500 }

// WireDriver speaks SMTP directly over TCP: implicit TLS on port 465,
// otherwise STARTTLS when offered, then AUTH PLAIN, MAIL, RCPT and DATA.
// Every reply is checked.
type WireDriver struct {
	cfg       Config
	dial      func(ctx context.Context, network, addr string) (net.Conn, error)
	tlsConfig *tls.Config
}

func NewWireDriver(cfg Config) *WireDriver {
	d := &net.Dialer{Timeout: cfg.timeout()}
	return &WireDriver{cfg: cfg, dial: d.DialContext}
}

func (d *WireDriver) Name() string { return "wire" }

func (d *WireDriver) tlsFor(host string) *tls.Config {
	if d.tlsConfig != nil {
		c := d.tlsConfig.Clone()
		if c.ServerName == "" {
			c.ServerName = host
		}
		return c
	}
	return &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
}

func (d *WireDriver) Send(ctx context.Context, env Envelope) error {
	if err := d.cfg.Validate(); err != nil {
		return err
	}

	addr := net.JoinHostPort(d.cfg.Host, d.cfg.Port)
	raw, err := d.dial(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = raw.SetDeadline(dl)
	} else {
		_ = raw.SetDeadline(time.Now().Add(d.cfg.timeout()))
	}

	implicitTLS := d.cfg.Port == "465"
	conn := raw
	if implicitTLS {
		tc := tls.Client(raw, d.tlsFor(d.cfg.Host))
		if err := tc.HandshakeContext(ctx); err != nil {
			raw.Close()
			return fmt.Errorf("tls handshake: %w", err)
		}
		conn = tc
	}

	s := &session{conn: conn, text: textproto.NewConn(conn), log: logger.WithCtx(ctx).With("smtp", addr)}
	defer s.close()

	if _, err := s.read("greeting", 220); err != nil {
		return err
	}
	ext, err := s.ehlo()
	if err != nil {
		return err
	}

	if !implicitTLS {
		if _, ok := ext["STARTTLS"]; ok {
			if _, err := s.cmd(220, "STARTTLS"); err != nil {
				return err
			}
			tc := tls.Client(s.conn, d.tlsFor(d.cfg.Host))
			if err := tc.HandshakeContext(ctx); err != nil {
				return fmt.Errorf("starttls handshake: %w", err)
			}
			s.conn = tc
			s.text = textproto.NewConn(tc)
			if _, err := s.ehlo(); err != nil {
				return err
			}
		} else if !d.cfg.AllowInsecure {
			return ErrInsecureAuth
		}
	}

	token := base64.StdEncoding.EncodeToString([]byte("\x00" + d.cfg.Username + "\x00" + d.cfg.Password))
	if _, err := s.cmdAs("AUTH PLAIN", 235, "AUTH PLAIN %s", token); err != nil {
		return err
	}

	if _, err := s.cmd(250, "MAIL FROM:<%s>", env.From); err != nil {
		return err
	}
	for _, rcpt := range env.Recipients {
		if _, err := s.cmd(25, "RCPT TO:<%s>", rcpt); err != nil {
			return err
		}
	}
	if _, err := s.cmd(354, "DATA"); err != nil {
		return err
	}

	w := s.text.DotWriter()
	if _, err := w.Write(env.Data); err != nil {
		w.Close()
		return fmt.Errorf("write data: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	if _, err := s.read("DATA", 250); err != nil {
		return err
	}

	if _, err := s.cmd(221, "QUIT"); err != nil {
		s.log.Debug("quit not acknowledged", "error", err)
	}
	return nil
}

type session struct {
	conn net.Conn
	text *textproto.Conn
	log  *slog.Logger
}

func (s *session) close() {
	_ = s.text.Close()
}

func (s *session) ehlo() (map[string]string, error) {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	msg, err := s.cmd(250, "EHLO %s", host)
	if err != nil {
		return nil, err
	}

	ext := make(map[string]string)
	lines := strings.Split(msg, "\n")
	for _, line := range lines[1:] {
		k, v, _ := strings.Cut(strings.TrimSpace(line), " ")
		ext[strings.ToUpper(k)] = v
	}
	return ext, nil
}

func (s *session) cmd(expect int, format string, args ...any) (string, error) {
	verb := format
	if i := strings.IndexAny(format, " :"); i > 0 {
		verb = format[:i]
	}
	return s.cmdAs(verb, expect, format, args...)
}

// cmdAs sends a command and reads its reply. label names the command in
// logs and errors so secrets in args never appear there.
func (s *session) cmdAs(label string, expect int, format string, args ...any) (string, error) {
	s.log.Debug("smtp >", "cmd", label)
	if err := s.text.PrintfLine(format, args...); err != nil {
		return "", fmt.Errorf("smtp %s: %w", label, err)
	}
	return s.read(label, expect)
}

func (s *session) read(label string, expect int) (string, error) {
	code, msg, err := s.text.ReadResponse(expect)
	if err != nil {
		var tpErr *textproto.Error
		if errors.As(err, &tpErr) {
			return "", &ReplyError{Command: label, Code: tpErr.Code, Message: tpErr.Msg}
		}
		return "", fmt.Errorf("smtp %s: %w", label, err)
	}
	s.log.Debug("smtp <", "cmd", label, "code", code)
	return msg, nil
}
