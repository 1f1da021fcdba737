package mail

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"mime/quotedprintable"
	netmail "net/mail"
	"strings"
	"time"
)

// Message is a fluent e-mail builder.
type Message struct {
	to, cc, bcc []string
	replyTo     string
	subject     string
	body        string
	html        bool
	cfg         *Config
	driver      Driver
	now         func() time.Time
}

// To starts a message for the given recipients. The body is HTML unless
// Text is used.
func To(addresses ...string) *Message {
	return &Message{to: addresses, html: true, now: time.Now}
}

func (m *Message) CC(addresses ...string) *Message {
	m.cc = append(m.cc, addresses...)
	return m
}

func (m *Message) BCC(addresses ...string) *Message {
	m.bcc = append(m.bcc, addresses...)
	return m
}

func (m *Message) ReplyTo(address string) *Message {
	m.replyTo = address
	return m
}

func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Body sets an HTML body.
func (m *Message) Body(html string) *Message {
	m.body = html
	m.html = true
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(text string) *Message {
	m.body = text
	m.html = false
	return m
}

// UseConfig overrides the sender settings for this message.
func (m *Message) UseConfig(cfg Config) *Message {
	m.cfg = &cfg
	return m
}

// Via delivers this message through d instead of the default driver.
func (m *Message) Via(d Driver) *Message {
	m.driver = d
	return m
}

func (m *Message) Send() error { return m.SendContext(context.Background()) }

func (m *Message) SendContext(ctx context.Context) error {
	rcpts := m.recipients()
	if len(rcpts) == 0 {
		return ErrNoRecipients
	}

	cfg := ConfigFromEnv()
	if m.cfg != nil {
		cfg = *m.cfg
	}
	d := m.driver
	if d == nil {
		d = DefaultDriver()
	}

	data, err := m.Bytes(cfg)
	if err != nil {
		return err
	}
	return deliver(ctx, d, Envelope{From: cfg.sender(), Recipients: rcpts, Data: data})
}

func (m *Message) recipients() []string {
	var out []string
	for _, list := range [][]string{m.to, m.cc, m.bcc} {
		for _, a := range list {
			if a = strings.TrimSpace(a); a != "" {
				out = append(out, a)
			}
		}
	}
	return out
}

// Bytes renders the message with quoted-printable body encoding. Addresses
// are re-rendered from their parsed form and no header value may contain
// a line break.
func (m *Message) Bytes(cfg Config) ([]byte, error) {
	from := (&netmail.Address{Name: cfg.FromName, Address: cfg.sender()}).String()
	to, err := addressList(m.to)
	if err != nil {
		return nil, err
	}
	cc, err := addressList(m.cc)
	if err != nil {
		return nil, err
	}
	replyTo, err := addressList([]string{m.replyTo})
	if err != nil {
		return nil, err
	}
	if _, err := addressList(m.bcc); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	var headerErr error
	header := func(k, v string) {
		if strings.ContainsAny(v, "\r\n") {
			headerErr = errors.Join(headerErr, fmt.Errorf("%w: %s", ErrHeaderInjection, k))
			return
		}
		fmt.Fprintf(&buf, "%s: %s\r\n", k, v)
	}

	header("From", from)
	header("To", to)
	if cc != "" {
		header("Cc", cc)
	}
	if replyTo != "" {
		header("Reply-To", replyTo)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", m.subject))
	header("Date", m.now().Format(time.RFC1123Z))
	header("Message-ID", messageID(cfg.sender()))
	header("MIME-Version", "1.0")
	ct := "text/plain"
	if m.html {
		ct = "text/html"
	}
	header("Content-Type", ct+`; charset="utf-8"`)
	header("Content-Transfer-Encoding", "quoted-printable")
	if headerErr != nil {
		return nil, headerErr
	}
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(m.body)); err != nil {
		return nil, fmt.Errorf("mail: encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("mail: encode body: %w", err)
	}
	buf.WriteString("\r\n")
	return buf.Bytes(), nil
}

// addressList parses each address and joins their canonical forms.
func addressList(list []string) (string, error) {
	out := make([]string, 0, len(list))
	for _, a := range list {
		if a = strings.TrimSpace(a); a == "" {
			continue
		}
		if strings.ContainsAny(a, "\r\n") {
			return "", fmt.Errorf("%w: address %q", ErrHeaderInjection, a)
		}
		parsed, err := netmail.ParseAddress(a)
		if err != nil {
			return "", fmt.Errorf("mail: address %q: %w", a, err)
		}
		out = append(out, parsed.String())
	}
	return strings.Join(out, ", "), nil
}

func messageID(sender string) string {
	domain := "localhost"
	if i := strings.LastIndex(sender, "@"); i >= 0 && i < len(sender)-1 {
		domain = sender[i+1:]
	}
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return "<" + hex.EncodeToString(b) + "@" + domain + ">"
}
