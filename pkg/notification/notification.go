// Package notification fans a message out over mail, Slack and generic
// webhooks.
//
//	type LeadNotification struct{ ... }
//	func (n *LeadNotification) Via() []string { return []string{notification.Mail, notification.Slack} }
//	func (n *LeadNotification) ToMail() (notification.MailData, error) { ... }
//	func (n *LeadNotification) ToSlack() notification.SlackData { ... }
//
//	errs := notification.Send(ctx, "inquiry@sudevifoods.com", n)
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/pkg/http"
	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/mail"
	"github.com/sudeviagro/backoffice/pkg/metrics"
)

// Channel names.
const (
	Mail    = "mail"
	Slack   = "slack"
	Webhook = "webhook"
)

// ErrNoWebhook is returned by the slack channel when no URL is configured.
var ErrNoWebhook = errors.New("notification: slack webhook URL not configured")

// ChannelError is a delivery failure on one channel.
type ChannelError struct {
	Channel string
	Err     error
}

func (e *ChannelError) Error() string { return e.Err.Error() }
func (e *ChannelError) Unwrap() error { return e.Err }

// Failed joins the errors from Send that belong to channel.
func Failed(errs []error, channel string) error {
	var out []error
	for _, err := range errs {
		var ce *ChannelError
		if errors.As(err, &ce) && ce.Channel == channel {
			out = append(out, err)
		}
	}
	return errors.Join(out...)
}

type MailData struct {
	To      string // overrides the notifiable address
	ReplyTo string
	Subject string
	HTML    string
}

type SlackData struct {
	WebhookURL  string
	Text        string
	Attachments []SlackAttachment
}

type SlackAttachment struct {
	Color  string `json:"color,omitempty"`
	Title  string `json:"title,omitempty"`
	Text   string `json:"text,omitempty"`
	Footer string `json:"footer,omitempty"`
}

type WebhookData struct {
	URL     string
	Payload interface{}
	Headers map[string]string
}

// Notification names the channels it should be delivered on.
type Notification interface {
	Via() []string
}

type Mailable interface {
	ToMail() (MailData, error)
}

type Slackable interface {
	ToSlack() SlackData
}

type Webhookable interface {
	ToWebhook() WebhookData
}

// Sender delivers notifications. The zero value uses the default mail
// driver and NOTIFY_SLACK_WEBHOOK.
type Sender struct {
	MailDriver   mail.Driver
	MailConfig   *mail.Config
	SlackWebhook string
}

var std = &Sender{}

// Send delivers n through the package default Sender.
func Send(ctx context.Context, address string, n Notification) []error {
	return std.Send(ctx, address, n)
}

// Send dispatches n on every channel from Via and collects the failures as
// *ChannelError. One failing channel does not stop the others.
func (s *Sender) Send(ctx context.Context, address string, n Notification) []error {
	var errs []error
	for _, ch := range n.Via() {
		err := s.dispatch(ctx, address, ch, n)
		result := "ok"
		if err != nil {
			result = "error"
			logger.WithCtx(ctx).Error("notification channel failed",
				"channel", ch, "notification", fmt.Sprintf("%T", n), "error", err)
			errs = append(errs, &ChannelError{Channel: ch, Err: err})
		}
		metrics.Notifications.WithLabelValues(ch, result).Inc()
	}
	return errs
}

func (s *Sender) dispatch(ctx context.Context, address, ch string, n Notification) error {
	switch ch {
	case Mail:
		m, ok := n.(Mailable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Mailable", n)
		}
		d, err := m.ToMail()
		if err != nil {
			return err
		}
		return s.sendMail(ctx, address, d)
	case Slack:
		sl, ok := n.(Slackable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Slackable", n)
		}
		return s.sendSlack(ctx, sl.ToSlack())
	case Webhook:
		wh, ok := n.(Webhookable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Webhookable", n)
		}
		return sendWebhook(ctx, wh.ToWebhook())
	default:
		return fmt.Errorf("notification: unknown channel %q", ch)
	}
}

func (s *Sender) sendMail(ctx context.Context, address string, d MailData) error {
	to := d.To
	if to == "" {
		to = address
	}
	msg := mail.To(to).Subject(d.Subject).Body(d.HTML)
	if d.ReplyTo != "" {
		msg.ReplyTo(d.ReplyTo)
	}
	if s.MailConfig != nil {
		msg.UseConfig(*s.MailConfig)
	}
	if s.MailDriver != nil {
		msg.Via(s.MailDriver)
	}
	return msg.SendContext(ctx)
}

type slackPayload struct {
	Text        string            `json:"text,omitempty"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

func (s *Sender) sendSlack(ctx context.Context, d SlackData) error {
	url := d.WebhookURL
	if url == "" {
		url = s.SlackWebhook
	}
	if url == "" {
		url = config.SlackWebhook()
	}
	if url == "" {
		return ErrNoWebhook
	}

	resp, err := http.Post(url).
		Body(slackPayload{Text: d.Text, Attachments: d.Attachments}).
		Timeout(5 * time.Second).
		WithContext(ctx).
		Send()
	if err != nil {
		return fmt.Errorf("notification: slack: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("notification: slack: %w", err)
	}
	return nil
}

func sendWebhook(ctx context.Context, d WebhookData) error {
	if d.URL == "" {
		return errors.New("notification: webhook URL is empty")
	}
	req := http.Post(d.URL).Body(d.Payload).Timeout(10*time.Second).Retry(2, time.Second).WithContext(ctx)
	for k, v := range d.Headers {
		req.Header(k, v)
	}
	resp, err := req.Send()
	if err != nil {
		return fmt.Errorf("notification: webhook: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("notification: webhook: %w", err)
	}
	return nil
}
