package notification_test

import (
	"context"
	"encoding/json"
	gohttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudeviagro/backoffice/pkg/mail"
	"github.com/sudeviagro/backoffice/pkg/notification"
)

type leadAlert struct {
	via     []string
	hookURL string
}

func (l *leadAlert) Via() []string { return l.via }

func (l *leadAlert) ToMail() (notification.MailData, error) {
	return notification.MailData{Subject: "New Lead: Bulk order", HTML: "<p>100 jars</p>", ReplyTo: "buyer@example.com"}, nil
}

func (l *leadAlert) ToSlack() notification.SlackData {
	return notification.SlackData{Text: "New lead from buyer@example.com"}
}

func (l *leadAlert) ToWebhook() notification.WebhookData {
	return notification.WebhookData{URL: l.hookURL, Payload: map[string]string{"type": "contact"}, Headers: map[string]string{"X-Source": "backoffice"}}
}

func TestMailAndSlack(t *testing.T) {
	var slackBody map[string]any
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&slackBody))
		w.WriteHeader(gohttp.StatusOK)
	}))
	defer srv.Close()

	d := mail.NewLogDriver()
	s := &notification.Sender{
		MailDriver:   d,
		MailConfig:   &mail.Config{Username: "noreply@sudevifoods.com"},
		SlackWebhook: srv.URL,
	}

	errs := s.Send(context.Background(), "inquiry@sudevifoods.com", &leadAlert{via: []string{notification.Mail, notification.Slack}})
	assert.Empty(t, errs)

	require.Len(t, d.Sent(), 1)
	assert.Equal(t, []string{"inquiry@sudevifoods.com"}, d.Sent()[0].Recipients)
	assert.Equal(t, "New lead from buyer@example.com", slackBody["text"])
}

func TestFailingChannelDoesNotStopOthers(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		hits++
		assert.Equal(t, "backoffice", r.Header.Get("X-Source"))
	}))
	defer srv.Close()

	s := &notification.Sender{MailDriver: mail.NewLogDriver(), MailConfig: &mail.Config{Username: "a@b.c"}}
	n := &leadAlert{via: []string{"pager", notification.Webhook}, hookURL: srv.URL}

	errs := s.Send(context.Background(), "inquiry@sudevifoods.com", n)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `unknown channel "pager"`)
	assert.Equal(t, 1, hits)
}

func TestFailedPicksChannel(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		w.WriteHeader(gohttp.StatusInternalServerError)
	}))
	defer srv.Close()

	d := mail.NewLogDriver()
	s := &notification.Sender{MailDriver: d, MailConfig: &mail.Config{Username: "noreply@sudevifoods.com"}, SlackWebhook: srv.URL}
	errs := s.Send(context.Background(), "inquiry@sudevifoods.com", &leadAlert{via: []string{notification.Mail, notification.Slack}})

	require.Len(t, errs, 1)
	var ce *notification.ChannelError
	require.ErrorAs(t, errs[0], &ce)
	assert.Equal(t, notification.Slack, ce.Channel)
	assert.Error(t, notification.Failed(errs, notification.Slack))
	assert.NoError(t, notification.Failed(errs, notification.Mail))
	assert.Len(t, d.Sent(), 1)
}
