package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudeviagro/backoffice/app/notifications"
	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/pkg/mail"
	"github.com/sudeviagro/backoffice/pkg/notification"
)

func logSender() (*notification.Sender, *mail.LogDriver) {
	d := mail.NewLogDriver()
	cfg := mail.Config{Host: "smtp.test", Port: "587", Username: "noreply@sudevifoods.com", Password: "x"}
	return &notification.Sender{MailDriver: d, MailConfig: &cfg}, d
}

func TestApplicationEmailJob(t *testing.T) {
	sender, driver := logSender()
	svc := services.NewApplicationEmailService(sender)

	err := svc.Send(context.Background(), "job", map[string]any{
		"name":       "<b>Kiran</b>",
		"email":      "kiran@example.com",
		"phone":      "9876543210",
		"jobTitle":   "Sales Officer",
		"experience": 4,
	})
	require.NoError(t, err)

	sent := driver.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{config.NotifyTo()}, sent[0].Recipients)
	msg := string(sent[0].Data)
	assert.Contains(t, msg, "Subject: New Job Application - Sales Officer")
	assert.Contains(t, msg, "Reply-To: <kiran@example.com>")
	assert.Contains(t, msg, "4 years")
	assert.Contains(t, msg, "&lt;b&gt;Kiran&lt;/b&gt;")
	assert.False(t, strings.Contains(msg, "<b>Kiran</b>"))
}

func TestApplicationEmailPartner(t *testing.T) {
	sender, driver := logSender()
	svc := services.NewApplicationEmailService(sender)

	err := svc.Send(context.Background(), "partner", map[string]any{
		"company":       "Spice Traders",
		"contactPerson": "Ravi",
		"email":         "ravi@example.com",
		"partnerType":   "distributor",
	})
	require.NoError(t, err)
	require.Len(t, driver.Sent(), 1)
	assert.Contains(t, string(driver.Sent()[0].Data), "Subject: New Partnership Application - distributor")
}

func TestApplicationEmailUnknownType(t *testing.T) {
	sender, driver := logSender()
	svc := services.NewApplicationEmailService(sender)

	err := svc.Send(context.Background(), "careers", map[string]any{"email": "a@example.com"})
	assert.ErrorIs(t, err, notifications.ErrInvalidType)
	assert.Empty(t, driver.Sent())
}

func TestApplicationEmailRejectsContactType(t *testing.T) {
	sender, driver := logSender()
	svc := services.NewApplicationEmailService(sender)

	err := svc.Send(context.Background(), "contact", map[string]any{"name": "Asha", "email": "asha@example.com"})
	assert.ErrorIs(t, err, notifications.ErrInvalidType)
	assert.Empty(t, driver.Sent())
}

func TestApplicationEmailRejectsHeaderInjection(t *testing.T) {
	sender, driver := logSender()
	svc := services.NewApplicationEmailService(sender)

	err := svc.Send(context.Background(), "job", map[string]any{
		"name":  "Kiran",
		"email": "a@b.com\r\nContent-Type: text/plain\r\nX-Injected: yes",
	})
	assert.ErrorIs(t, err, notifications.ErrInvalidEmail)
	assert.Empty(t, driver.Sent())
}
