package notifications_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/app/notifications"
	"github.com/sudeviagro/backoffice/pkg/notification"
)

func TestMailSubjects(t *testing.T) {
	cases := []struct {
		app  notifications.Application
		want string
	}{
		{notifications.Application{Type: "job"}, "New Job Application - General Application"},
		{notifications.Application{Type: "job", JobTitle: "Sales Officer"}, "New Job Application - Sales Officer"},
		{notifications.Application{Type: "partner", PartnerType: "retailer"}, "New Partnership Application - retailer"},
		{notifications.Application{Type: "contact"}, "New Lead: Website Inquiry"},
		{notifications.Application{Type: "contact", Subject: "Bulk order"}, "New Lead: Bulk order"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.app.MailSubject())
	}
}

func TestDecodeApplicationCoercesLooseTypes(t *testing.T) {
	app, err := notifications.DecodeApplication("job", map[string]any{
		"name":       " Kiran ",
		"email":      "kiran@example.com",
		"experience": 3.5,
		"phone":      9876543210,
	})
	require.NoError(t, err)
	assert.Equal(t, "Kiran", app.Name)
	assert.Equal(t, "3.5", app.Experience)
	assert.Equal(t, "9876543210", app.Phone)
}

func TestDecodeApplicationErrors(t *testing.T) {
	_, err := notifications.DecodeApplication("newsletter", map[string]any{"email": "a@example.com"})
	assert.ErrorIs(t, err, notifications.ErrInvalidType)

	_, err = notifications.DecodeApplication("contact", map[string]any{"email": "a@example.com"})
	assert.ErrorIs(t, err, notifications.ErrInvalidType)

	_, err = notifications.DecodeApplication("partner", map[string]any{"company": "Spice Traders"})
	assert.ErrorIs(t, err, notifications.ErrMissingEmail)

	_, err = notifications.DecodeApplication("job", map[string]any{"email": "a@b.com\r\nX-Injected: yes"})
	assert.ErrorIs(t, err, notifications.ErrInvalidEmail)
}

func TestHTMLEscapesInput(t *testing.T) {
	app := notifications.Application{Type: "contact", Name: "Asha", Email: "a@example.com", Message: `<script>alert("x")</script>`}
	body, err := app.HTML()
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestDefaultMessages(t *testing.T) {
	body, err := notifications.Application{Type: "job", Name: "Kiran"}.HTML()
	require.NoError(t, err)
	assert.Contains(t, body, "No cover letter provided")

	body, err = notifications.Application{Type: "partner", Company: "Spice Traders"}.HTML()
	require.NoError(t, err)
	assert.Contains(t, body, "No additional message provided")
}

func TestForLead(t *testing.T) {
	lead := models.Lead{
		Type:        models.LeadPartner,
		Name:        "Ravi",
		Email:       "ravi@example.com",
		Company:     "Spice Traders",
		PartnerType: "distributor",
	}

	n := notifications.ForLead(lead, true, "")
	assert.Equal(t, []string{notification.Mail, notification.Slack}, n.Via())

	m, err := n.ToMail()
	require.NoError(t, err)
	assert.Equal(t, "New Partnership Application - distributor", m.Subject)
	assert.Equal(t, "ravi@example.com", m.ReplyTo)
	assert.Contains(t, m.HTML, "Spice Traders")

	s := n.ToSlack()
	assert.Equal(t, m.Subject, s.Text)
	require.Len(t, s.Attachments, 1)
	assert.Equal(t, "Ravi (Spice Traders)", s.Attachments[0].Title)

	assert.Equal(t, []string{notification.Mail}, notifications.ForLead(lead, false, "").Via())
}

func TestForLeadWebhook(t *testing.T) {
	lead := models.Lead{Type: models.LeadContact, Name: "Asha", Email: "asha@example.com", Subject: "Bulk order", Message: "100 jars"}

	n := notifications.ForLead(lead, false, "https://hooks.example.com/leads")
	assert.Equal(t, []string{notification.Mail, notification.Webhook}, n.Via())

	w := n.ToWebhook()
	assert.Equal(t, "https://hooks.example.com/leads", w.URL)
	payload, ok := w.Payload.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "New Lead: Bulk order", payload["subject"])
	assert.Equal(t, "asha@example.com", payload["email"])
	assert.Equal(t, "contact", payload["type"])
}
