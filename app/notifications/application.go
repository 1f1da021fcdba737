// Package notifications holds the e-mails sent to the inquiry mailbox when
// a lead or an application arrives.
package notifications

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/pkg/notification"
	"github.com/sudeviagro/backoffice/pkg/validate"
)

// Application types. Only job and partner come through the application
// e-mail endpoint; contact is built from stored leads.
const (
	TypeJob     = "job"
	TypePartner = "partner"
	TypeContact = "contact"
)

var (
	// ErrInvalidType is returned for an unknown e-mail type.
	ErrInvalidType  = errors.New("notifications: invalid email type")
	ErrMissingEmail = errors.New("notifications: application has no email")
	ErrInvalidEmail = errors.New("notifications: invalid email address")
)

// Application is a job or partner application as posted by the site. Fields
// arrive loosely typed, e.g. experience may be a number or a string.
type Application struct {
	Type          string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Company       string
	PartnerType   string
	Location      string
	JobTitle      string
	Experience    string
	Subject       string
	Message       string
}

// DecodeApplication coerces a {type, data} payload into an Application.
func DecodeApplication(typ string, data map[string]any) (Application, error) {
	if typ != TypeJob && typ != TypePartner {
		return Application{}, ErrInvalidType
	}

	str := func(key string) string { return strings.TrimSpace(cast.ToString(data[key])) }
	a := Application{
		Type:          typ,
		Name:          str("name"),
		ContactPerson: str("contactPerson"),
		Email:         str("email"),
		Phone:         str("phone"),
		Company:       str("company"),
		PartnerType:   str("partnerType"),
		Location:      str("location"),
		JobTitle:      str("jobTitle"),
		Experience:    str("experience"),
		Subject:       str("subject"),
		Message:       str("message"),
	}
	if a.Email == "" {
		return Application{}, fmt.Errorf("%w: type %s", ErrMissingEmail, typ)
	}
	if !validate.IsEmail(a.Email) {
		return Application{}, fmt.Errorf("%w: type %s", ErrInvalidEmail, typ)
	}
	return a, nil
}

// FromLead rebuilds the application a stored lead was created from.
func FromLead(l models.Lead) Application {
	return Application{
		Type:          l.Type,
		Name:          l.Name,
		ContactPerson: l.Name,
		Email:         l.Email,
		Phone:         l.Phone,
		Company:       l.Company,
		PartnerType:   l.PartnerType,
		Location:      l.Location,
		JobTitle:      l.Position,
		Experience:    l.Experience,
		Subject:       l.Subject,
		Message:       l.Message,
	}
}

// MailSubject is the e-mail subject line for the application type.
func (a Application) MailSubject() string {
	switch a.Type {
	case TypeJob:
		return "New Job Application - " + or(a.JobTitle, "General Application")
	case TypePartner:
		return "New Partnership Application - " + a.PartnerType
	default:
		return "New Lead: " + or(a.Subject, "Website Inquiry")
	}
}

// HTML renders the escaped body.
func (a Application) HTML() (string, error) {
	switch a.Type {
	case TypeJob, TypePartner, TypeContact:
		return render(a.Type, a)
	}
	return "", ErrInvalidType
}

// ApplicationEmail mails an Application to the inquiry mailbox. Slack gets
// a short summary and WebhookURL, when set, receives the lead as JSON.
type ApplicationEmail struct {
	App        Application
	Slack      bool
	WebhookURL string
}

func (n *ApplicationEmail) Via() []string {
	via := []string{notification.Mail}
	if n.Slack {
		via = append(via, notification.Slack)
	}
	if n.WebhookURL != "" {
		via = append(via, notification.Webhook)
	}
	return via
}

func (n *ApplicationEmail) ToMail() (notification.MailData, error) {
	body, err := n.App.HTML()
	if err != nil {
		return notification.MailData{}, err
	}
	return notification.MailData{
		Subject: n.App.MailSubject(),
		HTML:    body,
		ReplyTo: n.App.Email,
	}, nil
}

func (n *ApplicationEmail) ToSlack() notification.SlackData {
	who := or(n.App.Name, n.App.ContactPerson)
	if n.App.Company != "" {
		who += " (" + n.App.Company + ")"
	}
	return notification.SlackData{
		Text: n.App.MailSubject(),
		Attachments: []notification.SlackAttachment{{
			Color:  "#2e7d32",
			Title:  who,
			Text:   n.App.Email + " " + n.App.Phone,
			Footer: "backoffice",
		}},
	}
}

func (n *ApplicationEmail) ToWebhook() notification.WebhookData {
	return notification.WebhookData{
		URL: n.WebhookURL,
		Payload: map[string]string{
			"event":   "lead.received",
			"type":    n.App.Type,
			"subject": n.App.MailSubject(),
			"name":    or(n.App.Name, n.App.ContactPerson),
			"email":   n.App.Email,
			"phone":   n.App.Phone,
			"company": n.App.Company,
			"message": n.App.Message,
		},
		Headers: map[string]string{"X-Source": "backoffice"},
	}
}

func or(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// ForLead builds the notification for a stored lead.
func ForLead(l models.Lead, slack bool, webhookURL string) *ApplicationEmail {
	return &ApplicationEmail{App: FromLead(l), Slack: slack, WebhookURL: webhookURL}
}
