// Package jobs holds the queued background jobs.
package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/sudeviagro/backoffice/app/notifications"
	"github.com/sudeviagro/backoffice/app/repositories"
	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/notification"
	"github.com/sudeviagro/backoffice/pkg/queue"
)

// Sender is the notification transport used by the jobs. Tests swap it for
// a Sender with a log mail driver.
var Sender = &notification.Sender{}

// SendLeadNotification mails the inquiry mailbox about a new lead and
// fans it out to Slack and the lead webhook when configured.
type SendLeadNotification struct {
	LeadID uint `json:"lead_id"`
}

func (j *SendLeadNotification) Handle(ctx context.Context) error {
	lead, err := repositories.NewLeadRepository().Find(ctx, j.LeadID)
	if errors.Is(err, repositories.ErrNotFound) {
		// Deleted before the worker got to it.
		logger.WithCtx(ctx).Warn("lead notification skipped", "lead_id", j.LeadID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("jobs: load lead %d: %w", j.LeadID, err)
	}

	n := notifications.ForLead(lead, config.SlackWebhook() != "", config.LeadWebhookURL())
	errs := Sender.Send(ctx, config.NotifyTo(), n)
	// Slack and webhook failures are logged by Send and never retried.
	return notification.Failed(errs, notification.Mail)
}

// Register adds every job type to the queue registry.
func Register(m *queue.Manager) {
	m.Register(func() queue.Job { return &SendLeadNotification{} })
}
