package services

import (
	"context"
	"errors"

	"github.com/sudeviagro/backoffice/app/notifications"
	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/notification"
)

// ApplicationEmailService sends an application e-mail synchronously so the
// caller learns whether SMTP accepted it.
type ApplicationEmailService struct {
	sender *notification.Sender
}

func NewApplicationEmailService(sender *notification.Sender) *ApplicationEmailService {
	if sender == nil {
		sender = &notification.Sender{}
	}
	return &ApplicationEmailService{sender: sender}
}

// Send renders the {type, data} payload and mails it to MAIL_NOTIFY_TO.
// Unknown types return notifications.ErrInvalidType.
func (s *ApplicationEmailService) Send(ctx context.Context, typ string, data map[string]any) error {
	app, err := notifications.DecodeApplication(typ, data)
	if err != nil {
		return err
	}

	log := logger.WithCtx(ctx).With("type", typ)
	log.Info("application email requested")
	// Mail only: the Slack summary goes out with the queued lead job.
	n := &notifications.ApplicationEmail{App: app}
	if errs := s.sender.Send(ctx, config.NotifyTo(), n); len(errs) > 0 {
		return errors.Join(errs...)
	}
	log.Info("application email sent")
	return nil
}
