package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sudeviagro/backoffice/app/jobs"
	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/app/repositories"
	"github.com/sudeviagro/backoffice/pkg/event"
	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/orm"
	"github.com/sudeviagro/backoffice/pkg/queue"
)

var ErrInvalidStatus = errors.New("services: unknown lead status")

// ContactInput is the public contact form.
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"nullable,phone"`
	Subject string `json:"subject" validate:"max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

// JobApplicationInput is the careers form.
type JobApplicationInput struct {
	Name       string `json:"name" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,phone"`
	Position   string `json:"position" validate:"max=255"`
	Experience string `json:"experience" validate:"max=50"`
	Location   string `json:"location" validate:"max=255"`
	Message    string `json:"message" validate:"max=5000"`
}

// PartnerApplicationInput is the distributor/partner form.
type PartnerApplicationInput struct {
	Company       string `json:"company" validate:"required,max=255"`
	ContactPerson string `json:"contactPerson" validate:"required,max=255"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,phone"`
	PartnerType   string `json:"partnerType" validate:"max=100"`
	Location      string `json:"location" validate:"max=255"`
	Message       string `json:"message" validate:"max=5000"`
}

// Dispatcher queues background jobs. *queue.Manager satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, job queue.Job) error
}

type LeadService struct {
	leads  *repositories.LeadRepository
	queue  Dispatcher
	events *event.Dispatcher
}

func NewLeadService(q Dispatcher, events *event.Dispatcher) *LeadService {
	if q == nil {
		q = queue.Default()
	}
	if events == nil {
		events = event.Default()
	}
	return &LeadService{
		leads:  repositories.NewLeadRepository(),
		queue:  q,
		events: events,
	}
}

func (s *LeadService) SubmitContact(ctx context.Context, in ContactInput) (models.Lead, error) {
	if err := check(in); err != nil {
		return models.Lead{}, err
	}
	return s.store(ctx, models.Lead{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   in.Phone,
		Subject: strings.TrimSpace(in.Subject),
		Message: in.Message,
		Type:    models.LeadContact,
	})
}

func (s *LeadService) SubmitJobApplication(ctx context.Context, in JobApplicationInput) (models.Lead, error) {
	if err := check(in); err != nil {
		return models.Lead{}, err
	}
	return s.store(ctx, models.Lead{
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.TrimSpace(in.Email),
		Phone:      in.Phone,
		Subject:    "Job Application: " + firstNonEmpty(in.Position, "General Application"),
		Message:    in.Message,
		Type:       models.LeadJob,
		Position:   strings.TrimSpace(in.Position),
		Experience: in.Experience,
		Location:   in.Location,
	})
}

func (s *LeadService) SubmitPartnerApplication(ctx context.Context, in PartnerApplicationInput) (models.Lead, error) {
	if err := check(in); err != nil {
		return models.Lead{}, err
	}
	return s.store(ctx, models.Lead{
		Name:        strings.TrimSpace(in.ContactPerson),
		Email:       strings.TrimSpace(in.Email),
		Phone:       in.Phone,
		Subject:     "Partnership Application: " + firstNonEmpty(in.PartnerType, "General"),
		Message:     in.Message,
		Type:        models.LeadPartner,
		Company:     strings.TrimSpace(in.Company),
		PartnerType: in.PartnerType,
		Location:    in.Location,
	})
}

// store persists the lead as new and queues its notification. A queue
// failure is logged; the lead is already saved and visible to admins.
func (s *LeadService) store(ctx context.Context, l models.Lead) (models.Lead, error) {
	l.Status = models.LeadNew
	if err := s.leads.Create(ctx, &l); err != nil {
		return models.Lead{}, fmt.Errorf("services: store lead: %w", err)
	}

	log := logger.WithCtx(ctx).With("lead_id", l.ID, "type", l.Type)
	if err := s.queue.Dispatch(ctx, &jobs.SendLeadNotification{LeadID: l.ID}); err != nil {
		log.Error("lead notification not queued", "error", err)
	}
	_ = s.events.Fire(ctx, event.LeadCreated, l)
	log.Info("lead captured")
	return l, nil
}

func (s *LeadService) Find(ctx context.Context, id uint) (models.Lead, error) {
	return s.leads.Find(ctx, id)
}

func (s *LeadService) Paginate(ctx context.Context, f repositories.LeadFilter, page, limit int) ([]models.Lead, orm.Pagination, error) {
	return s.leads.Paginate(ctx, f, page, limit)
}

func (s *LeadService) UpdateStatus(ctx context.Context, id uint, status string) (models.Lead, error) {
	if !validStatus(status) {
		return models.Lead{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := s.leads.UpdateStatus(ctx, id, status); err != nil {
		return models.Lead{}, err
	}
	return s.leads.Find(ctx, id)
}

func (s *LeadService) Delete(ctx context.Context, id uint) error {
	return s.leads.Delete(ctx, id)
}

// Counts returns the number of leads per status.
func (s *LeadService) Counts(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, 4)
	for _, st := range []string{models.LeadNew, models.LeadContacted, models.LeadQualified, models.LeadClosed} {
		n, err := s.leads.CountByStatus(ctx, st)
		if err != nil {
			return nil, err
		}
		out[st] = n
	}
	return out, nil
}

func validStatus(s string) bool {
	switch s {
	case models.LeadNew, models.LeadContacted, models.LeadQualified, models.LeadClosed:
		return true
	}
	return false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
