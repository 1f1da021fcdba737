package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/app/repositories"
	"github.com/sudeviagro/backoffice/pkg/cache"
	"github.com/sudeviagro/backoffice/pkg/logger"
)

type JobOpeningInput struct {
	Title        string   `json:"title" validate:"required,max=255"`
	Department   string   `json:"department" validate:"max=100"`
	Location     string   `json:"location" validate:"max=255"`
	Type         string   `json:"type" validate:"nullable,in=full-time,part-time,contract,internship"`
	Description  string   `json:"description" validate:"max=10000"`
	Requirements []string `json:"requirements"`
	IsActive     *bool    `json:"is_active"`
}

type JobService struct {
	jobs *repositories.JobRepository
}

func NewJobService() *JobService {
	return &JobService{jobs: repositories.NewJobRepository()}
}

// Careers lists the active openings for the public site.
func (s *JobService) Careers(ctx context.Context) ([]models.JobOpening, error) {
	return s.jobs.List(ctx, true)
}

func (s *JobService) List(ctx context.Context) ([]models.JobOpening, error) {
	return s.jobs.List(ctx, false)
}

func (s *JobService) Find(ctx context.Context, id uint) (models.JobOpening, error) {
	return s.jobs.Find(ctx, id)
}

func (s *JobService) Create(ctx context.Context, in JobOpeningInput) (models.JobOpening, error) {
	if err := check(in); err != nil {
		return models.JobOpening{}, err
	}
	j := models.JobOpening{IsActive: true, Type: "full-time"}
	in.apply(&j)
	if err := s.jobs.Create(ctx, &j); err != nil {
		return models.JobOpening{}, fmt.Errorf("services: create job: %w", err)
	}
	s.flush(ctx)
	return j, nil
}

func (s *JobService) Update(ctx context.Context, id uint, in JobOpeningInput) (models.JobOpening, error) {
	if err := check(in); err != nil {
		return models.JobOpening{}, err
	}
	j, err := s.jobs.Find(ctx, id)
	if err != nil {
		return models.JobOpening{}, err
	}
	in.apply(&j)
	if err := s.jobs.Update(ctx, &j); err != nil {
		return models.JobOpening{}, fmt.Errorf("services: update job: %w", err)
	}
	s.flush(ctx)
	return j, nil
}

func (s *JobService) Delete(ctx context.Context, id uint) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		return err
	}
	s.flush(ctx)
	return nil
}

func (s *JobService) flush(ctx context.Context) {
	if err := cache.Del(repositories.ActiveJobsKey); err != nil {
		logger.WithCtx(ctx).Warn("careers cache flush failed", "error", err)
	}
}

func (in JobOpeningInput) apply(j *models.JobOpening) {
	j.Title = strings.TrimSpace(in.Title)
	j.Department = in.Department
	j.Location = in.Location
	if in.Type != "" {
		j.Type = in.Type
	}
	j.Description = in.Description
	j.Requirements = cleanList(in.Requirements)
	j.IsActive = boolOr(in.IsActive, j.IsActive)
}
