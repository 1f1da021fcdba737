package repositories

import (
	"context"
	"time"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/pkg/orm"
)

type JobRepository struct{}

func NewJobRepository() *JobRepository {
	return &JobRepository{}
}

// ActiveJobsKey caches the public careers listing.
const ActiveJobsKey = "jobs:active"

// List returns openings newest first. The active listing is read through
// orm.CacheStore when one is wired.
func (r *JobRepository) List(ctx context.Context, activeOnly bool) ([]models.JobOpening, error) {
	q := orm.WithContext(ctx).Model(&models.JobOpening{}).Order("created_at desc")
	jobs := []models.JobOpening{}
	if activeOnly {
		err := q.Where("is_active = ?", true).Cache(ActiveJobsKey, 10*time.Minute, &jobs)
		return jobs, err
	}
	err := q.Get(&jobs)
	return jobs, err
}

func (r *JobRepository) Find(ctx context.Context, id uint) (models.JobOpening, error) {
	var j models.JobOpening
	err := orm.WithContext(ctx).Model(&models.JobOpening{}).Where("id = ?", id).First(&j)
	return j, err
}

func (r *JobRepository) Create(ctx context.Context, j *models.JobOpening) error {
	return orm.WithContext(ctx).Create(j)
}

func (r *JobRepository) Update(ctx context.Context, j *models.JobOpening) error {
	return orm.WithContext(ctx).Save(j)
}

func (r *JobRepository) Delete(ctx context.Context, id uint) error {
	return orm.WithContext(ctx).Delete(&models.JobOpening{}, id)
}
