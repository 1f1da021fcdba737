package repositories

import (
	"context"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/pkg/orm"
)

type LeadFilter struct {
	Type   string
	Status string
}

type LeadRepository struct{}

func NewLeadRepository() *LeadRepository {
	return &LeadRepository{}
}

func (r *LeadRepository) Create(ctx context.Context, l *models.Lead) error {
	return orm.WithContext(ctx).Create(l)
}

func (r *LeadRepository) Find(ctx context.Context, id uint) (models.Lead, error) {
	var l models.Lead
	err := orm.WithContext(ctx).Model(&models.Lead{}).Where("id = ?", id).First(&l)
	return l, err
}

// Paginate lists leads newest first.
func (r *LeadRepository) Paginate(ctx context.Context, f LeadFilter, page, limit int) ([]models.Lead, orm.Pagination, error) {
	q := orm.WithContext(ctx).Model(&models.Lead{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	leads := []models.Lead{}
	p, err := q.Order("created_at desc").GetWithPagination(&leads, page, limit)
	return leads, p, err
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return orm.WithContext(ctx).Model(&models.Lead{}).Where("id = ?", id).Updates(map[string]interface{}{"status": status})
}

func (r *LeadRepository) Delete(ctx context.Context, id uint) error {
	return orm.WithContext(ctx).Delete(&models.Lead{}, id)
}

// CountByStatus powers the dashboard counters.
func (r *LeadRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return orm.WithContext(ctx).Model(&models.Lead{}).Where("status = ?", status).Count()
}
