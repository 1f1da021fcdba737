package repositories

import (
	"context"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/pkg/orm"
)

type ContentRepository struct{}

func NewContentRepository() *ContentRepository {
	return &ContentRepository{}
}

// List returns blocks ordered by page then section. An empty page lists all.
func (r *ContentRepository) List(ctx context.Context, page string, activeOnly bool) ([]models.PageContent, error) {
	q := orm.WithContext(ctx).Model(&models.PageContent{})
	if page != "" {
		q = q.Where("page_name = ?", page)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	rows := []models.PageContent{}
	err := q.Order("page_name asc").Order("section_name asc").Get(&rows)
	return rows, err
}

func (r *ContentRepository) Find(ctx context.Context, id uint) (models.PageContent, error) {
	var c models.PageContent
	err := orm.WithContext(ctx).Model(&models.PageContent{}).Where("id = ?", id).First(&c)
	return c, err
}

func (r *ContentRepository) Create(ctx context.Context, c *models.PageContent) error {
	return orm.WithContext(ctx).Create(c)
}

func (r *ContentRepository) Update(ctx context.Context, c *models.PageContent) error {
	return orm.WithContext(ctx).Save(c)
}

func (r *ContentRepository) Delete(ctx context.Context, id uint) error {
	return orm.WithContext(ctx).Delete(&models.PageContent{}, id)
}
