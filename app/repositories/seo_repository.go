package repositories

import (
	"context"
	"errors"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/pkg/orm"
)

type SEORepository struct{}

func NewSEORepository() *SEORepository {
	return &SEORepository{}
}

func (r *SEORepository) List(ctx context.Context) ([]models.SEOSetting, error) {
	rows := []models.SEOSetting{}
	err := orm.WithContext(ctx).Model(&models.SEOSetting{}).Order("page_path asc").Get(&rows)
	return rows, err
}

func (r *SEORepository) FindByPath(ctx context.Context, path string, activeOnly bool) (models.SEOSetting, error) {
	q := orm.WithContext(ctx).Model(&models.SEOSetting{}).Where("page_path = ?", path)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var s models.SEOSetting
	err := q.First(&s)
	return s, err
}

// Upsert saves s keyed by its page path.
func (r *SEORepository) Upsert(ctx context.Context, s *models.SEOSetting) error {
	return orm.WithContext(ctx).Transaction(func(tx *orm.Query) error {
		var existing models.SEOSetting
		err := tx.Model(&models.SEOSetting{}).Where("page_path = ?", s.PagePath).First(&existing)
		switch {
		case err == nil:
			s.ID = existing.ID
			s.CreatedAt = existing.CreatedAt
			return tx.Save(s)
		case errors.Is(err, ErrNotFound):
			s.ID = 0
			return tx.Create(s)
		default:
			return err
		}
	})
}

func (r *SEORepository) Delete(ctx context.Context, id uint) error {
	return orm.WithContext(ctx).Delete(&models.SEOSetting{}, id)
}
