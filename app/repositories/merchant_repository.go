package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/pkg/orm"
)

// MerchantRepository manages the singleton settings row.
type MerchantRepository struct{}

func NewMerchantRepository() *MerchantRepository {
	return &MerchantRepository{}
}

// Get returns the first settings row.
func (r *MerchantRepository) Get(ctx context.Context) (models.MerchantSetting, error) {
	var m models.MerchantSetting
	err := orm.WithContext(ctx).Model(&models.MerchantSetting{}).Order("id asc").First(&m)
	return m, err
}

// Save updates the first row when one exists, otherwise inserts m.
func (r *MerchantRepository) Save(ctx context.Context, m *models.MerchantSetting) error {
	return orm.WithContext(ctx).Transaction(func(tx *orm.Query) error {
		var existing models.MerchantSetting
		err := tx.Model(&models.MerchantSetting{}).Order("id asc").First(&existing)
		switch {
		case err == nil:
			m.ID = existing.ID
			m.CreatedAt = existing.CreatedAt
			return tx.Save(m)
		case errors.Is(err, ErrNotFound):
			m.ID = 0
			return tx.Create(m)
		default:
			return err
		}
	})
}

func (r *MerchantRepository) TouchLastSync(ctx context.Context, id uint, at time.Time) error {
	return orm.WithContext(ctx).Model(&models.MerchantSetting{}).Where("id = ?", id).
		Updates(map[string]interface{}{"last_sync": at})
}
