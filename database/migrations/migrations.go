// Package migrations registers the catalog schema. Importing it for side
// effects makes the steps available to migration.New.
package migrations

import (
	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/pkg/migration"
	"github.com/sudeviagro/backoffice/pkg/queue"
	"gorm.io/gorm"
)

func table(name string, model any, table string) migration.Migration {
	return migration.Migration{
		Name: name,
		Up:   func(db *gorm.DB) error { return db.AutoMigrate(model) },
		Down: func(db *gorm.DB) error { return db.Migrator().DropTable(table) },
	}
}

// All is the ordered schema history.
func All() []migration.Migration {
	return []migration.Migration{
		table("20260301000000_create_users_table", &models.User{}, "users"),
		table("20260301000001_create_products_table", &models.Product{}, "products"),
		table("20260301000002_create_leads_table", &models.Lead{}, "leads"),
		table("20260301000003_create_job_openings_table", &models.JobOpening{}, "job_openings"),
		table("20260301000004_create_seo_settings_table", &models.SEOSetting{}, "seo_settings"),
		table("20260301000005_create_merchant_settings_table", &models.MerchantSetting{}, "merchant_settings"),
		table("20260301000006_create_page_content_table", &models.PageContent{}, "page_content"),
		table("20260301000007_create_failed_jobs_table", &queue.FailedJobRecord{}, "failed_jobs"),
	}
}

func init() {
	for _, m := range All() {
		migration.Register(m)
	}
}
