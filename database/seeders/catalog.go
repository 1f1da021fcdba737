package seeders

import (
	"context"
	"errors"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/pkg/auth"
	"github.com/sudeviagro/backoffice/pkg/feed"
	"github.com/sudeviagro/backoffice/pkg/rbac"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func init() {
	Register("admin", seedAdmin)
	Register("seo", seedSEO)
	Register("merchant", seedMerchant)
	Register("products", seedProducts)
}

func seedAdmin(ctx context.Context, db *gorm.DB) error {
	email := config.Get("ADMIN_EMAIL", "admin@sudevifoods.com")
	password := config.Get("ADMIN_PASSWORD", "")
	if password == "" {
		return errors.New("ADMIN_PASSWORD must be set to seed the admin account")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u := models.User{Name: "Administrator", Email: email, Password: hash, Role: rbac.RoleAdmin}
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&u).Error
}

func seedSEO(ctx context.Context, db *gorm.DB) error {
	pages := []models.SEOSetting{
		{PagePath: "/", Title: "Sudevi Agro Foods | Pickles, Spices, Soya & Vermicelli", Description: "Traditional Indian pickles, spices, soya chunks and vermicelli."},
		{PagePath: "/about", Title: "About Us | Sudevi Agro Foods"},
		{PagePath: "/products", Title: "Our Products | Sudevi Agro Foods"},
		{PagePath: "/careers", Title: "Careers | Sudevi Agro Foods"},
		{PagePath: "/contact", Title: "Contact Us | Sudevi Agro Foods"},
		{PagePath: "/partners", Title: "Become a Partner | Sudevi Agro Foods"},
	}
	for i := range pages {
		pages[i].Robots = models.DefaultRobots
		pages[i].IsActive = true
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&pages).Error
}

func seedMerchant(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.MerchantSetting{}).Count(&n).Error; err != nil || n > 0 {
		return err
	}
	return db.WithContext(ctx).Create(&models.MerchantSetting{
		FeedFormat:    "xml",
		Currency:      feed.DefaultCurrency,
		Country:       feed.DefaultCountry,
		Language:      feed.DefaultLanguage,
		Brand:         feed.DefaultBrand,
		SyncFrequency: "daily",
		IsActive:      true,
	}).Error
}

func price(v float64) *float64 { return &v }

func seedProducts(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil || n > 0 {
		return err
	}
	products := []models.Product{
		{Name: "Mango Pickle", Category: models.CategoryPickles, Price: price(149), Description: "Raw mango pickled in mustard oil.", Features: []string{"No preservatives", "Cold-pressed oil"}},
		{Name: "Garam Masala", Category: models.CategorySpices, Price: price(89), Description: "Stone-ground whole spice blend.", Features: []string{"Small batch"}},
		{Name: "Soya Chunks", Category: models.CategorySoya, Price: price(65), Description: "High-protein soya chunks.", Features: []string{"52% protein"}},
		{Name: "Roasted Vermicelli", Category: models.CategoryVermicelli, Price: price(45), Description: "Wheat vermicelli, pre-roasted.", Features: []string{"Ready in 5 minutes"}},
	}
	for i := range products {
		products[i].IsActive = true
	}
	return db.WithContext(ctx).Create(&products).Error
}
