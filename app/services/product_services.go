package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/app/repositories"
	"github.com/sudeviagro/backoffice/pkg/cache"
	"github.com/sudeviagro/backoffice/pkg/collection"
	"github.com/sudeviagro/backoffice/pkg/event"
	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/orm"
)

const catalogTTL = 5 * time.Minute

// ProductInput is the admin create/update payload.
type ProductInput struct {
	Name            string         `json:"name" validate:"required,max=255"`
	Description     string         `json:"description" validate:"max=5000"`
	Category        string         `json:"category" validate:"required,in=pickles,spices,soya,vermicelli"`
	Price           *float64       `json:"price" validate:"nullable,gte=0"`
	ImageURL        string         `json:"image_url" validate:"nullable,url"`
	Features        []string       `json:"features"`
	NutritionalInfo map[string]any `json:"nutritional_info"`
	IsActive        *bool          `json:"is_active"`
	ShopLink        string         `json:"shop_link" validate:"nullable,url"`
	GTIN            string         `json:"gtin" validate:"nullable,numeric,max=14"`
}

func (in ProductInput) apply(p *models.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Category = in.Category
	p.Price = in.Price
	p.ImageURL = in.ImageURL
	p.Features = cleanList(in.Features)
	p.NutritionalInfo = in.NutritionalInfo
	p.IsActive = boolOr(in.IsActive, p.IsActive)
	p.ShopLink = in.ShopLink
	p.GTIN = in.GTIN
}

type ProductService struct {
	products *repositories.ProductRepository
	events   *event.Dispatcher
}

func NewProductService(events *event.Dispatcher) *ProductService {
	if events == nil {
		events = event.Default()
	}
	return &ProductService{
		products: repositories.NewProductRepository(),
		events:   events,
	}
}

// Catalog lists active products, newest first, through the Redis cache.
func (s *ProductService) Catalog(ctx context.Context, category string) ([]models.Product, error) {
	key := "products:active:" + category
	var cached []models.Product
	if cache.Get(key, &cached) {
		return cached, nil
	}

	products, err := s.products.List(ctx, repositories.ProductFilter{Category: category, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("services: catalog: %w", err)
	}
	if err := cache.Set(key, products, catalogTTL); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache write failed", "error", err)
	}
	return products, nil
}

// FindActive hides inactive products from the public API.
func (s *ProductService) FindActive(ctx context.Context, id string) (models.Product, error) {
	p, err := s.products.Find(ctx, id)
	if err != nil {
		return p, err
	}
	if !p.IsActive {
		return models.Product{}, repositories.ErrNotFound
	}
	return p, nil
}

func (s *ProductService) Find(ctx context.Context, id string) (models.Product, error) {
	return s.products.Find(ctx, id)
}

func (s *ProductService) Paginate(ctx context.Context, f repositories.ProductFilter, page, limit int) ([]models.Product, orm.Pagination, error) {
	return s.products.Paginate(ctx, f, page, limit)
}

// All returns every product, active or not. Used by the mirror batch.
func (s *ProductService) All(ctx context.Context) ([]models.Product, error) {
	return s.products.List(ctx, repositories.ProductFilter{})
}

// Active returns the products the merchant feed should describe.
func (s *ProductService) Active(ctx context.Context) ([]models.Product, error) {
	return s.products.List(ctx, repositories.ProductFilter{ActiveOnly: true})
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := check(in); err != nil {
		return models.Product{}, err
	}
	p := models.Product{IsActive: true}
	in.apply(&p)
	if err := s.products.Create(ctx, &p); err != nil {
		return models.Product{}, fmt.Errorf("services: create product: %w", err)
	}
	s.changed(ctx, event.ProductSaved, p)
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	if err := check(in); err != nil {
		return models.Product{}, err
	}
	p, err := s.products.Find(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	in.apply(&p)
	if err := s.products.Update(ctx, &p); err != nil {
		return models.Product{}, fmt.Errorf("services: update product: %w", err)
	}
	s.changed(ctx, event.ProductSaved, p)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, event.ProductDeleted, id)
	return nil
}

// changed drops the catalog cache and notifies listeners. Neither failure
// affects the primary write.
func (s *ProductService) changed(ctx context.Context, name string, payload any) {
	if err := cache.DelPattern("products:*"); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache flush failed", "error", err)
	}
	_ = s.events.Fire(ctx, name, payload)
}

// cleanList trims entries and drops blanks and duplicates.
func cleanList(in []string) []string {
	trimmed := collection.Map(in, strings.TrimSpace)
	return collection.Unique(collection.Filter(trimmed, func(v string) bool { return v != "" }))
}
