package repositories

import (
	"context"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/pkg/orm"
)

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category   string
	ActiveOnly bool
}

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

func (r *ProductRepository) scoped(ctx context.Context, f ProductFilter) *orm.Query {
	q := orm.WithContext(ctx).Model(&models.Product{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	return q.Order("created_at desc")
}

// List returns every product matching f, newest first.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	products := []models.Product{}
	err := r.scoped(ctx, f).Get(&products)
	return products, err
}

func (r *ProductRepository) Paginate(ctx context.Context, f ProductFilter, page, limit int) ([]models.Product, orm.Pagination, error) {
	products := []models.Product{}
	p, err := r.scoped(ctx, f).GetWithPagination(&products, page, limit)
	return products, p, err
}

func (r *ProductRepository) Find(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	err := orm.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).First(&p)
	return p, err
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return orm.WithContext(ctx).Create(p)
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	return orm.WithContext(ctx).Save(p)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return orm.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
}
