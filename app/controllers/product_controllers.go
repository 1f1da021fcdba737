package controllers

import (
	"github.com/sudeviagro/backoffice/app/repositories"
	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/pkg/ctx"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// Catalog lists active products, newest first, optionally by ?category=.
func (pc *ProductController) Catalog(c *ctx.Context) {
	list, err := pc.products.Catalog(c.Context(), c.Query("category"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (pc *ProductController) Show(c *ctx.Context) {
	p, err := pc.products.FindActive(c.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

// Index is the admin listing: every product, paginated.
func (pc *ProductController) Index(c *ctx.Context) {
	f := repositories.ProductFilter{
		Category:   c.Query("category"),
		ActiveOnly: c.Query("active") == "true",
	}
	items, page, err := pc.products.Paginate(c.Context(), f, c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(items, page)
}

func (pc *ProductController) Get(c *ctx.Context) {
	p, err := pc.products.Find(c.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

func (pc *ProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := pc.products.Create(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(p)
}

func (pc *ProductController) Update(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := pc.products.Update(c.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	if err := pc.products.Delete(c.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
