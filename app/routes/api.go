// Package routes maps URLs to controllers.
package routes

import (
	"net/http"
	"time"

	"github.com/sudeviagro/backoffice/app/controllers"
	appgraphql "github.com/sudeviagro/backoffice/app/graphql"
	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/pkg/ctx"
	"github.com/sudeviagro/backoffice/pkg/graphql"
	"github.com/sudeviagro/backoffice/pkg/metrics"
	"github.com/sudeviagro/backoffice/pkg/middleware"
	"github.com/sudeviagro/backoffice/pkg/rbac"
	"github.com/sudeviagro/backoffice/pkg/router"
)

// Deps carries the services the controllers are built from.
type Deps struct {
	Auth     *services.AuthService
	Products *services.ProductService
	Leads    *services.LeadService
	Jobs     *services.JobService
	SEO      *services.SEOService
	Content  *services.ContentService
	Merchant *services.MerchantService
	Mirror   *services.MirrorService
	Mail     *services.ApplicationEmailService
	Site     *services.SiteService

	// Health answers GET /health; nil reports ok unconditionally.
	Health func(r *http.Request) error
}

func RegisterAPI(r *router.Router, d Deps) error {
	authC := controllers.NewAuthController(d.Auth)
	productC := controllers.NewProductController(d.Products)
	leadC := controllers.NewLeadController(d.Leads)
	jobC := controllers.NewJobController(d.Jobs)
	seoC := controllers.NewSEOController(d.SEO)
	contentC := controllers.NewContentController(d.Content)
	merchantC := controllers.NewMerchantController(d.Merchant)
	mirrorC := controllers.NewMirrorController(d.Mirror)
	fnC := controllers.NewFunctionController(d.Mirror, d.Merchant, d.Mail)
	siteC := controllers.NewSiteController(d.Site)

	schema, err := appgraphql.NewSchema(d.Products, d.Jobs)
	if err != nil {
		return err
	}

	r.Handle(http.MethodGet, "/metrics", "metrics", metrics.Handler())
	r.Get("/health", "health", ctx.Wrap(func(c *ctx.Context) {
		if d.Health != nil {
			if err := d.Health(c.R); err != nil {
				c.Error(http.StatusServiceUnavailable, "unhealthy")
				return
			}
		}
		c.Success(map[string]string{"status": "ok"})
	}))
	r.Handle(http.MethodGet, "/graphql", "graphql.get", graphql.Handler(schema))
	r.Handle(http.MethodPost, "/graphql", "graphql.post", graphql.Handler(schema))
	r.Get("/feeds/google-merchant.xml", "feeds.merchant", ctx.Wrap(merchantC.Feed))
	r.Get("/sitemap.xml", "site.sitemap", ctx.Wrap(siteC.Sitemap))
	r.Get("/robots.txt", "site.robots", ctx.Wrap(siteC.Robots))

	api := r.Group("/api")
	forms := middleware.RateLimit(10, time.Minute)

	api.Post("/auth/login", "auth.login", ctx.Wrap(authC.Login), middleware.RateLimit(5, time.Minute))
	api.Get("/auth/me", "auth.me", ctx.Wrap(authC.Me), middleware.Auth)

	api.Get("/products", "products.catalog", ctx.Wrap(productC.Catalog))
	api.Get("/products/{id}", "products.show", ctx.Wrap(productC.Show))
	api.Get("/careers", "careers.index", ctx.Wrap(jobC.Careers))
	api.Get("/seo", "seo.show", ctx.Wrap(seoC.Show))
	api.Get("/content/{page}", "content.page", ctx.Wrap(contentC.Page))

	api.Post("/leads", "leads.contact", ctx.Wrap(leadC.Contact), forms)
	api.Post("/applications/job", "applications.job", ctx.Wrap(leadC.JobApplication), forms)
	api.Post("/applications/partner", "applications.partner", ctx.Wrap(leadC.PartnerApplication), forms)

	fn := api.Group("/functions")
	fn.Get("/sync-products", "functions.sync-products.get", ctx.Wrap(fnC.SyncProducts), middleware.Auth)
	fn.Post("/sync-products", "functions.sync-products.post", ctx.Wrap(fnC.SyncProducts), middleware.Auth)
	fn.Post("/gmc-sync", "functions.gmc-sync", ctx.Wrap(fnC.GMCSync), middleware.Auth)
	fn.Post("/send-application-email", "functions.send-application-email", ctx.Wrap(fnC.SendApplicationEmail), forms)

	admin := api.Group("/admin", middleware.Auth, rbac.HasRole(rbac.RoleAdmin, rbac.RoleEditor))
	adminOnly := rbac.HasRole(rbac.RoleAdmin)

	admin.Get("/products", "admin.products.index", ctx.Wrap(productC.Index))
	admin.Post("/products", "admin.products.store", ctx.Wrap(productC.Store))
	admin.Get("/products/{id}", "admin.products.show", ctx.Wrap(productC.Get))
	admin.Put("/products/{id}", "admin.products.update", ctx.Wrap(productC.Update))
	admin.Delete("/products/{id}", "admin.products.destroy", ctx.Wrap(productC.Destroy), adminOnly)

	admin.Get("/leads", "admin.leads.index", ctx.Wrap(leadC.Index))
	admin.Get("/leads/stats", "admin.leads.stats", ctx.Wrap(leadC.Stats))
	admin.Get("/leads/{id}", "admin.leads.show", ctx.Wrap(leadC.Show))
	admin.Patch("/leads/{id}/status", "admin.leads.status", ctx.Wrap(leadC.UpdateStatus))
	admin.Delete("/leads/{id}", "admin.leads.destroy", ctx.Wrap(leadC.Destroy), adminOnly)

	admin.Get("/jobs", "admin.jobs.index", ctx.Wrap(jobC.Index))
	admin.Post("/jobs", "admin.jobs.store", ctx.Wrap(jobC.Store))
	admin.Get("/jobs/{id}", "admin.jobs.show", ctx.Wrap(jobC.Show))
	admin.Put("/jobs/{id}", "admin.jobs.update", ctx.Wrap(jobC.Update))
	admin.Delete("/jobs/{id}", "admin.jobs.destroy", ctx.Wrap(jobC.Destroy), adminOnly)

	admin.Get("/seo", "admin.seo.index", ctx.Wrap(seoC.Index))
	admin.Put("/seo", "admin.seo.upsert", ctx.Wrap(seoC.Upsert))
	admin.Delete("/seo/{id}", "admin.seo.destroy", ctx.Wrap(seoC.Destroy), adminOnly)
	admin.Post("/site/publish", "admin.site.publish", ctx.Wrap(siteC.Publish))

	admin.Get("/content", "admin.content.index", ctx.Wrap(contentC.Index))
	admin.Post("/content", "admin.content.store", ctx.Wrap(contentC.Store))
	admin.Get("/content/{id}", "admin.content.show", ctx.Wrap(contentC.Show))
	admin.Put("/content/{id}", "admin.content.update", ctx.Wrap(contentC.Update))
	admin.Delete("/content/{id}", "admin.content.destroy", ctx.Wrap(contentC.Destroy), adminOnly)

	admin.Get("/merchant", "admin.merchant.show", ctx.Wrap(merchantC.Show))
	admin.Put("/merchant", "admin.merchant.save", ctx.Wrap(merchantC.Save), adminOnly)
	admin.Get("/merchant/feed.xml", "admin.merchant.feed", ctx.Wrap(merchantC.Download))
	admin.Post("/merchant/feed/publish", "admin.merchant.publish", ctx.Wrap(merchantC.Publish))
	admin.Post("/merchant/sync", "admin.merchant.sync", ctx.Wrap(merchantC.Sync))

	admin.Get("/mirror", "admin.mirror.index", ctx.Wrap(mirrorC.Index))
	admin.Post("/mirror/sync-all", "admin.mirror.sync-all", ctx.Wrap(mirrorC.SyncAll), adminOnly)
	admin.Get("/mirror/sync-all/stream", "admin.mirror.sync-all.stream", ctx.Wrap(mirrorC.SyncAllStream), adminOnly)

	return nil
}
