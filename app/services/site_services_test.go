package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/internal/testdb"
	"github.com/sudeviagro/backoffice/pkg/storage"
)

func TestSitemapListsIndexableSEOPaths(t *testing.T) {
	testdb.Setup(t)
	ctx := context.Background()
	seo := services.NewSEOService()

	_, err := seo.Upsert(ctx, services.SEOInput{PagePath: "/products/pickles", Title: "Pickles"})
	require.NoError(t, err)
	_, err = seo.Upsert(ctx, services.SEOInput{PagePath: "/thank-you", Robots: "noindex, nofollow"})
	require.NoError(t, err)
	_, err = seo.Upsert(ctx, services.SEOInput{PagePath: "/old-offers", IsActive: ptr(false)})
	require.NoError(t, err)
	_, err = seo.Upsert(ctx, services.SEOInput{PagePath: "/about", Title: "About"})
	require.NoError(t, err)

	out, err := services.NewSiteService().Sitemap(ctx)
	require.NoError(t, err)

	doc := string(out)
	site := config.SiteURL()
	assert.Contains(t, doc, "<loc>"+site+"/</loc>")
	assert.Contains(t, doc, "<loc>"+site+"/products/pickles</loc>")
	assert.NotContains(t, doc, "/thank-you")
	assert.NotContains(t, doc, "/old-offers")
	assert.Equal(t, 1, strings.Count(doc, "<loc>"+site+"/about</loc>"))
}

func TestSitePublish(t *testing.T) {
	testdb.Setup(t)
	ctx := context.Background()
	disk := storage.NewLocal(t.TempDir(), "http://cdn.test/storage")
	svc := services.NewSiteService()
	svc.UseDisk(disk)

	urls, err := svc.Publish(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://cdn.test/storage/sitemap.xml", "http://cdn.test/storage/robots.txt"}, urls)

	robots, err := disk.Get(ctx, services.RobotsPath)
	require.NoError(t, err)
	assert.Contains(t, string(robots), "Sitemap: "+config.SiteURL()+"/sitemap.xml")
	assert.Contains(t, string(robots), "Disallow: /admin")
}
