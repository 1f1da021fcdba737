package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/app/repositories"
	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/pkg/collection"
	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/sitemap"
	"github.com/sudeviagro/backoffice/pkg/storage"
)

// Paths of the crawler files on the storage disk.
const (
	SitemapPath = "sitemap.xml"
	RobotsPath  = "robots.txt"
)

// SiteService renders robots.txt and sitemap.xml for the storefront.
type SiteService struct {
	seo  *repositories.SEORepository
	disk func() (storage.Disk, error)
	now  func() time.Time
}

func NewSiteService() *SiteService {
	return &SiteService{
		seo:  repositories.NewSEORepository(),
		disk: storage.Default,
		now:  time.Now,
	}
}

// UseDisk overrides the disk the files are published to.
func (s *SiteService) UseDisk(d storage.Disk) {
	s.disk = func() (storage.Disk, error) { return d, nil }
}

// Sitemap lists the fixed storefront pages followed by every active SEO
// path that allows indexing.
func (s *SiteService) Sitemap(ctx context.Context) ([]byte, error) {
	rows, err := s.seo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("services: sitemap: %w", err)
	}
	indexed := collection.Filter(rows, func(r models.SEOSetting) bool {
		return r.IsActive && !strings.Contains(strings.ToLower(r.Robots), "noindex")
	})
	paths := append(append([]string{}, sitemap.DefaultPages...), collection.Map(indexed, func(r models.SEOSetting) string {
		return r.PagePath
	})...)
	return sitemap.Build(sitemap.Pages(config.SiteURL(), paths, s.now()))
}

func (s *SiteService) Robots() []byte {
	return sitemap.Robots(config.SiteURL(), "/admin")
}

// Publish writes both files to the storage disk and returns their URLs.
func (s *SiteService) Publish(ctx context.Context) ([]string, error) {
	disk, err := s.disk()
	if err != nil {
		return nil, fmt.Errorf("services: publish site files: %w", err)
	}
	xmlDoc, err := s.Sitemap(ctx)
	if err != nil {
		return nil, err
	}
	if err := disk.Put(ctx, SitemapPath, xmlDoc, "application/xml"); err != nil {
		return nil, fmt.Errorf("services: publish sitemap: %w", err)
	}
	if err := disk.Put(ctx, RobotsPath, s.Robots(), "text/plain"); err != nil {
		return nil, fmt.Errorf("services: publish robots: %w", err)
	}

	urls := []string{disk.URL(SitemapPath), disk.URL(RobotsPath)}
	logger.WithCtx(ctx).Info("site files published", "disk", disk.Name(), "urls", urls)
	return urls, nil
}
