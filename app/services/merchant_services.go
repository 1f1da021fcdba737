package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/app/repositories"
	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/pkg/collection"
	"github.com/sudeviagro/backoffice/pkg/crypt"
	"github.com/sudeviagro/backoffice/pkg/feed"
	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/schedule"
	"github.com/sudeviagro/backoffice/pkg/storage"
)

// FeedPath is where the published feed lives on the storage disk.
const FeedPath = "feeds/google-merchant-feed.xml"

// AutoSyncTask names the cron entry that pushes products.
const AutoSyncTask = "merchant:auto-sync"

// MerchantInput is the admin settings form. A nil APIToken keeps the stored
// token and an empty one clears it.
type MerchantInput struct {
	MerchantID    string  `json:"merchant_id" validate:"max=64"`
	FeedURL       string  `json:"feed_url" validate:"nullable,url"`
	FeedFormat    string  `json:"feed_format" validate:"nullable,in=xml"`
	Currency      string  `json:"currency" validate:"nullable,min=3,max=3"`
	Country       string  `json:"country" validate:"nullable,min=2,max=2"`
	Language      string  `json:"language" validate:"max=5"`
	Brand         string  `json:"brand" validate:"max=255"`
	AutoSync      *bool   `json:"auto_sync"`
	SyncFrequency string  `json:"sync_frequency" validate:"nullable,in=hourly,daily,weekly"`
	IsActive      *bool   `json:"is_active"`
	APIEndpoint   string  `json:"api_endpoint" validate:"nullable,url"`
	APIToken      *string `json:"api_token"`
}

// MerchantView is the settings row as shown to admins. The token itself
// never leaves the service.
type MerchantView struct {
	models.MerchantSetting
	HasAPIToken  bool   `json:"has_api_token"`
	APITokenHint string `json:"api_token_hint,omitempty"`
}

type MerchantService struct {
	settings  *repositories.MerchantRepository
	products  *ProductService
	scheduler *schedule.Scheduler
	disk      func() (storage.Disk, error)
	now       func() time.Time
}

// NewMerchantService wires the feed to the catalog. scheduler may be nil
// when auto-sync is not wanted, e.g. in one-shot CLI commands.
func NewMerchantService(products *ProductService, scheduler *schedule.Scheduler) *MerchantService {
	return &MerchantService{
		settings:  repositories.NewMerchantRepository(),
		products:  products,
		scheduler: scheduler,
		disk:      storage.Default,
		now:       time.Now,
	}
}

// UseDisk overrides the disk the feed is published to.
func (s *MerchantService) UseDisk(d storage.Disk) {
	s.disk = func() (storage.Disk, error) { return d, nil }
}

func defaultMerchantSetting() models.MerchantSetting {
	return models.MerchantSetting{
		FeedFormat:    "xml",
		Currency:      feed.DefaultCurrency,
		Country:       feed.DefaultCountry,
		Language:      feed.DefaultLanguage,
		Brand:         feed.DefaultBrand,
		SyncFrequency: "daily",
		IsActive:      true,
	}
}

// Settings returns the stored row, or unsaved defaults when there is none.
func (s *MerchantService) Settings(ctx context.Context) (models.MerchantSetting, error) {
	m, err := s.settings.Get(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		return defaultMerchantSetting(), nil
	}
	if err != nil {
		return models.MerchantSetting{}, fmt.Errorf("services: merchant settings: %w", err)
	}
	return m, nil
}

func (s *MerchantService) View(ctx context.Context) (MerchantView, error) {
	m, err := s.Settings(ctx)
	if err != nil {
		return MerchantView{}, err
	}
	v := MerchantView{MerchantSetting: m, HasAPIToken: m.APITokenEnc != ""}
	if v.HasAPIToken {
		if plain, err := crypt.Open(m.APITokenEnc); err == nil {
			v.APITokenHint = crypt.Mask(plain)
		}
	}
	return v, nil
}

// Save updates the singleton row and re-arms the auto-sync schedule.
func (s *MerchantService) Save(ctx context.Context, in MerchantInput) (MerchantView, error) {
	if err := check(in); err != nil {
		return MerchantView{}, err
	}
	m, err := s.Settings(ctx)
	if err != nil {
		return MerchantView{}, err
	}

	m.MerchantID = strings.TrimSpace(in.MerchantID)
	m.FeedURL = in.FeedURL
	m.FeedFormat = firstNonEmpty(in.FeedFormat, "xml")
	m.Currency = strings.ToUpper(firstNonEmpty(in.Currency, feed.DefaultCurrency))
	m.Country = strings.ToUpper(firstNonEmpty(in.Country, feed.DefaultCountry))
	m.Language = firstNonEmpty(in.Language, feed.DefaultLanguage)
	m.Brand = firstNonEmpty(in.Brand, feed.DefaultBrand)
	m.AutoSync = boolOr(in.AutoSync, m.AutoSync)
	m.SyncFrequency = firstNonEmpty(in.SyncFrequency, m.SyncFrequency, "daily")
	m.IsActive = boolOr(in.IsActive, m.IsActive)
	m.APIEndpoint = in.APIEndpoint
	if in.APIToken != nil {
		enc, err := crypt.Seal(strings.TrimSpace(*in.APIToken))
		if err != nil {
			return MerchantView{}, fmt.Errorf("services: seal merchant token: %w", err)
		}
		m.APITokenEnc = enc
	}

	if err := s.settings.Save(ctx, &m); err != nil {
		return MerchantView{}, fmt.Errorf("services: save merchant settings: %w", err)
	}
	if err := s.Reschedule(ctx); err != nil {
		logger.WithCtx(ctx).Warn("merchant auto-sync not scheduled", "error", err)
	}
	return s.View(ctx)
}

// FeedXML renders the feed for every active product.
func (s *MerchantService) FeedXML(ctx context.Context) ([]byte, error) {
	m, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.feedProducts(ctx)
	if err != nil {
		return nil, err
	}
	site := config.SiteURL()
	return feed.Build(feed.DefaultChannel(site), feed.Items(m.FeedSettings(site), products))
}

// Publish writes the feed to the storage disk and records its URL.
func (s *MerchantService) Publish(ctx context.Context) (string, error) {
	data, err := s.FeedXML(ctx)
	if err != nil {
		return "", err
	}
	disk, err := s.disk()
	if err != nil {
		return "", fmt.Errorf("services: publish feed: %w", err)
	}
	if err := disk.Put(ctx, FeedPath, data, "application/xml"); err != nil {
		return "", fmt.Errorf("services: publish feed: %w", err)
	}

	url := disk.URL(FeedPath)
	m, err := s.Settings(ctx)
	if err != nil {
		return "", err
	}
	m.FeedURL = url
	if err := s.settings.Save(ctx, &m); err != nil {
		return "", fmt.Errorf("services: publish feed: %w", err)
	}
	logger.WithCtx(ctx).Info("merchant feed published", "disk", disk.Name(), "url", url, "bytes", len(data))
	return url, nil
}

// PublishedFeed serves the last published feed, rendering a fresh one when
// nothing has been published yet.
func (s *MerchantService) PublishedFeed(ctx context.Context) ([]byte, error) {
	disk, err := s.disk()
	if err != nil {
		return nil, fmt.Errorf("services: read feed: %w", err)
	}
	data, err := disk.Get(ctx, FeedPath)
	if errors.Is(err, storage.ErrNotFound) {
		return s.FeedXML(ctx)
	}
	return data, err
}

// Sync pushes every active product with the stored settings.
func (s *MerchantService) Sync(ctx context.Context) (feed.Summary, error) {
	m, err := s.Settings(ctx)
	if err != nil {
		return feed.Summary{}, err
	}
	products, err := s.feedProducts(ctx)
	if err != nil {
		return feed.Summary{}, err
	}
	return s.push(ctx, m, m.FeedSettings(config.SiteURL()), products)
}

// Push sends caller-supplied products with caller-supplied settings, using
// the stored endpoint and token.
func (s *MerchantService) Push(ctx context.Context, fs feed.Settings, products []feed.Product) (feed.Summary, error) {
	m, err := s.Settings(ctx)
	if err != nil {
		return feed.Summary{}, err
	}
	fs.SiteURL = config.SiteURL()
	return s.push(ctx, m, fs, products)
}

func (s *MerchantService) push(ctx context.Context, m models.MerchantSetting, fs feed.Settings, products []feed.Product) (feed.Summary, error) {
	sum, err := s.pusher(ctx, m).Push(ctx, fs, products)
	if err != nil {
		return sum, err
	}
	if m.ID != 0 {
		if err := s.settings.TouchLastSync(ctx, m.ID, s.now()); err != nil {
			logger.WithCtx(ctx).Warn("merchant last_sync not recorded", "error", err)
		}
	}
	return sum, nil
}

// pusher simulates unless MERCHANT_MODE=live and a token is stored.
func (s *MerchantService) pusher(ctx context.Context, m models.MerchantSetting) *feed.Pusher {
	token := ""
	if m.APITokenEnc != "" {
		plain, err := crypt.Open(m.APITokenEnc)
		if err != nil {
			logger.WithCtx(ctx).Warn("merchant token unreadable, simulating", "error", err)
		}
		token = plain
	}
	return &feed.Pusher{
		Endpoint: firstNonEmpty(m.APIEndpoint, config.MerchantAPIURL()),
		Token:    token,
		Simulate: config.MerchantMode() != "live" || token == "",
		Timeout:  config.GetDuration("MERCHANT_TIMEOUT", 15*time.Second),
		Attempts: config.GetInt("MERCHANT_ATTEMPTS", 2),
	}
}

func (s *MerchantService) feedProducts(ctx context.Context) ([]feed.Product, error) {
	products, err := s.products.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("services: feed products: %w", err)
	}
	return collection.Map(products, models.Product.Feed), nil
}

// Reschedule adds, replaces or removes the auto-sync cron entry to match
// the stored settings.
func (s *MerchantService) Reschedule(ctx context.Context) error {
	if s.scheduler == nil {
		return nil
	}
	m, err := s.Settings(ctx)
	if err != nil {
		return err
	}
	if !m.AutoSync || !m.IsActive || m.MerchantID == "" {
		s.scheduler.Remove(AutoSyncTask)
		return nil
	}
	spec, err := schedule.FrequencySpec(m.SyncFrequency)
	if err != nil {
		return err
	}
	return s.scheduler.Replace(AutoSyncTask, spec, s.autoSync)
}

func (s *MerchantService) autoSync(ctx context.Context) error {
	sum, err := s.Sync(ctx)
	if err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("merchant auto-sync finished", "synced", sum.SyncedCount, "failed", sum.ErrorCount)
	return nil
}
