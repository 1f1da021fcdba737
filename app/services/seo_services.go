package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/app/repositories"
)

type SEOInput struct {
	PagePath      string `json:"page_path" validate:"required,max=255"`
	Title         string `json:"title" validate:"max=255"`
	Description   string `json:"description" validate:"max=1000"`
	Keywords      string `json:"keywords" validate:"max=1000"`
	OGTitle       string `json:"og_title" validate:"max=255"`
	OGDescription string `json:"og_description" validate:"max=1000"`
	OGImage       string `json:"og_image" validate:"nullable,url"`
	CanonicalURL  string `json:"canonical_url" validate:"nullable,url"`
	Robots        string `json:"robots" validate:"max=100"`
	IsActive      *bool  `json:"is_active"`
}

type SEOService struct {
	seo *repositories.SEORepository
}

func NewSEOService() *SEOService {
	return &SEOService{seo: repositories.NewSEORepository()}
}

func (s *SEOService) List(ctx context.Context) ([]models.SEOSetting, error) {
	return s.seo.List(ctx)
}

// ForPath returns the active settings of a public page path.
func (s *SEOService) ForPath(ctx context.Context, path string) (models.SEOSetting, error) {
	return s.seo.FindByPath(ctx, NormalizePath(path), true)
}

// Upsert saves the settings of one page path, creating the row if needed.
func (s *SEOService) Upsert(ctx context.Context, in SEOInput) (models.SEOSetting, error) {
	if err := check(in); err != nil {
		return models.SEOSetting{}, err
	}
	row := models.SEOSetting{
		PagePath:      NormalizePath(in.PagePath),
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Keywords:      in.Keywords,
		OGTitle:       in.OGTitle,
		OGDescription: in.OGDescription,
		OGImage:       in.OGImage,
		CanonicalURL:  in.CanonicalURL,
		Robots:        firstNonEmpty(in.Robots, models.DefaultRobots),
		IsActive:      boolOr(in.IsActive, true),
	}
	if err := s.seo.Upsert(ctx, &row); err != nil {
		return models.SEOSetting{}, fmt.Errorf("services: upsert seo: %w", err)
	}
	return row, nil
}

func (s *SEOService) Delete(ctx context.Context, id uint) error {
	return s.seo.Delete(ctx, id)
}

// NormalizePath makes "about", "/about/" and "/about" the same key.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return "/"
	}
	return "/" + strings.Trim(p, "/")
}
