package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/app/repositories"
)

type PageContentInput struct {
	PageName    string         `json:"page_name" validate:"required,slug,max=100"`
	SectionName string         `json:"section_name" validate:"required,max=100"`
	ContentType string         `json:"content_type" validate:"required,in=text,html,json,image,list"`
	Content     map[string]any `json:"content" validate:"required"`
	IsActive    *bool          `json:"is_active"`
}

type ContentService struct {
	content *repositories.ContentRepository
}

func NewContentService() *ContentService {
	return &ContentService{content: repositories.NewContentRepository()}
}

// Page returns the active blocks of one public page.
func (s *ContentService) Page(ctx context.Context, page string) ([]models.PageContent, error) {
	return s.content.List(ctx, page, true)
}

// List returns every block, optionally narrowed to one page.
func (s *ContentService) List(ctx context.Context, page string) ([]models.PageContent, error) {
	return s.content.List(ctx, page, false)
}

func (s *ContentService) Find(ctx context.Context, id uint) (models.PageContent, error) {
	return s.content.Find(ctx, id)
}

func (s *ContentService) Create(ctx context.Context, in PageContentInput) (models.PageContent, error) {
	if err := check(in); err != nil {
		return models.PageContent{}, err
	}
	c := models.PageContent{IsActive: true}
	in.apply(&c)
	if err := s.content.Create(ctx, &c); err != nil {
		return models.PageContent{}, fmt.Errorf("services: create content: %w", err)
	}
	return c, nil
}

func (s *ContentService) Update(ctx context.Context, id uint, in PageContentInput) (models.PageContent, error) {
	if err := check(in); err != nil {
		return models.PageContent{}, err
	}
	c, err := s.content.Find(ctx, id)
	if err != nil {
		return models.PageContent{}, err
	}
	in.apply(&c)
	if err := s.content.Update(ctx, &c); err != nil {
		return models.PageContent{}, fmt.Errorf("services: update content: %w", err)
	}
	return c, nil
}

func (s *ContentService) Delete(ctx context.Context, id uint) error {
	return s.content.Delete(ctx, id)
}

func (in PageContentInput) apply(c *models.PageContent) {
	c.PageName = strings.TrimSpace(in.PageName)
	c.SectionName = strings.TrimSpace(in.SectionName)
	c.ContentType = in.ContentType
	c.Content = in.Content
	c.IsActive = boolOr(in.IsActive, c.IsActive)
}
