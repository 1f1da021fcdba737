package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudeviagro/backoffice/app/jobs"
	"github.com/sudeviagro/backoffice/app/models"
	"github.com/sudeviagro/backoffice/app/repositories"
	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/internal/testdb"
	"github.com/sudeviagro/backoffice/pkg/event"
	"github.com/sudeviagro/backoffice/pkg/queue"
)

func ptr[T any](v T) *T { return &v }

func mangoPickle() services.ProductInput {
	return services.ProductInput{
		Name:        "Mango Pickle",
		Description: "Raw mango in mustard oil",
		Category:    models.CategoryPickles,
		Price:       ptr(149.0),
		Features:    []string{" No preservatives ", ""},
	}
}

type recorder struct {
	jobs []queue.Job
	err  error
}

func (r *recorder) Dispatch(_ context.Context, j queue.Job) error {
	r.jobs = append(r.jobs, j)
	return r.err
}

func TestAuthLogin(t *testing.T) {
	testdb.Setup(t)
	ctx := context.Background()
	svc := services.NewAuthService()

	user, err := svc.CreateUser(ctx, "Admin", " Admin@SudeviFoods.com ", "correct-horse", "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin@sudevifoods.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.Password)

	res, err := svc.Login(ctx, "admin@sudevifoods.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, user.ID, res.User.ID)

	_, err = svc.Login(ctx, "admin@sudevifoods.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@sudevifoods.com", "correct-horse")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	me, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Admin", me.Name)
}

func TestCreateUserRejectsBadInput(t *testing.T) {
	testdb.Setup(t)
	svc := services.NewAuthService()

	_, err := svc.CreateUser(context.Background(), "X", "x@example.com", "long-enough", "owner")
	assert.ErrorIs(t, err, services.ErrInvalidRole)
	_, err = svc.CreateUser(context.Background(), "X", "x@example.com", "short", "editor")
	assert.ErrorIs(t, err, services.ErrWeakPassword)
}

func TestProductCreateFiresSaved(t *testing.T) {
	testdb.Setup(t)
	ctx := context.Background()
	d := event.NewDispatcher()
	var saved []models.Product
	d.Listen(event.ProductSaved, func(_ context.Context, payload any) error {
		saved = append(saved, payload.(models.Product))
		return nil
	})
	svc := services.NewProductService(d)

	p, err := svc.Create(ctx, mangoPickle())
	require.NoError(t, err)
	assert.Len(t, p.ID, 36)
	assert.True(t, p.IsActive)
	assert.Equal(t, []string{"No preservatives"}, p.Features)
	require.Len(t, saved, 1)
	assert.Equal(t, p.ID, saved[0].ID)

	in := mangoPickle()
	in.IsActive = ptr(false)
	_, err = svc.Update(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Len(t, saved, 2)

	catalog, err := svc.Catalog(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, catalog)
	_, err = svc.FindActive(ctx, p.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestProductDeleteFiresDeleted(t *testing.T) {
	testdb.Setup(t)
	ctx := context.Background()
	d := event.NewDispatcher()
	var deleted string
	d.Listen(event.ProductDeleted, func(_ context.Context, payload any) error {
		deleted = payload.(string)
		return nil
	})
	svc := services.NewProductService(d)

	p, err := svc.Create(ctx, mangoPickle())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.Equal(t, p.ID, deleted)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID), repositories.ErrNotFound)
}

func TestProductValidation(t *testing.T) {
	testdb.Setup(t)
	svc := services.NewProductService(event.NewDispatcher())

	in := mangoPickle()
	in.Category = "chutney"
	in.Price = ptr(-1.0)
	_, err := svc.Create(context.Background(), in)

	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "category")
	assert.Contains(t, verr.Fields, "price")
}

func TestCatalogFiltersByCategory(t *testing.T) {
	testdb.Setup(t)
	ctx := context.Background()
	svc := services.NewProductService(event.NewDispatcher())

	_, err := svc.Create(ctx, mangoPickle())
	require.NoError(t, err)
	spice := mangoPickle()
	spice.Name = "Garam Masala"
	spice.Category = models.CategorySpices
	_, err = svc.Create(ctx, spice)
	require.NoError(t, err)

	spices, err := svc.Catalog(ctx, models.CategorySpices)
	require.NoError(t, err)
	require.Len(t, spices, 1)
	assert.Equal(t, "Garam Masala", spices[0].Name)

	all, err := svc.Catalog(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLeadSubmissionQueuesNotification(t *testing.T) {
	testdb.Setup(t)
	ctx := context.Background()
	rec := &recorder{}
	svc := services.NewLeadService(rec, event.NewDispatcher())

	lead, err := svc.SubmitContact(ctx, services.ContactInput{
		Name:    "Asha",
		Email:   "asha@example.com",
		Subject: "Bulk order",
		Message: "100 jars of mango pickle",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LeadNew, lead.Status)
	assert.Equal(t, models.LeadContact, lead.Type)

	require.Len(t, rec.jobs, 1)
	job, ok := rec.jobs[0].(*jobs.SendLeadNotification)
	require.True(t, ok)
	assert.Equal(t, lead.ID, job.LeadID)
}

func TestLeadKeptWhenQueueFails(t *testing.T) {
	testdb.Setup(t)
	ctx := context.Background()
	svc := services.NewLeadService(&recorder{err: queue.ErrQueueFull}, event.NewDispatcher())

	lead, err := svc.SubmitPartnerApplication(ctx, services.PartnerApplicationInput{
		Company:       "Spice Traders",
		ContactPerson: "Ravi",
		Email:         "ravi@example.com",
		Phone:         "+91 98765 43210",
		PartnerType:   "distributor",
	})
	require.NoError(t, err)

	stored, err := svc.Find(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spice Traders", stored.Company)
	assert.Equal(t, "Ravi", stored.Name)
	assert.Equal(t, models.LeadPartner, stored.Type)
}

func TestLeadRequiredFields(t *testing.T) {
	testdb.Setup(t)
	svc := services.NewLeadService(&recorder{}, event.NewDispatcher())

	_, err := svc.SubmitJobApplication(context.Background(), services.JobApplicationInput{
		Name:  "Kiran",
		Email: "kiran@example.com",
	})
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "phone")

	_, err = svc.SubmitContact(context.Background(), services.ContactInput{Name: "A", Email: "a@example.com"})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "message")
}

func TestLeadStatusLifecycle(t *testing.T) {
	testdb.Setup(t)
	ctx := context.Background()
	svc := services.NewLeadService(&recorder{}, event.NewDispatcher())

	lead, err := svc.SubmitJobApplication(ctx, services.JobApplicationInput{
		Name:       "Kiran",
		Email:      "kiran@example.com",
		Phone:      "9876543210",
		Position:   "Sales Officer",
		Experience: "4",
	})
	require.NoError(t, err)
	assert.Equal(t, "Job Application: Sales Officer", lead.Subject)

	updated, err := svc.UpdateStatus(ctx, lead.ID, models.LeadQualified)
	require.NoError(t, err)
	assert.Equal(t, models.LeadQualified, updated.Status)

	_, err = svc.UpdateStatus(ctx, lead.ID, "archived")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
	_, err = svc.UpdateStatus(ctx, 999, models.LeadClosed)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.LeadQualified])
	assert.Equal(t, int64(0), counts[models.LeadNew])

	items, page, err := svc.Paginate(ctx, repositories.LeadFilter{Type: models.LeadJob}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, svc.Delete(ctx, lead.ID))
	_, err = svc.Find(ctx, lead.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestSEOUpsertByPath(t *testing.T) {
	testdb.Setup(t)
	ctx := context.Background()
	svc := services.NewSEOService()

	first, err := svc.Upsert(ctx, services.SEOInput{PagePath: "about/", Title: "About"})
	require.NoError(t, err)
	assert.Equal(t, "/about", first.PagePath)
	assert.Equal(t, models.DefaultRobots, first.Robots)
	assert.True(t, first.IsActive)

	second, err := svc.Upsert(ctx, services.SEOInput{PagePath: "/about", Title: "About Us", Robots: "noindex"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "About Us", rows[0].Title)

	got, err := svc.ForPath(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, "noindex", got.Robots)

	_, err = svc.Upsert(ctx, services.SEOInput{PagePath: "/contact", IsActive: ptr(false)})
	require.NoError(t, err)
	_, err = svc.ForPath(ctx, "/contact")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/", services.NormalizePath(""))
	assert.Equal(t, "/", services.NormalizePath("/"))
	assert.Equal(t, "/about", services.NormalizePath("about"))
	assert.Equal(t, "/products/pickles", services.NormalizePath("/products/pickles/"))
}

func TestJobOpenings(t *testing.T) {
	testdb.Setup(t)
	ctx := context.Background()
	svc := services.NewJobService()

	open, err := svc.Create(ctx, services.JobOpeningInput{
		Title:        "Sales Officer",
		Department:   "Sales",
		Requirements: []string{"2+ years FMCG", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, "full-time", open.Type)
	assert.Equal(t, []string{"2+ years FMCG"}, open.Requirements)

	_, err = svc.Create(ctx, services.JobOpeningInput{Title: "Archived role", IsActive: ptr(false)})
	require.NoError(t, err)

	careers, err := svc.Careers(ctx)
	require.NoError(t, err)
	require.Len(t, careers, 1)
	assert.Equal(t, "Sales Officer", careers[0].Title)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Create(ctx, services.JobOpeningInput{Title: "Intern", Type: "seasonal"})
	var verr *services.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestPageContent(t *testing.T) {
	testdb.Setup(t)
	ctx := context.Background()
	svc := services.NewContentService()

	block, err := svc.Create(ctx, services.PageContentInput{
		PageName:    "about",
		SectionName: "hero",
		ContentType: "text",
		Content:     map[string]any{"heading": "Rooted in tradition"},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, block.ID, services.PageContentInput{
		PageName:    "about",
		SectionName: "hero",
		ContentType: "text",
		Content:     map[string]any{"heading": "Since 1998"},
		IsActive:    ptr(false),
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	page, err := svc.Page(ctx, "about")
	require.NoError(t, err)
	assert.Empty(t, page)

	all, err := svc.List(ctx, "about")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Since 1998", all[0].Content["heading"])
}
