package controllers

import (
	"errors"

	"github.com/sudeviagro/backoffice/app/repositories"
	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/pkg/ctx"
)

type LeadController struct {
	leads *services.LeadService
}

func NewLeadController(leads *services.LeadService) *LeadController {
	return &LeadController{leads: leads}
}

func (lc *LeadController) Contact(c *ctx.Context) {
	var in services.ContactInput
	if !c.BindJSON(&in) {
		return
	}
	lead, err := lc.leads.SubmitContact(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(lead)
}

func (lc *LeadController) JobApplication(c *ctx.Context) {
	var in services.JobApplicationInput
	if !c.BindJSON(&in) {
		return
	}
	lead, err := lc.leads.SubmitJobApplication(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(lead)
}

func (lc *LeadController) PartnerApplication(c *ctx.Context) {
	var in services.PartnerApplicationInput
	if !c.BindJSON(&in) {
		return
	}
	lead, err := lc.leads.SubmitPartnerApplication(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(lead)
}

// Index lists leads filtered by ?type= and ?status=.
func (lc *LeadController) Index(c *ctx.Context) {
	f := repositories.LeadFilter{Type: c.Query("type"), Status: c.Query("status")}
	items, page, err := lc.leads.Paginate(c.Context(), f, c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(items, page)
}

func (lc *LeadController) Stats(c *ctx.Context) {
	counts, err := lc.leads.Counts(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(counts)
}

func (lc *LeadController) Show(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	lead, err := lc.leads.Find(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(lead)
}

type leadStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (lc *LeadController) UpdateStatus(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body leadStatusRequest
	if !c.BindJSON(&body) {
		return
	}
	lead, err := lc.leads.UpdateStatus(c.Context(), id, body.Status)
	if errors.Is(err, services.ErrInvalidStatus) {
		c.ValidationError(map[string]string{"status": "status must be one of new, contacted, qualified, closed"})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(lead)
}

func (lc *LeadController) Destroy(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := lc.leads.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
