package controllers

import (
	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/pkg/ctx"
)

type JobController struct {
	jobs *services.JobService
}

func NewJobController(jobs *services.JobService) *JobController {
	return &JobController{jobs: jobs}
}

// Careers lists the active openings shown on the public site.
func (jc *JobController) Careers(c *ctx.Context) {
	list, err := jc.jobs.Careers(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (jc *JobController) Index(c *ctx.Context) {
	list, err := jc.jobs.List(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (jc *JobController) Show(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	j, err := jc.jobs.Find(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(j)
}

func (jc *JobController) Store(c *ctx.Context) {
	var in services.JobOpeningInput
	if !c.BindJSON(&in) {
		return
	}
	j, err := jc.jobs.Create(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(j)
}

func (jc *JobController) Update(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in services.JobOpeningInput
	if !c.BindJSON(&in) {
		return
	}
	j, err := jc.jobs.Update(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(j)
}

func (jc *JobController) Destroy(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := jc.jobs.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
