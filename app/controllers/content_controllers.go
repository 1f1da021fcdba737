package controllers

import (
	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/pkg/ctx"
)

type ContentController struct {
	content *services.ContentService
}

func NewContentController(content *services.ContentService) *ContentController {
	return &ContentController{content: content}
}

// Page returns the active sections of one page.
func (cc *ContentController) Page(c *ctx.Context) {
	list, err := cc.content.Page(c.Context(), c.Param("page"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (cc *ContentController) Index(c *ctx.Context) {
	list, err := cc.content.List(c.Context(), c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (cc *ContentController) Show(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	pc, err := cc.content.Find(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(pc)
}

func (cc *ContentController) Store(c *ctx.Context) {
	var in services.PageContentInput
	if !c.BindJSON(&in) {
		return
	}
	pc, err := cc.content.Create(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(pc)
}

func (cc *ContentController) Update(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in services.PageContentInput
	if !c.BindJSON(&in) {
		return
	}
	pc, err := cc.content.Update(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(pc)
}

func (cc *ContentController) Destroy(c *ctx.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := cc.content.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
