package controllers

import (
	"errors"

	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/pkg/ctx"
	"github.com/sudeviagro/backoffice/pkg/middleware"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (ac *AuthController) Login(c *ctx.Context) {
	var body loginRequest
	if !c.BindJSON(&body) {
		return
	}

	res, err := ac.service.Login(c.Context(), body.Email, body.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.Unauthorized("Invalid email or password")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(res)
}

func (ac *AuthController) Me(c *ctx.Context) {
	id, ok := middleware.UserIDFromCtx(c.R)
	if !ok {
		c.Unauthorized()
		return
	}
	user, err := ac.service.Me(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(user)
}
