package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canchaya/canchas-api/internal/middleware"
	"github.com/canchaya/canchas-api/internal/model"
	"github.com/canchaya/canchas-api/internal/service"
)

// AuthHandler serves registration, login and the caller's profile.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterAthlete creates an athlete account and returns a session.
func (h *AuthHandler) RegisterAthlete(c echo.Context) error {
	var req model.RegisterAthlete
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	sess, err := h.Auth.RegisterAthlete(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, sess)
}

// RegisterClub creates a club account and returns a session.
func (h *AuthHandler) RegisterClub(c echo.Context) error {
	var req model.RegisterClub
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	sess, err := h.Auth.RegisterClub(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, sess)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	sess, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sess)
}

// Me returns the authenticated user with its club or athlete profile.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	p, err := h.Auth.Me(ctx, middleware.ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
