package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/service"
)

// AuthHandler serves registration and the three login endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register creates an end-user account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	id, err := h.Auth.Register(ctx, service.RegisterInput{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"userId": id})
}

// UserLogin, AdminLogin and SuperadminLogin share one contract against
// their own tables.
func (h *AuthHandler) UserLogin(c echo.Context) error       { return h.login(c, model.RoleUser) }
func (h *AuthHandler) AdminLogin(c echo.Context) error      { return h.login(c, model.RoleAdmin) }
func (h *AuthHandler) SuperadminLogin(c echo.Context) error { return h.login(c, model.RoleSuperadmin) }

func (h *AuthHandler) login(c echo.Context, role string) error {
	var req loginReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	tok, err := h.Auth.Login(ctx, role, req.Username, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tokenResp{Token: tok.Token, ExpiresAt: tok.Exp})
}
