package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/utils"
)

// SuperadminHandler manages accounts and sellers.  Event and order
// management for superadmins live on EventHandler and OrderHandler.
type SuperadminHandler struct {
	Users      UserDirectory
	Admins     AdminDirectory
	Sellers    SellerStore
	BcryptCost int
}

func NewSuperadminHandler(users UserDirectory, admins AdminDirectory, sellers SellerStore, bcryptCost int) *SuperadminHandler {
	return &SuperadminHandler{Users: users, Admins: admins, Sellers: sellers, BcryptCost: bcryptCost}
}

type createAdminReq struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	EventIDs []uint64 `json:"eventIds"`
}

type createSellerReq struct {
	EventID         uint64 `json:"eventId"`
	StripeAccountID string `json:"stripeAccountId"`
}

func (h *SuperadminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteUser removes a user account; its orders stay, detached.
func (h *SuperadminHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

func (h *SuperadminHandler) ListAdmins(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	admins, err := h.Admins.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, admins)
}

// CreateAdmin creates an admin assigned to the given events.
func (h *SuperadminHandler) CreateAdmin(c echo.Context) error {
	var req createAdminReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" || req.EventIDs == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "all fields are required")
	}
	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	id, err := h.Admins.Create(ctx, req.Username, hash, req.EventIDs)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"adminId": id})
}

func (h *SuperadminHandler) DeleteAdmin(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Admins.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "admin deleted"})
}

func (h *SuperadminHandler) ListSellers(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	sellers, err := h.Sellers.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sellers)
}

// CreateSeller binds an event to the connected account paid for it.
func (h *SuperadminHandler) CreateSeller(c echo.Context) error {
	var req createSellerReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.EventID == 0 || strings.TrimSpace(req.StripeAccountID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "all fields are required")
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	s, err := h.Sellers.Create(ctx, req.EventID, req.StripeAccountID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *SuperadminHandler) DeleteSeller(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Sellers.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "seller deleted"})
}
