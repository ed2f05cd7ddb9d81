package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "codearena/internal/errors"
	"codearena/internal/service"
)

// UserHandler bundles account administration endpoints.
type UserHandler struct {
	userService    service.UserService
	sessionService service.SessionService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(userService service.UserService, sessionService service.SessionService) *UserHandler {
	return &UserHandler{userService: userService, sessionService: sessionService}
}

// AddDomainRequest represents an allow-list addition.
type AddDomainRequest struct {
	Domain string `json:"domain" validate:"required,fqdn"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(c.Request().Context(), id)
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete user
// @Description Deletes the account; any active session token is revoked first.
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.userService.DeleteUser(c.Request().Context(), id); err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// ForceLogoutUser godoc
// @Summary Force logout a user
// @Description Blacklists the user's active session token and clears
// @Description session state. No-op when the user has no active session.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/force-logout [post]
func (h *UserHandler) ForceLogoutUser(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.sessionService.ForceLogoutByID(c.Request().Context(), id); err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "user logged out",
	})
}

// RegisterAdmin godoc
// @Summary Provision an admin account
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RegisterRequest true "Admin account data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/register [post]
func (h *UserHandler) RegisterAdmin(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.RegisterAdmin(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "admin registered successfully",
		"user":    user,
	})
}

// AddDomain godoc
// @Summary Add an allowed registration domain
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddDomainRequest true "Domain"
// @Success 201 {object} model.AllowedDomain
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/domains [post]
func (h *UserHandler) AddDomain(c echo.Context) error {
	var req AddDomainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	domain, err := h.userService.AddAllowedDomain(c.Request().Context(), req.Domain)
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, domain)
}

// ListDomains godoc
// @Summary List allowed registration domains
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.AllowedDomain
// @Router /admin/domains [get]
func (h *UserHandler) ListDomains(c echo.Context) error {
	domains, err := h.userService.ListAllowedDomains(c.Request().Context())
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, domains)
}

func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}
