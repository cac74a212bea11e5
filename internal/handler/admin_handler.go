package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"mechhub/internal/errors"
	"mechhub/internal/service"
)

// AdminHandler handles moderation endpoints.
type AdminHandler struct {
	adminService   service.AdminService
	bookingService service.BookingService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService, bookingService service.BookingService) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		bookingService: bookingService,
	}
}

// AnnouncementRequest represents a system broadcast request.
type AnnouncementRequest struct {
	Title   string `json:"title" validate:"required,max=100"`
	Message string `json:"message" validate:"required,max=500"`
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, users)
}

// ListMechanics godoc
// @Summary List all mechanic profiles
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.MechanicProfile
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/mechanics [get]
func (h *AdminHandler) ListMechanics(c echo.Context) error {
	mechanics, err := h.adminService.ListMechanics(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, mechanics)
}

// ListBookings godoc
// @Summary List all bookings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Booking
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/bookings [get]
func (h *AdminHandler) ListBookings(c echo.Context) error {
	bookings, err := h.bookingService.ListAll(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, bookings)
}

// VerifyMechanic godoc
// @Summary Verify a mechanic profile
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Mechanic profile ID"
// @Success 200 {object} model.MechanicProfile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/mechanics/{id}/verify [put]
func (h *AdminHandler) VerifyMechanic(c echo.Context) error {
	mechanicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid mechanic ID",
			Code:  "INVALID_UUID",
		})
	}

	profile, err := h.adminService.VerifyMechanic(c.Request().Context(), mechanicID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, profile)
}

// DeleteUser godoc
// @Summary Delete a user account
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user ID",
			Code:  "INVALID_UUID",
		})
	}

	if err := h.adminService.DeleteUser(c.Request().Context(), userID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "user deleted successfully",
	})
}

// Statistics godoc
// @Summary Platform statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Statistics
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/statistics [get]
func (h *AdminHandler) Statistics(c echo.Context) error {
	stats, err := h.adminService.Statistics(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, stats)
}

// Broadcast godoc
// @Summary Broadcast a system announcement to all connected sessions
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AnnouncementRequest true "Announcement"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/broadcast [post]
func (h *AdminHandler) Broadcast(c echo.Context) error {
	var req AnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.adminService.BroadcastAnnouncement(c.Request().Context(), req.Title, req.Message); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "announcement broadcast",
	})
}
