package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"mechhub/internal/errors"
	"mechhub/internal/model"
	"mechhub/internal/service"
)

// MechanicHandler handles mechanic-facing endpoints: profile management,
// availability and booking lifecycle actions.
type MechanicHandler struct {
	bookingService  service.BookingService
	mechanicService service.MechanicService
}

// NewMechanicHandler creates a new mechanic handler.
func NewMechanicHandler(bookingService service.BookingService, mechanicService service.MechanicService) *MechanicHandler {
	return &MechanicHandler{
		bookingService:  bookingService,
		mechanicService: mechanicService,
	}
}

// ProfileRequest represents a profile create or update request.
type ProfileRequest struct {
	Skills     string `json:"skills" validate:"required,max=300"`
	City       string `json:"city" validate:"required,max=100"`
	Pincode    string `json:"pincode" validate:"required,max=10"`
	Address    string `json:"address" validate:"required,max=200"`
	HourlyRate string `json:"hourly_rate" validate:"required"`
}

func (r ProfileRequest) toInput() (service.ProfileInput, error) {
	rate, err := decimal.NewFromString(r.HourlyRate)
	if err != nil {
		return service.ProfileInput{}, err
	}
	return service.ProfileInput{
		Skills:     r.Skills,
		City:       r.City,
		Pincode:    r.Pincode,
		Address:    r.Address,
		HourlyRate: rate,
	}, nil
}

// CreateProfile godoc
// @Summary Create the caller's mechanic profile
// @Tags mechanic
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "Profile data"
// @Success 201 {object} model.MechanicProfile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /mechanic/profile [post]
func (h *MechanicHandler) CreateProfile(c echo.Context) error {
	session, err := CurrentSession(c)
	if err != nil {
		return err
	}

	input, httpErr := h.bindProfile(c)
	if httpErr != nil {
		return httpErr
	}

	profile, err := h.mechanicService.CreateProfile(c.Request().Context(), session.UserID, input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, profile)
}

// UpdateProfile godoc
// @Summary Update the caller's mechanic profile
// @Tags mechanic
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "Profile data"
// @Success 200 {object} model.MechanicProfile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /mechanic/profile [put]
func (h *MechanicHandler) UpdateProfile(c echo.Context) error {
	session, err := CurrentSession(c)
	if err != nil {
		return err
	}

	input, httpErr := h.bindProfile(c)
	if httpErr != nil {
		return httpErr
	}

	profile, err := h.mechanicService.UpdateProfile(c.Request().Context(), session.UserID, input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, profile)
}

func (h *MechanicHandler) bindProfile(c echo.Context) (service.ProfileInput, *echo.HTTPError) {
	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return service.ProfileInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return service.ProfileInput{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	input, err := req.toInput()
	if err != nil {
		return service.ProfileInput{}, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid hourly_rate",
			Code:  "VALIDATION_ERROR",
		})
	}
	return input, nil
}

// GetProfile godoc
// @Summary Get the caller's mechanic profile
// @Tags mechanic
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.MechanicProfile
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /mechanic/profile [get]
func (h *MechanicHandler) GetProfile(c echo.Context) error {
	session, err := CurrentSession(c)
	if err != nil {
		return err
	}

	profile, err := h.mechanicService.GetProfile(c.Request().Context(), session.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, profile)
}

// ToggleAvailability godoc
// @Summary Flip the caller's availability flag
// @Tags mechanic
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.MechanicProfile
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /mechanic/availability [put]
func (h *MechanicHandler) ToggleAvailability(c echo.Context) error {
	session, err := CurrentSession(c)
	if err != nil {
		return err
	}

	profile, err := h.mechanicService.ToggleAvailability(c.Request().Context(), session.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, profile)
}

// ListBookings godoc
// @Summary List bookings assigned to the caller
// @Tags mechanic
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {array} model.Booking
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /mechanic/bookings [get]
func (h *MechanicHandler) ListBookings(c echo.Context) error {
	session, err := CurrentSession(c)
	if err != nil {
		return err
	}

	bookings, err := h.bookingService.ListForMechanic(c.Request().Context(), session.UserID, model.BookingStatus(c.QueryParam("status")))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, bookings)
}

// AcceptBooking godoc
// @Summary Accept a pending booking
// @Tags mechanic
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /mechanic/bookings/{id}/accept [put]
func (h *MechanicHandler) AcceptBooking(c echo.Context) error {
	return h.transition(c, model.ActionAccept)
}

// RejectBooking godoc
// @Summary Reject a pending booking
// @Tags mechanic
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /mechanic/bookings/{id}/reject [put]
func (h *MechanicHandler) RejectBooking(c echo.Context) error {
	return h.transition(c, model.ActionReject)
}

// StartBooking godoc
// @Summary Start work on an accepted booking
// @Tags mechanic
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /mechanic/bookings/{id}/start [put]
func (h *MechanicHandler) StartBooking(c echo.Context) error {
	return h.transition(c, model.ActionStart)
}

// CompleteBooking godoc
// @Summary Complete an accepted or in-progress booking
// @Tags mechanic
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /mechanic/bookings/{id}/complete [put]
func (h *MechanicHandler) CompleteBooking(c echo.Context) error {
	return h.transition(c, model.ActionComplete)
}

func (h *MechanicHandler) transition(c echo.Context, action model.BookingAction) error {
	session, err := CurrentSession(c)
	if err != nil {
		return err
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid booking ID",
			Code:  "INVALID_UUID",
		})
	}

	booking, err := h.bookingService.Transition(c.Request().Context(), bookingID, session.UserID, action)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, booking)
}
