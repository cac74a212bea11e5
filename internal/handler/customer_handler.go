package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"mechhub/internal/errors"
	"mechhub/internal/model"
	"mechhub/internal/service"
)

// CustomerHandler handles customer-facing endpoints: mechanic search, booking
// creation, cancellation and reviews.
type CustomerHandler struct {
	bookingService  service.BookingService
	mechanicService service.MechanicService
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(bookingService service.BookingService, mechanicService service.MechanicService) *CustomerHandler {
	return &CustomerHandler{
		bookingService:  bookingService,
		mechanicService: mechanicService,
	}
}

// CreateBookingRequest represents a booking creation request.
type CreateBookingRequest struct {
	MechanicID         string `json:"mechanic_id" validate:"required,uuid"`
	ServiceDescription string `json:"service_description" validate:"required,max=200"`
	Address            string `json:"address" validate:"required,max=200"`
	City               string `json:"city" validate:"required,max=100"`
	Pincode            string `json:"pincode" validate:"required,max=10"`
	PreferredDate      string `json:"preferred_date" validate:"required"`
	EstimatedDuration  int    `json:"estimated_duration" validate:"required,min=1,max=8"`
	Notes              string `json:"notes" validate:"max=500"`
}

// ReviewRequest represents a review submission.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=500"`
}

// SearchMechanics godoc
// @Summary Search bookable mechanics by city, pincode or skill
// @Tags customer
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Search criterion" Enums(city, pincode, skill)
// @Param value path string true "Search value"
// @Success 200 {array} model.MechanicProfile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /customer/mechanics/search/{kind}/{value} [get]
func (h *CustomerHandler) SearchMechanics(c echo.Context) error {
	kind := service.SearchKind(c.Param("kind"))
	value := c.Param("value")

	profiles, err := h.mechanicService.Search(c.Request().Context(), kind, value)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, profiles)
}

// CreateBooking godoc
// @Summary Create a booking request
// @Tags customer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookingRequest true "Booking data"
// @Success 201 {object} model.Booking
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /customer/bookings [post]
func (h *CustomerHandler) CreateBooking(c echo.Context) error {
	session, err := CurrentSession(c)
	if err != nil {
		return err
	}

	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	mechanicID, err := uuid.Parse(req.MechanicID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid mechanic ID",
			Code:  "INVALID_UUID",
		})
	}

	preferredDate, err := time.Parse(time.RFC3339, req.PreferredDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "preferred_date must be RFC3339",
			Code:  "VALIDATION_ERROR",
		})
	}

	booking, err := h.bookingService.Create(c.Request().Context(), session.UserID, service.CreateBookingInput{
		MechanicID:         mechanicID,
		ServiceDescription: req.ServiceDescription,
		Address:            req.Address,
		City:               req.City,
		Pincode:            req.Pincode,
		PreferredDate:      preferredDate,
		EstimatedDuration:  req.EstimatedDuration,
		Notes:              req.Notes,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, booking)
}

// ListBookings godoc
// @Summary List the caller's bookings
// @Tags customer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Booking
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /customer/bookings [get]
func (h *CustomerHandler) ListBookings(c echo.Context) error {
	session, err := CurrentSession(c)
	if err != nil {
		return err
	}

	bookings, err := h.bookingService.ListForCustomer(c.Request().Context(), session.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, bookings)
}

// GetBooking godoc
// @Summary Get one of the caller's bookings
// @Tags customer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /customer/bookings/{id} [get]
func (h *CustomerHandler) GetBooking(c echo.Context) error {
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

	booking, err := h.bookingService.GetForCustomer(c.Request().Context(), session.UserID, bookingID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, booking)
}

// CancelBooking godoc
// @Summary Cancel a pending or accepted booking
// @Tags customer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /customer/bookings/{id}/cancel [put]
func (h *CustomerHandler) CancelBooking(c echo.Context) error {
	return h.transition(c, model.ActionCancel)
}

func (h *CustomerHandler) transition(c echo.Context, action model.BookingAction) error {
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

// ReviewBooking godoc
// @Summary Review a completed booking
// @Tags customer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body ReviewRequest true "Review data"
// @Success 201 {object} model.Review
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /customer/bookings/{id}/review [post]
func (h *CustomerHandler) ReviewBooking(c echo.Context) error {
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

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.bookingService.Review(c.Request().Context(), session.UserID, bookingID, req.Rating, req.Comment)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, review)
}
