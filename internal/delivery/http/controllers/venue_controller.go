package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"campuseventhub/internal/delivery/http/helpers"
	"campuseventhub/internal/domain"
)

type VenueController struct {
	Logger  *slog.Logger
	Service domain.VenueService
}

func NewVenueController(logger *slog.Logger, svc domain.VenueService) *VenueController {
	return &VenueController{
		Logger:  logger,
		Service: svc,
	}
}

// CheckAvailability godoc
// @Summary Check venue availability
// @Description Reports whether the venue is free for [startDate, endDate). Back-to-back bookings that share an endpoint do not conflict. excludeEventId lets an update skip its own booking.
// @Tags venues
// @Produce json
// @Param location query string true "Venue key (exact match)"
// @Param startDate query string true "RFC 3339 start"
// @Param endDate query string true "RFC 3339 end"
// @Param excludeEventId query string false "Event ID to ignore"
// @Success 200 {object} helpers.APIResponse "data contains the availability result"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/check-availability [get]
func (c *VenueController) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	start, err := helpers.TimeParam(r, "startDate")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	end, err := helpers.TimeParam(r, "endDate")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	if location == "" || start == nil || end == nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "location, startDate and endDate are required")
		return
	}
	excludeEventID := r.URL.Query().Get("excludeEventId")

	result, err := c.Service.CheckAvailability(r.Context(), location, *start, *end, excludeEventID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// GetVenueSchedule godoc
// @Summary List a venue's booked slots
// @Description Lists pending and approved bookings intersecting the window. startDate defaults to now, endDate to startDate plus seven days. The window check is inclusive on both bounds, unlike the availability check.
// @Tags venues
// @Produce json
// @Param location query string true "Venue key (exact match)"
// @Param startDate query string false "RFC 3339 window start"
// @Param endDate query string false "RFC 3339 window end"
// @Success 200 {object} helpers.APIResponse "data contains the venue schedule"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/venue-schedule [get]
func (c *VenueController) GetVenueSchedule(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "location is required")
		return
	}
	var start, end *time.Time
	start, err := helpers.TimeParam(r, "startDate")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	end, err = helpers.TimeParam(r, "endDate")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	schedule, err := c.Service.GetVenueSchedule(r.Context(), location, start, end)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, schedule)
}
