package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"campuseventhub/internal/delivery/http/helpers"
	"campuseventhub/internal/domain"
)

// RejectEventRequest is the request body for POST /admin/events/{id}/reject.
type RejectEventRequest struct {
	Reason string `json:"reason"`
}

// Validate implements Validator. Reason is optional.
func (r RejectEventRequest) Validate() []string { return nil }

type AdminController struct {
	Logger  *slog.Logger
	Service domain.AdminService
}

func NewAdminController(logger *slog.Logger, svc domain.AdminService) *AdminController {
	return &AdminController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List events by status
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Event status (default pending)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} helpers.APIResponse "data contains events and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (unknown status)"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /admin/events [get]
func (c *AdminController) ListEvents(w http.ResponseWriter, r *http.Request) {
	status := domain.EventStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.StatusPending
	}
	params := helpers.ParsePagination(r)

	events, total, err := c.Service.ListEventsByStatus(r.Context(), status, params)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListResponse{
		Events:     events,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// Approve godoc
// @Summary Approve a pending event
// @Description Moves a pending event to approved and emails the organizer.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the approved event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (event not pending)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/events/{id}/approve [post]
func (c *AdminController) Approve(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.ApproveEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		c.writeResolveError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Reject godoc
// @Summary Reject a pending event
// @Description Moves a pending event to rejected, freeing its venue slot, and emails the organizer with the reason.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param rejection body RejectEventRequest true "Rejection reason"
// @Success 200 {object} helpers.APIResponse "data contains the rejected event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (event not pending)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /admin/events/{id}/reject [post]
func (c *AdminController) Reject(w http.ResponseWriter, r *http.Request) {
	var req RejectEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.RejectEvent(r.Context(), r.PathValue("id"), req.Reason)
	if err != nil {
		c.writeResolveError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Dashboard godoc
// @Summary Get dashboard statistics
// @Description Returns platform counters. Results are cached briefly; approving or rejecting an event invalidates the cache.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the dashboard stats"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /admin/dashboard [get]
func (c *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.GetDashboardStats(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

func (c *AdminController) writeResolveError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrInvalidStatus):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "only pending events can be resolved")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
