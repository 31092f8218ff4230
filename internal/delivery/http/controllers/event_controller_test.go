package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuseventhub/internal/delivery/http/helpers"
	"campuseventhub/internal/delivery/http/middleware"
	"campuseventhub/internal/domain"
)

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createErr  error
	getResult  *domain.Event
	getErr     error
	updResult  *domain.Event
	updErr     error
	cancelErr  error
	deleteErr  error
	listResult []*domain.Event
	listTotal  int

	lastCreated *domain.Event
	lastUpd     domain.EventUpdate
	lastUserID  string
	lastRole    string
	lastFilter  domain.EventFilter
}

func (s *fakeEventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	s.lastCreated = event
	if s.createErr != nil {
		return s.createErr
	}
	event.ID = "ev-1"
	return nil
}

func (s *fakeEventService) GetEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.getResult, nil
}

func (s *fakeEventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	s.lastFilter = filter
	return s.listResult, s.listTotal, nil
}

func (s *fakeEventService) ListMyEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	s.lastUserID = userID
	return s.listResult, nil
}

func (s *fakeEventService) UpdateEvent(ctx context.Context, eventID, userID string, upd domain.EventUpdate) (*domain.Event, error) {
	s.lastUserID = userID
	s.lastUpd = upd
	if s.updErr != nil {
		return nil, s.updErr
	}
	return s.updResult, nil
}

func (s *fakeEventService) CancelEvent(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	s.lastUserID = userID
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return s.updResult, nil
}

func (s *fakeEventService) DeleteEvent(ctx context.Context, eventID, userID, userRole string) error {
	s.lastUserID = userID
	s.lastRole = userRole
	return s.deleteErr
}

func authedRequest(method, target string, body []byte, userID, role string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.SetIdentity(req.Context(), userID, role))
}

func validCreateBody(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(CreateEventRequest{
		Title:        "Robotics Demo",
		Description:  "Live demos",
		Location:     "Main Hall",
		StartDate:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		MaxAttendees: 50,
	})
	require.NoError(t, err)
	return b
}

func TestEventController_Create(t *testing.T) {
	t.Run("creates the event", func(t *testing.T) {
		svc := &fakeEventService{}
		ctrl := NewEventController(testLogger, svc)

		rec := httptest.NewRecorder()
		ctrl.Create(rec, authedRequest(http.MethodPost, "/events", validCreateBody(t), "org-1", domain.RoleOrganizer))

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, svc.lastCreated)
		assert.Equal(t, "org-1", svc.lastCreated.CreatedBy)
		assert.Equal(t, "Main Hall", svc.lastCreated.Location)
	})

	t.Run("venue conflict maps to 409 with details", func(t *testing.T) {
		svc := &fakeEventService{createErr: &domain.VenueConflictError{Conflict: &domain.ConflictingEvent{
			ID: "ev-9", Title: "Career Fair", Organizer: "Ada",
		}}}
		ctrl := NewEventController(testLogger, svc)

		rec := httptest.NewRecorder()
		ctrl.Create(rec, authedRequest(http.MethodPost, "/events", validCreateBody(t), "org-1", domain.RoleOrganizer))

		require.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, helpers.ErrCodeConflict, resp.Error.Code)
		details := resp.Error.Details.(map[string]any)
		assert.Equal(t, "ev-9", details["id"])
		assert.Equal(t, "Career Fair", details["title"])
	})

	t.Run("invalid input maps to 400", func(t *testing.T) {
		svc := &fakeEventService{createErr: domain.ErrInvalidInput}
		ctrl := NewEventController(testLogger, svc)

		rec := httptest.NewRecorder()
		ctrl.Create(rec, authedRequest(http.MethodPost, "/events", validCreateBody(t), "org-1", domain.RoleOrganizer))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing body fields are rejected before the service", func(t *testing.T) {
		svc := &fakeEventService{}
		ctrl := NewEventController(testLogger, svc)

		body, _ := json.Marshal(CreateEventRequest{Description: "no title"})
		rec := httptest.NewRecorder()
		ctrl.Create(rec, authedRequest(http.MethodPost, "/events", body, "org-1", domain.RoleOrganizer))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, svc.lastCreated)
	})

	t.Run("unknown body fields are rejected", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})
		rec := httptest.NewRecorder()
		ctrl.Create(rec, authedRequest(http.MethodPost, "/events", []byte(`{"title":"x","bogus":true}`), "org-1", domain.RoleOrganizer))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		ctrl := NewEventController(testLogger, &fakeEventService{})
		req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(validCreateBody(t)))
		rec := httptest.NewRecorder()
		ctrl.Create(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestEventController_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &fakeEventService{getResult: &domain.Event{ID: "ev-1", Title: "Robotics Demo"}}
		ctrl := NewEventController(testLogger, svc)

		req := httptest.NewRequest(http.MethodGet, "/events/ev-1", nil)
		req.SetPathValue("id", "ev-1")
		rec := httptest.NewRecorder()
		ctrl.Get(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec).Data.(map[string]any)
		assert.Equal(t, "ev-1", data["id"])
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeEventService{getErr: domain.ErrNotFound}
		ctrl := NewEventController(testLogger, svc)

		req := httptest.NewRequest(http.MethodGet, "/events/nope", nil)
		req.SetPathValue("id", "nope")
		rec := httptest.NewRecorder()
		ctrl.Get(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, helpers.ErrCodeNotFound, decodeEnvelope(t, rec).Error.Code)
	})
}

func TestEventController_List(t *testing.T) {
	svc := &fakeEventService{
		listResult: []*domain.Event{{ID: "ev-1"}},
		listTotal:  1,
	}
	ctrl := NewEventController(testLogger, svc)

	req := httptest.NewRequest(http.MethodGet, "/events?location=Main+Hall&search=robot&page=2&page_size=10", nil)
	rec := httptest.NewRecorder()
	ctrl.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Main Hall", svc.lastFilter.Location)
	assert.Equal(t, "robot", svc.lastFilter.TitleSearch)

	data := decodeEnvelope(t, rec).Data.(map[string]any)
	pagination := data["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pagination["page"])
	assert.Equal(t, float64(1), pagination["total"])
}

func TestEventController_Update(t *testing.T) {
	t.Run("owner updates", func(t *testing.T) {
		svc := &fakeEventService{updResult: &domain.Event{ID: "ev-1", Title: "Renamed"}}
		ctrl := NewEventController(testLogger, svc)

		body := []byte(`{"title":"Renamed"}`)
		req := authedRequest(http.MethodPatch, "/events/ev-1", body, "org-1", domain.RoleOrganizer)
		req.SetPathValue("id", "ev-1")
		rec := httptest.NewRecorder()
		ctrl.Update(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.lastUpd.Title)
		assert.Equal(t, "Renamed", *svc.lastUpd.Title)
	})

	t.Run("conflict on reschedule", func(t *testing.T) {
		svc := &fakeEventService{updErr: &domain.VenueConflictError{Conflict: &domain.ConflictingEvent{ID: "ev-9"}}}
		ctrl := NewEventController(testLogger, svc)

		req := authedRequest(http.MethodPatch, "/events/ev-1", []byte(`{"start_date":"2026-09-02T10:00:00Z"}`), "org-1", domain.RoleOrganizer)
		req.SetPathValue("id", "ev-1")
		rec := httptest.NewRecorder()
		ctrl.Update(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		svc := &fakeEventService{updErr: domain.ErrForbidden}
		ctrl := NewEventController(testLogger, svc)

		req := authedRequest(http.MethodPatch, "/events/ev-1", []byte(`{"title":"x"}`), "someone-else", domain.RoleStudent)
		req.SetPathValue("id", "ev-1")
		rec := httptest.NewRecorder()
		ctrl.Update(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestEventController_Delete(t *testing.T) {
	svc := &fakeEventService{}
	ctrl := NewEventController(testLogger, svc)

	req := authedRequest(http.MethodDelete, "/events/ev-1", nil, "admin-1", domain.RoleAdmin)
	req.SetPathValue("id", "ev-1")
	rec := httptest.NewRecorder()
	ctrl.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin-1", svc.lastUserID)
	assert.Equal(t, domain.RoleAdmin, svc.lastRole)
}
