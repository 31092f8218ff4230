package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuseventhub/internal/delivery/http/helpers"
	"campuseventhub/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeVenueService implements domain.VenueService for handler tests.
type fakeVenueService struct {
	availability *domain.AvailabilityResult
	schedule     *domain.VenueSchedule
	err          error

	lastLocation string
	lastStart    time.Time
	lastEnd      time.Time
	lastExclude  string
	lastStartPtr *time.Time
	lastEndPtr   *time.Time
}

func (s *fakeVenueService) CheckConflict(ctx context.Context, location string, start, end time.Time, excludeEventID string) (*domain.ConflictCheck, error) {
	return nil, errors.New("not used by the controller")
}

func (s *fakeVenueService) CheckAvailability(ctx context.Context, location string, start, end time.Time, excludeEventID string) (*domain.AvailabilityResult, error) {
	s.lastLocation = location
	s.lastStart = start
	s.lastEnd = end
	s.lastExclude = excludeEventID
	if s.err != nil {
		return nil, s.err
	}
	return s.availability, nil
}

func (s *fakeVenueService) GetVenueSchedule(ctx context.Context, location string, start, end *time.Time) (*domain.VenueSchedule, error) {
	s.lastLocation = location
	s.lastStartPtr = start
	s.lastEndPtr = end
	if s.err != nil {
		return nil, s.err
	}
	return s.schedule, nil
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var resp helpers.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func availabilityRequest(query url.Values) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/events/check-availability?"+query.Encode(), nil)
}

func TestVenueController_CheckAvailability(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	t.Run("available slot", func(t *testing.T) {
		svc := &fakeVenueService{availability: &domain.AvailabilityResult{Available: true, Message: "the venue is available for the requested time"}}
		ctrl := NewVenueController(testLogger, svc)

		q := url.Values{}
		q.Set("location", "Main Hall")
		q.Set("startDate", start.Format(time.RFC3339))
		q.Set("endDate", end.Format(time.RFC3339))
		rec := httptest.NewRecorder()
		ctrl.CheckAvailability(rec, availabilityRequest(q))

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.Nil(t, resp.Error)
		data := resp.Data.(map[string]any)
		assert.Equal(t, true, data["available"])
		assert.Equal(t, "Main Hall", svc.lastLocation)
		assert.True(t, svc.lastStart.Equal(start))
		assert.True(t, svc.lastEnd.Equal(end))
	})

	t.Run("taken slot carries the conflict", func(t *testing.T) {
		svc := &fakeVenueService{availability: &domain.AvailabilityResult{
			Available: false,
			Message:   `the venue is already booked by "Robotics Demo" during this time`,
			Conflict: &domain.ConflictingEvent{
				ID: "ev-1", Title: "Robotics Demo", StartDate: start, EndDate: end, Organizer: "Ada",
			},
		}}
		ctrl := NewVenueController(testLogger, svc)

		q := url.Values{}
		q.Set("location", "Main Hall")
		q.Set("startDate", start.Format(time.RFC3339))
		q.Set("endDate", end.Format(time.RFC3339))
		rec := httptest.NewRecorder()
		ctrl.CheckAvailability(rec, availabilityRequest(q))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec).Data.(map[string]any)
		assert.Equal(t, false, data["available"])
		conflict := data["conflict"].(map[string]any)
		assert.Equal(t, "ev-1", conflict["id"])
		assert.Equal(t, "Ada", conflict["organizer"])
	})

	t.Run("excludeEventId is forwarded", func(t *testing.T) {
		svc := &fakeVenueService{availability: &domain.AvailabilityResult{Available: true}}
		ctrl := NewVenueController(testLogger, svc)

		q := url.Values{}
		q.Set("location", "Main Hall")
		q.Set("startDate", start.Format(time.RFC3339))
		q.Set("endDate", end.Format(time.RFC3339))
		q.Set("excludeEventId", "ev-self")
		rec := httptest.NewRecorder()
		ctrl.CheckAvailability(rec, availabilityRequest(q))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ev-self", svc.lastExclude)
	})

	t.Run("missing parameters", func(t *testing.T) {
		tests := []struct {
			name string
			q    url.Values
		}{
			{"no location", url.Values{"startDate": {start.Format(time.RFC3339)}, "endDate": {end.Format(time.RFC3339)}}},
			{"no startDate", url.Values{"location": {"Main Hall"}, "endDate": {end.Format(time.RFC3339)}}},
			{"no endDate", url.Values{"location": {"Main Hall"}, "startDate": {start.Format(time.RFC3339)}}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ctrl := NewVenueController(testLogger, &fakeVenueService{})
				rec := httptest.NewRecorder()
				ctrl.CheckAvailability(rec, availabilityRequest(tt.q))

				require.Equal(t, http.StatusBadRequest, rec.Code)
				resp := decodeEnvelope(t, rec)
				require.NotNil(t, resp.Error)
				assert.Equal(t, helpers.ErrCodeBadRequest, resp.Error.Code)
			})
		}
	})

	t.Run("malformed date", func(t *testing.T) {
		ctrl := NewVenueController(testLogger, &fakeVenueService{})
		q := url.Values{}
		q.Set("location", "Main Hall")
		q.Set("startDate", "yesterday")
		q.Set("endDate", end.Format(time.RFC3339))
		rec := httptest.NewRecorder()
		ctrl.CheckAvailability(rec, availabilityRequest(q))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("service validation error maps to 400", func(t *testing.T) {
		svc := &fakeVenueService{err: fmt.Errorf("%w: startDate must be before endDate", domain.ErrInvalidInput)}
		ctrl := NewVenueController(testLogger, svc)
		q := url.Values{}
		q.Set("location", "Main Hall")
		q.Set("startDate", end.Format(time.RFC3339))
		q.Set("endDate", start.Format(time.RFC3339))
		rec := httptest.NewRecorder()
		ctrl.CheckAvailability(rec, availabilityRequest(q))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("backend failure maps to 500", func(t *testing.T) {
		svc := &fakeVenueService{err: errors.New("db down")}
		ctrl := NewVenueController(testLogger, svc)
		q := url.Values{}
		q.Set("location", "Main Hall")
		q.Set("startDate", start.Format(time.RFC3339))
		q.Set("endDate", end.Format(time.RFC3339))
		rec := httptest.NewRecorder()
		ctrl.CheckAvailability(rec, availabilityRequest(q))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestVenueController_GetVenueSchedule(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)

	t.Run("returns the schedule", func(t *testing.T) {
		svc := &fakeVenueService{schedule: &domain.VenueSchedule{
			Location:  "Main Hall",
			StartDate: start,
			EndDate:   end,
			BookedSlots: []domain.BookedSlot{
				{ID: "ev-1", Title: "Robotics Demo", Status: domain.StatusApproved},
			},
		}}
		ctrl := NewVenueController(testLogger, svc)

		req := httptest.NewRequest(http.MethodGet,
			"/events/venue-schedule?location=Main+Hall&startDate="+url.QueryEscape(start.Format(time.RFC3339))+
				"&endDate="+url.QueryEscape(end.Format(time.RFC3339)), nil)
		rec := httptest.NewRecorder()
		ctrl.GetVenueSchedule(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec).Data.(map[string]any)
		assert.Equal(t, "Main Hall", data["location"])
		slots := data["booked_slots"].([]any)
		require.Len(t, slots, 1)
		require.NotNil(t, svc.lastStartPtr)
		assert.True(t, svc.lastStartPtr.Equal(start))
	})

	t.Run("dates are optional", func(t *testing.T) {
		svc := &fakeVenueService{schedule: &domain.VenueSchedule{Location: "Main Hall"}}
		ctrl := NewVenueController(testLogger, svc)

		req := httptest.NewRequest(http.MethodGet, "/events/venue-schedule?location=Main+Hall", nil)
		rec := httptest.NewRecorder()
		ctrl.GetVenueSchedule(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, svc.lastStartPtr)
		assert.Nil(t, svc.lastEndPtr)
	})

	t.Run("location is required", func(t *testing.T) {
		ctrl := NewVenueController(testLogger, &fakeVenueService{})
		req := httptest.NewRequest(http.MethodGet, "/events/venue-schedule", nil)
		rec := httptest.NewRecorder()
		ctrl.GetVenueSchedule(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed date", func(t *testing.T) {
		ctrl := NewVenueController(testLogger, &fakeVenueService{})
		req := httptest.NewRequest(http.MethodGet, "/events/venue-schedule?location=Main+Hall&startDate=tomorrow", nil)
		rec := httptest.NewRecorder()
		ctrl.GetVenueSchedule(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
