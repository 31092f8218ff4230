package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campuseventhub/internal/domain"
)

type eventService struct {
	eventRepo domain.EventRepository
	venue     domain.VenueService
}

// NewEventService creates an EventService. Venue conflicts gate every create
// and every reschedule.
func NewEventService(eventRepo domain.EventRepository, venue domain.VenueService) domain.EventService {
	return &eventService{
		eventRepo: eventRepo,
		venue:     venue,
	}
}

func validateEventFields(title, location string, start, end time.Time, maxAttendees int) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if location == "" {
		return fmt.Errorf("%w: location is required", domain.ErrInvalidInput)
	}
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrInvalidInput)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start_date must be before end_date", domain.ErrInvalidInput)
	}
	if maxAttendees < 1 {
		return fmt.Errorf("%w: max_attendees must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// CreateEvent validates the event, checks the venue, and persists. The
// conflict check and the insert are not one atomic step: two concurrent
// creates for the same slot can both pass the check. Closing that gap needs
// an exclusion constraint on (location, time range), which is a schema
// decision left open deliberately.
func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	if event.CreatedBy == "" {
		return fmt.Errorf("%w: event organizer is required", domain.ErrInvalidInput)
	}
	if err := validateEventFields(event.Title, event.Location, event.StartDate, event.EndDate, event.MaxAttendees); err != nil {
		return err
	}

	check, err := s.venue.CheckConflict(ctx, event.Location, event.StartDate, event.EndDate, "")
	if err != nil {
		return fmt.Errorf("check venue conflict: %w", err)
	}
	if check.HasConflict {
		return &domain.VenueConflictError{Conflict: check.Conflict}
	}

	now := time.Now()
	event.Status = domain.StatusPending
	event.CreatedAt = now
	event.UpdatedAt = now
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) GetEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	// The public listing only ever shows approved events.
	filter.Status = domain.StatusApproved
	events, total, err := s.eventRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list events by creator: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, userID string, upd domain.EventUpdate) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.CreatedBy != userID {
		return nil, domain.ErrForbidden
	}
	if event.Status == domain.StatusCancelled {
		return nil, domain.ErrInvalidStatus
	}

	newTitle := event.Title
	if upd.Title != nil {
		newTitle = *upd.Title
	}
	newLocation := event.Location
	if upd.Location != nil {
		newLocation = *upd.Location
	}
	newStart := event.StartDate
	if upd.StartDate != nil {
		newStart = *upd.StartDate
	}
	newEnd := event.EndDate
	if upd.EndDate != nil {
		newEnd = *upd.EndDate
	}
	newMax := event.MaxAttendees
	if upd.MaxAttendees != nil {
		newMax = *upd.MaxAttendees
	}
	if err := validateEventFields(newTitle, newLocation, newStart, newEnd, newMax); err != nil {
		return nil, err
	}
	if newMax < event.CurrentAttendees {
		return nil, fmt.Errorf("%w: max_attendees cannot drop below current registrations", domain.ErrInvalidInput)
	}

	rescheduled := newLocation != event.Location || !newStart.Equal(event.StartDate) || !newEnd.Equal(event.EndDate)
	if rescheduled {
		// Excluding the event's own ID means moving to the same slot never
		// reports a self-conflict.
		check, err := s.venue.CheckConflict(ctx, newLocation, newStart, newEnd, eventID)
		if err != nil {
			return nil, fmt.Errorf("check venue conflict: %w", err)
		}
		if check.HasConflict {
			return nil, &domain.VenueConflictError{Conflict: check.Conflict}
		}
	}

	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	// Rescheduling an approved event re-enters the approval queue.
	if rescheduled && updated.Status == domain.StatusApproved {
		updated, err = s.eventRepo.UpdateStatus(ctx, eventID, domain.StatusPending)
		if err != nil {
			return nil, fmt.Errorf("reset event status: %w", err)
		}
	}
	return updated, nil
}

func (s *eventService) CancelEvent(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.CreatedBy != userID {
		return nil, domain.ErrForbidden
	}
	if event.Status == domain.StatusCancelled || event.Status == domain.StatusRejected {
		return nil, domain.ErrInvalidStatus
	}
	updated, err := s.eventRepo.UpdateStatus(ctx, eventID, domain.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("cancel event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, userID, userRole string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.CreatedBy != userID && userRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
