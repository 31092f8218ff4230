package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campuseventhub/internal/domain"
)

type venueService struct {
	eventRepo domain.EventRepository
}

// NewVenueService creates a VenueService over the given event repository.
func NewVenueService(eventRepo domain.EventRepository) domain.VenueService {
	return &venueService{
		eventRepo: eventRepo,
	}
}

func (s *venueService) CheckConflict(ctx context.Context, location string, start, end time.Time, excludeEventID string) (*domain.ConflictCheck, error) {
	existing, err := s.eventRepo.FindFirstOverlapping(ctx, location, start, end, excludeEventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.ConflictCheck{HasConflict: false}, nil
		}
		return nil, fmt.Errorf("find overlapping event: %w", err)
	}
	return &domain.ConflictCheck{
		HasConflict: true,
		Conflict: &domain.ConflictingEvent{
			ID:        existing.ID,
			Title:     existing.Title,
			StartDate: existing.StartDate,
			EndDate:   existing.EndDate,
			Organizer: existing.OrganizerDisplayName(),
		},
	}, nil
}

func (s *venueService) CheckAvailability(ctx context.Context, location string, start, end time.Time, excludeEventID string) (*domain.AvailabilityResult, error) {
	// Validation happens before any query runs.
	if location == "" {
		return nil, fmt.Errorf("%w: location is required", domain.ErrInvalidInput)
	}
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: startDate and endDate are required", domain.ErrInvalidInput)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: startDate must be before endDate", domain.ErrInvalidInput)
	}

	check, err := s.CheckConflict(ctx, location, start, end, excludeEventID)
	if err != nil {
		return nil, err
	}
	if check.HasConflict {
		return &domain.AvailabilityResult{
			Available: false,
			Message:   fmt.Sprintf("the venue is already booked by %q during this time", check.Conflict.Title),
			Conflict:  check.Conflict,
		}, nil
	}
	return &domain.AvailabilityResult{
		Available: true,
		Message:   "the venue is available for the requested time",
	}, nil
}

func (s *venueService) GetVenueSchedule(ctx context.Context, location string, start, end *time.Time) (*domain.VenueSchedule, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: location is required", domain.ErrInvalidInput)
	}
	from := time.Now()
	if start != nil {
		from = *start
	}
	to := from.Add(domain.DefaultScheduleWindow)
	if end != nil {
		to = *end
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: startDate must be before endDate", domain.ErrInvalidInput)
	}

	events, err := s.eventRepo.ListVenueEvents(ctx, location, from, to)
	if err != nil {
		return nil, fmt.Errorf("list venue events: %w", err)
	}

	slots := make([]domain.BookedSlot, 0, len(events))
	for _, e := range events {
		slots = append(slots, domain.BookedSlot{
			ID:        e.ID,
			Title:     e.Title,
			StartDate: e.StartDate,
			EndDate:   e.EndDate,
			Status:    e.Status,
			Organizer: e.OrganizerDisplayName(),
		})
	}
	return &domain.VenueSchedule{
		Location:    location,
		StartDate:   from,
		EndDate:     to,
		BookedSlots: slots,
	}, nil
}
