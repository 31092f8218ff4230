package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"campuseventhub/internal/domain"
)

type attendeeService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
}

// NewAttendeeService creates an AttendeeService with the given repositories.
func NewAttendeeService(eventRepo domain.EventRepository, registrationRepo domain.RegistrationRepository) domain.AttendeeService {
	return &attendeeService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
	}
}

func (s *attendeeService) RegisterForEvent(ctx context.Context, eventID, userID string) (*domain.Registration, bool, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get event: %w", err)
	}
	if event.Status != domain.StatusApproved {
		return nil, false, fmt.Errorf("%w: only approved events accept registrations", domain.ErrInvalidStatus)
	}

	// Already registered? Registration is idempotent per user.
	if existing, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("get registration: %w", err)
	}

	// Capacity is checked before insert; the counter is adjusted after. Like
	// the venue conflict check this is check-then-act, not a transaction.
	if event.CurrentAttendees >= event.MaxAttendees {
		return nil, false, domain.ErrEventFull
	}

	now := time.Now()
	reg := domain.NewRegistration(eventID, userID, uuid.NewString(), now, now)
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			// Lost the race against a duplicate submit; surface the winner.
			if existing, gerr := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID); gerr == nil {
				return existing, false, nil
			}
			return nil, false, domain.ErrAlreadyRegistered
		}
		return nil, false, fmt.Errorf("create registration: %w", err)
	}
	if err := s.eventRepo.AdjustAttendeeCount(ctx, eventID, 1); err != nil {
		return nil, false, fmt.Errorf("increment attendee count: %w", err)
	}
	return reg, true, nil
}

func (s *attendeeService) CancelRegistration(ctx context.Context, eventID, userID string) error {
	if err := s.registrationRepo.Delete(ctx, eventID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	if err := s.eventRepo.AdjustAttendeeCount(ctx, eventID, -1); err != nil {
		return fmt.Errorf("decrement attendee count: %w", err)
	}
	return nil
}

func (s *attendeeService) ListMyRegistrations(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	regs, err := s.registrationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	result := make([]*domain.RegistrationWithEvent, 0, len(regs))
	eventsByID := make(map[string]*domain.Event)
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Event deleted but registration remains; skip the entry.
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = ev
		}
		result = append(result, &domain.RegistrationWithEvent{
			Registration: reg,
			Event:        ev,
		})
	}
	return result, nil
}

func (s *attendeeService) CheckInAttendee(ctx context.Context, eventID, ticketCode, callerID, callerRole string) (*domain.Registration, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.CreatedBy != callerID && callerRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	reg, err := s.registrationRepo.GetByTicketCode(ctx, ticketCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if reg.EventID != eventID {
		return nil, domain.ErrNotFound
	}
	if reg.CheckedIn {
		return nil, domain.ErrAlreadyCheckedIn
	}
	if err := s.registrationRepo.SetCheckedIn(ctx, reg.ID, true); err != nil {
		return nil, fmt.Errorf("set checked in: %w", err)
	}
	reg.CheckedIn = true
	return reg, nil
}
