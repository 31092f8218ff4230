package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for registration operations.
var (
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrEventFull         = errors.New("event has reached its attendee limit")
	ErrAlreadyCheckedIn  = errors.New("ticket already checked in")
)

// Registration represents an attendee's registration for an event.
// TicketCode is the opaque identifier encoded into the attendee's QR ticket.
// swagger:model Registration
type Registration struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	TicketCode string    `json:"ticket_code"`
	CheckedIn  bool      `json:"checked_in"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewRegistration creates a new Registration. ID is set by the repository on create.
func NewRegistration(eventID, userID, ticketCode string, createdAt, updatedAt time.Time) *Registration {
	return &Registration{
		EventID:    eventID,
		UserID:     userID,
		TicketCode: ticketCode,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
}

// RegistrationWithEvent bundles a registration with its event for list views.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// RegistrationRepository defines storage operations for event registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Registration, error)
	GetByTicketCode(ctx context.Context, code string) (*Registration, error)
	ListByUserID(ctx context.Context, userID string) ([]*Registration, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Registration, error)
	Delete(ctx context.Context, eventID, userID string) error
	SetCheckedIn(ctx context.Context, id string, checkedIn bool) error
	CountAll(ctx context.Context) (int, error)
}

// AttendeeService defines attendee-facing operations: registration with
// capacity limits, cancellation, and check-in.
type AttendeeService interface {
	// RegisterForEvent registers the user for an approved event. Returns
	// (reg, created, err): created is false when the user was already
	// registered. Fails with ErrEventFull at capacity.
	RegisterForEvent(ctx context.Context, eventID, userID string) (*Registration, bool, error)
	CancelRegistration(ctx context.Context, eventID, userID string) error
	ListMyRegistrations(ctx context.Context, userID string) ([]*RegistrationWithEvent, error)
	// CheckInAttendee marks the ticket as used. Only the event's organizer or
	// an admin may check attendees in; a ticket checks in once.
	CheckInAttendee(ctx context.Context, eventID, ticketCode, callerID, callerRole string) (*Registration, error)
}
