package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// EventStatus is the approval-workflow state of an event.
type EventStatus string

// Event statuses. Only pending and approved events occupy a venue's schedule.
const (
	StatusPending   EventStatus = "pending"
	StatusApproved  EventStatus = "approved"
	StatusRejected  EventStatus = "rejected"
	StatusCancelled EventStatus = "cancelled"
)

// ErrInvalidStatus is returned when a status transition is not allowed
// (e.g. approving an event that is not pending).
var ErrInvalidStatus = errors.New("invalid status transition")

// BlocksVenue reports whether an event in this status occupies its venue.
// Rejected and cancelled events never block a booking.
func (s EventStatus) BlocksVenue() bool {
	return s == StatusPending || s == StatusApproved
}

// Event represents a campus event.
// Location is an opaque venue key: exact-match, case and whitespace sensitive.
// swagger:model Event
type Event struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Location         string      `json:"location"`
	StartDate        time.Time   `json:"start_date"`
	EndDate          time.Time   `json:"end_date"`
	Status           EventStatus `json:"status"`
	MaxAttendees     int         `json:"max_attendees"`
	CurrentAttendees int         `json:"current_attendees"`
	CreatedBy        string      `json:"created_by"`
	OrganizerName    string      `json:"organizer_name,omitempty"`
	OrganizerClub    string      `json:"organizer_club,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// NewEvent returns a new pending Event. ID is set by the repository on create.
func NewEvent(title, description, location string, start, end time.Time, maxAttendees int, createdBy string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:        title,
		Description:  description,
		Location:     location,
		StartDate:    start,
		EndDate:      end,
		Status:       StatusPending,
		MaxAttendees: maxAttendees,
		CreatedBy:    createdBy,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// OrganizerDisplayName is the organizer's name, falling back to the club name.
func (e *Event) OrganizerDisplayName() string {
	if e.OrganizerName != "" {
		return e.OrganizerName
	}
	return e.OrganizerClub
}

// EventFilter holds the typed filter parameters for public event listings.
// TitleSearch is matched case-insensitively; normalization happens once in the
// repository, not per call site.
type EventFilter struct {
	Status      EventStatus
	Location    string
	TitleSearch string
	From        *time.Time
	To          *time.Time
}

// EventUpdate holds the optional fields of an event update. Nil means unchanged.
type EventUpdate struct {
	Title        *string
	Description  *string
	Location     *string
	StartDate    *time.Time
	EndDate      *time.Time
	MaxAttendees *int
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	ListByCreator(ctx context.Context, userID string) ([]*Event, error)
	Update(ctx context.Context, eventID string, upd EventUpdate) (*Event, error)
	UpdateStatus(ctx context.Context, eventID string, status EventStatus) (*Event, error)
	Delete(ctx context.Context, id string) error
	AdjustAttendeeCount(ctx context.Context, eventID string, delta int) error
	CountByStatus(ctx context.Context) (map[EventStatus]int, error)
	CountUpcoming(ctx context.Context, after time.Time) (int, error)

	// FindFirstOverlapping returns the first pending or approved event at the
	// venue whose interval overlaps [start, end) per OverlapsBooking, skipping
	// excludeEventID when non-empty. Returns ErrNotFound when the slot is free.
	FindFirstOverlapping(ctx context.Context, location string, start, end time.Time, excludeEventID string) (*Event, error)

	// ListVenueEvents returns pending and approved events at the venue that
	// intersect the closed window [from, to] per IntersectsWindow, ordered by
	// start date ascending.
	ListVenueEvents(ctx context.Context, location string, from, to time.Time) ([]*Event, error)
}

// EventService defines the business logic for event CRUD and lifecycle.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEventByID(ctx context.Context, eventID string) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	ListMyEvents(ctx context.Context, userID string) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID, userID string, upd EventUpdate) (*Event, error)
	CancelEvent(ctx context.Context, eventID, userID string) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, userID, userRole string) error
}

// VenueConflictError reports that a candidate interval overlaps an existing
// booking. It carries the blocking event so callers can display it.
type VenueConflictError struct {
	Conflict *ConflictingEvent
}

func (e *VenueConflictError) Error() string {
	return fmt.Sprintf("venue already booked by %q from %s to %s",
		e.Conflict.Title,
		e.Conflict.StartDate.Format(time.RFC3339),
		e.Conflict.EndDate.Format(time.RFC3339))
}
