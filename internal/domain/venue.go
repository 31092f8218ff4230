package domain

import (
	"context"
	"time"
)

// DefaultScheduleWindow is the venue schedule window applied when the caller
// supplies no end date.
const DefaultScheduleWindow = 7 * 24 * time.Hour

// OverlapsBooking reports whether a candidate interval [newStart, newEnd)
// conflicts with an existing booking [existingStart, existingEnd).
//
// The check is the literal three-case decomposition used at write time:
//
//  1. the candidate starts during the existing booking
//  2. the candidate ends during the existing booking
//  3. the candidate fully contains the existing booking
//
// Back-to-back bookings share an endpoint and do not conflict: case 1 is
// strict on the existing end bound and case 2 only counts an interior touch.
// The SQL in the event repository mirrors these cases; keep them in sync.
func OverlapsBooking(existingStart, existingEnd, newStart, newEnd time.Time) bool {
	// Case 1: existing.start <= new.start < existing.end
	if !newStart.Before(existingStart) && newStart.Before(existingEnd) {
		return true
	}
	// Case 2: existing.start < new.end <= existing.end
	if newEnd.After(existingStart) && !newEnd.After(existingEnd) {
		return true
	}
	// Case 3: new.start <= existing.start && new.end >= existing.end
	if !newStart.After(existingStart) && !newEnd.Before(existingEnd) {
		return true
	}
	return false
}

// IntersectsWindow reports whether a booking [start, end] intersects the
// closed schedule window [windowStart, windowEnd].
//
// The schedule view is deliberately more inclusive than OverlapsBooking:
// all bounds are closed, so a booking that merely touches the window edge
// still shows up. Do not unify the two predicates.
func IntersectsWindow(start, end, windowStart, windowEnd time.Time) bool {
	// Booking starts inside the window.
	if !start.Before(windowStart) && !start.After(windowEnd) {
		return true
	}
	// Booking ends inside the window.
	if !end.Before(windowStart) && !end.After(windowEnd) {
		return true
	}
	// Booking spans the whole window.
	if !start.After(windowStart) && !end.Before(windowEnd) {
		return true
	}
	return false
}

// ConflictingEvent identifies the booking that blocks a candidate interval.
// swagger:model ConflictingEvent
type ConflictingEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Organizer string    `json:"organizer"`
}

// ConflictCheck is the result of a venue conflict check. Conflict is nil when
// the slot is free. Only the first blocking event is surfaced.
type ConflictCheck struct {
	HasConflict bool              `json:"has_conflict"`
	Conflict    *ConflictingEvent `json:"conflict,omitempty"`
}

// AvailabilityResult is the caller-facing shape of an availability query.
// swagger:model AvailabilityResult
type AvailabilityResult struct {
	Available bool              `json:"available"`
	Message   string            `json:"message"`
	Conflict  *ConflictingEvent `json:"conflict,omitempty"`
}

// BookedSlot is one entry in a venue's schedule view.
// swagger:model BookedSlot
type BookedSlot struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	Status    EventStatus `json:"status"`
	Organizer string      `json:"organizer"`
}

// VenueSchedule lists a venue's booked slots within a window, ordered by
// start date ascending.
// swagger:model VenueSchedule
type VenueSchedule struct {
	Location    string       `json:"location"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     time.Time    `json:"end_date"`
	BookedSlots []BookedSlot `json:"booked_slots"`
}

// VenueService answers venue availability and schedule queries.
//
// Conflict checks are read-only and best-effort: a check and the write that
// follows it are not mutually excluded, so two concurrent creates can both
// pass for the same slot. That gap is documented behavior.
type VenueService interface {
	// CheckConflict reports whether [start, end) overlaps any pending or
	// approved event at the venue. excludeEventID (optional) skips one event,
	// so an update never conflicts with itself.
	CheckConflict(ctx context.Context, location string, start, end time.Time, excludeEventID string) (*ConflictCheck, error)

	// CheckAvailability validates the inputs (non-empty location, start before
	// end) before any query runs, then reshapes CheckConflict into an
	// AvailabilityResult.
	CheckAvailability(ctx context.Context, location string, start, end time.Time, excludeEventID string) (*AvailabilityResult, error)

	// GetVenueSchedule lists booked slots at the venue. A nil start defaults
	// to now; a nil end defaults to start plus DefaultScheduleWindow.
	GetVenueSchedule(ctx context.Context, location string, start, end *time.Time) (*VenueSchedule, error)
}
