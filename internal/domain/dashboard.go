package domain

import (
	"context"
	"time"
)

// DashboardStats holds the admin dashboard counters.
// swagger:model DashboardStats
type DashboardStats struct {
	TotalUsers         int       `json:"total_users"`
	TotalEvents        int       `json:"total_events"`
	PendingEvents      int       `json:"pending_events"`
	ApprovedEvents     int       `json:"approved_events"`
	RejectedEvents     int       `json:"rejected_events"`
	CancelledEvents    int       `json:"cancelled_events"`
	UpcomingEvents     int       `json:"upcoming_events"`
	TotalRegistrations int       `json:"total_registrations"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// StatsCache caches dashboard stats between recomputations.
// A miss is (nil, false, nil); errors are reserved for backend failures.
type StatsCache interface {
	Get(ctx context.Context) (*DashboardStats, bool, error)
	Set(ctx context.Context, stats *DashboardStats) error
	Invalidate(ctx context.Context) error
}

// AdminService defines the admin approval workflow and dashboard.
type AdminService interface {
	ListEventsByStatus(ctx context.Context, status EventStatus, params PaginationParams) ([]*Event, int, error)
	// ApproveEvent moves a pending event to approved and notifies the organizer.
	ApproveEvent(ctx context.Context, eventID string) (*Event, error)
	// RejectEvent moves a pending event to rejected and notifies the organizer.
	RejectEvent(ctx context.Context, eventID, reason string) (*Event, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}
