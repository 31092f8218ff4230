package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campuseventhub/internal/domain"
)

type adminService struct {
	eventRepo        domain.EventRepository
	userRepo         domain.UserRepository
	registrationRepo domain.RegistrationRepository
	emailService     domain.EmailService
	statsCache       domain.StatsCache
	logger           *slog.Logger
}

// NewAdminService creates an AdminService. statsCache may be nil, in which
// case dashboard stats are recomputed on every call.
func NewAdminService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	registrationRepo domain.RegistrationRepository,
	emailService domain.EmailService,
	statsCache domain.StatsCache,
	logger *slog.Logger,
) domain.AdminService {
	return &adminService{
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		registrationRepo: registrationRepo,
		emailService:     emailService,
		statsCache:       statsCache,
		logger:           logger,
	}
}

func (s *adminService) ListEventsByStatus(ctx context.Context, status domain.EventStatus, params domain.PaginationParams) ([]*domain.Event, int, error) {
	switch status {
	case domain.StatusPending, domain.StatusApproved, domain.StatusRejected, domain.StatusCancelled:
	default:
		return nil, 0, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	events, total, err := s.eventRepo.List(ctx, domain.EventFilter{Status: status}, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *adminService) ApproveEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	return s.resolveEvent(ctx, eventID, domain.StatusApproved, "")
}

func (s *adminService) RejectEvent(ctx context.Context, eventID, reason string) (*domain.Event, error) {
	return s.resolveEvent(ctx, eventID, domain.StatusRejected, reason)
}

func (s *adminService) resolveEvent(ctx context.Context, eventID string, status domain.EventStatus, reason string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status != domain.StatusPending {
		return nil, domain.ErrInvalidStatus
	}
	updated, err := s.eventRepo.UpdateStatus(ctx, eventID, status)
	if err != nil {
		return nil, fmt.Errorf("update event status: %w", err)
	}

	s.notifyOrganizer(ctx, updated, reason)

	if s.statsCache != nil {
		if err := s.statsCache.Invalidate(ctx); err != nil {
			s.logger.WarnContext(ctx, "stats cache invalidation failed", "err", err)
		}
	}
	return updated, nil
}

// notifyOrganizer emails the event creator about the status change. The
// decision is already committed at this point, so mail failures only log.
func (s *adminService) notifyOrganizer(ctx context.Context, event *domain.Event, reason string) {
	if s.emailService == nil {
		return
	}
	organizer, err := s.userRepo.GetByID(ctx, event.CreatedBy)
	if err != nil {
		s.logger.WarnContext(ctx, "organizer lookup for notification failed", "event_id", event.ID, "err", err)
		return
	}
	data := &domain.EventStatusEmailData{
		Email:      organizer.Email,
		Organizer:  event.OrganizerDisplayName(),
		EventTitle: event.Title,
		Location:   event.Location,
		StartDate:  event.StartDate.Format(time.RFC1123),
		Status:     string(event.Status),
		Reason:     reason,
	}
	if data.Organizer == "" {
		data.Organizer = organizer.Name
	}
	if err := s.emailService.SendEventStatusNotice(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "status notification email failed", "event_id", event.ID, "err", err)
	}
}

func (s *adminService) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	if s.statsCache != nil {
		if stats, ok, err := s.statsCache.Get(ctx); err != nil {
			s.logger.WarnContext(ctx, "stats cache read failed", "err", err)
		} else if ok {
			return stats, nil
		}
	}

	users, err := s.userRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	byStatus, err := s.eventRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count events by status: %w", err)
	}
	upcoming, err := s.eventRepo.CountUpcoming(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("count upcoming events: %w", err)
	}
	registrations, err := s.registrationRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}

	total := 0
	for _, c := range byStatus {
		total += c
	}
	stats := &domain.DashboardStats{
		TotalUsers:         users,
		TotalEvents:        total,
		PendingEvents:      byStatus[domain.StatusPending],
		ApprovedEvents:     byStatus[domain.StatusApproved],
		RejectedEvents:     byStatus[domain.StatusRejected],
		CancelledEvents:    byStatus[domain.StatusCancelled],
		UpcomingEvents:     upcoming,
		TotalRegistrations: registrations,
		GeneratedAt:        time.Now(),
	}

	if s.statsCache != nil {
		if err := s.statsCache.Set(ctx, stats); err != nil {
			s.logger.WarnContext(ctx, "stats cache write failed", "err", err)
		}
	}
	return stats, nil
}
