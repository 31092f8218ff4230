package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuseventhub/internal/domain"
)

type fakeUserRepo struct {
	users map[string]*domain.User
	err   error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if r.err != nil {
		return r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		user.ID = "u-" + user.Email
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) CountAll(ctx context.Context) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	return len(r.users), nil
}

type fakeEmailService struct {
	statusNotices []*domain.EventStatusEmailData
	welcomes      []*domain.WelcomeEmailData
	err           error
}

func (s *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeEmailData) error {
	if s.err != nil {
		return s.err
	}
	s.welcomes = append(s.welcomes, data)
	return nil
}

func (s *fakeEmailService) SendEventStatusNotice(ctx context.Context, data *domain.EventStatusEmailData) error {
	if s.err != nil {
		return s.err
	}
	s.statusNotices = append(s.statusNotices, data)
	return nil
}

type fakeStatsCache struct {
	stats       *domain.DashboardStats
	getErr      error
	sets        int
	invalidates int
}

func (c *fakeStatsCache) Get(ctx context.Context) (*domain.DashboardStats, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	if c.stats == nil {
		return nil, false, nil
	}
	return c.stats, true, nil
}

func (c *fakeStatsCache) Set(ctx context.Context, stats *domain.DashboardStats) error {
	c.stats = stats
	c.sets++
	return nil
}

func (c *fakeStatsCache) Invalidate(ctx context.Context) error {
	c.stats = nil
	c.invalidates++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type adminFixture struct {
	svc       domain.AdminService
	eventRepo *fakeEventRepo
	userRepo  *fakeUserRepo
	regRepo   *fakeRegistrationRepo
	email     *fakeEmailService
	cache     *fakeStatsCache
}

func newAdminFixture(events ...*domain.Event) *adminFixture {
	f := &adminFixture{
		eventRepo: newFakeEventRepo(events...),
		userRepo:  newFakeUserRepo(&domain.User{ID: "org-1", Email: "ada@campus.edu", Name: "Ada"}),
		regRepo:   newFakeRegistrationRepo(),
		email:     &fakeEmailService{},
		cache:     &fakeStatsCache{},
	}
	f.svc = NewAdminService(f.eventRepo, f.userRepo, f.regRepo, f.email, f.cache, testLogger())
	return f
}

func TestAdminService_ListEventsByStatus(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(
		booking("e1", "Main Hall", domain.StatusPending, day(1, 10), day(1, 12)),
		booking("e2", "Main Hall", domain.StatusApproved, day(2, 10), day(2, 12)),
	)

	events, total, err := f.svc.ListEventsByStatus(ctx, domain.StatusPending, domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)

	_, _, err = f.svc.ListEventsByStatus(ctx, "bogus", domain.PaginationParams{Page: 1, PageSize: 20})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdminService_ApproveEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("approves and notifies the organizer", func(t *testing.T) {
		f := newAdminFixture(booking("e1", "Main Hall", domain.StatusPending, day(1, 10), day(1, 12)))

		updated, err := f.svc.ApproveEvent(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, updated.Status)

		require.Len(t, f.email.statusNotices, 1)
		notice := f.email.statusNotices[0]
		assert.Equal(t, "ada@campus.edu", notice.Email)
		assert.Equal(t, "approved", notice.Status)
		assert.Equal(t, 1, f.cache.invalidates)
	})

	t.Run("only pending events can be approved", func(t *testing.T) {
		for _, status := range []domain.EventStatus{domain.StatusApproved, domain.StatusRejected, domain.StatusCancelled} {
			f := newAdminFixture(booking("e1", "Main Hall", status, day(1, 10), day(1, 12)))
			_, err := f.svc.ApproveEvent(ctx, "e1")
			require.ErrorIs(t, err, domain.ErrInvalidStatus)
			assert.Empty(t, f.email.statusNotices)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		f := newAdminFixture()
		_, err := f.svc.ApproveEvent(ctx, "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("mail failure does not undo the approval", func(t *testing.T) {
		f := newAdminFixture(booking("e1", "Main Hall", domain.StatusPending, day(1, 10), day(1, 12)))
		f.email.err = errors.New("smtp down")

		updated, err := f.svc.ApproveEvent(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, updated.Status)
	})
}

func TestAdminService_RejectEvent(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture(booking("e1", "Main Hall", domain.StatusPending, day(1, 10), day(1, 12)))

	updated, err := f.svc.RejectEvent(ctx, "e1", "double booking")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, updated.Status)

	require.Len(t, f.email.statusNotices, 1)
	assert.Equal(t, "double booking", f.email.statusNotices[0].Reason)
	assert.Equal(t, 1, f.cache.invalidates)
}

func TestAdminService_GetDashboardStats(t *testing.T) {
	ctx := context.Background()

	t.Run("computes and caches on a miss", func(t *testing.T) {
		f := newAdminFixture(
			booking("e1", "Main Hall", domain.StatusPending, day(1, 10), day(1, 12)),
			booking("e2", "Main Hall", domain.StatusApproved, day(2, 10), day(2, 12)),
			booking("e3", "Main Hall", domain.StatusRejected, day(3, 10), day(3, 12)),
		)
		stats, err := f.svc.GetDashboardStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalUsers)
		assert.Equal(t, 3, stats.TotalEvents)
		assert.Equal(t, 1, stats.PendingEvents)
		assert.Equal(t, 1, stats.ApprovedEvents)
		assert.Equal(t, 1, stats.RejectedEvents)
		assert.Equal(t, 1, f.cache.sets)
	})

	t.Run("serves the cached copy on a hit", func(t *testing.T) {
		f := newAdminFixture()
		cached := &domain.DashboardStats{TotalUsers: 99}
		f.cache.stats = cached

		stats, err := f.svc.GetDashboardStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, cached, stats)
		assert.Zero(t, f.cache.sets)
	})

	t.Run("cache read failure falls through to a recompute", func(t *testing.T) {
		f := newAdminFixture(booking("e1", "Main Hall", domain.StatusApproved, day(1, 10), day(1, 12)))
		f.cache.getErr = errors.New("redis down")

		stats, err := f.svc.GetDashboardStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalEvents)
	})

	t.Run("nil cache recomputes every call", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		svc := NewAdminService(eventRepo, newFakeUserRepo(), newFakeRegistrationRepo(), &fakeEmailService{}, nil, testLogger())
		_, err := svc.GetDashboardStats(ctx)
		require.NoError(t, err)
	})
}
