package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"campuseventhub/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `e.id, e.title, e.description, e.location, e.start_date, e.end_date,
		e.status, e.max_attendees, e.current_attendees, e.created_by, u.name, u.club_name,
		e.created_at, e.updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var orgName, orgClub sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.StartDate, &e.EndDate,
		&e.Status, &e.MaxAttendees, &e.CurrentAttendees, &e.CreatedBy, &orgName, &orgClub,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if orgName.Valid {
		e.OrganizerName = orgName.String
	}
	if orgClub.Valid {
		e.OrganizerClub = orgClub.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, location, start_date, end_date, status, max_attendees, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Location, e.StartDate, e.EndDate,
		e.Status, e.MaxAttendees, e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		LEFT JOIN users u ON u.id = e.created_by
		WHERE e.id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	where := []string{"1=1"}
	args := []any{}
	n := 1
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("e.status = $%d", n))
		args = append(args, filter.Status)
		n++
	}
	if filter.Location != "" {
		where = append(where, fmt.Sprintf("e.location = $%d", n))
		args = append(args, filter.Location)
		n++
	}
	if filter.TitleSearch != "" {
		// Case normalization decided up front: lowercase both sides once.
		where = append(where, fmt.Sprintf("lower(e.title) LIKE $%d", n))
		args = append(args, "%"+strings.ToLower(filter.TitleSearch)+"%")
		n++
	}
	if filter.From != nil {
		where = append(where, fmt.Sprintf("e.end_date >= $%d", n))
		args = append(args, *filter.From)
		n++
	}
	if filter.To != nil {
		where = append(where, fmt.Sprintf("e.start_date <= $%d", n))
		args = append(args, *filter.To)
		n++
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM events e WHERE " + whereClause
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT `+eventColumns+`
		FROM events e
		LEFT JOIN users u ON u.id = e.created_by
		WHERE %s
		ORDER BY e.start_date ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, n, n+1)
	args = append(args, params.Limit(), params.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *eventRepository) ListByCreator(ctx context.Context, userID string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		LEFT JOIN users u ON u.id = e.created_by
		WHERE e.created_by = $1
		ORDER BY e.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	if upd.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *upd.Title)
		n++
	}
	if upd.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *upd.Description)
		n++
	}
	if upd.Location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", n))
		args = append(args, *upd.Location)
		n++
	}
	if upd.StartDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("start_date = $%d", n))
		args = append(args, *upd.StartDate)
		n++
	}
	if upd.EndDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("end_date = $%d", n))
		args = append(args, *upd.EndDate)
		n++
	}
	if upd.MaxAttendees != nil {
		setClauses = append(setClauses, fmt.Sprintf("max_attendees = $%d", n))
		args = append(args, *upd.MaxAttendees)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, eventID)
	}
	args = append(args, eventID)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING id
	`, strings.Join(setClauses, ", "), n)
	var id string
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *eventRepository) UpdateStatus(ctx context.Context, eventID string, status domain.EventStatus) (*domain.Event, error) {
	query := `
		UPDATE events SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`
	var id string
	if err := r.DB.QueryRowContext(ctx, query, status, eventID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) AdjustAttendeeCount(ctx context.Context, eventID string, delta int) error {
	query := `
		UPDATE events SET current_attendees = current_attendees + $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.DB.ExecContext(ctx, query, delta, eventID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindFirstOverlapping mirrors domain.OverlapsBooking: the three OR'd cases
// must keep the same strict/inclusive bounds so that back-to-back bookings
// never count as conflicts.
func (r *eventRepository) FindFirstOverlapping(ctx context.Context, location string, start, end time.Time, excludeEventID string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		LEFT JOIN users u ON u.id = e.created_by
		WHERE e.location = $1
		  AND e.status IN ('pending', 'approved')
		  AND (
			(e.start_date <= $2 AND e.end_date > $2) OR
			(e.start_date < $3 AND e.end_date >= $3) OR
			($2 <= e.start_date AND $3 >= e.end_date)
		  )
	`
	args := []any{location, start, end}
	if excludeEventID != "" {
		query += ` AND e.id <> $4`
		args = append(args, excludeEventID)
	}
	query += ` LIMIT 1`

	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// ListVenueEvents mirrors domain.IntersectsWindow: all bounds inclusive, so
// the schedule view also shows bookings touching the window edges.
func (r *eventRepository) ListVenueEvents(ctx context.Context, location string, from, to time.Time) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		LEFT JOIN users u ON u.id = e.created_by
		WHERE e.location = $1
		  AND e.status IN ('pending', 'approved')
		  AND (
			(e.start_date >= $2 AND e.start_date <= $3) OR
			(e.end_date >= $2 AND e.end_date <= $3) OR
			(e.start_date <= $2 AND e.end_date >= $3)
		  )
		ORDER BY e.start_date ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, location, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) CountByStatus(ctx context.Context) (map[domain.EventStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM events GROUP BY status`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[domain.EventStatus]int)
	for rows.Next() {
		var status domain.EventStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *eventRepository) CountUpcoming(ctx context.Context, after time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM events WHERE status = 'approved' AND start_date > $1`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, after).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
