package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuseventhub/internal/domain"
)

var registrationRowCols = []string{"id", "event_id", "user_id", "ticket_code", "checked_in", "created_at", "updated_at"}

func TestRegistrationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRegistrationRepository(db)

	now := time.Now()
	reg := &domain.Registration{EventID: "ev-1", UserID: "u-1", TicketCode: "t-1", CreatedAt: now, UpdatedAt: now}

	t.Run("assigns the returned id", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO registrations`).
			WithArgs("ev-1", "u-1", "t-1", now, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r-1"))

		require.NoError(t, repo.Create(context.Background(), reg))
		assert.Equal(t, "r-1", reg.ID)
	})

	t.Run("unique violation maps to ErrAlreadyRegistered", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO registrations`).
			WithArgs("ev-1", "u-1", "t-1", now, now).
			WillReturnError(&pq.Error{Code: uniqueViolation})

		require.ErrorIs(t, repo.Create(context.Background(), reg), domain.ErrAlreadyRegistered)
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_GetByTicketCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRegistrationRepository(db)

	t.Run("found", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`SELECT .+ FROM registrations\s+WHERE ticket_code = \$1`).
			WithArgs("t-1").
			WillReturnRows(sqlmock.NewRows(registrationRowCols).
				AddRow("r-1", "ev-1", "u-1", "t-1", false, now, now))

		reg, err := repo.GetByTicketCode(context.Background(), "t-1")
		require.NoError(t, err)
		assert.Equal(t, "r-1", reg.ID)
		assert.False(t, reg.CheckedIn)
	})

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM registrations`).
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByTicketCode(context.Background(), "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_ListByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM registrations\s+WHERE user_id = \$1\s+ORDER BY created_at DESC`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(registrationRowCols).
			AddRow("r-2", "ev-2", "u-1", "t-2", false, now, now).
			AddRow("r-1", "ev-1", "u-1", "t-1", true, now, now))

	regs, err := NewRegistrationRepository(db).ListByUserID(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, "r-2", regs[0].ID)
	assert.True(t, regs[1].CheckedIn)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRegistrationRepository(db)

	mock.ExpectExec(`DELETE FROM registrations WHERE event_id = \$1 AND user_id = \$2`).
		WithArgs("ev-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "ev-1", "u-1"))

	mock.ExpectExec(`DELETE FROM registrations`).
		WithArgs("ev-1", "u-2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), "ev-1", "u-2"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_SetCheckedIn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRegistrationRepository(db)

	mock.ExpectExec(`UPDATE registrations SET checked_in = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(true, "r-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetCheckedIn(context.Background(), "r-1", true))

	mock.ExpectExec(`UPDATE registrations SET checked_in`).
		WithArgs(true, "nope").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.SetCheckedIn(context.Background(), "nope", true), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
