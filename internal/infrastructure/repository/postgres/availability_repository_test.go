package postgres

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/riskibarqy/squad-manager/internal/domain/availability"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityRepository_Summarize(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS total FROM event_availability WHERE event_id = $1 GROUP BY status")).
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "total"}).
			AddRow("available", 2).
			AddRow("unavailable", 1).
			AddRow("pending", 4))

	got, err := NewAvailabilityRepository(db).Summarize(t.Context(), "e1")
	require.NoError(t, err)
	require.Equal(t, availability.Summary{Available: 2, Unavailable: 1, Pending: 4, Total: 7}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepository_ListUserIDsByStatus(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM event_availability WHERE event_id = $1 AND status = $2 ORDER BY user_id")).
		WithArgs("e1", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1").AddRow("u2"))

	got, err := NewAvailabilityRepository(db).ListUserIDsByStatus(t.Context(), "e1", availability.StatusPending)
	require.NoError(t, err)
	require.Equal(t, []string{"u1", "u2"}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO event_availability (event_id, user_id, status, updated_at) VALUES ($1, $2, $3, $4) ON CONFLICT (event_id, user_id)")).
		WithArgs("e1", "u1", "available", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewAvailabilityRepository(db).Upsert(t.Context(), availability.Record{EventID: "e1", UserID: "u1", Status: availability.StatusAvailable})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
