package postgres

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/riskibarqy/squad-manager/internal/domain/event"
	"github.com/stretchr/testify/require"
)

var eventColumns = []string{"id", "team_id", "title", "event_type", "start_time", "location", "game_format"}

func TestEventRepository_GetByID(t *testing.T) {
	start := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("SELECT id, team_id, title, event_type, start_time, location, game_format FROM events WHERE id = $1")

	tests := []struct {
		name       string
		mock       func(mock sqlmock.Sqlmock)
		wantExists bool
		want       event.Event
		wantErr    bool
	}{
		{
			name: "found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).
					WithArgs("e1").
					WillReturnRows(sqlmock.NewRows(eventColumns).AddRow("e1", "t1", "Derby", "match", start, nil, "7-a-side"))
			},
			wantExists: true,
			want:       event.Event{ID: "e1", TeamID: "t1", Title: "Derby", Type: event.TypeMatch, StartTime: start, GameFormat: "7-a-side"},
		},
		{
			name: "unknown type reads as other",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).
					WithArgs("e1").
					WillReturnRows(sqlmock.NewRows(eventColumns).AddRow("e1", "t1", "BBQ", "social", start, "Clubhouse", nil))
			},
			wantExists: true,
			want:       event.Event{ID: "e1", TeamID: "t1", Title: "BBQ", Type: event.TypeOther, StartTime: start, Location: "Clubhouse"},
		},
		{
			name: "missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("e1").WillReturnError(sql.ErrNoRows)
			},
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("e1").WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.mock(mock)

			got, exists, err := NewEventRepository(db).GetByID(t.Context(), "e1")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantExists, exists)
				require.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_ListStartingBetween(t *testing.T) {
	db, mock := newMockDB(t)
	from := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	to := from.Add(7 * 24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE start_time >= $1 AND start_time < $2 ORDER BY start_time, id")).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows(eventColumns).
			AddRow("e1", "t1", "Derby", "match", from.Add(time.Hour), nil, nil).
			AddRow("e2", "t1", "Drills", "training", from.Add(48*time.Hour), nil, nil))

	got, err := NewEventRepository(db).ListStartingBetween(t.Context(), from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, event.TypeTraining, got[1].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}
