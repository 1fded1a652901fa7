package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type eventTableModel struct {
	ID         string         `db:"id"`
	TeamID     string         `db:"team_id"`
	Title      string         `db:"title"`
	EventType  string         `db:"event_type"`
	StartTime  time.Time      `db:"start_time"`
	Location   sql.NullString `db:"location"`
	GameFormat sql.NullString `db:"game_format"`
}

type playerTableModel struct {
	ID       string         `db:"id"`
	TeamID   string         `db:"team_id"`
	UserID   sql.NullString `db:"user_id"`
	Name     string         `db:"name"`
	Position sql.NullString `db:"position"`
}

type staffTableModel struct {
	ID     string         `db:"id"`
	TeamID string         `db:"team_id"`
	UserID sql.NullString `db:"user_id"`
	Name   string         `db:"name"`
	Role   sql.NullString `db:"role"`
}

type invitationTableModel struct {
	EventID     string         `db:"event_id"`
	PlayerID    sql.NullString `db:"player_id"`
	StaffID     sql.NullString `db:"staff_id"`
	InviteeType string         `db:"invitee_type"`
	CreatedAt   time.Time      `db:"created_at"`
}

type availabilityCountRow struct {
	Status string `db:"status"`
	Total  int    `db:"total"`
}

type availabilityInsertModel struct {
	EventID   string    `db:"event_id"`
	UserID    string    `db:"user_id"`
	Status    string    `db:"status"`
	UpdatedAt time.Time `db:"updated_at"`
}

type selectionTableModel struct {
	EventID    string    `db:"event_id"`
	TeamID     string    `db:"team_id"`
	GameFormat string    `db:"game_format"`
	Periods    []byte    `db:"periods"`
	AppliedAt  time.Time `db:"applied_at"`
}

type selectionInsertModel struct {
	EventID    string    `db:"event_id"`
	TeamID     string    `db:"team_id"`
	GameFormat string    `db:"game_format"`
	Periods    string    `db:"periods"`
	AppliedAt  time.Time `db:"applied_at"`
}

type scheduledNotificationTableModel struct {
	ID            string         `db:"id"`
	EventID       string         `db:"event_id"`
	Type          string         `db:"notification_type"`
	ScheduledTime time.Time      `db:"scheduled_time"`
	TargetUsers   pq.StringArray `db:"target_users"`
	Data          []byte         `db:"data"`
	Status        string         `db:"status"`
	CreatedAt     time.Time      `db:"created_at"`
	ProcessedAt   sql.NullTime   `db:"processed_at"`
}

type scheduledNotificationInsertModel struct {
	ID            string         `db:"id"`
	EventID       string         `db:"event_id"`
	Type          string         `db:"notification_type"`
	ScheduledTime time.Time      `db:"scheduled_time"`
	TargetUsers   pq.StringArray `db:"target_users"`
	Data          string         `db:"data"`
	Status        string         `db:"status"`
	CreatedAt     time.Time      `db:"created_at"`
}

type profileTableModel struct {
	ID          string `db:"id"`
	PushToken   string `db:"push_token"`
	Platform    string `db:"platform"`
	Preferences []byte `db:"notification_preferences"`
}

type deepLinkGrantTableModel struct {
	UserID  string `db:"user_id"`
	EventID string `db:"event_id"`
}
