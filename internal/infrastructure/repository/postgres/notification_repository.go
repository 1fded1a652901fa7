package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/squad-manager/internal/domain/notification"
	qb "github.com/riskibarqy/squad-manager/internal/platform/querybuilder"
)

type ScheduledNotificationRepository struct {
	db *sqlx.DB
}

func NewScheduledNotificationRepository(db *sqlx.DB) *ScheduledNotificationRepository {
	return &ScheduledNotificationRepository{db: db}
}

// ListDue returns pending rows due at now, oldest first. Rows are not claimed.
func (r *ScheduledNotificationRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]notification.Scheduled, error) {
	query, args, err := qb.Select("id", "event_id", "notification_type", "scheduled_time", "target_users", "data", "status", "created_at", "processed_at").
		From("scheduled_notifications").
		Where(
			qb.Eq("status", string(notification.StatusPending)),
			qb.Lte("scheduled_time", now.UTC()),
		).
		OrderBy("scheduled_time", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list due notifications query: %w", err)
	}

	var rows []scheduledNotificationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list due notifications: %w", err)
	}

	out := make([]notification.Scheduled, 0, len(rows))
	for _, row := range rows {
		item, err := scheduledFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *ScheduledNotificationRepository) Create(ctx context.Context, item notification.Scheduled) error {
	data := item.Data
	if data == nil {
		data = map[string]string{}
	}
	encoded, err := sonic.MarshalString(data)
	if err != nil {
		return fmt.Errorf("encode scheduled notification data: %w", err)
	}
	status := item.Status
	if status == "" {
		status = notification.StatusPending
	}
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query, args, err := qb.InsertModel("scheduled_notifications", scheduledNotificationInsertModel{
		ID:            item.ID,
		EventID:       item.EventID,
		Type:          string(item.Type),
		ScheduledTime: item.ScheduledTime.UTC(),
		TargetUsers:   pq.StringArray(item.TargetUsers),
		Data:          encoded,
		Status:        string(status),
		CreatedAt:     createdAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build create scheduled notification query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create scheduled notification: %w", err)
	}
	return nil
}

func (r *ScheduledNotificationRepository) MarkProcessed(ctx context.Context, id string, status notification.Status, processedAt time.Time) error {
	query, args, err := qb.Update("scheduled_notifications").
		Set("status", string(status)).
		Set("processed_at", processedAt.UTC()).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark scheduled notification query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark scheduled notification: %w", err)
	}
	return nil
}

func scheduledFromRow(row scheduledNotificationTableModel) (notification.Scheduled, error) {
	data := map[string]string{}
	if len(row.Data) > 0 && string(row.Data) != "null" {
		if err := sonic.Unmarshal(row.Data, &data); err != nil {
			return notification.Scheduled{}, fmt.Errorf("decode scheduled notification %s data: %w", row.ID, err)
		}
	}

	item := notification.Scheduled{
		ID:            row.ID,
		EventID:       row.EventID,
		Type:          notification.Type(row.Type),
		ScheduledTime: row.ScheduledTime,
		TargetUsers:   append([]string(nil), row.TargetUsers...),
		Data:          data,
		Status:        notification.Status(row.Status),
		CreatedAt:     row.CreatedAt,
	}
	if row.ProcessedAt.Valid {
		processedAt := row.ProcessedAt.Time
		item.ProcessedAt = &processedAt
	}
	return item, nil
}

type NotificationLogRepository struct {
	db *sqlx.DB
}

func NewNotificationLogRepository(db *sqlx.DB) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

// InsertBatch writes every log row in one statement. Row ids are generated by the database.
func (r *NotificationLogRepository) InsertBatch(ctx context.Context, logs []notification.Log) error {
	if len(logs) == 0 {
		return nil
	}

	insert := qb.InsertInto("notification_logs").
		Columns("scheduled_notification_id", "event_id", "user_id", "notification_type", "status", "error_message", "sent_at")
	for _, l := range logs {
		insert.Values(
			nullString(l.ScheduledID),
			l.EventID,
			l.UserID,
			string(l.Type),
			string(l.Status),
			nullString(l.ErrorMessage),
			l.SentAt.UTC(),
		)
	}
	query, args, err := insert.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert notification logs query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert notification logs: %w", err)
	}
	return nil
}

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// ListByUserIDs loads push registrations. A malformed preferences document reads as all enabled.
func (r *ProfileRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]notification.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select(
		"id",
		"COALESCE(push_token, '') AS push_token",
		"COALESCE(platform, '') AS platform",
		"notification_preferences",
	).
		From("profiles").
		Where(qb.InStrings("id", userIDs)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list profiles query: %w", err)
	}

	var rows []profileTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	out := make([]notification.Profile, 0, len(rows))
	for _, row := range rows {
		prefs, err := notification.ParsePreferences(row.Preferences)
		if err != nil {
			prefs = notification.Preferences{}
		}
		out = append(out, notification.Profile{
			UserID:      row.ID,
			PushToken:   row.PushToken,
			Platform:    notification.Platform(row.Platform),
			Preferences: prefs,
		})
	}
	return out, nil
}
