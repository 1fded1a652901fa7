package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/squad-manager/internal/domain/availability"
	"github.com/riskibarqy/squad-manager/internal/domain/event"
	"github.com/riskibarqy/squad-manager/internal/domain/notification"
	"github.com/riskibarqy/squad-manager/internal/platform/id"
	"github.com/riskibarqy/squad-manager/internal/platform/logging"
)

const (
	defaultSendWorkers   = 8
	defaultDispatchBatch = 200
	defaultNudgeWindow   = 7 * 24 * time.Hour

	DispatchJobPath = "/v1/internal/jobs/dispatch-notifications"
)

type NotificationConfig struct {
	SendWorkers   int
	DispatchBatch int
	NudgeWindow   time.Duration
	// Location is the team's wall clock for nudge slots. Defaults to UTC.
	Location *time.Location
}

type RecipientCounts struct {
	Sent    int
	Failed  int
	Skipped int
}

func (c *RecipientCounts) add(other RecipientCounts) {
	c.Sent += other.Sent
	c.Failed += other.Failed
	c.Skipped += other.Skipped
}

type DispatchResult struct {
	Processed  int
	Sent       int
	Failed     int
	Recipients RecipientCounts
}

type ManualReminderInput struct {
	EventID string
	UserIDs []string
	Title   string
	Body    string
}

type NudgeResult struct {
	EventsScanned int
	Scheduled     int
	Failed        int
	ScheduledIDs  []string
}

type NotificationService struct {
	scheduledRepo    notification.ScheduledRepository
	logRepo          notification.LogRepository
	profileRepo      notification.ProfileRepository
	eventRepo        event.Repository
	availabilityRepo availability.Repository
	sender           PushSender
	tokens           DeepLinkTokenIssuer
	ids              id.Generator
	queue            JobQueue
	cfg              NotificationConfig
	logger           *logging.Logger
	now              func() time.Time
}

func NewNotificationService(
	scheduledRepo notification.ScheduledRepository,
	logRepo notification.LogRepository,
	profileRepo notification.ProfileRepository,
	eventRepo event.Repository,
	availabilityRepo availability.Repository,
	sender PushSender,
	tokens DeepLinkTokenIssuer,
	ids id.Generator,
	cfg NotificationConfig,
	logger *logging.Logger,
) *NotificationService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if cfg.SendWorkers <= 0 {
		cfg.SendWorkers = defaultSendWorkers
	}
	if cfg.DispatchBatch <= 0 {
		cfg.DispatchBatch = defaultDispatchBatch
	}
	if cfg.NudgeWindow <= 0 {
		cfg.NudgeWindow = defaultNudgeWindow
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &NotificationService{
		scheduledRepo:    scheduledRepo,
		logRepo:          logRepo,
		profileRepo:      profileRepo,
		eventRepo:        eventRepo,
		availabilityRepo: availabilityRepo,
		sender:           sender,
		tokens:           tokens,
		ids:              ids,
		cfg:              cfg,
		logger:           logger.Named("notification"),
		now:              time.Now,
	}
}

// SetJobQueue enables delayed dispatch calls for newly scheduled rows.
func (s *NotificationService) SetJobQueue(queue JobQueue) {
	s.queue = queue
}

// DispatchDue sends every pending notification whose time has come.
//
// A row is marked sent once its recipient loop completes, whatever the per-recipient
// outcomes, and failed only when the loop itself errors. There is no claim step, so two
// overlapping runs deliver the same row twice.
func (s *NotificationService) DispatchDue(ctx context.Context) (DispatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.DispatchDue")
	defer span.End()

	if err := s.requireCredentials(); err != nil {
		return DispatchResult{}, err
	}

	due, err := s.scheduledRepo.ListDue(ctx, s.now().UTC(), s.cfg.DispatchBatch)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("list due notifications: %w", err)
	}

	var result DispatchResult
	for _, item := range due {
		counts, dispatchErr := s.dispatchScheduled(ctx, item)
		result.Recipients.add(counts)
		result.Processed++

		status := notification.StatusSent
		if dispatchErr != nil {
			status = notification.StatusFailed
			result.Failed++
			s.logger.ErrorContext(ctx, "scheduled notification failed",
				"scheduled_notification_id", item.ID,
				"event_id", item.EventID,
				"error", dispatchErr,
			)
		} else {
			result.Sent++
		}

		if err := s.scheduledRepo.MarkProcessed(ctx, item.ID, status, s.now().UTC()); err != nil {
			s.logger.ErrorContext(ctx, "mark scheduled notification failed",
				"scheduled_notification_id", item.ID,
				"status", status,
				"error", err,
			)
		}
	}

	s.logger.InfoContext(ctx, "notification dispatch finished",
		"processed", result.Processed,
		"sent", result.Sent,
		"failed", result.Failed,
		"recipients_sent", result.Recipients.Sent,
		"recipients_failed", result.Recipients.Failed,
		"recipients_skipped", result.Recipients.Skipped,
	)
	return result, nil
}

// SendManualReminder pushes a reminder now. Without explicit users it targets everyone
// whose availability is still pending.
func (s *NotificationService) SendManualReminder(ctx context.Context, input ManualReminderInput) (RecipientCounts, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.SendManualReminder")
	defer span.End()

	if err := s.requireCredentials(); err != nil {
		return RecipientCounts{}, err
	}

	eventID := strings.TrimSpace(input.EventID)
	if eventID == "" {
		return RecipientCounts{}, fmt.Errorf("%w: event_id is required", ErrInvalidInput)
	}
	ev, exists, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return RecipientCounts{}, fmt.Errorf("get event: %w", err)
	}
	if !exists {
		return RecipientCounts{}, fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}

	recipients := trimAll(input.UserIDs)
	if len(recipients) == 0 {
		recipients, err = s.availabilityRepo.ListUserIDsByStatus(ctx, eventID, availability.StatusPending)
		if err != nil {
			return RecipientCounts{}, fmt.Errorf("list pending users: %w", err)
		}
	}
	if len(recipients) == 0 {
		return RecipientCounts{}, nil
	}

	counts, err := s.deliver(ctx, delivery{
		event:   ev,
		kind:    notification.TypeManualReminder,
		users:   recipients,
		title:   strings.TrimSpace(input.Title),
		body:    strings.TrimSpace(input.Body),
		trigger: "manual",
	})
	if err != nil {
		return counts, err
	}

	s.logger.InfoContext(ctx, "manual reminder sent",
		"event_id", eventID,
		"sent", counts.Sent,
		"failed", counts.Failed,
		"skipped", counts.Skipped,
	)
	return counts, nil
}

// ScheduleWeeklyNudges queues one nudge per upcoming event with pending RSVPs.
func (s *NotificationService) ScheduleWeeklyNudges(ctx context.Context) (NudgeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.ScheduleWeeklyNudges")
	defer span.End()

	now := s.now()
	events, err := s.eventRepo.ListStartingBetween(ctx, now, now.Add(s.cfg.NudgeWindow))
	if err != nil {
		return NudgeResult{}, fmt.Errorf("list upcoming events: %w", err)
	}

	result := NudgeResult{EventsScanned: len(events)}
	sendAt := notification.NextNudgeTime(now.In(s.cfg.Location))
	for _, ev := range events {
		scheduledID, err := s.scheduleNudge(ctx, ev, now, sendAt)
		if err != nil {
			result.Failed++
			s.logger.ErrorContext(ctx, "schedule weekly nudge failed", "event_id", ev.ID, "error", err)
			continue
		}
		if scheduledID == "" {
			continue
		}
		result.Scheduled++
		result.ScheduledIDs = append(result.ScheduledIDs, scheduledID)
	}

	s.logger.InfoContext(ctx, "weekly nudges scheduled",
		"events", result.EventsScanned,
		"scheduled", result.Scheduled,
		"failed", result.Failed,
		"send_at", sendAt,
	)
	return result, nil
}

func (s *NotificationService) scheduleNudge(ctx context.Context, ev event.Event, now, sendAt time.Time) (string, error) {
	pending, err := s.availabilityRepo.ListUserIDsByStatus(ctx, ev.ID, availability.StatusPending)
	if err != nil {
		return "", fmt.Errorf("list pending users: %w", err)
	}
	if len(pending) == 0 {
		return "", nil
	}

	scheduledID, err := s.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("generate scheduled notification id: %w", err)
	}
	item := notification.Scheduled{
		ID:            scheduledID,
		EventID:       ev.ID,
		Type:          notification.TypeWeeklyNudge,
		ScheduledTime: sendAt,
		TargetUsers:   pending,
		Data:          map[string]string{},
		Status:        notification.StatusPending,
		CreatedAt:     now.UTC(),
	}
	if err := s.scheduledRepo.Create(ctx, item); err != nil {
		return "", fmt.Errorf("create scheduled notification: %w", err)
	}

	if s.queue != nil {
		payload := map[string]string{"scheduled_notification_id": scheduledID}
		if err := s.queue.Enqueue(ctx, DispatchJobPath, payload, sendAt.Sub(now), "nudge-"+scheduledID); err != nil {
			s.logger.WarnContext(ctx, "enqueue nudge dispatch failed, poller will pick it up",
				"scheduled_notification_id", scheduledID,
				"error", err,
			)
		}
	}
	return scheduledID, nil
}

func (s *NotificationService) dispatchScheduled(ctx context.Context, item notification.Scheduled) (RecipientCounts, error) {
	ev, exists, err := s.eventRepo.GetByID(ctx, item.EventID)
	if err != nil {
		return RecipientCounts{}, fmt.Errorf("get event: %w", err)
	}
	if !exists {
		return RecipientCounts{}, fmt.Errorf("%w: event=%s", ErrNotFound, item.EventID)
	}

	extra := make(map[string]string, len(item.Data))
	for k, v := range item.Data {
		if k == "title" || k == "body" {
			continue
		}
		extra[k] = v
	}
	extra["scheduled_notification_id"] = item.ID

	return s.deliver(ctx, delivery{
		event:       ev,
		kind:        item.Type,
		scheduledID: item.ID,
		users:       item.TargetUsers,
		title:       item.Data["title"],
		body:        item.Data["body"],
		extra:       extra,
		trigger:     "scheduled",
	})
}

type delivery struct {
	event       event.Event
	kind        notification.Type
	scheduledID string
	users       []string
	title       string
	body        string
	extra       map[string]string
	trigger     string
}

type sendOutcome struct {
	userID string
	err    error
}

// deliver fans sends out over a bounded pool and writes one log row per attempted recipient.
// Users without a push token or who opted out of the type are skipped without a log row.
func (s *NotificationService) deliver(ctx context.Context, d delivery) (RecipientCounts, error) {
	users := dedupeIDs(d.users)
	profiles, err := s.profileRepo.ListByUserIDs(ctx, users)
	if err != nil {
		return RecipientCounts{}, fmt.Errorf("list recipient profiles: %w", err)
	}
	byUser := make(map[string]notification.Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}

	var counts RecipientCounts
	targets := make([]notification.Profile, 0, len(users))
	for _, userID := range users {
		p, ok := byUser[userID]
		if !ok || strings.TrimSpace(p.PushToken) == "" || !p.Preferences.Allows(d.kind) {
			counts.Skipped++
			continue
		}
		targets = append(targets, p)
	}
	if len(targets) == 0 {
		return counts, nil
	}

	outcomes, err := s.sendAll(ctx, d, targets)
	if err != nil {
		return counts, err
	}

	sentAt := s.now().UTC()
	logs := make([]notification.Log, 0, len(outcomes))
	for _, o := range outcomes {
		row := notification.Log{
			ScheduledID: d.scheduledID,
			EventID:     d.event.ID,
			UserID:      o.userID,
			Type:        d.kind,
			Status:      notification.LogSent,
			SentAt:      sentAt,
		}
		if o.err != nil {
			counts.Failed++
			row.Status = notification.LogFailed
			row.ErrorMessage = o.err.Error()
			s.logger.WarnContext(ctx, "push delivery failed",
				"event_id", d.event.ID,
				"user_id", o.userID,
				"trigger", d.trigger,
				"error", o.err,
			)
		} else {
			counts.Sent++
		}
		logs = append(logs, row)
	}

	if err := s.logRepo.InsertBatch(ctx, logs); err != nil {
		return counts, fmt.Errorf("insert notification logs: %w", err)
	}
	return counts, nil
}

func (s *NotificationService) sendAll(ctx context.Context, d delivery, targets []notification.Profile) ([]sendOutcome, error) {
	workers := min(s.cfg.SendWorkers, len(targets))
	p, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create send pool: %w", err)
	}
	defer p.Release()

	outcomes := make([]sendOutcome, len(targets))
	var wg sync.WaitGroup
	for i, profile := range targets {
		wg.Add(1)
		if err := p.Submit(func() {
			defer wg.Done()
			outcomes[i] = sendOutcome{userID: profile.UserID, err: s.sendOne(ctx, d, profile)}
		}); err != nil {
			wg.Done()
			outcomes[i] = sendOutcome{userID: profile.UserID, err: fmt.Errorf("submit send task: %w", err)}
		}
	}
	wg.Wait()
	return outcomes, nil
}

func (s *NotificationService) sendOne(ctx context.Context, d delivery, profile notification.Profile) error {
	token, err := s.tokens.IssueToken(ctx, profile.UserID, d.event.ID)
	if err != nil {
		return fmt.Errorf("issue deep link token: %w", err)
	}
	msg := notification.BuildMessage(notification.MessageInput{
		Profile: profile,
		Event:   d.event,
		Type:    d.kind,
		Title:   d.title,
		Body:    d.body,
		Token:   token,
		Extra:   d.extra,
	})
	return s.sender.Send(ctx, msg)
}

func (s *NotificationService) requireCredentials() error {
	if s.sender == nil || !s.sender.HasCredentials() {
		return fmt.Errorf("%w: push server key is not configured", ErrMisconfigured)
	}
	return nil
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
