package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/squad-manager/internal/domain/availability"
	"github.com/riskibarqy/squad-manager/internal/domain/event"
	"github.com/riskibarqy/squad-manager/internal/domain/notification"
	"github.com/riskibarqy/squad-manager/internal/infrastructure/repository/memory"
)

type fakePushSender struct {
	mu       sync.Mutex
	hasKey   bool
	failFor  map[string]error
	messages []notification.Message
}

func (f *fakePushSender) HasCredentials() bool { return f.hasKey }

func (f *fakePushSender) Send(_ context.Context, msg notification.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	if err, ok := f.failFor[msg.To]; ok {
		return err
	}
	return nil
}

func (f *fakePushSender) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, m.To)
	}
	return out
}

type fakeJobQueue struct {
	mu    sync.Mutex
	calls []enqueuedJob
}

type enqueuedJob struct {
	path    string
	payload any
	delay   time.Duration
	dedupID string
}

func (f *fakeJobQueue) Enqueue(_ context.Context, path string, payload any, delay time.Duration, dedupID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, enqueuedJob{path: path, payload: payload, delay: delay, dedupID: dedupID})
	return nil
}

// stickyScheduledRepo never leaves pending, like two runs racing before either marks the row.
type stickyScheduledRepo struct {
	*memory.ScheduledNotificationRepository
}

func (stickyScheduledRepo) MarkProcessed(context.Context, string, notification.Status, time.Time) error {
	return nil
}

type failingProfileRepo struct{ err error }

func (f failingProfileRepo) ListByUserIDs(context.Context, []string) ([]notification.Profile, error) {
	return nil, f.err
}

var notificationNow = time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC) // Monday

type notificationFixture struct {
	service   *NotificationService
	scheduled *memory.ScheduledNotificationRepository
	logs      *memory.NotificationLogRepository
	avail     *memory.AvailabilityRepository
	sender    *fakePushSender
}

func newNotificationFixture(t *testing.T, opts ...func(*notificationDeps)) notificationFixture {
	t.Helper()

	off := false
	deps := &notificationDeps{
		scheduled: memory.NewScheduledNotificationRepository(),
		profiles: memory.NewProfileRepository([]notification.Profile{
			{UserID: "u1", PushToken: "tok-u1", Platform: notification.PlatformAndroid},
			{UserID: "u2", PushToken: "tok-u2", Platform: notification.PlatformIOS},
			{UserID: "u3", PushToken: "tok-u3", Preferences: notification.Preferences{ManualReminders: &off, EventReminders: &off}},
			{UserID: "u4"},
		}),
		sender: &fakePushSender{hasKey: true, failFor: map[string]error{}},
	}
	for _, opt := range opts {
		opt(deps)
	}

	events := memory.NewEventRepository([]event.Event{
		{ID: "e1", TeamID: "t1", Title: "Derby", Type: event.TypeMatch, StartTime: notificationNow.Add(48 * time.Hour)},
		{ID: "e2", TeamID: "t1", Title: "Training", Type: event.TypeTraining, StartTime: notificationNow.Add(96 * time.Hour)},
		{ID: "e3", TeamID: "t1", Title: "Far away", Type: event.TypeMatch, StartTime: notificationNow.Add(10 * 24 * time.Hour)},
	})
	avail := memory.NewAvailabilityRepository([]availability.Record{
		{EventID: "e1", UserID: "u1", Status: availability.StatusPending},
		{EventID: "e1", UserID: "u2", Status: availability.StatusPending},
		{EventID: "e1", UserID: "u3", Status: availability.StatusAvailable},
		{EventID: "e2", UserID: "u1", Status: availability.StatusAvailable},
		{EventID: "e3", UserID: "u1", Status: availability.StatusPending},
	})
	logs := memory.NewNotificationLogRepository()

	var scheduledRepo notification.ScheduledRepository = deps.scheduled
	if deps.sticky {
		scheduledRepo = stickyScheduledRepo{deps.scheduled}
	}

	service := NewNotificationService(scheduledRepo, logs, deps.profiles, events, avail, deps.sender, memory.NewTokenIssuer(), nil, NotificationConfig{SendWorkers: 2, Location: deps.location}, nil)
	service.now = func() time.Time { return notificationNow }

	return notificationFixture{service: service, scheduled: deps.scheduled, logs: logs, avail: avail, sender: deps.sender}
}

type notificationDeps struct {
	scheduled *memory.ScheduledNotificationRepository
	profiles  notification.ProfileRepository
	sender    *fakePushSender
	sticky    bool
	location  *time.Location
}

func seedDue(t *testing.T, repo *memory.ScheduledNotificationRepository, id string, kind notification.Type, users ...string) {
	t.Helper()
	err := repo.Create(t.Context(), notification.Scheduled{
		ID:            id,
		EventID:       "e1",
		Type:          kind,
		ScheduledTime: notificationNow.Add(-time.Minute),
		TargetUsers:   users,
		Data:          map[string]string{"title": "Kick-off soon"},
		Status:        notification.StatusPending,
	})
	if err != nil {
		t.Fatalf("seed scheduled notification: %v", err)
	}
}

func TestNotificationService_DispatchDueRequiresServerKey(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture(t, func(d *notificationDeps) { d.sender.hasKey = false })
	seedDue(t, f.scheduled, "n1", notification.TypeEventReminder, "u1")

	_, err := f.service.DispatchDue(t.Context())
	if !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured, got %v", err)
	}
	if len(f.sender.sentTo()) != 0 {
		t.Fatalf("nothing should be sent without a server key")
	}
	item, _ := f.scheduled.Get("n1")
	if item.Status != notification.StatusPending {
		t.Fatalf("row must stay pending: got=%s", item.Status)
	}
}

func TestNotificationService_DispatchDueRecipientFailuresDoNotFailRow(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture(t)
	f.sender.failFor["tok-u2"] = errors.New("push gateway status 400")
	seedDue(t, f.scheduled, "n1", notification.TypeEventReminder, "u1", "u2", "u3", "u4", "u1")

	got, err := f.service.DispatchDue(t.Context())
	if err != nil {
		t.Fatalf("dispatch due: %v", err)
	}
	if got.Processed != 1 || got.Sent != 1 || got.Failed != 0 {
		t.Fatalf("unexpected dispatch result: %+v", got)
	}
	// u3 opted out of event reminders and u4 has no token.
	if got.Recipients.Sent != 1 || got.Recipients.Failed != 1 || got.Recipients.Skipped != 2 {
		t.Fatalf("unexpected recipient counts: %+v", got.Recipients)
	}

	item, _ := f.scheduled.Get("n1")
	if item.Status != notification.StatusSent || item.ProcessedAt == nil {
		t.Fatalf("row should be marked sent: %+v", item)
	}

	logs := f.logs.All()
	if len(logs) != 2 {
		t.Fatalf("expected one log per attempted recipient, got %d", len(logs))
	}
	for _, l := range logs {
		if l.ScheduledID != "n1" || l.EventID != "e1" {
			t.Fatalf("unexpected log row: %+v", l)
		}
		if l.UserID == "u2" && (l.Status != notification.LogFailed || l.ErrorMessage == "") {
			t.Fatalf("failed recipient should carry error text: %+v", l)
		}
	}

	for _, m := range f.sender.messages {
		if m.Notification.Title != "Kick-off soon" || m.Data["scheduled_notification_id"] != "n1" {
			t.Fatalf("unexpected message: %+v", m)
		}
		if m.Android.Notification.ChannelID != "match_reminders" || m.APNS.Payload.APS.Category != "EVENT_REMINDER" {
			t.Fatalf("unexpected platform config: %+v", m)
		}
	}
}

func TestNotificationService_DispatchDueProfileFailureMarksFailed(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture(t, func(d *notificationDeps) {
		d.profiles = failingProfileRepo{err: errors.New("profiles unavailable")}
	})
	seedDue(t, f.scheduled, "n1", notification.TypeEventReminder, "u1")

	got, err := f.service.DispatchDue(t.Context())
	if err != nil {
		t.Fatalf("dispatch due: %v", err)
	}
	if got.Failed != 1 || got.Sent != 0 {
		t.Fatalf("unexpected dispatch result: %+v", got)
	}
	item, _ := f.scheduled.Get("n1")
	if item.Status != notification.StatusFailed {
		t.Fatalf("row should be marked failed: got=%s", item.Status)
	}
}

func TestNotificationService_DoubleDispatchSendsTwice(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture(t, func(d *notificationDeps) { d.sticky = true })
	seedDue(t, f.scheduled, "n1", notification.TypeEventReminder, "u1")

	for i := 0; i < 2; i++ {
		if _, err := f.service.DispatchDue(t.Context()); err != nil {
			t.Fatalf("dispatch due run %d: %v", i, err)
		}
	}

	sent := f.sender.sentTo()
	if len(sent) != 2 || sent[0] != "tok-u1" || sent[1] != "tok-u1" {
		t.Fatalf("overlapping runs are expected to deliver twice, got %v", sent)
	}
}

func TestNotificationService_SendManualReminderTargetsPendingUsers(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture(t)

	got, err := f.service.SendManualReminder(t.Context(), ManualReminderInput{EventID: "e1", Body: "Reply by Friday"})
	if err != nil {
		t.Fatalf("send manual reminder: %v", err)
	}
	if got.Sent != 2 || got.Failed != 0 || got.Skipped != 0 {
		t.Fatalf("unexpected counts: %+v", got)
	}

	got, err = f.service.SendManualReminder(t.Context(), ManualReminderInput{EventID: "e1", UserIDs: []string{"u3", "u4"}})
	if err != nil {
		t.Fatalf("send manual reminder: %v", err)
	}
	if got.Sent != 0 || got.Skipped != 2 {
		t.Fatalf("opted-out and tokenless users should be skipped: %+v", got)
	}

	for _, m := range f.sender.messages {
		if m.APNS.Payload.APS.Category != "MANUAL_REMINDER" {
			t.Fatalf("unexpected category: %s", m.APNS.Payload.APS.Category)
		}
		if m.Data["deep_link"] == "" || m.Data["action_yes"] == "" {
			t.Fatalf("missing quick actions: %+v", m.Data)
		}
	}
	if len(f.logs.All()) != 2 {
		t.Fatalf("unexpected log rows: %d", len(f.logs.All()))
	}
}

func TestNotificationService_SendManualReminderErrors(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture(t)

	if _, err := f.service.SendManualReminder(t.Context(), ManualReminderInput{EventID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.service.SendManualReminder(t.Context(), ManualReminderInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	f.sender.hasKey = false
	if _, err := f.service.SendManualReminder(t.Context(), ManualReminderInput{EventID: "e1"}); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured, got %v", err)
	}
}

func TestNotificationService_ScheduleWeeklyNudges(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture(t)
	queue := &fakeJobQueue{}
	f.service.SetJobQueue(queue)

	got, err := f.service.ScheduleWeeklyNudges(t.Context())
	if err != nil {
		t.Fatalf("schedule weekly nudges: %v", err)
	}
	// e2 has no pending users and e3 is outside the window.
	if got.EventsScanned != 2 || got.Scheduled != 1 || len(got.ScheduledIDs) != 1 {
		t.Fatalf("unexpected nudge result: %+v", got)
	}

	item, ok := f.scheduled.Get(got.ScheduledIDs[0])
	if !ok {
		t.Fatalf("scheduled row not stored")
	}
	wantAt := time.Date(2026, 10, 14, 19, 0, 0, 0, time.UTC)
	if !item.ScheduledTime.Equal(wantAt) {
		t.Fatalf("unexpected scheduled time: got=%v want=%v", item.ScheduledTime, wantAt)
	}
	if item.Type != notification.TypeWeeklyNudge || item.Status != notification.StatusPending || len(item.TargetUsers) != 2 {
		t.Fatalf("unexpected scheduled row: %+v", item)
	}

	if len(queue.calls) != 1 {
		t.Fatalf("expected one enqueue, got %d", len(queue.calls))
	}
	call := queue.calls[0]
	if call.path != DispatchJobPath || call.delay != wantAt.Sub(notificationNow) || call.dedupID != "nudge-"+item.ID {
		t.Fatalf("unexpected enqueue: %+v", call)
	}
}

func TestNotificationService_ScheduleWeeklyNudgesUsesTeamLocation(t *testing.T) {
	t.Parallel()
	// Monday 08:00 UTC is Monday 21:00 in Auckland.
	auckland := time.FixedZone("NZDT", 13*60*60)
	f := newNotificationFixture(t, func(d *notificationDeps) { d.location = auckland })

	got, err := f.service.ScheduleWeeklyNudges(t.Context())
	if err != nil {
		t.Fatalf("schedule weekly nudges: %v", err)
	}
	if len(got.ScheduledIDs) != 1 {
		t.Fatalf("unexpected nudge result: %+v", got)
	}

	item, _ := f.scheduled.Get(got.ScheduledIDs[0])
	wantAt := time.Date(2026, 10, 14, 19, 0, 0, 0, auckland)
	if !item.ScheduledTime.Equal(wantAt) {
		t.Fatalf("nudge should land at 19:00 team time: got=%v want=%v", item.ScheduledTime, wantAt)
	}
}
