package memory

import (
	"time"

	"github.com/riskibarqy/squad-manager/internal/domain/availability"
	"github.com/riskibarqy/squad-manager/internal/domain/event"
	"github.com/riskibarqy/squad-manager/internal/domain/formation"
	"github.com/riskibarqy/squad-manager/internal/domain/notification"
	"github.com/riskibarqy/squad-manager/internal/domain/roster"
)

const (
	TeamIDDemo          = "team-riverside-u12"
	EventIDDemoMatch    = "event-riverside-derby"
	EventIDDemoTraining = "event-riverside-training"
)

// SeedEvents places the demo fixtures relative to now so nudges have something to find.
func SeedEvents(now time.Time) []event.Event {
	return []event.Event{
		{
			ID:         EventIDDemoMatch,
			TeamID:     TeamIDDemo,
			Title:      "Riverside vs Hillcrest",
			Type:       event.TypeMatch,
			StartTime:  now.Add(72 * time.Hour).Truncate(time.Hour),
			Location:   "Riverside Park, pitch 2",
			GameFormat: formation.Format7,
		},
		{
			ID:         EventIDDemoTraining,
			TeamID:     TeamIDDemo,
			Title:      "Tuesday training",
			Type:       event.TypeTraining,
			StartTime:  now.Add(24 * time.Hour).Truncate(time.Hour),
			Location:   "Riverside Park, pitch 1",
			GameFormat: formation.Format7,
		},
	}
}

func SeedPlayers() []roster.Player {
	names := []string{"Ava", "Ben", "Chloe", "Dev", "Ella", "Finn", "Grace", "Hugo", "Isla"}
	positions := []string{"Goalkeeper", "Defender", "Defender", "Midfielder", "Midfielder", "Midfielder", "Striker", "Defender", "Striker"}
	out := make([]roster.Player, 0, len(names))
	for i, name := range names {
		out = append(out, roster.Player{
			ID:       "player-" + name,
			TeamID:   TeamIDDemo,
			UserID:   "user-" + name,
			Name:     name,
			Position: positions[i],
		})
	}
	return out
}

func SeedStaff() []roster.Staff {
	return []roster.Staff{
		{ID: "staff-coach", TeamID: TeamIDDemo, UserID: "user-coach", Name: "Sam Carter", Role: "Head Coach"},
		{ID: "staff-assistant", TeamID: TeamIDDemo, UserID: "user-assistant", Name: "Jo Patel", Role: "Assistant Coach"},
	}
}

func SeedAvailability() []availability.Record {
	return []availability.Record{
		{EventID: EventIDDemoMatch, UserID: "user-Ava", Status: availability.StatusAvailable},
		{EventID: EventIDDemoMatch, UserID: "user-Ben", Status: availability.StatusAvailable},
		{EventID: EventIDDemoMatch, UserID: "user-Chloe", Status: availability.StatusUnavailable},
		{EventID: EventIDDemoMatch, UserID: "user-Dev", Status: availability.StatusPending},
		{EventID: EventIDDemoMatch, UserID: "user-Ella", Status: availability.StatusPending},
		{EventID: EventIDDemoMatch, UserID: "user-Finn", Status: availability.StatusPending},
		{EventID: EventIDDemoMatch, UserID: "user-Grace", Status: availability.StatusPending},
	}
}

func SeedProfiles() []notification.Profile {
	out := make([]notification.Profile, 0)
	for _, p := range SeedPlayers() {
		platform := notification.PlatformAndroid
		if len(p.Name)%2 == 0 {
			platform = notification.PlatformIOS
		}
		out = append(out, notification.Profile{
			UserID:    p.UserID,
			PushToken: "demo-token-" + p.Name,
			Platform:  platform,
		})
	}
	return out
}
