package notification

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// Preferences mirrors the notification_preferences JSON document. A nil flag means enabled.
type Preferences struct {
	EventReminders       *bool `json:"event_reminders,omitempty"`
	AvailabilityRequests *bool `json:"availability_requests,omitempty"`
	ManualReminders      *bool `json:"manual_reminders,omitempty"`
	WeeklyNudges         *bool `json:"weekly_nudges,omitempty"`
	NotificationSound    *bool `json:"notification_sound,omitempty"`
	Vibration            *bool `json:"vibration,omitempty"`
	BadgeCount           *bool `json:"badge_count,omitempty"`
}

// ParsePreferences decodes the stored document; empty input yields all-enabled defaults.
func ParsePreferences(raw []byte) (Preferences, error) {
	var out Preferences
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return out, nil
	}
	if err := sonic.UnmarshalString(trimmed, &out); err != nil {
		return Preferences{}, fmt.Errorf("decode notification preferences: %w", err)
	}
	return out, nil
}

// Allows reports whether notifications of type t may be delivered.
func (p Preferences) Allows(t Type) bool {
	switch t {
	case TypeEventReminder:
		return enabled(p.EventReminders)
	case TypeAvailabilityRequest:
		return enabled(p.AvailabilityRequests)
	case TypeManualReminder:
		return enabled(p.ManualReminders)
	case TypeWeeklyNudge:
		return enabled(p.WeeklyNudges)
	default:
		return true
	}
}

func (p Preferences) Sound() bool     { return enabled(p.NotificationSound) }
func (p Preferences) Vibrate() bool   { return enabled(p.Vibration) }
func (p Preferences) ShowBadge() bool { return enabled(p.BadgeCount) }

func enabled(flag *bool) bool {
	return flag == nil || *flag
}
