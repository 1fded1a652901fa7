package notification

import (
	"fmt"
	"net/url"

	"github.com/riskibarqy/squad-manager/internal/domain/event"
)

// Message is the push gateway request body.
type Message struct {
	To           string            `json:"to"`
	Notification Content           `json:"notification"`
	Data         map[string]string `json:"data"`
	Android      AndroidConfig     `json:"android"`
	APNS         APNSConfig        `json:"apns"`
}

type Content struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type AndroidConfig struct {
	Priority     string              `json:"priority"`
	Notification AndroidNotification `json:"notification"`
}

type AndroidNotification struct {
	ChannelID             string `json:"channel_id"`
	Sound                 string `json:"sound,omitempty"`
	DefaultVibrateTimings bool   `json:"default_vibrate_timings"`
	NotificationCount     *int   `json:"notification_count,omitempty"`
}

type APNSConfig struct {
	Payload APNSPayload `json:"payload"`
}

type APNSPayload struct {
	APS APS `json:"aps"`
}

type APS struct {
	Alert          Content `json:"alert"`
	Sound          string  `json:"sound,omitempty"`
	Badge          *int    `json:"badge,omitempty"`
	Category       string  `json:"category"`
	MutableContent int     `json:"mutable-content"`
}

// MessageInput carries everything needed to build one recipient's message.
type MessageInput struct {
	Profile Profile
	Event   event.Event
	Type    Type
	Title   string
	Body    string
	// Token is the one-time deep-link token issued for this recipient.
	Token string
	Extra map[string]string
}

func ChannelFor(t event.Type) string {
	switch t {
	case event.TypeMatch:
		return "match_reminders"
	case event.TypeTraining:
		return "training_reminders"
	default:
		return "general"
	}
}

func CategoryFor(t Type) string {
	switch t {
	case TypeEventReminder:
		return "EVENT_REMINDER"
	case TypeAvailabilityRequest:
		return "AVAILABILITY_REQUEST"
	case TypeManualReminder:
		return "MANUAL_REMINDER"
	case TypeWeeklyNudge:
		return "WEEKLY_NUDGE"
	default:
		return "GENERAL"
	}
}

func EventLink(eventID, token string) string {
	return fmt.Sprintf("app://event/%s?token=%s", url.PathEscape(eventID), url.QueryEscape(token))
}

func RSVPLink(answer, token string) string {
	return fmt.Sprintf("app://rsvp/%s?token=%s", answer, url.QueryEscape(token))
}

// DefaultContent is the title and body used when the scheduled row carries none.
func DefaultContent(t Type, ev event.Event) Content {
	title := ev.Title
	if title == "" {
		title = "Team event"
	}
	when := ev.StartTime.Format("Mon 2 Jan 15:04")
	switch t {
	case TypeEventReminder:
		return Content{Title: "Reminder: " + title, Body: "Starts " + when}
	case TypeAvailabilityRequest:
		return Content{Title: "Are you available?", Body: title + " on " + when}
	case TypeWeeklyNudge:
		return Content{Title: "Still waiting on your reply", Body: "Let the coach know if you can make " + title}
	default:
		return Content{Title: title, Body: "Please update your availability"}
	}
}

// BuildMessage shapes the platform payload from the recipient's preferences.
func BuildMessage(in MessageInput) Message {
	content := DefaultContent(in.Type, in.Event)
	if in.Title != "" {
		content.Title = in.Title
	}
	if in.Body != "" {
		content.Body = in.Body
	}

	data := make(map[string]string, len(in.Extra)+5)
	for k, v := range in.Extra {
		data[k] = v
	}
	data["event_id"] = in.Event.ID
	data["notification_type"] = string(in.Type)
	data["deep_link"] = EventLink(in.Event.ID, in.Token)
	data["action_yes"] = RSVPLink("yes", in.Token)
	data["action_no"] = RSVPLink("no", in.Token)

	prefs := in.Profile.Preferences
	msg := Message{
		To:           in.Profile.PushToken,
		Notification: content,
		Data:         data,
		Android: AndroidConfig{
			Priority: "high",
			Notification: AndroidNotification{
				ChannelID:             ChannelFor(in.Event.Type),
				DefaultVibrateTimings: prefs.Vibrate(),
			},
		},
		APNS: APNSConfig{Payload: APNSPayload{APS: APS{
			Alert:          content,
			Category:       CategoryFor(in.Type),
			MutableContent: 1,
		}}},
	}

	if prefs.Sound() {
		msg.Android.Notification.Sound = "default"
		msg.APNS.Payload.APS.Sound = "default"
	}
	if prefs.ShowBadge() {
		one := 1
		msg.Android.Notification.NotificationCount = &one
		msg.APNS.Payload.APS.Badge = &one
	}

	return msg
}
