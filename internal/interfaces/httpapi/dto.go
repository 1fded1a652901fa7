package httpapi

import (
	"time"

	"github.com/riskibarqy/squad-manager/internal/domain/invitation"
	"github.com/riskibarqy/squad-manager/internal/domain/lineup"
	"github.com/riskibarqy/squad-manager/internal/usecase"
)

type suggestTeamRequest struct {
	Prompt           string   `json:"prompt" validate:"max=2000"`
	GameFormat       string   `json:"gameFormat" validate:"max=32"`
	GameDuration     int      `json:"gameDuration" validate:"gte=0,lte=240"`
	TeamNumber       int      `json:"teamNumber" validate:"gte=0,lte=10"`
	SquadPlayerIDs   []string `json:"squadPlayerIds" validate:"required,min=1,dive,required"`
	CurrentFormation string   `json:"currentFormation" validate:"max=16"`
}

type applySelectionRequest struct {
	GameFormat string          `json:"gameFormat" validate:"max=32"`
	Periods    []periodRequest `json:"periods" validate:"required,min=1,dive"`
}

type periodRequest struct {
	ID           string              `json:"id"`
	PeriodNumber int                 `json:"periodNumber" validate:"gte=1"`
	Formation    string              `json:"formation" validate:"required"`
	Duration     int                 `json:"duration" validate:"gte=0"`
	Positions    []assignmentRequest `json:"positions" validate:"dive"`
	Substitutes  []string            `json:"substitutes" validate:"dive,required"`
	CaptainID    string              `json:"captainId"`
}

type assignmentRequest struct {
	ID            string  `json:"id"`
	PositionName  string  `json:"positionName" validate:"required"`
	Abbreviation  string  `json:"abbreviation"`
	PositionGroup string  `json:"positionGroup"`
	X             float64 `json:"x" validate:"gte=0,lte=100"`
	Y             float64 `json:"y" validate:"gte=0,lte=100"`
	PlayerID      string  `json:"playerId"`
	Fallback      bool    `json:"fallback"`
}

type changePolicyRequest struct {
	Policy    string   `json:"policy" validate:"required,oneof=everyone players_only staff_only pick_squad"`
	PlayerIDs []string `json:"playerIds" validate:"dive,required"`
	StaffIDs  []string `json:"staffIds" validate:"dive,required"`
}

type respondAvailabilityRequest struct {
	Status string `json:"status" validate:"required,oneof=pending available unavailable"`
}

type manualReminderRequest struct {
	UserIDs []string `json:"userIds" validate:"max=500,dive,required"`
	Title   string   `json:"title" validate:"max=120"`
	Body    string   `json:"body" validate:"max=500"`
}

type internalJobRequest struct {
	ScheduledNotificationID string `json:"scheduled_notification_id"`
	DispatchID              string `json:"dispatch_id"`
}

type formationListDTO struct {
	GameFormat string   `json:"gameFormat"`
	Default    string   `json:"default"`
	Formations []string `json:"formations"`
}

type formationDTO struct {
	GameFormat string                 `json:"gameFormat"`
	ID         string                 `json:"id"`
	Positions  []formationPositionDTO `json:"positions"`
}

type formationPositionDTO struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type assignmentDTO struct {
	ID            string  `json:"id"`
	PositionName  string  `json:"positionName"`
	Abbreviation  string  `json:"abbreviation"`
	PositionGroup string  `json:"positionGroup"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	PlayerID      string  `json:"playerId,omitempty"`
	Fallback      bool    `json:"fallback,omitempty"`
}

type periodDTO struct {
	ID           string          `json:"id"`
	PeriodNumber int             `json:"periodNumber"`
	Formation    string          `json:"formation"`
	Duration     int             `json:"duration"`
	Positions    []assignmentDTO `json:"positions"`
	Substitutes  []string        `json:"substitutes"`
	CaptainID    string          `json:"captainId,omitempty"`
}

type suggestionDTO struct {
	Periods    []periodDTO `json:"periods"`
	Reasoning  string      `json:"reasoning"`
	Unresolved []string    `json:"unresolvedPositions"`
}

type selectionDTO struct {
	EventID    string      `json:"eventId"`
	TeamID     string      `json:"teamId"`
	GameFormat string      `json:"gameFormat"`
	Periods    []periodDTO `json:"periods"`
	AppliedAt  time.Time   `json:"appliedAt"`
}

type detectionDTO struct {
	Policy            string   `json:"policy"`
	InvitedPlayerIDs  []string `json:"invitedPlayerIds"`
	InvitedStaffIDs   []string `json:"invitedStaffIds"`
	RosterPlayerCount int      `json:"rosterPlayerCount"`
	RosterStaffCount  int      `json:"rosterStaffCount"`
	InvitedCount      int      `json:"invitedCount"`
}

type availabilitySummaryDTO struct {
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
	Pending     int `json:"pending"`
	Total       int `json:"total"`
}

type availabilityRecordDTO struct {
	EventID   string    `json:"eventId"`
	UserID    string    `json:"userId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type recipientCountsDTO struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type dispatchResultDTO struct {
	Processed  int                `json:"processed"`
	Sent       int                `json:"sent"`
	Failed     int                `json:"failed"`
	Recipients recipientCountsDTO `json:"recipients"`
}

type nudgeResultDTO struct {
	EventsScanned int      `json:"eventsScanned"`
	Scheduled     int      `json:"scheduled"`
	Failed        int      `json:"failed"`
	ScheduledIDs  []string `json:"scheduledIds"`
}

func periodsToDTO(periods []lineup.Period) []periodDTO {
	out := make([]periodDTO, 0, len(periods))
	for _, p := range periods {
		positions := make([]assignmentDTO, 0, len(p.Positions))
		for _, a := range p.Positions {
			positions = append(positions, assignmentDTO{
				ID:            a.ID,
				PositionName:  a.PositionName,
				Abbreviation:  a.Abbreviation,
				PositionGroup: a.PositionGroup,
				X:             a.X,
				Y:             a.Y,
				PlayerID:      a.PlayerID,
				Fallback:      a.Fallback,
			})
		}
		out = append(out, periodDTO{
			ID:           p.ID,
			PeriodNumber: p.PeriodNumber,
			Formation:    p.Formation,
			Duration:     p.Duration,
			Positions:    positions,
			Substitutes:  nonNilStrings(p.Substitutes),
			CaptainID:    p.CaptainID,
		})
	}
	return out
}

func periodsFromRequest(in []periodRequest) []lineup.Period {
	out := make([]lineup.Period, 0, len(in))
	for _, p := range in {
		positions := make([]lineup.Assignment, 0, len(p.Positions))
		for _, a := range p.Positions {
			positions = append(positions, lineup.Assignment{
				ID:            a.ID,
				PositionName:  a.PositionName,
				Abbreviation:  a.Abbreviation,
				PositionGroup: a.PositionGroup,
				X:             a.X,
				Y:             a.Y,
				PlayerID:      a.PlayerID,
				Fallback:      a.Fallback,
			})
		}
		out = append(out, lineup.Period{
			ID:           p.ID,
			PeriodNumber: p.PeriodNumber,
			Formation:    p.Formation,
			Duration:     p.Duration,
			Positions:    positions,
			Substitutes:  p.Substitutes,
			CaptainID:    p.CaptainID,
		})
	}
	return out
}

func selectionToDTO(s lineup.Selection) selectionDTO {
	return selectionDTO{
		EventID:    s.EventID,
		TeamID:     s.TeamID,
		GameFormat: s.GameFormat,
		Periods:    periodsToDTO(s.Periods),
		AppliedAt:  s.AppliedAt,
	}
}

func detectionToDTO(d invitation.Detection) detectionDTO {
	return detectionDTO{
		Policy:            string(d.Policy),
		InvitedPlayerIDs:  nonNilStrings(d.InvitedPlayerIDs),
		InvitedStaffIDs:   nonNilStrings(d.InvitedStaffIDs),
		RosterPlayerCount: d.RosterPlayerCount,
		RosterStaffCount:  d.RosterStaffCount,
		InvitedCount:      d.InvitedCount,
	}
}

func recipientCountsToDTO(c usecase.RecipientCounts) recipientCountsDTO {
	return recipientCountsDTO{Sent: c.Sent, Failed: c.Failed, Skipped: c.Skipped}
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
