package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/squad-manager/internal/domain/availability"
	"github.com/riskibarqy/squad-manager/internal/domain/event"
	"github.com/riskibarqy/squad-manager/internal/domain/invitation"
	"github.com/riskibarqy/squad-manager/internal/domain/roster"
	"github.com/riskibarqy/squad-manager/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

type ChangePolicyInput struct {
	TeamID    string
	EventID   string
	Policy    invitation.Policy
	PlayerIDs []string
	StaffIDs  []string
}

type RespondAvailabilityInput struct {
	EventID string
	UserID  string
	Status  availability.Status
}

// RSVPInput is a notification quick action: the answer from the link path and its token.
type RSVPInput struct {
	Token  string
	Answer string
}

var rsvpAnswers = map[string]availability.Status{
	"yes": availability.StatusAvailable,
	"no":  availability.StatusUnavailable,
}

// InvitationService reads rosters on every call; policy detection must see roster changes at once,
// so rosterRepo should not be a cached repository.
type InvitationService struct {
	eventRepo        event.Repository
	rosterRepo       roster.Repository
	invitationRepo   invitation.Repository
	availabilityRepo availability.Repository
	tokens           DeepLinkRedeemer
	logger           *logging.Logger
	now              func() time.Time
}

func NewInvitationService(
	eventRepo event.Repository,
	rosterRepo roster.Repository,
	invitationRepo invitation.Repository,
	availabilityRepo availability.Repository,
	tokens DeepLinkRedeemer,
	logger *logging.Logger,
) *InvitationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &InvitationService{
		eventRepo:        eventRepo,
		rosterRepo:       rosterRepo,
		invitationRepo:   invitationRepo,
		availabilityRepo: availabilityRepo,
		tokens:           tokens,
		logger:           logger.Named("invitation"),
		now:              time.Now,
	}
}

type eventAudience struct {
	playerIDs []string
	staffIDs  []string
	rows      []invitation.Invitation
}

// DetectPolicy infers the invitee policy of an event from its rows and the current rosters.
func (s *InvitationService) DetectPolicy(ctx context.Context, teamID, eventID string) (invitation.Detection, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InvitationService.DetectPolicy")
	defer span.End()

	teamID, eventID, err := s.requireTeamEvent(ctx, teamID, eventID)
	if err != nil {
		return invitation.Detection{}, err
	}

	audience, err := s.loadAudience(ctx, teamID, eventID, true)
	if err != nil {
		return invitation.Detection{}, err
	}
	return invitation.Detect(audience.playerIDs, audience.staffIDs, audience.rows), nil
}

// ChangePolicy replaces the whole invitation set of the event. Concurrent edits: last writer wins.
func (s *InvitationService) ChangePolicy(ctx context.Context, input ChangePolicyInput) (invitation.Detection, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InvitationService.ChangePolicy")
	defer span.End()

	if !input.Policy.Valid() {
		return invitation.Detection{}, fmt.Errorf("%w: unknown policy %q", ErrInvalidInput, input.Policy)
	}
	teamID, eventID, err := s.requireTeamEvent(ctx, input.TeamID, input.EventID)
	if err != nil {
		return invitation.Detection{}, err
	}

	audience, err := s.loadAudience(ctx, teamID, eventID, false)
	if err != nil {
		return invitation.Detection{}, err
	}

	rows, err := invitation.Rows(eventID, input.Policy, audience.playerIDs, audience.staffIDs, trimAll(input.PlayerIDs), trimAll(input.StaffIDs))
	if err != nil {
		return invitation.Detection{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	now := s.now().UTC()
	for i := range rows {
		rows[i].CreatedAt = now
	}

	if err := s.invitationRepo.ReplaceForEvent(ctx, eventID, rows); err != nil {
		return invitation.Detection{}, fmt.Errorf("replace event invitations: %w", err)
	}

	detected := invitation.Detect(audience.playerIDs, audience.staffIDs, rows)
	s.logger.InfoContext(ctx, "event invitation policy changed",
		"event_id", eventID,
		"requested_policy", input.Policy,
		"detected_policy", detected.Policy,
		"rows", len(rows),
	)
	return detected, nil
}

// AvailabilitySummary counts RSVP rows by status. Rows of users no longer invited still count.
func (s *InvitationService) AvailabilitySummary(ctx context.Context, eventID string) (availability.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InvitationService.AvailabilitySummary")
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return availability.Summary{}, fmt.Errorf("%w: event_id is required", ErrInvalidInput)
	}

	summary, err := s.availabilityRepo.Summarize(ctx, eventID)
	if err != nil {
		return availability.Summary{}, fmt.Errorf("summarize availability: %w", err)
	}
	return summary, nil
}

func (s *InvitationService) RespondAvailability(ctx context.Context, input RespondAvailabilityInput) (availability.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InvitationService.RespondAvailability")
	defer span.End()

	record := availability.Record{
		EventID:   strings.TrimSpace(input.EventID),
		UserID:    strings.TrimSpace(input.UserID),
		Status:    input.Status,
		UpdatedAt: s.now().UTC(),
	}
	if record.EventID == "" || record.UserID == "" {
		return availability.Record{}, fmt.Errorf("%w: event_id and user_id are required", ErrInvalidInput)
	}
	if !record.Status.Valid() {
		return availability.Record{}, fmt.Errorf("%w: unknown availability status %q", ErrInvalidInput, input.Status)
	}

	if _, exists, err := s.eventRepo.GetByID(ctx, record.EventID); err != nil {
		return availability.Record{}, fmt.Errorf("get event: %w", err)
	} else if !exists {
		return availability.Record{}, fmt.Errorf("%w: event=%s", ErrNotFound, record.EventID)
	}

	if err := s.availabilityRepo.Upsert(ctx, record); err != nil {
		return availability.Record{}, fmt.Errorf("save availability: %w", err)
	}
	return record, nil
}

// RespondByToken records the answer of an RSVP quick action for the user and event the
// token was issued for. The token is spent even if the answer cannot be saved.
func (s *InvitationService) RespondByToken(ctx context.Context, input RSVPInput) (availability.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InvitationService.RespondByToken")
	defer span.End()

	status, ok := rsvpAnswers[strings.ToLower(strings.TrimSpace(input.Answer))]
	if !ok {
		return availability.Record{}, fmt.Errorf("%w: rsvp answer must be yes or no, got %q", ErrInvalidInput, input.Answer)
	}
	token := strings.TrimSpace(input.Token)
	if token == "" {
		return availability.Record{}, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	if s.tokens == nil {
		return availability.Record{}, fmt.Errorf("%w: deep link tokens are not configured", ErrMisconfigured)
	}

	grant, ok, err := s.tokens.RedeemToken(ctx, token)
	if err != nil {
		return availability.Record{}, fmt.Errorf("redeem deep link token: %w", err)
	}
	if !ok {
		return availability.Record{}, fmt.Errorf("%w: deep link token is invalid, used or expired", ErrUnauthorized)
	}

	return s.RespondAvailability(ctx, RespondAvailabilityInput{
		EventID: grant.EventID,
		UserID:  grant.UserID,
		Status:  status,
	})
}

func (s *InvitationService) requireTeamEvent(ctx context.Context, teamID, eventID string) (string, string, error) {
	teamID = strings.TrimSpace(teamID)
	eventID = strings.TrimSpace(eventID)
	if teamID == "" || eventID == "" {
		return "", "", fmt.Errorf("%w: team_id and event_id are required", ErrInvalidInput)
	}

	ev, exists, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return "", "", fmt.Errorf("get event: %w", err)
	}
	if !exists || ev.TeamID != teamID {
		return "", "", fmt.Errorf("%w: event=%s team=%s", ErrNotFound, eventID, teamID)
	}
	return teamID, eventID, nil
}

// loadAudience fetches both rosters, and optionally the stored rows, concurrently.
func (s *InvitationService) loadAudience(ctx context.Context, teamID, eventID string, withRows bool) (eventAudience, error) {
	var out eventAudience
	p := pool.New().WithContext(ctx).WithCancelOnError()

	p.Go(func(ctx context.Context) error {
		players, err := s.rosterRepo.ListPlayersByTeam(ctx, teamID)
		if err != nil {
			return fmt.Errorf("list team players: %w", err)
		}
		out.playerIDs = roster.PlayerIDs(players)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		staff, err := s.rosterRepo.ListStaffByTeam(ctx, teamID)
		if err != nil {
			return fmt.Errorf("list team staff: %w", err)
		}
		out.staffIDs = roster.StaffIDs(staff)
		return nil
	})
	if withRows {
		p.Go(func(ctx context.Context) error {
			rows, err := s.invitationRepo.ListByEvent(ctx, eventID)
			if err != nil {
				return fmt.Errorf("list event invitations: %w", err)
			}
			out.rows = rows
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return eventAudience{}, err
	}
	return out, nil
}

func trimAll(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if v := strings.TrimSpace(id); v != "" {
			out = append(out, v)
		}
	}
	return out
}
