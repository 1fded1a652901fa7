package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/squad-manager/internal/domain/event"
	"github.com/riskibarqy/squad-manager/internal/domain/formation"
	"github.com/riskibarqy/squad-manager/internal/domain/lineup"
	"github.com/riskibarqy/squad-manager/internal/domain/roster"
	"github.com/riskibarqy/squad-manager/internal/platform/logging"
)

type SuggestInput struct {
	TeamID           string
	EventID          string
	Prompt           string
	GameFormat       string
	GameDuration     int
	TeamNumber       int
	SquadPlayerIDs   []string
	CurrentFormation string
}

type SuggestResult struct {
	Periods    []lineup.Period
	Reasoning  string
	Unresolved []string
}

type ApplyInput struct {
	TeamID     string
	EventID    string
	GameFormat string
	Periods    []lineup.Period
}

type TeamBuilderService struct {
	eventRepo     event.Repository
	rosterRepo    roster.Repository
	selectionRepo lineup.SelectionRepository
	suggester     SuggestionClient
	catalog       *formation.Catalog
	assembler     *lineup.Assembler
	logger        *logging.Logger
	now           func() time.Time
}

func NewTeamBuilderService(
	eventRepo event.Repository,
	rosterRepo roster.Repository,
	selectionRepo lineup.SelectionRepository,
	suggester SuggestionClient,
	catalog *formation.Catalog,
	logger *logging.Logger,
) *TeamBuilderService {
	if logger == nil {
		logger = logging.Default()
	}
	if catalog == nil {
		catalog = formation.NewCatalog()
	}
	return &TeamBuilderService{
		eventRepo:     eventRepo,
		rosterRepo:    rosterRepo,
		selectionRepo: selectionRepo,
		suggester:     suggester,
		catalog:       catalog,
		assembler:     lineup.NewAssembler(catalog),
		logger:        logger.Named("team_builder"),
		now:           time.Now,
	}
}

func (s *TeamBuilderService) Catalog() *formation.Catalog {
	return s.catalog
}

// Suggest asks the AI function for a lineup and assembles it. Nothing is persisted.
func (s *TeamBuilderService) Suggest(ctx context.Context, input SuggestInput) (SuggestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamBuilderService.Suggest")
	defer span.End()

	input.TeamID = strings.TrimSpace(input.TeamID)
	input.EventID = strings.TrimSpace(input.EventID)
	if input.TeamID == "" || input.EventID == "" {
		return SuggestResult{}, fmt.Errorf("%w: team_id and event_id are required", ErrInvalidInput)
	}
	if len(input.SquadPlayerIDs) == 0 {
		return SuggestResult{}, fmt.Errorf("%w: squad_player_ids is required", ErrInvalidInput)
	}
	if s.suggester == nil {
		return SuggestResult{}, fmt.Errorf("%w: team builder client is not configured", ErrDependencyUnavailable)
	}

	ev, err := s.teamEvent(ctx, input.TeamID, input.EventID)
	if err != nil {
		return SuggestResult{}, err
	}

	gameFormat := strings.TrimSpace(input.GameFormat)
	if gameFormat == "" {
		gameFormat = ev.GameFormat
	}
	if len(s.catalog.Formations(gameFormat)) == 0 {
		return SuggestResult{}, fmt.Errorf("%w: unsupported game_format %q", ErrInvalidInput, gameFormat)
	}
	currentFormation := strings.TrimSpace(input.CurrentFormation)
	if currentFormation == "" {
		currentFormation, _ = s.catalog.DefaultFormation(gameFormat)
	}

	resp, err := s.suggester.Suggest(ctx, TeamBuilderRequest{
		Prompt:           strings.TrimSpace(input.Prompt),
		TeamID:           input.TeamID,
		EventID:          input.EventID,
		GameFormat:       gameFormat,
		GameDuration:     input.GameDuration,
		TeamNumber:       input.TeamNumber,
		SquadPlayerIDs:   input.SquadPlayerIDs,
		CurrentFormation: currentFormation,
	})
	if err != nil {
		if errors.Is(err, ErrDependencyUnavailable) {
			return SuggestResult{}, err
		}
		return SuggestResult{}, fmt.Errorf("%w: team builder suggestion: %v", ErrDependencyUnavailable, err)
	}

	assembled := s.assembler.Assemble(lineup.AssembleInput{
		GameFormat:       gameFormat,
		CurrentFormation: currentFormation,
		GameDuration:     input.GameDuration,
		Periods:          resp.Periods,
	})
	if len(assembled.Unresolved) > 0 {
		s.logger.WarnContext(ctx, "team builder returned unmatched positions",
			"event_id", input.EventID,
			"formation", currentFormation,
			"labels", assembled.Unresolved,
		)
	}

	return SuggestResult{
		Periods:    assembled.Periods,
		Reasoning:  resp.Reasoning,
		Unresolved: assembled.Unresolved,
	}, nil
}

// Apply persists a confirmed selection after checking it against the team roster.
func (s *TeamBuilderService) Apply(ctx context.Context, input ApplyInput) (lineup.Selection, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamBuilderService.Apply")
	defer span.End()

	input.TeamID = strings.TrimSpace(input.TeamID)
	input.EventID = strings.TrimSpace(input.EventID)
	if input.TeamID == "" || input.EventID == "" {
		return lineup.Selection{}, fmt.Errorf("%w: team_id and event_id are required", ErrInvalidInput)
	}
	if len(input.Periods) == 0 {
		return lineup.Selection{}, fmt.Errorf("%w: at least one period is required", ErrInvalidInput)
	}

	ev, err := s.teamEvent(ctx, input.TeamID, input.EventID)
	if err != nil {
		return lineup.Selection{}, err
	}

	players, err := s.rosterRepo.ListPlayersByTeam(ctx, input.TeamID)
	if err != nil {
		return lineup.Selection{}, fmt.Errorf("list team players: %w", err)
	}
	onRoster := make(map[string]struct{}, len(players))
	for _, p := range players {
		onRoster[p.ID] = struct{}{}
	}

	for _, period := range input.Periods {
		if err := validatePeriod(period, onRoster); err != nil {
			return lineup.Selection{}, err
		}
	}

	gameFormat := strings.TrimSpace(input.GameFormat)
	if gameFormat == "" {
		gameFormat = ev.GameFormat
	}
	selection := lineup.Selection{
		EventID:    input.EventID,
		TeamID:     input.TeamID,
		GameFormat: gameFormat,
		Periods:    input.Periods,
		AppliedAt:  s.now().UTC(),
	}
	if err := s.selectionRepo.Upsert(ctx, selection); err != nil {
		return lineup.Selection{}, fmt.Errorf("save event selection: %w", err)
	}

	s.logger.InfoContext(ctx, "event selection applied",
		"event_id", input.EventID,
		"team_id", input.TeamID,
		"periods", len(input.Periods),
	)
	return selection, nil
}

func (s *TeamBuilderService) GetSelection(ctx context.Context, eventID string) (lineup.Selection, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamBuilderService.GetSelection")
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return lineup.Selection{}, fmt.Errorf("%w: event_id is required", ErrInvalidInput)
	}

	selection, exists, err := s.selectionRepo.GetByEvent(ctx, eventID)
	if err != nil {
		return lineup.Selection{}, fmt.Errorf("get event selection: %w", err)
	}
	if !exists {
		return lineup.Selection{}, fmt.Errorf("%w: selection for event=%s", ErrNotFound, eventID)
	}
	return selection, nil
}

func (s *TeamBuilderService) teamEvent(ctx context.Context, teamID, eventID string) (event.Event, error) {
	ev, exists, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return event.Event{}, fmt.Errorf("get event: %w", err)
	}
	if !exists || ev.TeamID != teamID {
		return event.Event{}, fmt.Errorf("%w: event=%s team=%s", ErrNotFound, eventID, teamID)
	}
	return ev, nil
}

func validatePeriod(period lineup.Period, onRoster map[string]struct{}) error {
	seen := make(map[string]struct{}, len(period.Positions)+len(period.Substitutes))
	positioned := make([]string, 0, len(period.Positions))

	for _, a := range period.Positions {
		if a.PlayerID == "" {
			continue
		}
		if _, ok := onRoster[a.PlayerID]; !ok {
			return fmt.Errorf("%w: player %s is not on the team roster", ErrInvalidInput, a.PlayerID)
		}
		if _, dup := seen[a.PlayerID]; dup {
			return fmt.Errorf("%w: player %s appears twice in period %d", ErrInvalidInput, a.PlayerID, period.PeriodNumber)
		}
		seen[a.PlayerID] = struct{}{}
		positioned = append(positioned, a.PlayerID)
	}

	for _, id := range period.Substitutes {
		if _, ok := onRoster[id]; !ok {
			return fmt.Errorf("%w: substitute %s is not on the team roster", ErrInvalidInput, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: player %s appears twice in period %d", ErrInvalidInput, id, period.PeriodNumber)
		}
		seen[id] = struct{}{}
	}

	if period.CaptainID != "" && !slices.Contains(positioned, period.CaptainID) {
		return fmt.Errorf("%w: captain %s must be positioned in period %d", ErrInvalidInput, period.CaptainID, period.PeriodNumber)
	}
	return nil
}
