package lineup

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/riskibarqy/squad-manager/internal/domain/formation"
)

// AssembleInput is the context the UI sends with an AI response.
type AssembleInput struct {
	GameFormat       string
	CurrentFormation string
	GameDuration     int
	Periods          []AIPeriod
}

// AssembleResult holds the displayable periods and every label that fell back to pitch centre.
type AssembleResult struct {
	Periods    []Period
	Unresolved []string
}

// Assembler turns AI periods into formation periods. It never fails; bad labels degrade.
type Assembler struct {
	catalog *formation.Catalog
}

func NewAssembler(catalog *formation.Catalog) *Assembler {
	if catalog == nil {
		catalog = formation.NewCatalog()
	}
	return &Assembler{catalog: catalog}
}

func (a *Assembler) Assemble(input AssembleInput) AssembleResult {
	result := AssembleResult{Periods: make([]Period, 0, len(input.Periods))}
	if len(input.Periods) == 0 {
		return result
	}

	defaultDuration := 0
	if input.GameDuration > 0 {
		defaultDuration = input.GameDuration / len(input.Periods)
	}

	for idx, src := range input.Periods {
		number := src.PeriodNumber
		if number <= 0 {
			number = idx + 1
		}
		periodID := fmt.Sprintf("period-%d", number)

		formationID := strings.TrimSpace(src.Formation)
		if formationID == "" {
			formationID = strings.TrimSpace(input.CurrentFormation)
		}

		duration := src.Duration
		if duration <= 0 {
			duration = defaultDuration
		}

		period := Period{
			ID:           periodID,
			PeriodNumber: number,
			Formation:    formationID,
			Duration:     duration,
			Positions:    make([]Assignment, 0, len(src.Positions)),
			Substitutes:  append([]string(nil), src.Substitutes...),
			CaptainID:    src.CaptainID,
		}

		taken := make(map[string]bool, len(src.Positions))
		for i, s := range src.Positions {
			assignment := a.assign(input.GameFormat, input.CurrentFormation, src.Formation, s, taken)
			assignment.ID = fmt.Sprintf("%s-pos-%d", periodID, i)
			if assignment.Fallback {
				result.Unresolved = append(result.Unresolved, s.PositionName)
			} else {
				taken[assignment.PositionName] = true
			}
			period.Positions = append(period.Positions, assignment)
		}

		result.Periods = append(result.Periods, period)
	}

	return result
}

// assign tries the UI's current formation, then the period's own formation, then pitch centre.
// Slots already filled in the period are only reused when nothing else matches.
func (a *Assembler) assign(gameFormat, currentFormation, periodFormation string, s Suggestion, taken map[string]bool) Assignment {
	res := formation.Normalize(s.PositionName)
	out := Assignment{
		PositionName:  res.Name(),
		Abbreviation:  Abbreviate(s.PositionName),
		PositionGroup: GroupFor(s.PositionName),
		PlayerID:      s.PlayerID,
	}

	candidates := []string{strings.TrimSpace(currentFormation)}
	if pf := strings.TrimSpace(periodFormation); pf != "" && pf != candidates[0] {
		candidates = append(candidates, pf)
	}
	for _, id := range candidates {
		if id == "" {
			continue
		}
		if p, ok := a.catalog.Resolve(gameFormat, id, res, taken); ok {
			out.PositionName = p.Name
			out.X, out.Y = p.X, p.Y
			return out
		}
	}

	out.X, out.Y = 50, 50
	out.Fallback = true
	return out
}

// Abbreviate takes the first letter of each word of the raw label, uppercased, at most two.
func Abbreviate(raw string) string {
	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(raw))
	out := make([]rune, 0, 2)
	for _, w := range words {
		if len(out) == 2 {
			break
		}
		out = append(out, unicode.ToUpper([]rune(w)[0]))
	}
	return string(out)
}

var groupAbbreviations = map[string]string{
	"gk":  GroupGoalkeeper,
	"lb":  GroupDefender,
	"rb":  GroupDefender,
	"cb":  GroupDefender,
	"lwb": GroupDefender,
	"rwb": GroupDefender,
	"cm":  GroupMidfielder,
	"cdm": GroupMidfielder,
	"cam": GroupMidfielder,
	"lm":  GroupMidfielder,
	"rm":  GroupMidfielder,
	"am":  GroupMidfielder,
	"dm":  GroupMidfielder,
}

// GroupFor classifies a raw label by substring. Unknown labels count as forward.
func GroupFor(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if g, ok := groupAbbreviations[s]; ok {
		return g
	}
	switch {
	case strings.Contains(s, "goal"), strings.Contains(s, "keeper"):
		return GroupGoalkeeper
	case strings.Contains(s, "back"), strings.Contains(s, "defen"), strings.Contains(s, "sweeper"):
		return GroupDefender
	case strings.Contains(s, "mid"):
		return GroupMidfielder
	default:
		return GroupForward
	}
}
