package lineup

import "time"

// Position groups used for colouring and filtering on the pitch view.
const (
	GroupGoalkeeper = "goalkeeper"
	GroupDefender   = "defender"
	GroupMidfielder = "midfielder"
	GroupForward    = "forward"
)

// Suggestion is one AI-proposed position and player.
type Suggestion struct {
	PositionName string
	PlayerID     string
}

// AIPeriod is one period of the suggestion function output, after lenient decoding.
type AIPeriod struct {
	PeriodNumber int
	Formation    string
	Duration     int
	Positions    []Suggestion
	Substitutes  []string
	CaptainID    string
}

// Assignment is one positioned player of a period.
type Assignment struct {
	ID            string
	PositionName  string
	Abbreviation  string
	PositionGroup string
	X             float64
	Y             float64
	PlayerID      string
	// Fallback marks a label that matched no template slot and sits at pitch centre.
	Fallback bool
}

// Period is one displayable formation period.
type Period struct {
	ID           string
	PeriodNumber int
	Formation    string
	Duration     int
	Positions    []Assignment
	Substitutes  []string
	CaptainID    string
}

// Selection is the applied squad of an event.
type Selection struct {
	EventID    string
	TeamID     string
	GameFormat string
	Periods    []Period
	AppliedAt  time.Time
}

// PlayerIDs returns positioned and substitute players of the period.
func (p Period) PlayerIDs() []string {
	out := make([]string, 0, len(p.Positions)+len(p.Substitutes))
	for _, a := range p.Positions {
		if a.PlayerID != "" {
			out = append(out, a.PlayerID)
		}
	}
	return append(out, p.Substitutes...)
}
