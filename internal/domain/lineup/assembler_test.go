package lineup

import (
	"testing"

	"github.com/riskibarqy/squad-manager/internal/domain/formation"
)

func TestAssembleBuildsIDsAndDefaultDuration(t *testing.T) {
	a := NewAssembler(formation.NewCatalog())

	got := a.Assemble(AssembleInput{
		GameFormat:       formation.Format7,
		CurrentFormation: "2-3-1",
		GameDuration:     60,
		Periods: []AIPeriod{
			{PeriodNumber: 1, Positions: []Suggestion{{PositionName: "GK", PlayerID: "p1"}, {PositionName: "left back", PlayerID: "p2"}}},
			{PeriodNumber: 2, Duration: 25, Positions: []Suggestion{{PositionName: "cf", PlayerID: "p3"}}},
		},
	})

	if len(got.Periods) != 2 {
		t.Fatalf("unexpected period count: got=%d want=2", len(got.Periods))
	}
	first := got.Periods[0]
	if first.ID != "period-1" || first.Duration != 30 || first.Formation != "2-3-1" {
		t.Fatalf("unexpected first period: %+v", first)
	}
	if first.Positions[1].ID != "period-1-pos-1" {
		t.Fatalf("unexpected assignment id: %s", first.Positions[1].ID)
	}
	if first.Positions[1].PositionName != "Defender Left" || first.Positions[1].X != 30 || first.Positions[1].Y != 72 {
		t.Fatalf("unexpected left back placement: %+v", first.Positions[1])
	}
	if first.Positions[1].Abbreviation != "LB" || first.Positions[1].PositionGroup != GroupDefender {
		t.Fatalf("unexpected abbreviation/group: %+v", first.Positions[1])
	}
	if got.Periods[1].Duration != 25 {
		t.Fatalf("explicit duration should win: got=%d", got.Periods[1].Duration)
	}
	if len(got.Unresolved) != 0 {
		t.Fatalf("unexpected unresolved labels: %v", got.Unresolved)
	}
}

func TestAssembleRetriesAgainstPeriodFormation(t *testing.T) {
	a := NewAssembler(nil)

	// Defender Centre exists in 3-2-1 but not in the UI's 2-3-1.
	got := a.Assemble(AssembleInput{
		GameFormat:       formation.Format7,
		CurrentFormation: "2-3-1",
		Periods: []AIPeriod{{
			PeriodNumber: 1,
			Formation:    "3-2-1",
			Positions:    []Suggestion{{PositionName: "centre back", PlayerID: "p1"}},
		}},
	})

	pos := got.Periods[0].Positions[0]
	if pos.Fallback {
		t.Fatalf("expected retry against 3-2-1 to succeed: %+v", pos)
	}
	if pos.PositionName != "Defender Centre" || pos.X != 50 || pos.Y != 75 {
		t.Fatalf("unexpected placement: %+v", pos)
	}
}

func TestAssembleFallsBackToPitchCentre(t *testing.T) {
	a := NewAssembler(nil)

	got := a.Assemble(AssembleInput{
		GameFormat:       formation.Format11,
		CurrentFormation: "4-4-2",
		Periods:          []AIPeriod{{Positions: []Suggestion{{PositionName: "right winger", PlayerID: "p9"}}}},
	})

	pos := got.Periods[0].Positions[0]
	if !pos.Fallback || pos.X != 50 || pos.Y != 50 {
		t.Fatalf("expected centre fallback: %+v", pos)
	}
	if pos.PositionName != "right winger" {
		t.Fatalf("raw label must pass through: got=%q", pos.PositionName)
	}
	if pos.Abbreviation != "RW" || pos.PositionGroup != GroupForward {
		t.Fatalf("unexpected abbreviation/group: %+v", pos)
	}
	if got.Periods[0].ID != "period-1" {
		t.Fatalf("missing period number should default to index: %s", got.Periods[0].ID)
	}
	if len(got.Unresolved) != 1 || got.Unresolved[0] != "right winger" {
		t.Fatalf("unexpected unresolved list: %v", got.Unresolved)
	}
}

func TestAssemblePlacesStrikersInDefaultFormations(t *testing.T) {
	a := NewAssembler(nil)

	tests := []struct {
		format    string
		formation string
		left      float64
		right     float64
	}{
		{format: formation.Format5, formation: "2-2", left: 35, right: 65},
		{format: formation.Format9, formation: "3-3-2", left: 38, right: 62},
		{format: formation.Format11, formation: "4-4-2", left: 38, right: 62},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got := a.Assemble(AssembleInput{
				GameFormat:       tt.format,
				CurrentFormation: tt.formation,
				Periods: []AIPeriod{{Positions: []Suggestion{
					{PositionName: "Striker", PlayerID: "p1"},
					{PositionName: "CF", PlayerID: "p2"},
				}}},
			})

			first, second := got.Periods[0].Positions[0], got.Periods[0].Positions[1]
			if first.Fallback || first.PositionName != "Striker Left" || first.X != tt.left {
				t.Fatalf("unexpected first striker: %+v", first)
			}
			if second.Fallback || second.PositionName != "Striker Right" || second.X != tt.right {
				t.Fatalf("unexpected second striker: %+v", second)
			}
			if len(got.Unresolved) != 0 {
				t.Fatalf("unexpected unresolved labels: %v", got.Unresolved)
			}
		})
	}
}

func TestAssembleSpreadsCentreBacks(t *testing.T) {
	got := NewAssembler(nil).Assemble(AssembleInput{
		GameFormat:       formation.Format11,
		CurrentFormation: "4-4-2",
		Periods: []AIPeriod{{Positions: []Suggestion{
			{PositionName: "cb", PlayerID: "p1"},
			{PositionName: "centre back", PlayerID: "p2"},
		}}},
	})

	first, second := got.Periods[0].Positions[0], got.Periods[0].Positions[1]
	if first.PositionName != "Defender Centre Left" || second.PositionName != "Defender Centre Right" {
		t.Fatalf("centre backs should take separate slots: %q and %q", first.PositionName, second.PositionName)
	}
	if first.X == second.X {
		t.Fatalf("centre backs share coordinates: %+v %+v", first, second)
	}
}

func TestAssembleEmptyInput(t *testing.T) {
	got := NewAssembler(nil).Assemble(AssembleInput{GameDuration: 60})
	if len(got.Periods) != 0 {
		t.Fatalf("expected no periods, got %d", len(got.Periods))
	}
}

func TestAbbreviateAndGroup(t *testing.T) {
	cases := []struct {
		raw, abbr, group string
	}{
		{raw: "Goalkeeper", abbr: "G", group: GroupGoalkeeper},
		{raw: "centre back", abbr: "CB", group: GroupDefender},
		{raw: "attacking midfielder left", abbr: "AM", group: GroupMidfielder},
		{raw: "cb", abbr: "C", group: GroupDefender},
		{raw: "striker", abbr: "S", group: GroupForward},
		{raw: "", abbr: "", group: GroupForward},
	}
	for _, tc := range cases {
		if got := Abbreviate(tc.raw); got != tc.abbr {
			t.Fatalf("unexpected abbreviation for %q: got=%q want=%q", tc.raw, got, tc.abbr)
		}
		if got := GroupFor(tc.raw); got != tc.group {
			t.Fatalf("unexpected group for %q: got=%q want=%q", tc.raw, got, tc.group)
		}
	}
}
