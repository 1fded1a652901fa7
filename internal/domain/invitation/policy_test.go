package invitation

import (
	"errors"
	"testing"
)

func TestDetectNoRowsMeansEveryone(t *testing.T) {
	got := Detect([]string{"p1", "p2", "p3"}, []string{"s1", "s2"}, nil)
	if got.Policy != PolicyEveryone {
		t.Fatalf("unexpected policy: got=%s want=%s", got.Policy, PolicyEveryone)
	}
	if got.InvitedCount != 5 {
		t.Fatalf("unexpected invited count: got=%d want=5", got.InvitedCount)
	}
}

func TestDetectPlayersOnlyAndRosterGrowth(t *testing.T) {
	rows := []Invitation{
		{EventID: "e1", PlayerID: "p1", InviteeType: InviteePlayer},
		{EventID: "e1", PlayerID: "p2", InviteeType: InviteePlayer},
		{EventID: "e1", PlayerID: "p3", InviteeType: InviteePlayer},
	}
	staff := []string{"s1", "s2"}

	got := Detect([]string{"p1", "p2", "p3"}, staff, rows)
	if got.Policy != PolicyPlayersOnly {
		t.Fatalf("unexpected policy: got=%s want=%s", got.Policy, PolicyPlayersOnly)
	}

	grown := Detect([]string{"p1", "p2", "p3", "p4"}, staff, rows)
	if grown.Policy != PolicyPickSquad {
		t.Fatalf("roster growth should flip to pick_squad: got=%s", grown.Policy)
	}
	if len(grown.InvitedPlayerIDs) != 3 {
		t.Fatalf("unexpected invited players: %v", grown.InvitedPlayerIDs)
	}
}

func TestDetectStaffOnlyEveryoneAndPick(t *testing.T) {
	players := []string{"p1", "p2", "p3"}
	staff := []string{"s1", "s2"}
	staffRows := []Invitation{
		{StaffID: "s1", InviteeType: InviteeStaff},
		{StaffID: "s2", InviteeType: InviteeStaff},
	}

	if got := Detect(players, staff, staffRows); got.Policy != PolicyStaffOnly {
		t.Fatalf("unexpected policy: got=%s want=%s", got.Policy, PolicyStaffOnly)
	}

	all := append([]Invitation{
		{PlayerID: "p1", InviteeType: InviteePlayer},
		{PlayerID: "p2", InviteeType: InviteePlayer},
		{PlayerID: "p3", InviteeType: InviteePlayer},
	}, staffRows...)
	if got := Detect(players, staff, all); got.Policy != PolicyEveryone {
		t.Fatalf("unexpected policy: got=%s want=%s", got.Policy, PolicyEveryone)
	}

	partial := []Invitation{
		{PlayerID: "p1", InviteeType: InviteePlayer},
		{StaffID: "s2", InviteeType: InviteeStaff},
	}
	got := Detect(players, staff, partial)
	if got.Policy != PolicyPickSquad || got.InvitedCount != 2 {
		t.Fatalf("unexpected detection: %+v", got)
	}
	if len(got.InvitedStaffIDs) != 1 || got.InvitedStaffIDs[0] != "s2" {
		t.Fatalf("unexpected invited staff: %v", got.InvitedStaffIDs)
	}
}

func TestDetectIgnoresDuplicateRows(t *testing.T) {
	rows := []Invitation{
		{PlayerID: "p1", InviteeType: InviteePlayer},
		{PlayerID: "p1", InviteeType: InviteePlayer},
	}
	got := Detect([]string{"p1", "p2"}, nil, rows)
	if got.Policy != PolicyPickSquad {
		t.Fatalf("duplicates must not inflate coverage: got=%s", got.Policy)
	}
}

func TestRowsPerPolicy(t *testing.T) {
	players := []string{"p1", "p2"}
	staff := []string{"s1"}

	rows, err := Rows("e1", PolicyEveryone, players, staff, nil, nil)
	if err != nil || len(rows) != 0 {
		t.Fatalf("everyone should persist no rows: rows=%v err=%v", rows, err)
	}

	rows, _ = Rows("e1", PolicyPlayersOnly, players, staff, nil, nil)
	if len(rows) != 2 || rows[0].InviteeType != InviteePlayer || rows[0].EventID != "e1" {
		t.Fatalf("unexpected players_only rows: %+v", rows)
	}

	rows, _ = Rows("e1", PolicyStaffOnly, players, staff, nil, nil)
	if len(rows) != 1 || rows[0].StaffID != "s1" {
		t.Fatalf("unexpected staff_only rows: %+v", rows)
	}

	rows, err = Rows("e1", PolicyPickSquad, players, staff, []string{"p2", "p2"}, []string{"s1"})
	if err != nil || len(rows) != 2 {
		t.Fatalf("unexpected pick_squad rows: rows=%+v err=%v", rows, err)
	}
}

func TestRowsRejectsBadSelections(t *testing.T) {
	if _, err := Rows("e1", PolicyPickSquad, []string{"p1"}, nil, nil, nil); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
	if _, err := Rows("e1", PolicyPickSquad, []string{"p1"}, nil, []string{"p9"}, nil); !errors.Is(err, ErrNotOnRoster) {
		t.Fatalf("expected ErrNotOnRoster, got %v", err)
	}
	if _, err := Rows("e1", Policy("friends"), nil, nil, nil, nil); !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
}
