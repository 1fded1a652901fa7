package invitation

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrUnknownPolicy  = errors.New("unknown invitation policy")
	ErrEmptySelection = errors.New("pick_squad requires at least one invitee")
	ErrNotOnRoster    = errors.New("invitee is not on the team roster")
)

// Detect classifies stored rows against the current rosters.
//
// Coverage compares the size of the invited id set with the roster size, not membership.
// A roster that grows after players_only was chosen therefore reads back as pick_squad.
func Detect(playerIDs, staffIDs []string, rows []Invitation) Detection {
	out := Detection{
		RosterPlayerCount: len(playerIDs),
		RosterStaffCount:  len(staffIDs),
	}
	if len(rows) == 0 {
		out.Policy = PolicyEveryone
		out.InvitedCount = len(playerIDs) + len(staffIDs)
		return out
	}

	players := make([]string, 0, len(rows))
	staff := make([]string, 0, len(rows))
	for _, r := range rows {
		switch {
		case r.InviteeType == InviteePlayer && r.PlayerID != "" && !slices.Contains(players, r.PlayerID):
			players = append(players, r.PlayerID)
		case r.InviteeType == InviteeStaff && r.StaffID != "" && !slices.Contains(staff, r.StaffID):
			staff = append(staff, r.StaffID)
		}
	}

	playersFull := len(players) == len(playerIDs)
	staffFull := len(staff) == len(staffIDs)

	switch {
	case len(staff) == 0 && playersFull:
		out.Policy = PolicyPlayersOnly
	case len(players) == 0 && staffFull:
		out.Policy = PolicyStaffOnly
	case playersFull && staffFull:
		out.Policy = PolicyEveryone
	default:
		out.Policy = PolicyPickSquad
	}

	out.InvitedPlayerIDs = players
	out.InvitedStaffIDs = staff
	out.InvitedCount = len(players) + len(staff)
	return out
}

// Rows builds the full invitation set implied by a policy. everyone yields no rows.
// For pick_squad every picked id must be on the matching roster.
func Rows(eventID string, policy Policy, playerIDs, staffIDs, pickedPlayers, pickedStaff []string) ([]Invitation, error) {
	switch policy {
	case PolicyEveryone:
		return nil, nil
	case PolicyPlayersOnly:
		return playerRows(eventID, playerIDs), nil
	case PolicyStaffOnly:
		return staffRows(eventID, staffIDs), nil
	case PolicyPickSquad:
		pickedPlayers = dedupe(pickedPlayers)
		pickedStaff = dedupe(pickedStaff)
		if len(pickedPlayers)+len(pickedStaff) == 0 {
			return nil, ErrEmptySelection
		}
		for _, id := range pickedPlayers {
			if !slices.Contains(playerIDs, id) {
				return nil, fmt.Errorf("%w: player %s", ErrNotOnRoster, id)
			}
		}
		for _, id := range pickedStaff {
			if !slices.Contains(staffIDs, id) {
				return nil, fmt.Errorf("%w: staff %s", ErrNotOnRoster, id)
			}
		}
		return append(playerRows(eventID, pickedPlayers), staffRows(eventID, pickedStaff)...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
}

func playerRows(eventID string, ids []string) []Invitation {
	out := make([]Invitation, 0, len(ids))
	for _, id := range ids {
		out = append(out, Invitation{EventID: eventID, PlayerID: id, InviteeType: InviteePlayer})
	}
	return out
}

func staffRows(eventID string, ids []string) []Invitation {
	out := make([]Invitation, 0, len(ids))
	for _, id := range ids {
		out = append(out, Invitation{EventID: eventID, StaffID: id, InviteeType: InviteeStaff})
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
