package invitation

import "time"

// Policy is the invitee policy of an event as shown to the coach.
type Policy string

const (
	PolicyEveryone    Policy = "everyone"
	PolicyPlayersOnly Policy = "players_only"
	PolicyStaffOnly   Policy = "staff_only"
	PolicyPickSquad   Policy = "pick_squad"
)

func (p Policy) Valid() bool {
	switch p {
	case PolicyEveryone, PolicyPlayersOnly, PolicyStaffOnly, PolicyPickSquad:
		return true
	default:
		return false
	}
}

type InviteeType string

const (
	InviteePlayer InviteeType = "player"
	InviteeStaff  InviteeType = "staff"
)

// Invitation is one event_invitations row. Exactly one of PlayerID and StaffID is set,
// matching InviteeType.
type Invitation struct {
	EventID     string
	PlayerID    string
	StaffID     string
	InviteeType InviteeType
	CreatedAt   time.Time
}

// Detection is the policy derived from the stored rows and current rosters.
type Detection struct {
	Policy            Policy
	InvitedPlayerIDs  []string
	InvitedStaffIDs   []string
	RosterPlayerCount int
	RosterStaffCount  int
	InvitedCount      int
}
