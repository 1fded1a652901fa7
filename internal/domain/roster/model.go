package roster

// Player is a team roster entry. UserID is empty for players without an app account.
type Player struct {
	ID       string
	TeamID   string
	UserID   string
	Name     string
	Position string
}

// Staff is a coach, manager or other non-playing team member.
type Staff struct {
	ID     string
	TeamID string
	UserID string
	Name   string
	Role   string
}

func PlayerIDs(players []Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}

func StaffIDs(staff []Staff) []string {
	out := make([]string, 0, len(staff))
	for _, s := range staff {
		out = append(out, s.ID)
	}
	return out
}
