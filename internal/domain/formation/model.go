package formation

import "strings"

// Game formats supported by the catalog.
const (
	Format5  = "5-a-side"
	Format7  = "7-a-side"
	Format9  = "9-a-side"
	Format11 = "11-a-side"
)

type Role string

const (
	RoleGoalkeeper          Role = "Goalkeeper"
	RoleDefender            Role = "Defender"
	RoleMidfielder          Role = "Midfielder"
	RoleAttackingMidfielder Role = "Attacking Midfielder"
	RoleStriker             Role = "Striker"
)

type Side string

const (
	SideNone   Side = ""
	SideLeft   Side = "Left"
	SideRight  Side = "Right"
	SideCentre Side = "Centre"
)

// Label is a canonical position name split into role and side.
type Label struct {
	Role Role
	Side Side
}

func (l Label) String() string {
	if l.Side == SideNone {
		return string(l.Role)
	}
	return string(l.Role) + " " + string(l.Side)
}

// Position is one slot of a formation template on a 0-100 pitch.
// Y grows toward the own goal line.
type Position struct {
	Name string
	X    float64
	Y    float64
}

// Template is the ordered position list of one formation.
type Template struct {
	GameFormat string
	ID         string
	Positions  []Position
}

// Resolution is the outcome of normalizing a free-text position label.
// It is either resolved to a canonical Label or carries the raw input unchanged.
type Resolution struct {
	raw      string
	label    Label
	resolved bool
	// anySide is set when the input named a role but no side; the side in label is a default.
	anySide bool
}

func Resolved(raw string, label Label) Resolution {
	return Resolution{raw: raw, label: label, resolved: true}
}

func resolvedAnySide(raw string, label Label) Resolution {
	return Resolution{raw: raw, label: label, resolved: true, anySide: true}
}

func Unresolved(raw string) Resolution {
	return Resolution{raw: raw}
}

func (r Resolution) IsResolved() bool { return r.resolved }
func (r Resolution) Raw() string      { return r.raw }

// Label returns the canonical label; ok is false for unresolved input.
func (r Resolution) Label() (Label, bool) {
	return r.label, r.resolved
}

// Name is the canonical name when resolved, otherwise the raw input.
func (r Resolution) Name() string {
	if r.resolved {
		return r.label.String()
	}
	return r.raw
}

func tokens(s string) []string {
	return strings.Fields(strings.ToLower(s))
}
