package formation

import (
	"slices"
	"strings"
)

var (
	goalkeeper = Label{Role: RoleGoalkeeper}

	defenderLeft   = Label{Role: RoleDefender, Side: SideLeft}
	defenderRight  = Label{Role: RoleDefender, Side: SideRight}
	defenderCentre = Label{Role: RoleDefender, Side: SideCentre}

	midfielderLeft   = Label{Role: RoleMidfielder, Side: SideLeft}
	midfielderRight  = Label{Role: RoleMidfielder, Side: SideRight}
	midfielderCentre = Label{Role: RoleMidfielder, Side: SideCentre}

	strikerLeft   = Label{Role: RoleStriker, Side: SideLeft}
	strikerRight  = Label{Role: RoleStriker, Side: SideRight}
	strikerCentre = Label{Role: RoleStriker, Side: SideCentre}
)

// synonyms is keyed by the collapsed lowercase label.
var synonyms = map[string]Label{
	"goalkeeper":  goalkeeper,
	"goal keeper": goalkeeper,
	"gk":          goalkeeper,
	"keeper":      goalkeeper,
	"goalie":      goalkeeper,

	"left back":       defenderLeft,
	"lb":              defenderLeft,
	"full back left":  defenderLeft,
	"fullback left":   defenderLeft,
	"left full back":  defenderLeft,
	"left fullback":   defenderLeft,
	"left wing back":  defenderLeft,
	"lwb":             defenderLeft,
	"right back":      defenderRight,
	"rb":              defenderRight,
	"full back right": defenderRight,
	"fullback right":  defenderRight,
	"right full back": defenderRight,
	"right fullback":  defenderRight,
	"right wing back": defenderRight,
	"rwb":             defenderRight,

	"cb":               defenderCentre,
	"centre back":      defenderCentre,
	"center back":      defenderCentre,
	"central defender": defenderCentre,
	"centre half":      defenderCentre,
	"center half":      defenderCentre,
	"sweeper":          defenderCentre,

	"cdm":                  midfielderCentre,
	"dm":                   midfielderCentre,
	"cm":                   midfielderCentre,
	"defensive midfielder": midfielderCentre,
	"holding midfielder":   midfielderCentre,
	"central midfielder":   midfielderCentre,
	"centre mid":           midfielderCentre,
	"center mid":           midfielderCentre,
	"midfield":             midfielderCentre,
	"lm":                   midfielderLeft,
	"left mid":             midfielderLeft,
	"left midfield":        midfielderLeft,
	"rm":                   midfielderRight,
	"right mid":            midfielderRight,
	"right midfield":       midfielderRight,

	"ls":            strikerLeft,
	"lf":            strikerLeft,
	"left striker":  strikerLeft,
	"left forward":  strikerLeft,
	"rs":            strikerRight,
	"rf":            strikerRight,
	"right striker": strikerRight,
	"right forward": strikerRight,
}

// centreForwards name a striker without committing to a side. They read as Striker Centre
// and take whichever striker slot the formation has.
var centreForwards = map[string]bool{
	"cf":             true,
	"st":             true,
	"striker":        true,
	"forward":        true,
	"centre forward": true,
	"center forward": true,
}

var attackingSynonyms = map[string]Side{
	"cam":        SideCentre,
	"am":         SideCentre,
	"playmaker":  SideCentre,
	"number 10":  SideCentre,
	"lam":        SideLeft,
	"ram":        SideRight,
	"attacking":  SideCentre,
	"attack mid": SideCentre,
}

var sideTokens = map[string]Side{
	"left":   SideLeft,
	"right":  SideRight,
	"centre": SideCentre,
	"center": SideCentre,
}

var roleTokens = map[string]Role{
	"defender":   RoleDefender,
	"midfielder": RoleMidfielder,
	"striker":    RoleStriker,
	"forward":    RoleStriker,
}

var midfieldTokens = []string{"midfielder", "midfield", "mid"}

// Normalize maps a free-text position label to a canonical label. First match wins:
// synonym table, centre forward family, attacking midfielder family, side plus role reconstruction.
// Anything else comes back Unresolved with the raw text untouched.
func Normalize(raw string) Resolution {
	key := collapse(raw)
	if key == "" {
		return Unresolved(raw)
	}

	if label, ok := synonyms[key]; ok {
		return Resolved(raw, label)
	}
	if centreForwards[key] {
		return resolvedAnySide(raw, strikerCentre)
	}

	parts := strings.Fields(key)
	if side, ok := attackingSide(key, parts); ok {
		return Resolved(raw, Label{Role: RoleAttackingMidfielder, Side: side})
	}

	var (
		side Side
		role Role
	)
	for _, p := range parts {
		if s, ok := sideTokens[p]; ok && side == SideNone {
			side = s
		}
		if r, ok := roleTokens[p]; ok && role == "" {
			role = r
		}
	}
	if side != SideNone && role != "" {
		return Resolved(raw, Label{Role: role, Side: side})
	}

	return Unresolved(raw)
}

func attackingSide(key string, parts []string) (Side, bool) {
	if side, ok := attackingSynonyms[key]; ok {
		return side, true
	}
	if !slices.Contains(parts, "attacking") {
		return SideNone, false
	}
	hasMid := false
	for _, t := range midfieldTokens {
		if slices.Contains(parts, t) {
			hasMid = true
			break
		}
	}
	if !hasMid {
		return SideNone, false
	}
	for _, p := range parts {
		if s, ok := sideTokens[p]; ok {
			return s, true
		}
	}
	return SideCentre, true
}

// collapse lowercases and folds hyphens, underscores and runs of whitespace into single spaces.
func collapse(raw string) string {
	s := strings.ToLower(raw)
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
