package formation

import (
	"slices"
	"strings"
)

// Catalog is the static formation reference data.
type Catalog struct {
	templates map[string][]Template
}

var defaultFormations = map[string]string{
	Format5:  "2-2",
	Format7:  "2-3-1",
	Format9:  "3-3-2",
	Format11: "4-4-2",
}

func NewCatalog() *Catalog {
	c := &Catalog{templates: make(map[string][]Template)}
	for _, t := range builtinTemplates() {
		c.templates[t.GameFormat] = append(c.templates[t.GameFormat], t)
	}
	return c
}

// Lookup returns a copy of the template positions for a game format and formation id.
func (c *Catalog) Lookup(gameFormat, formationID string) ([]Position, bool) {
	t, ok := c.template(gameFormat, formationID)
	if !ok {
		return nil, false
	}
	return slices.Clone(t.Positions), true
}

// Formations lists formation ids of a game format in catalog order.
func (c *Catalog) Formations(gameFormat string) []string {
	list := c.templates[normalizeFormat(gameFormat)]
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.ID)
	}
	return out
}

func (c *Catalog) DefaultFormation(gameFormat string) (string, bool) {
	id, ok := defaultFormations[normalizeFormat(gameFormat)]
	return id, ok
}

func (c *Catalog) GameFormats() []string {
	return []string{Format5, Format7, Format9, Format11}
}

// Resolve maps a normalized label to a template position: exact name first, then
// the positions whose tokens contain every token of the name, then for a side-less
// label any slot of its role (Centre, Left, Right). Among the matches the first one
// not named in taken wins; when all are taken the first match is returned.
func (c *Catalog) Resolve(gameFormat, formationID string, r Resolution, taken map[string]bool) (Position, bool) {
	t, ok := c.template(gameFormat, formationID)
	if !ok {
		return Position{}, false
	}
	return t.Resolve(r, taken)
}

func (t Template) Resolve(r Resolution, taken map[string]bool) (Position, bool) {
	matches := t.matches(r)
	if len(matches) == 0 {
		return Position{}, false
	}
	for _, p := range matches {
		if !taken[p.Name] {
			return p, true
		}
	}
	return matches[0], true
}

func (t Template) matches(r Resolution) []Position {
	name := r.Name()
	if strings.TrimSpace(name) == "" {
		return nil
	}

	var out []Position
	add := func(p Position) {
		if !slices.ContainsFunc(out, func(o Position) bool { return o.Name == p.Name }) {
			out = append(out, p)
		}
	}
	for _, p := range t.Positions {
		if strings.EqualFold(p.Name, name) {
			add(p)
		}
	}
	want := tokens(name)
	for _, p := range t.Positions {
		if containsAll(tokens(p.Name), want) {
			add(p)
		}
	}
	if r.anySide {
		role := string(r.label.Role) + " "
		for _, side := range []Side{SideCentre, SideLeft, SideRight} {
			for _, p := range t.Positions {
				if strings.HasPrefix(p.Name, role+string(side)) {
					add(p)
				}
			}
		}
	}
	return out
}

func (c *Catalog) template(gameFormat, formationID string) (Template, bool) {
	id := strings.TrimSpace(formationID)
	for _, t := range c.templates[normalizeFormat(gameFormat)] {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}

// normalizeFormat accepts "7", "7v7", "7-a-side" and "7 a side".
func normalizeFormat(v string) string {
	s := strings.ToLower(strings.TrimSpace(v))
	s = strings.ReplaceAll(s, " ", "-")
	switch s {
	case "5", "5v5", "5-a-side":
		return Format5
	case "7", "7v7", "7-a-side":
		return Format7
	case "9", "9v9", "9-a-side":
		return Format9
	case "11", "11v11", "11-a-side":
		return Format11
	}
	return s
}

func builtinTemplates() []Template {
	gk := Position{Name: "Goalkeeper", X: 50, Y: 92}
	return []Template{
		{GameFormat: Format5, ID: "2-2", Positions: []Position{
			gk,
			{Name: "Defender Left", X: 30, Y: 70},
			{Name: "Defender Right", X: 70, Y: 70},
			{Name: "Striker Left", X: 35, Y: 30},
			{Name: "Striker Right", X: 65, Y: 30},
		}},
		{GameFormat: Format5, ID: "1-2-1", Positions: []Position{
			gk,
			{Name: "Defender Centre", X: 50, Y: 72},
			{Name: "Midfielder Left", X: 25, Y: 50},
			{Name: "Midfielder Right", X: 75, Y: 50},
			{Name: "Striker Centre", X: 50, Y: 25},
		}},
		{GameFormat: Format7, ID: "2-3-1", Positions: []Position{
			gk,
			{Name: "Defender Left", X: 30, Y: 72},
			{Name: "Defender Right", X: 70, Y: 72},
			{Name: "Midfielder Left", X: 20, Y: 50},
			{Name: "Midfielder Centre", X: 50, Y: 50},
			{Name: "Midfielder Right", X: 80, Y: 50},
			{Name: "Striker Centre", X: 50, Y: 22},
		}},
		{GameFormat: Format7, ID: "3-2-1", Positions: []Position{
			gk,
			{Name: "Defender Left", X: 20, Y: 72},
			{Name: "Defender Centre", X: 50, Y: 75},
			{Name: "Defender Right", X: 80, Y: 72},
			{Name: "Midfielder Left", X: 35, Y: 48},
			{Name: "Midfielder Right", X: 65, Y: 48},
			{Name: "Striker Centre", X: 50, Y: 22},
		}},
		{GameFormat: Format7, ID: "3-1-2", Positions: []Position{
			gk,
			{Name: "Defender Left", X: 20, Y: 72},
			{Name: "Defender Centre", X: 50, Y: 75},
			{Name: "Defender Right", X: 80, Y: 72},
			{Name: "Midfielder Centre", X: 50, Y: 50},
			{Name: "Striker Left", X: 35, Y: 25},
			{Name: "Striker Right", X: 65, Y: 25},
		}},
		{GameFormat: Format9, ID: "3-3-2", Positions: []Position{
			gk,
			{Name: "Defender Left", X: 20, Y: 74},
			{Name: "Defender Centre", X: 50, Y: 77},
			{Name: "Defender Right", X: 80, Y: 74},
			{Name: "Midfielder Left", X: 20, Y: 50},
			{Name: "Midfielder Centre", X: 50, Y: 52},
			{Name: "Midfielder Right", X: 80, Y: 50},
			{Name: "Striker Left", X: 38, Y: 24},
			{Name: "Striker Right", X: 62, Y: 24},
		}},
		{GameFormat: Format9, ID: "3-2-3", Positions: []Position{
			gk,
			{Name: "Defender Left", X: 20, Y: 74},
			{Name: "Defender Centre", X: 50, Y: 77},
			{Name: "Defender Right", X: 80, Y: 74},
			{Name: "Midfielder Left", X: 35, Y: 50},
			{Name: "Midfielder Right", X: 65, Y: 50},
			{Name: "Striker Left", X: 20, Y: 25},
			{Name: "Striker Centre", X: 50, Y: 20},
			{Name: "Striker Right", X: 80, Y: 25},
		}},
		{GameFormat: Format9, ID: "3-2-1-2", Positions: []Position{
			gk,
			{Name: "Defender Left", X: 20, Y: 74},
			{Name: "Defender Centre", X: 50, Y: 77},
			{Name: "Defender Right", X: 80, Y: 74},
			{Name: "Midfielder Left", X: 30, Y: 54},
			{Name: "Midfielder Right", X: 70, Y: 54},
			{Name: "Attacking Midfielder Centre", X: 50, Y: 38},
			{Name: "Striker Left", X: 38, Y: 20},
			{Name: "Striker Right", X: 62, Y: 20},
		}},
		{GameFormat: Format11, ID: "4-4-2", Positions: []Position{
			gk,
			{Name: "Defender Left", X: 15, Y: 72},
			{Name: "Defender Centre Left", X: 38, Y: 76},
			{Name: "Defender Centre Right", X: 62, Y: 76},
			{Name: "Defender Right", X: 85, Y: 72},
			{Name: "Midfielder Left", X: 15, Y: 48},
			{Name: "Midfielder Centre Left", X: 38, Y: 52},
			{Name: "Midfielder Centre Right", X: 62, Y: 52},
			{Name: "Midfielder Right", X: 85, Y: 48},
			{Name: "Striker Left", X: 38, Y: 22},
			{Name: "Striker Right", X: 62, Y: 22},
		}},
		{GameFormat: Format11, ID: "4-3-3", Positions: []Position{
			gk,
			{Name: "Defender Left", X: 15, Y: 72},
			{Name: "Defender Centre Left", X: 38, Y: 76},
			{Name: "Defender Centre Right", X: 62, Y: 76},
			{Name: "Defender Right", X: 85, Y: 72},
			{Name: "Midfielder Left", X: 30, Y: 52},
			{Name: "Midfielder Centre", X: 50, Y: 55},
			{Name: "Midfielder Right", X: 70, Y: 52},
			{Name: "Striker Left", X: 20, Y: 25},
			{Name: "Striker Centre", X: 50, Y: 20},
			{Name: "Striker Right", X: 80, Y: 25},
		}},
		{GameFormat: Format11, ID: "3-5-2", Positions: []Position{
			gk,
			{Name: "Defender Left", X: 25, Y: 75},
			{Name: "Defender Centre", X: 50, Y: 78},
			{Name: "Defender Right", X: 75, Y: 75},
			{Name: "Midfielder Left", X: 10, Y: 50},
			{Name: "Midfielder Centre Left", X: 35, Y: 55},
			{Name: "Attacking Midfielder Centre", X: 50, Y: 38},
			{Name: "Midfielder Centre Right", X: 65, Y: 55},
			{Name: "Midfielder Right", X: 90, Y: 50},
			{Name: "Striker Left", X: 38, Y: 20},
			{Name: "Striker Right", X: 62, Y: 20},
		}},
		{GameFormat: Format11, ID: "4-2-3-1", Positions: []Position{
			gk,
			{Name: "Defender Left", X: 15, Y: 72},
			{Name: "Defender Centre Left", X: 38, Y: 76},
			{Name: "Defender Centre Right", X: 62, Y: 76},
			{Name: "Defender Right", X: 85, Y: 72},
			{Name: "Midfielder Centre Left", X: 38, Y: 58},
			{Name: "Midfielder Centre Right", X: 62, Y: 58},
			{Name: "Attacking Midfielder Left", X: 20, Y: 38},
			{Name: "Attacking Midfielder Centre", X: 50, Y: 36},
			{Name: "Attacking Midfielder Right", X: 80, Y: 38},
			{Name: "Striker Centre", X: 50, Y: 18},
		}},
	}
}
