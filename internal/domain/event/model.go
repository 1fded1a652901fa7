package event

import "time"

type Type string

const (
	TypeMatch    Type = "match"
	TypeTraining Type = "training"
	TypeOther    Type = "other"
)

// Event is a scheduled match, training session or other team fixture.
type Event struct {
	ID         string
	TeamID     string
	Title      string
	Type       Type
	StartTime  time.Time
	Location   string
	GameFormat string
}

// ParseType maps stored values to a Type; unknown values become TypeOther.
func ParseType(v string) Type {
	switch Type(v) {
	case TypeMatch, TypeTraining:
		return Type(v)
	default:
		return TypeOther
	}
}
