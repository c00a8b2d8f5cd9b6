package model

import (
	"fmt"
	"time"
)

// ActivityType classifies a logged pet-care event. The set is closed;
// unrecognized values are rejected at the API boundary.
type ActivityType string

const (
	ActivityWalk  ActivityType = "walk"
	ActivityPlay  ActivityType = "play"
	ActivityTreat ActivityType = "treat"
	ActivityCare  ActivityType = "care"
	ActivityNote  ActivityType = "note"
)

// ParseActivityType validates a wire value against the closed set.
func ParseActivityType(value string) (ActivityType, error) {
	switch t := ActivityType(value); t {
	case ActivityWalk, ActivityPlay, ActivityTreat, ActivityCare, ActivityNote:
		return t, nil
	default:
		return "", fmt.Errorf("model: unknown activity type %q", value)
	}
}

// ActivityUnit is the measurement unit of an activity amount.
type ActivityUnit string

const (
	UnitMinutes ActivityUnit = "min"
	UnitCount   ActivityUnit = "count"
	UnitNone    ActivityUnit = "none"
)

// ParseActivityUnit validates a wire value against the closed set.
// An empty value defaults to UnitNone.
func ParseActivityUnit(value string) (ActivityUnit, error) {
	if value == "" {
		return UnitNone, nil
	}
	switch u := ActivityUnit(value); u {
	case UnitMinutes, UnitCount, UnitNone:
		return u, nil
	default:
		return "", fmt.Errorf("model: unknown activity unit %q", value)
	}
}

// ActivitySource records how an activity entered the system.
type ActivitySource string

const (
	SourceManual    ActivitySource = "manual"
	SourceQuick     ActivitySource = "quick"
	SourceChat      ActivitySource = "chat"
	SourceAutoGPS   ActivitySource = "auto_gps"
	SourceAutoPhoto ActivitySource = "auto_photo"
)

// ParseActivitySource validates a wire value against the closed set.
// An empty value defaults to SourceManual.
func ParseActivitySource(value string) (ActivitySource, error) {
	if value == "" {
		return SourceManual, nil
	}
	switch s := ActivitySource(value); s {
	case SourceManual, SourceQuick, SourceChat, SourceAutoGPS, SourceAutoPhoto:
		return s, nil
	default:
		return "", fmt.Errorf("model: unknown activity source %q", value)
	}
}

// Activity is a single logged pet-care event.
//
// Invariants enforced before persistence: Amount >= 0, Unit matches
// Type, EndedAt >= StartedAt, and both timestamps are UTC. An activity
// is written once at logging time and never mutated.
type Activity struct {
	ID        string         `json:"id"`
	UserID    string         `json:"-"`
	PetID     *string        `json:"pet_id"`
	Type      ActivityType   `json:"type"`
	Amount    float64        `json:"amount"`
	Unit      ActivityUnit   `json:"unit"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   time.Time      `json:"ended_at"`
	Note      *string        `json:"note"`
	Source    ActivitySource `json:"source"`
	CreatedAt time.Time      `json:"created_at"`
}
