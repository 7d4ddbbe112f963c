package domain

import (
	"strconv"
	"strings"

	apperrors "goalplan/internal/platform/errors"
)

var (
	Levels    = []string{"Beginner", "Intermediate", "Advanced"}
	Formats   = []string{"Video", "Exercises"}
	Focuses   = []string{"Depth", "Breadth", "Speed"}
	Languages = []string{"es", "en"}
)

const (
	DefaultLevel         = "Intermediate"
	DefaultFocus         = "Depth"
	DefaultLanguage      = "es"
	DefaultSessionLength = 30
)

type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Location struct {
	Country Country `json:"country"`
}

// NewGoal is the payload of /goals/generate-objectives/. Field names are
// the backend's.
type NewGoal struct {
	Goal          string    `json:"meta"`
	Availability  string    `json:"disponibilidad"`
	DeadlineDays  int       `json:"plazo_dias"`
	Level         string    `json:"level,omitempty"`
	Formats       []string  `json:"formats,omitempty"`
	SessionLength int       `json:"session_length,omitempty"`
	Focus         string    `json:"focus,omitempty"`
	Language      string    `json:"language,omitempty"`
	Checkpoints   string    `json:"checkpoints,omitempty"`
	Location      *Location `json:"location"`
}

// GoalDraft is the create form as typed by the user.
type GoalDraft struct {
	Goal              string
	Availability      string
	DeadlineDays      string
	Level             string
	Formats           []string
	SessionLength     string
	Focus             string
	Language          string
	WeeklyCheckpoints bool
	CountryCode       string
	CountryName       string
}

// Build validates the draft and fills defaults.
func (d GoalDraft) Build() (NewGoal, error) {
	goal := strings.TrimSpace(d.Goal)
	availability := strings.TrimSpace(d.Availability)
	if goal == "" || availability == "" || strings.TrimSpace(d.DeadlineDays) == "" {
		return NewGoal{}, apperrors.Validation("goal", "Please fill in all required fields")
	}
	days, err := positiveInt(d.DeadlineDays)
	if err != nil {
		return NewGoal{}, apperrors.Validation("deadline_days", "Deadline must be a number greater than 0")
	}
	sessionLength := DefaultSessionLength
	if strings.TrimSpace(d.SessionLength) != "" {
		if sessionLength, err = positiveInt(d.SessionLength); err != nil {
			return NewGoal{}, apperrors.Validation("session_length", "Session length must be a number greater than 0")
		}
	}

	level, err := oneOf("level", d.Level, DefaultLevel, Levels)
	if err != nil {
		return NewGoal{}, err
	}
	focus, err := oneOf("focus", d.Focus, DefaultFocus, Focuses)
	if err != nil {
		return NewGoal{}, err
	}
	language, err := oneOf("language", d.Language, DefaultLanguage, Languages)
	if err != nil {
		return NewGoal{}, err
	}
	formats := d.Formats
	if len(formats) == 0 {
		formats = []string{"Video"}
	}
	checkpoints := "none"
	if d.WeeklyCheckpoints {
		checkpoints = "weekly"
	}

	out := NewGoal{
		Goal:          goal,
		Availability:  availability,
		DeadlineDays:  days,
		Level:         level,
		Formats:       formats,
		SessionLength: sessionLength,
		Focus:         focus,
		Language:      language,
		Checkpoints:   checkpoints,
	}
	code, name := strings.TrimSpace(d.CountryCode), strings.TrimSpace(d.CountryName)
	if code != "" || name != "" {
		if code == "" || name == "" {
			return NewGoal{}, apperrors.Validation("location", "Country needs both a code and a name")
		}
		out.Location = &Location{Country: Country{Code: strings.ToUpper(code), Name: name}}
	}
	return out, nil
}

func positiveInt(s string) (int, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || n <= 0 || n != float64(int(n)) {
		return 0, apperrors.ErrInvalidInput
	}
	return int(n), nil
}

func oneOf(field, value, fallback string, allowed []string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return a, nil
		}
	}
	return "", apperrors.Validation(field, field+" must be one of "+strings.Join(allowed, ", "))
}
