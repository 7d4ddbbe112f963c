package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"goalplan/internal/platform/clock"
	apperrors "goalplan/internal/platform/errors"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusCancelled, "canceled":
		return StatusCancelled, nil
	}
	return "", apperrors.Validation("status", fmt.Sprintf("unknown status %q: want pending|completed|cancelled", s))
}

// Deadline is either a number of days or a date string; the backend uses
// both shapes. It is kept as text and re-encoded in its original shape.
type Deadline string

func (d Deadline) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(string(d), 64); err == nil {
		return []byte(d), nil
	}
	return json.Marshal(string(d))
}

func (d *Deadline) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*d = ""
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*d = Deadline(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("deadline must be a number or string: %w", err)
	}
	*d = Deadline(n.String())
	return nil
}

type Objective struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ScheduledAt  string `json:"scheduled_at,omitempty"`
	YoutubeLinks string `json:"youtube_links,omitempty"`
	Status       Status `json:"status"`
}

var scheduleLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// Scheduled parses ScheduledAt. Timestamps without a zone are read in loc.
func (o Objective) Scheduled(loc *time.Location) (time.Time, bool) {
	if o.ScheduledAt == "" {
		return time.Time{}, false
	}
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, o.ScheduledAt, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Overdue reports a pending objective whose scheduled time has passed.
func (o Objective) Overdue(now time.Time) bool {
	if o.Status != StatusPending {
		return false
	}
	at, ok := o.Scheduled(now.Location())
	return ok && at.Before(now)
}

type Goal struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Deadline     Deadline    `json:"deadline"`
	Availability string      `json:"availability"`
	State        string      `json:"state"`
	Objectives   []Objective `json:"objectives"`
}

type GoalSummary struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	DeadlineDays       Deadline `json:"deadline_days"`
	Availability       string   `json:"availability"`
	State              string   `json:"state"`
	ProgressPercentage float64  `json:"progress_percentage"`
}

type CreatedGoal struct {
	GoalID int64 `json:"goal_id"`
}

// GoalPatch carries the editable goal fields; nil fields are left out.
type GoalPatch struct {
	Title        *string `json:"meta,omitempty"`
	Availability *string `json:"disponibilidad,omitempty"`
	DeadlineDays *int    `json:"plazo_dias,omitempty"`
}

func (p GoalPatch) Empty() bool {
	return p.Title == nil && p.Availability == nil && p.DeadlineDays == nil
}

type ExtensionResult struct {
	NewObjectives []Objective `json:"new_objectives"`
	NewDeadline   Deadline    `json:"new_deadline,omitempty"`
}

// Counts tallies objectives by status.
func (g Goal) Counts() map[Status]int {
	counts := map[Status]int{StatusPending: 0, StatusCompleted: 0, StatusCancelled: 0}
	for _, o := range g.Objectives {
		counts[o.Status]++
	}
	return counts
}

// TodayIndex is the position of the first objective scheduled on now's
// calendar day, or -1.
func (g Goal) TodayIndex(now time.Time) int {
	for i, o := range g.Objectives {
		if at, ok := o.Scheduled(now.Location()); ok && clock.SameDay(at, now, now.Location()) {
			return i
		}
	}
	return -1
}
