package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	apperrors "goalplan/internal/platform/errors"
)

func fiveObjectives() Goal {
	g := Goal{ID: 1, Title: "Learn Go", Deadline: "30"}
	for i := int64(1); i <= 5; i++ {
		g.Objectives = append(g.Objectives, Objective{ID: i, Title: "o", Status: StatusPending})
	}
	return g
}

func TestDeadlineKeepsNumberOrStringShape(t *testing.T) {
	t.Parallel()
	var g Goal
	if err := json.Unmarshal([]byte(`{"id":1,"deadline":30}`), &g); err != nil {
		t.Fatalf("decode number: %v", err)
	}
	if g.Deadline != "30" {
		t.Fatalf("expected 30, got %q", g.Deadline)
	}
	raw, _ := json.Marshal(g.Deadline)
	if string(raw) != "30" {
		t.Fatalf("expected numeric re-encode, got %s", raw)
	}
	if err := json.Unmarshal([]byte(`{"id":1,"deadline":"2025-01-01"}`), &g); err != nil {
		t.Fatalf("decode string: %v", err)
	}
	raw, _ = json.Marshal(g.Deadline)
	if g.Deadline != "2025-01-01" || string(raw) != `"2025-01-01"` {
		t.Fatalf("unexpected string deadline %q -> %s", g.Deadline, raw)
	}
}

func TestAppendExtensionKeepsOrderAndReplacesDeadline(t *testing.T) {
	t.Parallel()
	g := fiveObjectives()
	out := AppendExtension(g, ExtensionResult{
		NewObjectives: []Objective{{ID: 6}, {ID: 7}},
		NewDeadline:   "2025-01-01",
	})
	if len(out.Objectives) != 7 {
		t.Fatalf("expected 7 objectives, got %d", len(out.Objectives))
	}
	for i, o := range out.Objectives {
		if o.ID != int64(i+1) {
			t.Fatalf("objective %d out of order: id=%d", i, o.ID)
		}
	}
	if out.Deadline != "2025-01-01" {
		t.Fatalf("expected new deadline, got %q", out.Deadline)
	}
	if len(g.Objectives) != 5 {
		t.Fatalf("input goal must not be mutated")
	}
	kept := AppendExtension(g, ExtensionResult{})
	if kept.Deadline != "30" {
		t.Fatalf("missing new deadline must keep the old one, got %q", kept.Deadline)
	}
}

func TestSetObjectiveStatusTouchesOnlyStatus(t *testing.T) {
	t.Parallel()
	g := fiveObjectives()
	g.Objectives[1].Title = "Read chapter 2"
	out := SetObjectiveStatus(g, 2, StatusCompleted)
	if out.Objectives[1].Status != StatusCompleted || out.Objectives[1].Title != "Read chapter 2" {
		t.Fatalf("unexpected objective %+v", out.Objectives[1])
	}
	if g.Objectives[1].Status != StatusPending {
		t.Fatalf("input goal must not be mutated")
	}
	again := SetObjectiveStatus(out, 2, StatusCompleted)
	if again.Objectives[1].Status != StatusCompleted {
		t.Fatalf("redundant transition must be allowed")
	}
}

func TestReplaceObjectiveSwapsWholeObjective(t *testing.T) {
	t.Parallel()
	g := fiveObjectives()
	out := ReplaceObjective(g, Objective{ID: 3, Title: "Easier drill", Description: "new", Status: StatusPending})
	if out.Objectives[2].Title != "Easier drill" || out.Objectives[2].Description != "new" {
		t.Fatalf("expected replaced objective, got %+v", out.Objectives[2])
	}
	if len(out.Objectives) != 5 || out.Objectives[3].ID != 4 {
		t.Fatalf("other objectives must stay in place")
	}
}

func TestMergeHeaderKeepsObjectivesWhenOmitted(t *testing.T) {
	t.Parallel()
	g := fiveObjectives()
	out := MergeHeader(g, Goal{ID: 1, Title: "Learn Go well", Deadline: "45"})
	if out.Title != "Learn Go well" || out.Deadline != "45" || len(out.Objectives) != 5 {
		t.Fatalf("unexpected merge %+v", out)
	}
}

func TestRemoveSummary(t *testing.T) {
	t.Parallel()
	out := RemoveSummary([]GoalSummary{{ID: 1}, {ID: 2}, {ID: 3}}, 2)
	if len(out) != 2 || out[0].ID != 1 || out[1].ID != 3 {
		t.Fatalf("unexpected list %+v", out)
	}
}

func TestScheduleHelpers(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	g := Goal{Objectives: []Objective{
		{ID: 1, ScheduledAt: "2026-03-09T19:00:00Z", Status: StatusPending},
		{ID: 2, ScheduledAt: "2026-03-10T19:00:00", Status: StatusPending},
		{ID: 3, ScheduledAt: "", Status: StatusPending},
	}}
	if idx := g.TodayIndex(now); idx != 1 {
		t.Fatalf("expected today index 1, got %d", idx)
	}
	if !g.Objectives[0].Overdue(now) || g.Objectives[1].Overdue(now) || g.Objectives[2].Overdue(now) {
		t.Fatalf("unexpected overdue flags")
	}
	done := g.Objectives[0]
	done.Status = StatusCompleted
	if done.Overdue(now) {
		t.Fatalf("completed objectives are never overdue")
	}
	counts := g.Counts()
	if counts[StatusPending] != 3 || counts[StatusCompleted] != 0 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()
	if s, err := ParseStatus(" Completed "); err != nil || s != StatusCompleted {
		t.Fatalf("expected completed, got %q %v", s, err)
	}
	if s, _ := ParseStatus("canceled"); s != StatusCancelled {
		t.Fatalf("expected cancelled alias, got %q", s)
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestGoalDraftBuild(t *testing.T) {
	t.Parallel()
	goal, err := GoalDraft{Goal: " Learn Go ", Availability: "Mon-Fri 19-21", DeadlineDays: "30", WeeklyCheckpoints: true}.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if goal.Goal != "Learn Go" || goal.DeadlineDays != 30 || goal.Level != "Intermediate" || goal.Focus != "Depth" ||
		goal.Language != "es" || goal.SessionLength != 30 || goal.Checkpoints != "weekly" || len(goal.Formats) != 1 || goal.Location != nil {
		t.Fatalf("unexpected defaults %+v", goal)
	}
	raw, _ := json.Marshal(goal)
	decoded := map[string]any{}
	_ = json.Unmarshal(raw, &decoded)
	if v, ok := decoded["location"]; !ok || v != nil {
		t.Fatalf("expected explicit null location, got %s", raw)
	}
	if decoded["meta"] != "Learn Go" || decoded["plazo_dias"] != float64(30) {
		t.Fatalf("unexpected payload %s", raw)
	}

	withCountry, err := GoalDraft{Goal: "g", Availability: "a", DeadlineDays: "7", Level: "advanced", CountryCode: "ar", CountryName: "Argentina"}.Build()
	if err != nil || withCountry.Level != "Advanced" || withCountry.Location.Country.Code != "AR" || withCountry.Checkpoints != "none" {
		t.Fatalf("unexpected build %+v err=%v", withCountry, err)
	}
}

func TestGoalDraftBuildRejects(t *testing.T) {
	t.Parallel()
	cases := map[string]GoalDraft{
		"goal":           {Availability: "a", DeadlineDays: "3"},
		"deadline_days":  {Goal: "g", Availability: "a", DeadlineDays: "-2"},
		"session_length": {Goal: "g", Availability: "a", DeadlineDays: "2", SessionLength: "abc"},
		"focus":          {Goal: "g", Availability: "a", DeadlineDays: "2", Focus: "Random"},
		"location":       {Goal: "g", Availability: "a", DeadlineDays: "2", CountryCode: "AR"},
	}
	for field, draft := range cases {
		_, err := draft.Build()
		var vErr *apperrors.ValidationError
		if !errors.As(err, &vErr) || vErr.Field != field {
			t.Fatalf("%s: expected validation error, got %v", field, err)
		}
	}
	if _, err := (GoalDraft{Goal: "g", Availability: "a", DeadlineDays: "1.5"}).Build(); err == nil {
		t.Fatalf("fractional days must be rejected")
	}
}

func TestWizardAnswersMapToPayloads(t *testing.T) {
	t.Parallel()
	review := ReviewFromAnswers(map[string]string{"difficulty": "Too Easy", "interest": "Liked it", "time": "Perfect", "comment": ""})
	raw, _ := json.Marshal(review)
	if string(raw) != `{"difficulty":"Too Easy","interest":"Liked it","time":"Perfect","comment":""}` {
		t.Fatalf("unexpected review payload %s", raw)
	}
	ext := ExtensionFromAnswers(map[string]string{"extension": "1 week", "level": "harder", "priority": "Balance easy and hard objectives"})
	raw, _ = json.Marshal(ext)
	if string(raw) != `{"extension":"1 week","level":"harder","priority":"Balance easy and hard objectives","comment":""}` {
		t.Fatalf("unexpected extension payload %s", raw)
	}
	if len(ReviewWizard().Steps) != 4 || len(ExtensionWizard().Steps) != 4 {
		t.Fatalf("both wizards have four steps")
	}
}
