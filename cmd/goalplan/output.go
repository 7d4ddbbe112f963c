package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"gopkg.in/yaml.v3"

	goaldto "goalplan/internal/modules/goal/dto"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// render writes v in the requested format, falling back to text for "text".
func render(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case "", "text":
		text(w)
		return nil
	case "json":
		return writeJSON(w, v)
	case "yaml":
		return writeYAML(w, v)
	default:
		return fmt.Errorf("unknown --output %q: want text|json|yaml", format)
	}
}

func statusColor(status string) func(a ...interface{}) string {
	switch status {
	case "completed":
		return color.New(color.FgGreen).SprintFunc()
	case "cancelled":
		return color.New(color.FgRed, color.Faint).SprintFunc()
	default:
		return color.New(color.FgYellow).SprintFunc()
	}
}

func printGoalSummaries(w io.Writer, goals []goaldto.GoalSummaryOutput) {
	if len(goals) == 0 {
		_, _ = fmt.Fprintln(w, "no goals")
		return
	}
	bold := color.New(color.Bold).SprintFunc()
	tbl := uitable.New()
	tbl.MaxColWidth = 48
	tbl.AddRow(bold("ID"), bold("TITLE"), bold("DAYS"), bold("PROGRESS"), bold("STATE"))
	for _, g := range goals {
		tbl.AddRow(g.ID, g.Title, g.DeadlineDays, fmt.Sprintf("%.0f%%", g.ProgressPercentage), g.State)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printGoal(w io.Writer, goal goaldto.GoalOutput) {
	title := color.New(color.Bold, color.Underline).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	_, _ = fmt.Fprintln(w, title(goal.Title))
	_, _ = fmt.Fprintf(w, "%s %s  %s %s  %s %s\n",
		faint("deadline"), goal.Deadline,
		faint("availability"), goal.Availability,
		faint("state"), goal.State)

	if len(goal.Objectives) == 0 {
		_, _ = fmt.Fprintln(w, "no objectives")
		return
	}
	today := color.New(color.FgHiYellow, color.Bold).SprintFunc()
	tbl := uitable.New()
	tbl.MaxColWidth = 60
	tbl.Separator = "  "
	for i, o := range goal.Objectives {
		marker := ""
		switch {
		case i == goal.TodayIndex:
			marker = today("TODAY")
		case o.Overdue:
			marker = color.RedString("overdue")
		}
		tbl.AddRow(o.ID, statusColor(o.Status)(o.Status), o.ScheduledAt, o.Title, marker)
	}
	_, _ = fmt.Fprintln(w, tbl)
}
