package service

import (
	"fmt"
	"strings"

	"goalplan/internal/modules/goal/domain"
	"goalplan/internal/platform/markdown"
	"goalplan/internal/platform/slug"
)

type noteMeta struct {
	GoalID       int64  `yaml:"goal_id"`
	Title        string `yaml:"title"`
	Deadline     string `yaml:"deadline"`
	Availability string `yaml:"availability"`
	State        string `yaml:"state,omitempty"`
	Objectives   int    `yaml:"objectives"`
	Completed    int    `yaml:"completed"`
	Cancelled    int    `yaml:"cancelled"`
	Pending      int    `yaml:"pending"`
}

// RenderNote turns a goal into a Markdown note with YAML front matter and
// one checklist line per objective, in schedule order.
func RenderNote(g domain.Goal) (string, []byte, error) {
	counts := g.Counts()
	meta := noteMeta{
		GoalID:       g.ID,
		Title:        g.Title,
		Deadline:     string(g.Deadline),
		Availability: g.Availability,
		State:        g.State,
		Objectives:   len(g.Objectives),
		Completed:    counts[domain.StatusCompleted],
		Cancelled:    counts[domain.StatusCancelled],
		Pending:      counts[domain.StatusPending],
	}

	body := strings.Builder{}
	body.WriteString("# " + g.Title + "\n\n")
	for _, o := range g.Objectives {
		line := o.Title
		if o.ScheduledAt != "" {
			line += " (" + o.ScheduledAt + ")"
		}
		if o.Status == domain.StatusCancelled {
			line = "~~" + line + "~~"
		}
		body.WriteString(markdown.Task(o.Status == domain.StatusCompleted, line))
		if d := strings.TrimSpace(o.Description); d != "" {
			for _, l := range strings.Split(d, "\n") {
				body.WriteString("  " + l + "\n")
			}
		}
		if o.YoutubeLinks != "" {
			body.WriteString("  " + o.YoutubeLinks + "\n")
		}
	}

	note, err := markdown.Render(meta, body.String())
	if err != nil {
		return "", nil, fmt.Errorf("render goal %d: %w", g.ID, err)
	}
	return slug.Make(g.Title) + ".md", []byte(note), nil
}
