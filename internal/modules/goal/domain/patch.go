package domain

// Pure updates applied to cached goals after a successful call. None of
// them reorders objectives.

// ReplaceObjective swaps in updated for the objective with the same id.
func ReplaceObjective(g Goal, updated Objective) Goal {
	objectives := make([]Objective, len(g.Objectives))
	for i, o := range g.Objectives {
		if o.ID == updated.ID {
			objectives[i] = updated
			continue
		}
		objectives[i] = o
	}
	g.Objectives = objectives
	return g
}

// SetObjectiveStatus changes only the status of one objective.
func SetObjectiveStatus(g Goal, objectiveID int64, status Status) Goal {
	objectives := make([]Objective, len(g.Objectives))
	copy(objectives, g.Objectives)
	for i := range objectives {
		if objectives[i].ID == objectiveID {
			objectives[i].Status = status
		}
	}
	g.Objectives = objectives
	return g
}

// AppendExtension appends the new objectives after the existing ones and
// takes the new deadline when one was returned.
func AppendExtension(g Goal, ext ExtensionResult) Goal {
	objectives := make([]Objective, 0, len(g.Objectives)+len(ext.NewObjectives))
	objectives = append(objectives, g.Objectives...)
	objectives = append(objectives, ext.NewObjectives...)
	g.Objectives = objectives
	if ext.NewDeadline != "" {
		g.Deadline = ext.NewDeadline
	}
	return g
}

// MergeHeader copies the header fields of updated onto g. Objectives are
// only taken when updated carries some.
func MergeHeader(g Goal, updated Goal) Goal {
	if updated.Title != "" {
		g.Title = updated.Title
	}
	if updated.Availability != "" {
		g.Availability = updated.Availability
	}
	if updated.Deadline != "" {
		g.Deadline = updated.Deadline
	}
	if updated.State != "" {
		g.State = updated.State
	}
	if len(updated.Objectives) > 0 {
		g.Objectives = updated.Objectives
	}
	return g
}

// RemoveSummary drops one goal from a list.
func RemoveSummary(goals []GoalSummary, goalID int64) []GoalSummary {
	out := make([]GoalSummary, 0, len(goals))
	for _, g := range goals {
		if g.ID != goalID {
			out = append(out, g)
		}
	}
	return out
}
