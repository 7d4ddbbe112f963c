package in

import (
	"context"
	"fmt"

	"goalplan/internal/modules/goal/dto"
	goalin "goalplan/internal/modules/goal/port/in"
	"goalplan/internal/platform/wizard"
)

type CLIHandler struct {
	usecase goalin.Usecase
}

func NewCLIHandler(usecase goalin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.GoalSummaryOutput, error) {
	return h.usecase.ListGoals(ctx)
}

func (h CLIHandler) Show(ctx context.Context, goalID int64) (dto.GoalOutput, error) {
	return h.usecase.GoalDetail(ctx, goalID)
}

func (h CLIHandler) Create(ctx context.Context, input dto.CreateGoalInput) (dto.CreateGoalOutput, error) {
	return h.usecase.CreateGoal(ctx, input)
}

func (h CLIHandler) Update(ctx context.Context, input dto.UpdateGoalInput) (dto.GoalOutput, error) {
	return h.usecase.UpdateGoal(ctx, input)
}

func (h CLIHandler) Delete(ctx context.Context, goalID int64) error {
	return h.usecase.DeleteGoal(ctx, goalID)
}

func (h CLIHandler) SetStatus(ctx context.Context, goalID, objectiveID int64, status string) (dto.ObjectiveOutput, error) {
	return h.usecase.SetObjectiveStatus(ctx, dto.SetStatusInput{GoalID: goalID, ObjectiveID: objectiveID, Status: status})
}

// Review walks the review wizard with the given answers so flags go through
// the same option and required-field checks as the TUI.
func (h CLIHandler) Review(ctx context.Context, goalID, objectiveID int64, answers map[string]string) (dto.ObjectiveOutput, error) {
	submitted, err := fill(h.usecase.NewReviewWizard(), answers)
	if err != nil {
		return dto.ObjectiveOutput{}, err
	}
	return h.usecase.ReviewObjective(ctx, dto.ReviewInput{GoalID: goalID, ObjectiveID: objectiveID, Answers: submitted})
}

func (h CLIHandler) Extend(ctx context.Context, goalID int64, answers map[string]string) (dto.ExtendOutput, error) {
	submitted, err := fill(h.usecase.NewExtensionWizard(), answers)
	if err != nil {
		return dto.ExtendOutput{}, err
	}
	return h.usecase.ExtendGoal(ctx, dto.ExtendInput{GoalID: goalID, Answers: submitted})
}

func (h CLIHandler) Export(ctx context.Context, goalID int64, dir string) (dto.ExportOutput, error) {
	return h.usecase.ExportGoal(ctx, dto.ExportInput{GoalID: goalID, Dir: dir})
}

func fill(m *wizard.Machine, answers map[string]string) (wizard.Answers, error) {
	m.Open()
	for {
		step := m.Current()
		value := answers[step.Field]
		if value != "" {
			if err := m.Select(step.Field, value); err != nil {
				return nil, err
			}
		}
		if !m.CanAdvance() {
			return nil, fmt.Errorf("--%s is required", step.Field)
		}
		if submitted, done := m.Next(); done {
			m.Finish()
			return submitted, nil
		}
	}
}
