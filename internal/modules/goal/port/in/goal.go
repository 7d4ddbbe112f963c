package in

import (
	"context"

	"goalplan/internal/modules/goal/dto"
	"goalplan/internal/platform/wizard"
)

type Usecase interface {
	ListGoals(ctx context.Context) ([]dto.GoalSummaryOutput, error)
	GoalDetail(ctx context.Context, goalID int64) (dto.GoalOutput, error)
	CachedGoal(goalID int64) (dto.GoalOutput, bool)
	Watch(goalID int64) (<-chan struct{}, func())
	CreateOptions() dto.CreateOptions
	CreateGoal(ctx context.Context, input dto.CreateGoalInput) (dto.CreateGoalOutput, error)
	UpdateGoal(ctx context.Context, input dto.UpdateGoalInput) (dto.GoalOutput, error)
	DeleteGoal(ctx context.Context, goalID int64) error
	SetObjectiveStatus(ctx context.Context, input dto.SetStatusInput) (dto.ObjectiveOutput, error)
	ReviewObjective(ctx context.Context, input dto.ReviewInput) (dto.ObjectiveOutput, error)
	ExtendGoal(ctx context.Context, input dto.ExtendInput) (dto.ExtendOutput, error)
	ExportGoal(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	NewReviewWizard() *wizard.Machine
	NewExtensionWizard() *wizard.Machine
}
