package out

import (
	"context"

	"goalplan/internal/modules/goal/domain"
)

// Credentials yields the current session token, false when logged out.
type Credentials interface {
	Token(ctx context.Context) (string, bool)
}

type Gateway interface {
	CreateGoal(ctx context.Context, token string, goal domain.NewGoal) (domain.CreatedGoal, error)
	ListGoals(ctx context.Context, token string) ([]domain.GoalSummary, error)
	GetGoal(ctx context.Context, token string, goalID int64) (domain.Goal, error)
	UpdateGoal(ctx context.Context, token string, goalID int64, patch domain.GoalPatch) (domain.Goal, error)
	DeleteGoal(ctx context.Context, token string, goalID int64) error
	UpdateObjective(ctx context.Context, token string, goalID, objectiveID int64, status domain.Status) (domain.Objective, error)
	ReviewObjective(ctx context.Context, token string, goalID, objectiveID int64, review domain.ReviewSubmission) (domain.Objective, error)
	ExtendGoal(ctx context.Context, token string, goalID int64, req domain.ExtensionRequest) (domain.ExtensionResult, error)
}

// NoteStore writes exported goal notes and returns the written path.
type NoteStore interface {
	Write(ctx context.Context, dir, name string, content []byte) (string, error)
}
