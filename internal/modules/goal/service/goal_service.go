package service

import (
	"context"

	"go.uber.org/zap"

	"goalplan/internal/modules/goal/domain"
	goalout "goalplan/internal/modules/goal/port/out"
	apperrors "goalplan/internal/platform/errors"
)

// Fallback messages used when the backend sends neither `error` nor
// `message`.
const (
	msgCreate = "Error creating goal"
	msgList   = "Error loading goals"
	msgDetail = "Error loading goal"
	msgUpdate = "Error updating goal"
	msgDelete = "Error deleting goal"
	msgStatus = "Error updating objective"
	msgReview = "Error reviewing objective"
	msgExtend = "Error extending goal"
)

// GoalService performs exactly one authenticated call per operation. Without
// a token it fails with ErrAuthenticationRequired and makes no call.
type GoalService struct {
	creds   goalout.Credentials
	gateway goalout.Gateway
	log     *zap.Logger
}

func NewGoalService(creds goalout.Credentials, gateway goalout.Gateway, log *zap.Logger) *GoalService {
	if log == nil {
		log = zap.NewNop()
	}
	return &GoalService{creds: creds, gateway: gateway, log: log.Named("goals")}
}

func (s *GoalService) token(ctx context.Context) (string, error) {
	token, ok := s.creds.Token(ctx)
	if !ok {
		return "", apperrors.ErrAuthenticationRequired
	}
	return token, nil
}

func (s *GoalService) fail(op string, err error, fallback string, fields ...zap.Field) error {
	err = apperrors.WithDefaultMessage(err, fallback)
	s.log.Warn(op+" failed", append(fields, zap.Error(err))...)
	return err
}

func (s *GoalService) CreateGoal(ctx context.Context, goal domain.NewGoal) (domain.CreatedGoal, error) {
	token, err := s.token(ctx)
	if err != nil {
		return domain.CreatedGoal{}, err
	}
	created, err := s.gateway.CreateGoal(ctx, token, goal)
	if err != nil {
		return domain.CreatedGoal{}, s.fail("create goal", err, msgCreate)
	}
	s.log.Info("goal created", zap.Int64("goal_id", created.GoalID))
	return created, nil
}

func (s *GoalService) ListGoals(ctx context.Context) ([]domain.GoalSummary, error) {
	token, err := s.token(ctx)
	if err != nil {
		return nil, err
	}
	goals, err := s.gateway.ListGoals(ctx, token)
	if err != nil {
		return nil, s.fail("list goals", err, msgList)
	}
	return goals, nil
}

func (s *GoalService) GetGoalDetail(ctx context.Context, goalID int64) (domain.Goal, error) {
	token, err := s.token(ctx)
	if err != nil {
		return domain.Goal{}, err
	}
	goal, err := s.gateway.GetGoal(ctx, token, goalID)
	if err != nil {
		return domain.Goal{}, s.fail("load goal", err, msgDetail, zap.Int64("goal_id", goalID))
	}
	return goal, nil
}

func (s *GoalService) UpdateGoal(ctx context.Context, goalID int64, patch domain.GoalPatch) (domain.Goal, error) {
	if patch.Empty() {
		return domain.Goal{}, apperrors.Validation("patch", "Nothing to update")
	}
	token, err := s.token(ctx)
	if err != nil {
		return domain.Goal{}, err
	}
	goal, err := s.gateway.UpdateGoal(ctx, token, goalID, patch)
	if err != nil {
		return domain.Goal{}, s.fail("update goal", err, msgUpdate, zap.Int64("goal_id", goalID))
	}
	return goal, nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, goalID int64) error {
	token, err := s.token(ctx)
	if err != nil {
		return err
	}
	if err := s.gateway.DeleteGoal(ctx, token, goalID); err != nil {
		return s.fail("delete goal", err, msgDelete, zap.Int64("goal_id", goalID))
	}
	s.log.Info("goal deleted", zap.Int64("goal_id", goalID))
	return nil
}

func (s *GoalService) SetObjectiveStatus(ctx context.Context, goalID, objectiveID int64, status domain.Status) (domain.Objective, error) {
	token, err := s.token(ctx)
	if err != nil {
		return domain.Objective{}, err
	}
	obj, err := s.gateway.UpdateObjective(ctx, token, goalID, objectiveID, status)
	if err != nil {
		return domain.Objective{}, s.fail("update objective", err, msgStatus,
			zap.Int64("goal_id", goalID), zap.Int64("objective_id", objectiveID), zap.String("status", string(status)))
	}
	return obj, nil
}

func (s *GoalService) ReviewObjective(ctx context.Context, goalID, objectiveID int64, review domain.ReviewSubmission) (domain.Objective, error) {
	token, err := s.token(ctx)
	if err != nil {
		return domain.Objective{}, err
	}
	obj, err := s.gateway.ReviewObjective(ctx, token, goalID, objectiveID, review)
	if err != nil {
		return domain.Objective{}, s.fail("review objective", err, msgReview,
			zap.Int64("goal_id", goalID), zap.Int64("objective_id", objectiveID))
	}
	return obj, nil
}

func (s *GoalService) ExtendGoal(ctx context.Context, goalID int64, req domain.ExtensionRequest) (domain.ExtensionResult, error) {
	token, err := s.token(ctx)
	if err != nil {
		return domain.ExtensionResult{}, err
	}
	res, err := s.gateway.ExtendGoal(ctx, token, goalID, req)
	if err != nil {
		return domain.ExtensionResult{}, s.fail("extend goal", err, msgExtend, zap.Int64("goal_id", goalID))
	}
	s.log.Info("goal extended", zap.Int64("goal_id", goalID), zap.Int("new_objectives", len(res.NewObjectives)))
	return res, nil
}
