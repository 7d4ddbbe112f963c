package out

import (
	"context"
	"fmt"
	"net/http"

	"goalplan/internal/modules/goal/domain"
	goalout "goalplan/internal/modules/goal/port/out"
	"goalplan/internal/platform/httpapi"
)

type HTTPGoalGateway struct {
	client *httpapi.Client
}

func NewHTTPGoalGateway(client *httpapi.Client) goalout.Gateway {
	return &HTTPGoalGateway{client: client}
}

func goalPath(goalID int64, suffix string) string {
	return fmt.Sprintf("/goals/%d/%s", goalID, suffix)
}

func objectivePath(goalID, objectiveID int64, action string) string {
	return fmt.Sprintf("/goals/%d/objectives/%d/%s/", goalID, objectiveID, action)
}

func (g *HTTPGoalGateway) CreateGoal(ctx context.Context, token string, goal domain.NewGoal) (domain.CreatedGoal, error) {
	out := domain.CreatedGoal{}
	err := g.client.Do(ctx, httpapi.Request{Method: http.MethodPost, Path: "/goals/generate-objectives/", Body: goal, Token: token}, &out)
	return out, err
}

func (g *HTTPGoalGateway) ListGoals(ctx context.Context, token string) ([]domain.GoalSummary, error) {
	out := []domain.GoalSummary{}
	if err := g.client.Do(ctx, httpapi.Request{Method: http.MethodGet, Path: "/goals/", Token: token}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *HTTPGoalGateway) GetGoal(ctx context.Context, token string, goalID int64) (domain.Goal, error) {
	out := domain.Goal{}
	err := g.client.Do(ctx, httpapi.Request{Method: http.MethodGet, Path: goalPath(goalID, ""), Token: token}, &out)
	return out, err
}

func (g *HTTPGoalGateway) UpdateGoal(ctx context.Context, token string, goalID int64, patch domain.GoalPatch) (domain.Goal, error) {
	out := domain.Goal{}
	err := g.client.Do(ctx, httpapi.Request{Method: http.MethodPatch, Path: goalPath(goalID, "update/"), Body: patch, Token: token}, &out)
	return out, err
}

func (g *HTTPGoalGateway) DeleteGoal(ctx context.Context, token string, goalID int64) error {
	return g.client.Do(ctx, httpapi.Request{Method: http.MethodDelete, Path: goalPath(goalID, "delete/"), Token: token}, nil)
}

// UpdateObjective sends only the status field.
func (g *HTTPGoalGateway) UpdateObjective(ctx context.Context, token string, goalID, objectiveID int64, status domain.Status) (domain.Objective, error) {
	out := domain.Objective{}
	body := map[string]domain.Status{"status": status}
	err := g.client.Do(ctx, httpapi.Request{Method: http.MethodPatch, Path: objectivePath(goalID, objectiveID, "update"), Body: body, Token: token}, &out)
	return out, err
}

func (g *HTTPGoalGateway) ReviewObjective(ctx context.Context, token string, goalID, objectiveID int64, review domain.ReviewSubmission) (domain.Objective, error) {
	out := domain.Objective{}
	err := g.client.Do(ctx, httpapi.Request{Method: http.MethodPost, Path: objectivePath(goalID, objectiveID, "review"), Body: review, Token: token}, &out)
	return out, err
}

func (g *HTTPGoalGateway) ExtendGoal(ctx context.Context, token string, goalID int64, req domain.ExtensionRequest) (domain.ExtensionResult, error) {
	out := domain.ExtensionResult{}
	err := g.client.Do(ctx, httpapi.Request{Method: http.MethodPost, Path: goalPath(goalID, "extend/"), Body: req, Token: token}, &out)
	return out, err
}
