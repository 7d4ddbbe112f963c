package usecase

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"goalplan/internal/modules/goal/domain"
	"goalplan/internal/modules/goal/dto"
	goalin "goalplan/internal/modules/goal/port/in"
	goalout "goalplan/internal/modules/goal/port/out"
	"goalplan/internal/modules/goal/service"
	"goalplan/internal/platform/clock"
	"goalplan/internal/platform/querycache"
	"goalplan/internal/platform/wizard"
)

// Cache kinds.
const (
	KindGoalDetail = "goalDetail"
	KindGoals      = "goals"
)

func DetailKey(goalID int64) querycache.Key {
	return querycache.Key{Kind: KindGoalDetail, ID: strconv.FormatInt(goalID, 10)}
}

var listKey = querycache.Key{Kind: KindGoals}

// Interactor reconciles service results into the shared query cache. A
// response arriving after its screen is gone still patches the cache, and
// patching a goal that was never loaded does nothing.
type Interactor struct {
	svc   *service.GoalService
	cache *querycache.Cache
	notes goalout.NoteStore
	clock clock.Clock
	log   *zap.Logger
}

func NewInteractor(svc *service.GoalService, cache *querycache.Cache, notes goalout.NoteStore, clk clock.Clock, log *zap.Logger) goalin.Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interactor{svc: svc, cache: cache, notes: notes, clock: clk, log: log.Named("goals")}
}

func (i *Interactor) ListGoals(ctx context.Context) ([]dto.GoalSummaryOutput, error) {
	goals, err := querycache.Read(ctx, i.cache, listKey, i.svc.ListGoals)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GoalSummaryOutput, len(goals))
	for idx, g := range goals {
		out[idx] = toSummaryOutput(g)
	}
	return out, nil
}

func (i *Interactor) GoalDetail(ctx context.Context, goalID int64) (dto.GoalOutput, error) {
	goal, err := i.detail(ctx, goalID)
	if err != nil {
		return dto.GoalOutput{}, err
	}
	return i.toGoalOutput(goal), nil
}

func (i *Interactor) detail(ctx context.Context, goalID int64) (domain.Goal, error) {
	return querycache.Read(ctx, i.cache, DetailKey(goalID), func(ctx context.Context) (domain.Goal, error) {
		return i.svc.GetGoalDetail(ctx, goalID)
	})
}

func (i *Interactor) CachedGoal(goalID int64) (dto.GoalOutput, bool) {
	goal, ok := querycache.Peek[domain.Goal](i.cache, DetailKey(goalID))
	if !ok {
		return dto.GoalOutput{}, false
	}
	return i.toGoalOutput(goal), true
}

// Watch signals every change to the goal's cached detail. Call stop when
// the watching screen goes away.
func (i *Interactor) Watch(goalID int64) (<-chan struct{}, func()) {
	events, cancel := i.cache.Subscribe(DetailKey(goalID))
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range events {
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out, cancel
}

func (i *Interactor) CreateOptions() dto.CreateOptions {
	return dto.CreateOptions{
		Levels:               domain.Levels,
		Formats:              domain.Formats,
		Focuses:              domain.Focuses,
		Languages:            domain.Languages,
		DefaultLevel:         domain.DefaultLevel,
		DefaultFocus:         domain.DefaultFocus,
		DefaultLanguage:      domain.DefaultLanguage,
		DefaultSessionLength: domain.DefaultSessionLength,
	}
}

func (i *Interactor) CreateGoal(ctx context.Context, input dto.CreateGoalInput) (dto.CreateGoalOutput, error) {
	goal, err := domain.GoalDraft{
		Goal:              input.Goal,
		Availability:      input.Availability,
		DeadlineDays:      input.DeadlineDays,
		Level:             input.Level,
		Formats:           input.Formats,
		SessionLength:     input.SessionLength,
		Focus:             input.Focus,
		Language:          input.Language,
		WeeklyCheckpoints: input.WeeklyCheckpoints,
		CountryCode:       input.CountryCode,
		CountryName:       input.CountryName,
	}.Build()
	if err != nil {
		return dto.CreateGoalOutput{}, err
	}
	created, err := i.svc.CreateGoal(ctx, goal)
	if err != nil {
		return dto.CreateGoalOutput{}, err
	}
	i.cache.Invalidate(listKey)
	return dto.CreateGoalOutput{GoalID: created.GoalID}, nil
}

func (i *Interactor) UpdateGoal(ctx context.Context, input dto.UpdateGoalInput) (dto.GoalOutput, error) {
	updated, err := i.svc.UpdateGoal(ctx, input.GoalID, domain.GoalPatch{
		Title:        input.Title,
		Availability: input.Availability,
		DeadlineDays: input.DeadlineDays,
	})
	if err != nil {
		return dto.GoalOutput{}, err
	}
	i.cache.Invalidate(listKey)
	key := DetailKey(input.GoalID)
	if updated.ID == 0 {
		i.cache.Invalidate(key)
		return i.GoalDetail(ctx, input.GoalID)
	}
	if !querycache.Patch(i.cache, key, func(g domain.Goal) domain.Goal { return domain.MergeHeader(g, updated) }) {
		return i.toGoalOutput(updated), nil
	}
	out, _ := i.CachedGoal(input.GoalID)
	return out, nil
}

func (i *Interactor) DeleteGoal(ctx context.Context, goalID int64) error {
	if err := i.svc.DeleteGoal(ctx, goalID); err != nil {
		return err
	}
	querycache.Patch(i.cache, listKey, func(goals []domain.GoalSummary) []domain.GoalSummary {
		return domain.RemoveSummary(goals, goalID)
	})
	i.cache.Invalidate(DetailKey(goalID))
	return nil
}

// SetObjectiveStatus sends the change and, only on success, sets the cached
// objective's status. Nothing is applied optimistically.
func (i *Interactor) SetObjectiveStatus(ctx context.Context, input dto.SetStatusInput) (dto.ObjectiveOutput, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return dto.ObjectiveOutput{}, err
	}
	obj, err := i.svc.SetObjectiveStatus(ctx, input.GoalID, input.ObjectiveID, status)
	if err != nil {
		return dto.ObjectiveOutput{}, err
	}
	querycache.Patch(i.cache, DetailKey(input.GoalID), func(g domain.Goal) domain.Goal {
		return domain.SetObjectiveStatus(g, input.ObjectiveID, status)
	})
	i.cache.Invalidate(listKey)
	if obj.ID == 0 {
		obj.ID = input.ObjectiveID
	}
	obj.Status = status
	return i.toObjectiveOutput(obj), nil
}

func (i *Interactor) ReviewObjective(ctx context.Context, input dto.ReviewInput) (dto.ObjectiveOutput, error) {
	updated, err := i.svc.ReviewObjective(ctx, input.GoalID, input.ObjectiveID, domain.ReviewFromAnswers(input.Answers))
	if err != nil {
		return dto.ObjectiveOutput{}, err
	}
	querycache.Patch(i.cache, DetailKey(input.GoalID), func(g domain.Goal) domain.Goal {
		return domain.ReplaceObjective(g, updated)
	})
	return i.toObjectiveOutput(updated), nil
}

func (i *Interactor) ExtendGoal(ctx context.Context, input dto.ExtendInput) (dto.ExtendOutput, error) {
	res, err := i.svc.ExtendGoal(ctx, input.GoalID, domain.ExtensionFromAnswers(input.Answers))
	if err != nil {
		return dto.ExtendOutput{}, err
	}
	querycache.Patch(i.cache, DetailKey(input.GoalID), func(g domain.Goal) domain.Goal {
		return domain.AppendExtension(g, res)
	})
	i.cache.Invalidate(listKey)
	return dto.ExtendOutput{GoalID: input.GoalID, NewObjectives: len(res.NewObjectives), Deadline: string(res.NewDeadline)}, nil
}

func (i *Interactor) ExportGoal(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	goal, err := i.detail(ctx, input.GoalID)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	name, content, err := service.RenderNote(goal)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	path, err := i.notes.Write(ctx, input.Dir, name, content)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	i.log.Info("goal exported", zap.Int64("goal_id", goal.ID), zap.String("path", path))
	return dto.ExportOutput{GoalID: goal.ID, Path: path}, nil
}

func (i *Interactor) NewReviewWizard() *wizard.Machine {
	return wizard.New(domain.ReviewWizard())
}

func (i *Interactor) NewExtensionWizard() *wizard.Machine {
	return wizard.New(domain.ExtensionWizard())
}

func (i *Interactor) toGoalOutput(g domain.Goal) dto.GoalOutput {
	out := dto.GoalOutput{
		ID:           g.ID,
		Title:        g.Title,
		Deadline:     string(g.Deadline),
		Availability: g.Availability,
		State:        g.State,
		Objectives:   make([]dto.ObjectiveOutput, len(g.Objectives)),
		TodayIndex:   g.TodayIndex(i.now()),
	}
	for idx, o := range g.Objectives {
		out.Objectives[idx] = i.toObjectiveOutput(o)
	}
	return out
}

func (i *Interactor) toObjectiveOutput(o domain.Objective) dto.ObjectiveOutput {
	return dto.ObjectiveOutput{
		ID:           o.ID,
		Title:        o.Title,
		Description:  o.Description,
		ScheduledAt:  o.ScheduledAt,
		YoutubeLinks: o.YoutubeLinks,
		Status:       string(o.Status),
		Overdue:      o.Overdue(i.now()),
	}
}

func (i *Interactor) now() time.Time {
	return i.clock.Now().In(time.Local)
}

func toSummaryOutput(g domain.GoalSummary) dto.GoalSummaryOutput {
	return dto.GoalSummaryOutput{
		ID:                 g.ID,
		Title:              g.Title,
		DeadlineDays:       string(g.DeadlineDays),
		Availability:       g.Availability,
		State:              g.State,
		ProgressPercentage: g.ProgressPercentage,
	}
}
