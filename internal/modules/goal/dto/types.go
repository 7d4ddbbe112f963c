package dto

type ObjectiveOutput struct {
	ID           int64  `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description" yaml:"description"`
	ScheduledAt  string `json:"scheduled_at,omitempty" yaml:"scheduled_at,omitempty"`
	YoutubeLinks string `json:"youtube_links,omitempty" yaml:"youtube_links,omitempty"`
	Status       string `json:"status" yaml:"status"`
	Overdue      bool   `json:"overdue" yaml:"overdue"`
}

type GoalOutput struct {
	ID           int64             `json:"id" yaml:"id"`
	Title        string            `json:"title" yaml:"title"`
	Deadline     string            `json:"deadline" yaml:"deadline"`
	Availability string            `json:"availability" yaml:"availability"`
	State        string            `json:"state" yaml:"state"`
	Objectives   []ObjectiveOutput `json:"objectives" yaml:"objectives"`
	// TodayIndex is the first objective scheduled today, or -1.
	TodayIndex int `json:"-" yaml:"-"`
}

type GoalSummaryOutput struct {
	ID                 int64   `json:"id" yaml:"id"`
	Title              string  `json:"title" yaml:"title"`
	DeadlineDays       string  `json:"deadline_days" yaml:"deadline_days"`
	Availability       string  `json:"availability" yaml:"availability"`
	State              string  `json:"state" yaml:"state"`
	ProgressPercentage float64 `json:"progress_percentage" yaml:"progress_percentage"`
}

type CreateGoalInput struct {
	Goal              string
	Availability      string
	DeadlineDays      string
	Level             string
	Formats           []string
	SessionLength     string
	Focus             string
	Language          string
	WeeklyCheckpoints bool
	CountryCode       string
	CountryName       string
}

type CreateGoalOutput struct {
	GoalID int64 `json:"goal_id"`
}

type UpdateGoalInput struct {
	GoalID       int64
	Title        *string
	Availability *string
	DeadlineDays *int
}

type SetStatusInput struct {
	GoalID      int64
	ObjectiveID int64
	Status      string
}

// ReviewInput and ExtendInput carry wizard answers keyed by step field.
type ReviewInput struct {
	GoalID      int64
	ObjectiveID int64
	Answers     map[string]string
}

type ExtendInput struct {
	GoalID  int64
	Answers map[string]string
}

type ExtendOutput struct {
	GoalID        int64  `json:"goal_id"`
	NewObjectives int    `json:"new_objectives"`
	Deadline      string `json:"deadline"`
}

type ExportInput struct {
	GoalID int64
	Dir    string
}

type ExportOutput struct {
	GoalID int64  `json:"goal_id"`
	Path   string `json:"path"`
}

// CreateOptions lists the choices offered by the create form.
type CreateOptions struct {
	Levels               []string
	Formats              []string
	Focuses              []string
	Languages            []string
	DefaultLevel         string
	DefaultFocus         string
	DefaultLanguage      string
	DefaultSessionLength int
}
