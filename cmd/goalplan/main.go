package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"

	"goalplan/internal/bootstrap"
	goaldto "goalplan/internal/modules/goal/dto"
	"goalplan/internal/platform/config"
)

// Set at link time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "goalplan",
		Short:         "Plan goals and work through their objectives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "directory containing config.yaml")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "mirror log entries to stderr")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newAuthCmd(opts))
	root.AddCommand(newGoalCmd(opts))
	root.AddCommand(newObjectiveCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

func loadApp(opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	var console io.Writer
	if opts.verbose {
		console = os.Stderr
	}
	return bootstrap.New(cfg, bootstrap.Options{Version: version, Console: console})
}

// withApp loads the app, runs fn and releases the app's resources.
func withApp(opts *rootOptions, fn func(app *bootstrap.App) error) error {
	app, err := loadApp(opts)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run goalplan terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			if opts.verbose {
				return fmt.Errorf("--verbose cannot be used with tui")
			}
			return withApp(opts, bootstrap.RunTUI)
		},
	}
}

// ─── auth ────────────────────────────────────────────────────────────────────

func newAuthCmd(opts *rootOptions) *cobra.Command {
	auth := &cobra.Command{Use: "auth", Short: "Sign in, sign out and inspect the session"}

	var email, password string
	login := &cobra.Command{
		Use:   "login --email <email> --password <password>",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.AuthCLI.Login(context.Background(), email, password)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s <%s>\n", out.Name, out.Email)
				return nil
			})
		},
	}
	login.Flags().StringVar(&email, "email", "", "account email")
	login.Flags().StringVar(&password, "password", "", "account password")

	var name, regEmail, regPassword, confirm string
	register := &cobra.Command{
		Use:   "register --name <name> --email <email> --password <password> --confirm <password>",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.AuthCLI.Register(context.Background(), name, regEmail, regPassword, confirm)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "registered and signed in as %s <%s>\n", out.Name, out.Email)
				return nil
			})
		},
	}
	register.Flags().StringVar(&name, "name", "", "display name")
	register.Flags().StringVar(&regEmail, "email", "", "account email")
	register.Flags().StringVar(&regPassword, "password", "", "account password")
	register.Flags().StringVar(&confirm, "confirm", "", "password confirmation")

	var accessToken string
	google := &cobra.Command{
		Use:   "google --access-token <token>",
		Short: "Exchange a Google access token for a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(accessToken) == "" {
				return fmt.Errorf("--access-token is required")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.AuthCLI.Google(context.Background(), accessToken)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in with Google as %s <%s>\n", out.Name, out.Email)
				return nil
			})
		},
	}
	google.Flags().StringVar(&accessToken, "access-token", "", "Google OAuth access token")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				if err := app.AuthCLI.Logout(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
				return nil
			})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.AuthCLI.Status(context.Background())
				if err != nil {
					return err
				}
				if !out.Authenticated {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "not signed in (store=%s)\n", out.Backend)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s <%s> (store=%s)\n", out.Name, out.Email, out.Backend)
				return nil
			})
		},
	}

	auth.AddCommand(login, register, google, logout, status)
	return auth
}

// ─── goal ────────────────────────────────────────────────────────────────────

func newGoalCmd(opts *rootOptions) *cobra.Command {
	goal := &cobra.Command{Use: "goal", Short: "Goal commands"}
	goal.AddCommand(
		newGoalListCmd(opts),
		newGoalShowCmd(opts),
		newGoalCreateCmd(opts),
		newGoalUpdateCmd(opts),
		newGoalDeleteCmd(opts),
		newGoalExtendCmd(opts),
		newGoalExportCmd(opts),
	)
	return goal
}

func newGoalListCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List goals with progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				goals, err := app.GoalCLI.List(context.Background())
				if asJSON {
					if err != nil {
						_ = writeJSON(cmd.OutOrStdout(), map[string]string{"error": err.Error()})
						return err
					}
					return writeJSON(cmd.OutOrStdout(), goals)
				}
				if err != nil {
					return err
				}
				printGoalSummaries(cmd.OutOrStdout(), goals)
				return nil
			})
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return list
}

func newGoalShowCmd(opts *rootOptions) *cobra.Command {
	var goalID int64
	var output string
	show := &cobra.Command{
		Use:   "show --id <id>",
		Short: "Show a goal and its objectives",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if goalID <= 0 {
				return fmt.Errorf("--id is required")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				goal, err := app.GoalCLI.Show(context.Background(), goalID)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), output, goal, func(w io.Writer) { printGoal(w, goal) })
			})
		},
	}
	show.Flags().Int64Var(&goalID, "id", 0, "goal id")
	show.Flags().StringVarP(&output, "output", "o", "text", "output format: text|json|yaml")
	return show
}

func newGoalCreateCmd(opts *rootOptions) *cobra.Command {
	var input goaldto.CreateGoalInput
	var sessionLength int
	var noCheckpoints bool
	create := &cobra.Command{
		Use:   "create --goal <text> --availability <text> --days <n>",
		Short: "Create a goal and generate its objectives",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				defaults := app.Goals.CreateOptions()
				if input.Level == "" {
					input.Level = defaults.DefaultLevel
				}
				if input.Focus == "" {
					input.Focus = defaults.DefaultFocus
				}
				if input.Language == "" {
					input.Language = defaults.DefaultLanguage
				}
				if sessionLength == 0 {
					sessionLength = defaults.DefaultSessionLength
				}
				input.SessionLength = strconv.Itoa(sessionLength)
				input.WeeklyCheckpoints = !noCheckpoints

				out, err := app.GoalCLI.Create(context.Background(), input)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "goal created: id=%d\n", out.GoalID)
				return nil
			})
		},
	}
	create.Flags().StringVar(&input.Goal, "goal", "", "what you want to achieve")
	create.Flags().StringVar(&input.Availability, "availability", "", "when you can study, e.g. \"weekday evenings\"")
	create.Flags().StringVar(&input.DeadlineDays, "days", "", "days until the deadline")
	create.Flags().StringVar(&input.Level, "level", "", "current level: beginner|intermediate|advanced")
	create.Flags().StringSliceVar(&input.Formats, "format", nil, "preferred formats (repeatable)")
	create.Flags().IntVar(&sessionLength, "session-length", 0, "session length in minutes")
	create.Flags().StringVar(&input.Focus, "focus", "", "focus: theory|practice|balanced")
	create.Flags().StringVar(&input.Language, "language", "", "resource language")
	create.Flags().BoolVar(&noCheckpoints, "no-checkpoints", false, "skip weekly checkpoints")
	create.Flags().StringVar(&input.CountryCode, "country-code", "", "ISO country code")
	create.Flags().StringVar(&input.CountryName, "country-name", "", "country name")
	return create
}

func newGoalUpdateCmd(opts *rootOptions) *cobra.Command {
	var goalID int64
	var title, availability string
	var days int
	update := &cobra.Command{
		Use:   "update --id <id> [--title ..] [--availability ..] [--days n]",
		Short: "Edit a goal's header fields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if goalID <= 0 {
				return fmt.Errorf("--id is required")
			}
			input := goaldto.UpdateGoalInput{GoalID: goalID}
			if cmd.Flags().Changed("title") {
				input.Title = &title
			}
			if cmd.Flags().Changed("availability") {
				input.Availability = &availability
			}
			if cmd.Flags().Changed("days") {
				input.DeadlineDays = &days
			}
			if input.Title == nil && input.Availability == nil && input.DeadlineDays == nil {
				return fmt.Errorf("nothing to update: pass --title, --availability or --days")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				goal, err := app.GoalCLI.Update(context.Background(), input)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "goal updated: id=%d title=%q deadline=%s\n", goal.ID, goal.Title, goal.Deadline)
				return nil
			})
		},
	}
	update.Flags().Int64Var(&goalID, "id", 0, "goal id")
	update.Flags().StringVar(&title, "title", "", "new title")
	update.Flags().StringVar(&availability, "availability", "", "new availability")
	update.Flags().IntVar(&days, "days", 0, "new number of days until the deadline")
	return update
}

func newGoalDeleteCmd(opts *rootOptions) *cobra.Command {
	var goalID int64
	del := &cobra.Command{
		Use:   "delete --id <id>",
		Short: "Delete a goal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if goalID <= 0 {
				return fmt.Errorf("--id is required")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				if err := app.GoalCLI.Delete(context.Background(), goalID); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "goal deleted: id=%d\n", goalID)
				return nil
			})
		},
	}
	del.Flags().Int64Var(&goalID, "id", 0, "goal id")
	return del
}

func newGoalExtendCmd(opts *rootOptions) *cobra.Command {
	var goalID int64
	var extension, level, priority, comment string
	extend := &cobra.Command{
		Use:   "extend --id <id> --extension <span> --level <level> --priority <text>",
		Short: "Extend a goal with new objectives",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if goalID <= 0 {
				return fmt.Errorf("--id is required")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.GoalCLI.Extend(context.Background(), goalID, map[string]string{
					"extension": extension,
					"level":     level,
					"priority":  priority,
					"comment":   comment,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d new objectives added, deadline=%s\n", out.NewObjectives, out.Deadline)
				return nil
			})
		},
	}
	extend.Flags().Int64Var(&goalID, "id", 0, "goal id")
	extend.Flags().StringVar(&extension, "extension", "", "extension span: \"1 week\"|\"1 month\"")
	extend.Flags().StringVar(&level, "level", "", "difficulty: easier|harder|same")
	extend.Flags().StringVar(&priority, "priority", "", "priority, e.g. \"Balance easy and hard objectives\"")
	extend.Flags().StringVar(&comment, "comment", "", "additional comments")
	return extend
}

func newGoalExportCmd(opts *rootOptions) *cobra.Command {
	var goalID int64
	var dir string
	export := &cobra.Command{
		Use:   "export --id <id> [--out <dir>]",
		Short: "Write a goal as a Markdown note",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if goalID <= 0 {
				return fmt.Errorf("--id is required")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				target := dir
				if target == "" {
					target = app.Config.ExportDir
				}
				out, err := app.GoalCLI.Export(context.Background(), goalID, target)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported goal %d to %s\n", out.GoalID, out.Path)
				return nil
			})
		},
	}
	export.Flags().Int64Var(&goalID, "id", 0, "goal id")
	export.Flags().StringVar(&dir, "out", "", "output directory (defaults to export_dir)")
	return export
}

// ─── objective ───────────────────────────────────────────────────────────────

func newObjectiveCmd(opts *rootOptions) *cobra.Command {
	objective := &cobra.Command{Use: "objective", Short: "Objective commands"}

	var goalID, objectiveID int64
	var status string
	setStatus := &cobra.Command{
		Use:   "status --goal <id> --id <id> --status <status>",
		Short: "Mark an objective pending, completed or cancelled",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if goalID <= 0 || objectiveID <= 0 {
				return fmt.Errorf("--goal and --id are required")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.GoalCLI.SetStatus(context.Background(), goalID, objectiveID, status)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "objective %d: %s\n", out.ID, statusColor(out.Status)(out.Status))
				return nil
			})
		},
	}
	setStatus.Flags().Int64Var(&goalID, "goal", 0, "goal id")
	setStatus.Flags().Int64Var(&objectiveID, "id", 0, "objective id")
	setStatus.Flags().StringVar(&status, "status", "", "pending|completed|cancelled")

	var reviewGoalID, reviewObjectiveID int64
	var difficulty, interest, timing, comment string
	review := &cobra.Command{
		Use:   "review --goal <id> --id <id> --difficulty <d> --interest <i> --time <t>",
		Short: "Send feedback on an objective",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if reviewGoalID <= 0 || reviewObjectiveID <= 0 {
				return fmt.Errorf("--goal and --id are required")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.GoalCLI.Review(context.Background(), reviewGoalID, reviewObjectiveID, map[string]string{
					"difficulty": difficulty,
					"interest":   interest,
					"time":       timing,
					"comment":    comment,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "review sent for objective %d (%s)\n", out.ID, out.Title)
				return nil
			})
		},
	}
	review.Flags().Int64Var(&reviewGoalID, "goal", 0, "goal id")
	review.Flags().Int64Var(&reviewObjectiveID, "id", 0, "objective id")
	review.Flags().StringVar(&difficulty, "difficulty", "", "\"Very Hard\"|\"Too Easy\"|\"Just Right\"")
	review.Flags().StringVar(&interest, "interest", "", "\"Liked it\"|Bored|Neutral")
	review.Flags().StringVar(&timing, "time", "", "\"Too short\"|\"Too long\"|Perfect")
	review.Flags().StringVar(&comment, "comment", "", "optional comment (200 characters max)")

	objective.AddCommand(setStatus, review)
	return objective
}

// ─── version ─────────────────────────────────────────────────────────────────

func newVersionCmd() *cobra.Command {
	var shortened bool
	var output string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print goalplan version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unknown --output %q: want json|yaml", output)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), goversion.FuncWithOutput(shortened, version, commit, date, output))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "print just the version number")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json|yaml")
	return cmd
}
