package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	authinadapter "goalplan/internal/modules/auth/adapter/in"
	authoutadapter "goalplan/internal/modules/auth/adapter/out"
	authin "goalplan/internal/modules/auth/port/in"
	authout "goalplan/internal/modules/auth/port/out"
	authservice "goalplan/internal/modules/auth/service"
	authusecase "goalplan/internal/modules/auth/usecase"
	goalinadapter "goalplan/internal/modules/goal/adapter/in"
	goaloutadapter "goalplan/internal/modules/goal/adapter/out"
	goalin "goalplan/internal/modules/goal/port/in"
	goalservice "goalplan/internal/modules/goal/service"
	goalusecase "goalplan/internal/modules/goal/usecase"
	"goalplan/internal/platform/clock"
	"goalplan/internal/platform/config"
	"goalplan/internal/platform/httpapi"
	"goalplan/internal/platform/id"
	"goalplan/internal/platform/logging"
	"goalplan/internal/platform/querycache"
	uiapp "goalplan/internal/ui/app"
)

type Options struct {
	Version string
	// Console receives log entries in addition to the log file. The TUI
	// leaves it nil.
	Console io.Writer
}

type App struct {
	AuthCLI authinadapter.CLIHandler
	GoalCLI goalinadapter.CLIHandler
	Auth    authin.Usecase
	Goals   goalin.Usecase
	Config  config.Config
	Log     *zap.Logger

	closers []func() error
}

func New(cfg config.Config, opts Options) (*App, error) {
	log, err := logging.New(logging.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Console:    opts.Console,
	})
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	app := &App{Config: cfg, Log: log}

	store, err := newKeyValueStore(cfg)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	if c, ok := store.(io.Closer); ok {
		app.closers = append(app.closers, c.Close)
	}
	log.Debug("token store ready", zap.String("backend", store.Name()))

	version := opts.Version
	if version == "" {
		version = "dev"
	}
	client := httpapi.New(cfg.APIURL,
		httpapi.WithTimeout(cfg.HTTP.Timeout),
		httpapi.WithLogger(log),
		httpapi.WithRequestIDs(id.UUID{}),
		httpapi.WithUserAgent("goalplan/"+version),
	)

	clk := clock.SystemClock{}
	cache := querycache.New(clk,
		querycache.WithTTL(goalusecase.KindGoalDetail, cfg.Cache.DetailTTL),
		querycache.WithTTL(goalusecase.KindGoals, cfg.Cache.ListTTL),
	)

	tokens := authservice.NewTokenService(store, log)
	authUC := authusecase.NewInteractor(
		authservice.NewAuthService(authoutadapter.NewHTTPAuthGateway(client), tokens, log),
		tokens,
	)

	goalUC := goalusecase.NewInteractor(
		goalservice.NewGoalService(tokens, goaloutadapter.NewHTTPGoalGateway(client), log),
		cache,
		goaloutadapter.NewFileNoteStore(),
		clk,
		log,
	)

	app.Auth = authUC
	app.Goals = goalUC
	app.AuthCLI = authinadapter.NewCLIHandler(authUC)
	app.GoalCLI = goalinadapter.NewCLIHandler(goalUC)
	return app, nil
}

func newKeyValueStore(cfg config.Config) (authout.KeyValueStore, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	switch cfg.TokenStore.Backend {
	case config.BackendFile:
		store, err := authoutadapter.NewDiskvKVStore(cfg.KVDir())
		if err != nil {
			return nil, fmt.Errorf("new file token store: %w", err)
		}
		return store, nil
	default:
		store, err := authoutadapter.NewSQLiteKVStore(cfg.DBPath())
		if err != nil {
			return nil, fmt.Errorf("new sqlite token store: %w", err)
		}
		return store, nil
	}
}

// Close releases the token store and flushes the logger.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	_ = a.Log.Sync()
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.Goals, app.Auth, app.Config.ExportDir, app.Log)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
