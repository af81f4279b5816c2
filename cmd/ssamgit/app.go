package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/bashhack/ssamgit/internal/bootstrap"
	"github.com/bashhack/ssamgit/internal/channel"
	"github.com/bashhack/ssamgit/internal/config"
	"github.com/bashhack/ssamgit/internal/errors"
	"github.com/bashhack/ssamgit/internal/format"
	"github.com/bashhack/ssamgit/internal/git"
	"github.com/bashhack/ssamgit/internal/lock"
	"github.com/bashhack/ssamgit/internal/logger"
	"github.com/bashhack/ssamgit/internal/output"
	"github.com/bashhack/ssamgit/internal/server"
	"github.com/bashhack/ssamgit/internal/snapshot"
)

// ErrSnapshotFailed is returned by the snapshot command when no commit was made
var ErrSnapshotFailed = errors.New("snapshot failed")

// Locker manages the single-instance lock
type Locker interface {
	Acquire() error
	Release() error
}

// AppOptions contains app configuration and dependencies
type AppOptions struct {
	// Required
	Config *config.Config

	// Optional components
	Logger logger.Logger
	Locker Locker
	Runner git.Commander

	// I/O dependencies
	Stdout io.Writer
	Stderr io.Writer

	// IsTerminal reports whether stdout is a terminal, for --color=auto
	IsTerminal func() bool
}

// App is the ssamgit application
type App struct {
	Config *config.Config
	Logger logger.Logger
	Locker Locker

	// I/O streams
	Stdout io.Writer
	Stderr io.Writer

	runner     git.Commander
	isTerminal func() bool

	formatter *format.Formatter
	git       *git.Client
	ready     bool
}

// NewDefaultApp creates an App with standard dependencies
func NewDefaultApp(versionInfo config.VersionInfo) *App {
	cfg := config.New()
	cfg.VersionInfo = versionInfo

	return NewApp(AppOptions{
		Config: cfg,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		IsTerminal: func() bool {
			return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		},
	})
}

// NewApp creates an App with custom dependencies
func NewApp(opts AppOptions) *App {
	if opts.Config == nil {
		panic("Config is required in AppOptions")
	}

	app := &App{
		Config:     opts.Config,
		Logger:     opts.Logger,
		Locker:     opts.Locker,
		Stdout:     opts.Stdout,
		Stderr:     opts.Stderr,
		runner:     opts.Runner,
		isTerminal: opts.IsTerminal,
	}

	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}
	if app.isTerminal == nil {
		app.isTerminal = func() bool { return false }
	}

	return app
}

// Initialize finalizes the configuration and sets up components not provided
// during construction. It is safe to call more than once.
func (a *App) Initialize() error {
	if a.ready {
		return nil
	}

	if err := a.Config.Finalize(); err != nil {
		if errors.Is(err, errors.ErrInvalidConfiguration) {
			return err
		}
		return errors.Wrap(errors.ErrInvalidConfiguration, err.Error())
	}

	if a.Logger == nil {
		a.Logger = logger.NewWithOutput(a.Config.Debug, a.Config.LogFile, a.Config.Verbose, a.Stdout, a.Stderr)
	}

	a.formatter = format.New(format.WithColor(a.Config.ColorEnabled(a.isTerminal())))

	if a.runner == nil {
		a.runner = git.NewRunner(a.Config.RepoPath)
	}
	a.git = git.NewClientWithRunner(a.Config.RepoPath, a.runner)

	a.ready = true
	return nil
}

// Serve bootstraps the repository and serves the websocket until ctx is done
func (a *App) Serve(ctx context.Context) error {
	if err := a.Initialize(); err != nil {
		return err
	}

	if a.Locker == nil {
		locker, err := lock.New(a.Config.RepoPath)
		if err != nil {
			return errors.Wrap(err, "failed to initialize lock")
		}
		a.Locker = locker
	}
	if err := a.Locker.Acquire(); err != nil {
		if errors.Is(err, errors.ErrAlreadyRunning) {
			return err
		}
		return errors.Wrap(errors.ErrLockAcquisitionFailure, err.Error())
	}

	hub := server.NewHub(a.Logger, a.Config.AllowedOrigins)
	orchestrator := snapshot.New(a.git, a.formatter, a.Logger, a.Config.Options())
	hub.On(channel.EventGit, func(ctx context.Context, data json.RawMessage, client channel.Client) {
		res := orchestrator.HandleMessage(ctx, data, client)
		a.Logger.Info("Snapshot request finished: %s %s", res.State, res.Hash)
	})

	srv := server.New(a.Config.Addr, a.Config.WSPath, hub, a.Logger)
	ln, err := srv.Listen()
	if err != nil {
		return err
	}

	a.Logger.InfoToUser("ssamgit %s listening on ws://%s%s", a.Config.VersionInfo.Version, ln.Addr(), a.Config.WSPath)
	a.Logger.InfoToUser("Project: %s", a.Config.RepoPath)
	if !a.Config.BrowserLog {
		a.Logger.InfoToUser("Browser notices are off")
	}

	outcome := bootstrap.New(a.git, hub.Holding(), a.formatter, a.Logger).Run(ctx)
	a.Logger.Info("Bootstrap outcome: %s", outcome)

	return srv.Serve(ctx, ln)
}

// Snapshot runs one snapshot against the project directory and prints the
// result. data is the request payload as a JSON object.
func (a *App) Snapshot(ctx context.Context, data string, outFormat output.Format) error {
	if err := a.Initialize(); err != nil {
		return err
	}

	if data == "" {
		data = "{}"
	}

	client := channel.NewRecorder()
	orchestrator := snapshot.New(a.git, a.formatter, a.Logger, a.Config.Options())
	res := orchestrator.HandleMessage(ctx, json.RawMessage(data), client)

	if err := output.NewWriter(a.Stdout, outFormat).Write(res.Report()); err != nil {
		return errors.Wrap(err, "failed to write result")
	}
	if res.State != snapshot.Succeeded {
		return ErrSnapshotFailed
	}
	return nil
}

// ShowVersion displays version information
func (a *App) ShowVersion() {
	_, _ = fmt.Fprintf(a.Stdout, "ssamgit %s (%s) built on %s\n",
		a.Config.VersionInfo.Version,
		a.Config.VersionInfo.Commit,
		a.Config.VersionInfo.Date)
}

// Close releases resources held by the App
func (a *App) Close() error {
	var errs []error

	if a.Locker != nil {
		if err := a.Locker.Release(); err != nil {
			if a.Logger != nil {
				a.Logger.Error("Failed to release lock during cleanup: %v", err)
			} else {
				_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to release lock during cleanup: %v\n", err)
			}
			errs = append(errs, err)
		}
	}

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to close logger: %v\n", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
