// Package bootstrap prepares the project directory when the server starts:
// it checks that git can be run and initializes a repository if none exists.
package bootstrap

import (
	"context"
	"strings"

	"github.com/bashhack/ssamgit/internal/channel"
	"github.com/bashhack/ssamgit/internal/errors"
	"github.com/bashhack/ssamgit/internal/format"
	"github.com/bashhack/ssamgit/internal/git"
	"github.com/bashhack/ssamgit/internal/logger"
)

// Outcome describes what a bootstrap run did
type Outcome int

const (
	// ToolMissing means git could not be run; nothing else was attempted.
	ToolMissing Outcome = iota
	// Initialized means a new repository was created.
	Initialized
	// AlreadyInitialized means the marker directory was present.
	AlreadyInitialized
	// InitFailed means the repository was missing and could not be created.
	InitFailed
)

// String implements fmt.Stringer
func (o Outcome) String() string {
	switch o {
	case ToolMissing:
		return "tool-missing"
	case Initialized:
		return "initialized"
	case AlreadyInitialized:
		return "already-initialized"
	case InitFailed:
		return "init-failed"
	default:
		return "unknown"
	}
}

// Messages broadcast during bootstrap
const (
	MsgToolMissing = "git is not found:"
	MsgInitialized = "git is initialized"
	MsgInitFailed  = "git init failed:"
)

// Bootstrapper runs the startup check once per server
type Bootstrapper struct {
	client      *git.Client
	broadcaster channel.Broadcaster
	formatter   *format.Formatter
	logger      logger.Logger
}

// New creates a Bootstrapper. Notices go to every connected client through
// bc and are mirrored on the console through log.
func New(client *git.Client, bc channel.Broadcaster, f *format.Formatter, log logger.Logger) *Bootstrapper {
	if log == nil {
		log = logger.Nop()
	}
	if f == nil {
		f = format.New()
	}
	return &Bootstrapper{
		client:      client,
		broadcaster: bc,
		formatter:   f,
		logger:      log,
	}
}

// Run checks for git, then for the repository marker, and runs git init when
// the marker is missing. Failures are reported, never returned: the server
// keeps starting regardless of the outcome.
func (b *Bootstrapper) Run(ctx context.Context) Outcome {
	b.logger.Info("Bootstrapping repository in %s", b.client.Dir())

	version, err := b.client.Version(ctx)
	if err != nil {
		b.fail(MsgToolMissing, err)
		b.logger.Info("Bootstrap finished: %s", ToolMissing)
		return ToolMissing
	}
	b.logger.Info("Found %s", trimLine(version))

	outcome := b.ensureRepository(ctx)
	b.logger.Info("Bootstrap finished: %s", outcome)
	return outcome
}

func (b *Bootstrapper) ensureRepository(ctx context.Context) Outcome {
	present, err := b.client.HasRepository()
	if err != nil {
		b.fail(MsgInitFailed, err)
		return InitFailed
	}
	if present {
		return AlreadyInitialized
	}

	if _, err := b.client.Init(ctx); err != nil {
		b.fail(MsgInitFailed, err)
		return InitFailed
	}

	msg := b.formatter.Compose(MsgInitialized)
	b.broadcast(channel.LevelLog, msg)
	b.logger.StatusMessage("%s", msg)
	return Initialized
}

// fail broadcasts a warn notice with the diagnostic on its own line and
// writes it to the console as an error.
func (b *Bootstrapper) fail(headline string, err error) {
	diag, ok := errors.Diagnostic(err)
	if !ok {
		diag = err.Error()
	}
	diag = trimLine(diag)

	b.broadcast(channel.LevelWarn, b.formatter.Compose(headline+"\n"+diag))
	b.logger.Error("%s", b.formatter.Compose(headline+"\n"+b.formatter.Highlight(diag)))
}

func (b *Bootstrapper) broadcast(level channel.Level, msg string) {
	if b.broadcaster == nil {
		return
	}
	b.broadcaster.Broadcast(level.Event(), channel.NewNotice(msg))
}

func trimLine(s string) string {
	return strings.TrimRight(s, "\r\n")
}
