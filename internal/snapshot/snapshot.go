// Package snapshot commits the project directory on request from the browser
// and replies with the new commit hash.
//
// A request runs git status, git add, git commit and git rev-parse strictly in
// order. Any failure stops the chain and is reported once, at the end:
// a failure without diagnostic output means there was nothing to commit,
// anything else is shown verbatim.
package snapshot

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bashhack/ssamgit/internal/channel"
	"github.com/bashhack/ssamgit/internal/config"
	"github.com/bashhack/ssamgit/internal/errors"
	"github.com/bashhack/ssamgit/internal/format"
	"github.com/bashhack/ssamgit/internal/git"
	"github.com/bashhack/ssamgit/internal/logger"
)

// MsgNothingToCommit is sent when a git command fails without saying why
const MsgNothingToCommit = "nothing to commit, working tree clean"

// Result describes how one request ended
type Result struct {
	// State is Succeeded or Failed.
	State State
	// FailedAt is the stage that failed. Idle means the request itself was
	// rejected before any git command ran.
	FailedAt State
	// Hash is the trimmed short hash of the new commit.
	Hash string
	// Reply is the ssam:git-success payload.
	Reply channel.Payload
	// Err is the failure, or a delivery error for the success reply.
	Err error
}

// Orchestrator handles ssam:git requests
type Orchestrator struct {
	git       *git.Client
	formatter *format.Formatter
	logger    logger.Logger
	opts      config.Options
}

// New creates an Orchestrator. opts is copied and never changes afterwards.
func New(client *git.Client, f *format.Formatter, log logger.Logger, opts config.Options) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	if f == nil {
		f = format.New()
	}
	return &Orchestrator{
		git:       client,
		formatter: f,
		logger:    log,
		opts:      opts,
	}
}

// HandleMessage decodes a raw request body and runs Handle. Bodies that are
// not JSON objects are rejected without running git.
func (o *Orchestrator) HandleMessage(ctx context.Context, data json.RawMessage, client channel.Client) Result {
	payload, err := channel.DecodePayload(data)
	if err != nil {
		return o.fail(Result{State: Idle}, err, client)
	}
	return o.Handle(ctx, payload, client)
}

// Handle runs the snapshot chain for payload and replies to client. The chain
// is detached from ctx cancellation: once started it runs to completion or
// failure.
func (o *Orchestrator) Handle(ctx context.Context, payload channel.Payload, client channel.Client) Result {
	ctx = context.WithoutCancel(ctx)
	res := Result{State: Idle}

	o.advance(&res, Checking)
	if _, err := o.git.Status(ctx); err != nil {
		return o.fail(res, err, client)
	}

	o.advance(&res, Staging)
	if _, err := o.git.AddAll(ctx); err != nil {
		return o.fail(res, err, client)
	}

	o.advance(&res, Committing)
	summary, err := o.git.Commit(ctx, o.formatter.Datetime())
	if err != nil {
		return o.fail(res, err, client)
	}
	msg := o.formatter.Compose(strings.TrimRight(summary, "\r\n"))
	o.notify(client, channel.LevelLog, msg)
	o.logger.StatusMessage("%s", msg)

	o.advance(&res, HashResolving)
	out, err := o.git.ShortHead(ctx)
	if err != nil {
		return o.fail(res, err, client)
	}
	hash := strings.TrimSpace(out)
	if hash == "" {
		return o.fail(res, errors.NewGitError("rev-parse", []string{"--short", "HEAD"}, errors.ErrGitOperationFailed, "rev-parse returned no hash"), client)
	}

	res.Hash = hash
	res.Reply = payload.WithHash(hash)
	o.advance(&res, Succeeded)

	if client != nil {
		if err := client.Send(channel.EventGitSuccess, res.Reply); err != nil {
			o.logger.Warning("Failed to deliver %s: %v", channel.EventGitSuccess, err)
			res.Err = err
		}
	}
	return res
}

func (o *Orchestrator) advance(res *Result, next State) {
	o.logger.Info("snapshot: %s -> %s", res.State, next)
	res.State = next
}

// fail reports err to client and the console and ends the chain
func (o *Orchestrator) fail(res Result, err error, client channel.Client) Result {
	o.logger.Info("snapshot: %s failed: %v", res.State, err)
	res.FailedAt = res.State
	res.State = Failed
	res.Err = err

	if errors.IsEmptyFailure(err) {
		msg := o.formatter.Compose(MsgNothingToCommit)
		o.notify(client, channel.LevelWarn, msg)
		o.logger.WarningToUser("%s", msg)
		return res
	}

	diag, _ := errors.Diagnostic(err)
	o.notify(client, channel.LevelWarn, o.formatter.Compose(diag))
	o.logger.Error("%s", o.formatter.Compose(o.formatter.Highlight(diag)))
	return res
}

// notify sends a notice to the requesting client when browser logging is on
func (o *Orchestrator) notify(client channel.Client, level channel.Level, msg string) {
	if !o.opts.BrowserLog || client == nil {
		return
	}
	if err := client.Send(level.Event(), channel.NewNotice(msg)); err != nil {
		o.logger.Warning("Failed to deliver %s: %v", level.Event(), err)
	}
}
