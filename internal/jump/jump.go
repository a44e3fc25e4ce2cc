// Package jump runs the full pipeline: snapshot processes, list panes,
// filter and rank candidates, then send keys and focus the winner.
package jump

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/timvw/tmux-jump/internal/dispatch"
	"github.com/timvw/tmux-jump/internal/model"
	"github.com/timvw/tmux-jump/internal/mux"
	tjotel "github.com/timvw/tmux-jump/internal/otel"
	"github.com/timvw/tmux-jump/internal/proctable"
	"github.com/timvw/tmux-jump/internal/selector"
)

var tracer = otel.Tracer("tmux-jump")

// Chooser lets the user pick among ranked candidates. It returns false when
// the user dismissed it without choosing.
type Chooser func(ctx context.Context, ranked []model.Candidate) (model.Candidate, bool, error)

// Request is a single invocation's input.
type Request struct {
	Filters model.Filters
	// Cwd is the caller's canonical working directory, used for ranking.
	Cwd string
	// Keys are sent to the chosen pane before focusing. Empty sends nothing.
	Keys string
}

// Jumper wires the collaborators together.
type Jumper struct {
	Mux       mux.Multiplexer
	Processes proctable.Source

	// Locator defaults to LocatorPID.
	Locator model.LocatorKind
	// MaxDepth bounds the foreground walk. Zero means proctable.DefaultMaxDepth.
	MaxDepth int
	// ExcludePane is never a candidate (normally the invoking pane).
	ExcludePane string

	// Canonicalize overrides path resolution; nil uses selector.Canonicalize.
	Canonicalize func(string) (string, error)
	// Choose is consulted when more than one candidate remains. Nil takes
	// the top-ranked candidate.
	Choose Chooser

	Log     *logrus.Entry
	Metrics *tjotel.Metrics
}

func (j *Jumper) locator() model.LocatorKind {
	if j.Locator == "" {
		return model.LocatorPID
	}
	return j.Locator
}

func (j *Jumper) maxDepth() int {
	if j.MaxDepth <= 0 {
		return proctable.DefaultMaxDepth
	}
	return j.MaxDepth
}

func (j *Jumper) log() *logrus.Entry {
	if j.Log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		j.Log = logrus.NewEntry(l)
	}
	return j.Log
}

// Candidates returns every matching pane, best first. An empty result is not
// an error. The process table is only read for the pid locator.
func (j *Jumper) Candidates(ctx context.Context, req Request) ([]model.Candidate, error) {
	locator := j.locator()
	ctx, span := tracer.Start(ctx, "candidates")
	defer span.End()
	span.SetAttributes(
		attribute.String("jump.process", req.Filters.Process),
		attribute.String("jump.directory", req.Filters.Directory),
		attribute.String("jump.locator", string(locator)),
	)

	var resolve func(string) (string, bool)
	if locator == model.LocatorPID {
		table, err := j.Processes.Snapshot(ctx)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, WrapError(err, CodeCollaborator, "list processes")
		}
		j.log().WithField("processes", table.Len()).Debug("process table loaded")
		depth := j.maxDepth()
		resolve = func(pid string) (string, bool) {
			command, ok := table.ForegroundDepth(pid, depth)
			j.Metrics.RecordResolution(ctx, ok)
			return command, ok
		}
	}

	panes, err := j.Mux.ListPanes(ctx, locator)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, WrapError(err, CodeCollaborator, "list %s panes", j.Mux.Name())
	}
	j.Metrics.RecordPanes(ctx, len(panes), string(locator))
	j.log().WithField("panes", len(panes)).Debug("panes listed")

	m := &selector.Matcher{
		Filters:      req.Filters,
		Resolve:      resolve,
		Canonicalize: j.Canonicalize,
		ExcludePane:  j.ExcludePane,
		Log:          j.log(),
	}
	ranked := selector.Rank(m.Filter(panes), req.Cwd)

	j.Metrics.RecordCandidates(ctx, len(ranked))
	span.SetAttributes(
		attribute.Int("jump.panes", len(panes)),
		attribute.Int("jump.candidates", len(ranked)),
	)
	for i, c := range ranked {
		j.log().WithFields(logrus.Fields{
			"rank": i, "pane": c.PaneID, "path": c.Path, "command": c.Command,
		}).Debug("candidate")
	}
	return ranked, nil
}

// Run picks a candidate and jumps to it. It returns the pane acted on.
func (j *Jumper) Run(ctx context.Context, req Request) (model.Candidate, error) {
	ctx, span := tracer.Start(ctx, "jump")
	defer span.End()

	chosen, err := j.run(ctx, req)
	j.Metrics.RecordJump(ctx, outcome(err))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return chosen, err
	}
	span.SetAttributes(attribute.String("jump.pane", chosen.PaneID))
	return chosen, nil
}

func (j *Jumper) run(ctx context.Context, req Request) (model.Candidate, error) {
	ranked, err := j.Candidates(ctx, req)
	if err != nil {
		return model.Candidate{}, err
	}
	if len(ranked) == 0 {
		return model.Candidate{}, NewError(CodeNoMatch, "no pane found running %s", req.Filters.Describe()).
			WithDetail("process", req.Filters.Process).
			WithDetail("directory", req.Filters.Directory)
	}

	chosen := ranked[0]
	if j.Choose != nil && len(ranked) > 1 {
		c, ok, err := j.Choose(ctx, ranked)
		if err != nil {
			return model.Candidate{}, WrapError(err, CodeAction, "chooser")
		}
		if !ok {
			return model.Candidate{}, NewError(CodeCancelled, "cancelled")
		}
		chosen = c
	}

	j.log().WithFields(logrus.Fields{"pane": chosen.PaneID, "path": chosen.Path}).Info("jumping")
	d := &dispatch.Dispatcher{Mux: j.Mux, Log: j.log()}
	if err := d.Jump(ctx, chosen.PaneID, req.Keys); err != nil {
		return chosen, WrapError(err, CodeAction, "jump to pane %s", chosen.PaneID).
			WithDetail("pane", chosen.PaneID)
	}
	return chosen, nil
}

func outcome(err error) string {
	if err == nil {
		return "jumped"
	}
	if code := CodeOf(err); code != "" {
		return strings.ToLower(string(code))
	}
	return "error"
}
