// Package run sequences one monitoring pass: acquire the rendering session,
// check every target in order, aggregate, notify, release the session, and
// compute the process exit status.
package run

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/agreyes/webmon/internal/probe"
	"github.com/agreyes/webmon/internal/target"
)

// BrowserSession is the slice of the session lifecycle the orchestrator
// drives. The render checker holds the session itself; the runner only
// starts and releases it.
type BrowserSession interface {
	Start(ctx context.Context) error
	Close() error
}

// Runner walks the target set once, strictly sequentially. Checks share one
// rendering session and sites are probed with an explicit pacing delay, so
// parallel checks are deliberately off the table.
type Runner struct {
	Log     *zap.Logger
	Session BrowserSession

	Protocol probe.Checker
	Render   probe.Checker

	// Notify builds and dispatches the alert card for the finished pass.
	// Delivery failures never change the computed exit status.
	Notify func(ctx context.Context, s Summary) error
	// NotifySuccess dispatches a card even when every target is available.
	NotifySuccess bool

	// Pace is the delay between successive checks, a deliberate throughput
	// cap against rate limiters on the probed services.
	Pace time.Duration

	sleep    func(time.Duration)
	nonfatal error
}

// Run executes one complete pass and returns the process exit code: 0 when
// every target is available, 1 otherwise, including session-acquisition
// faults. The session is released exactly once on every path.
func (r *Runner) Run(ctx context.Context, targets []target.Target) (code int) {
	defer r.release()

	if err := r.Session.Start(ctx); err != nil {
		r.Log.Error("session_start_failed", zap.Error(err))
		return 1
	}
	r.Log.Info("session_started")

	summary := r.checkAll(ctx, targets)

	failed := summary.Failed()
	r.Log.Info("run_aggregated",
		zap.Int("total", summary.Total),
		zap.Int("failed", len(failed)),
		zap.Int("succeeded", summary.Total-len(failed)))

	if len(failed) > 0 || r.NotifySuccess {
		if err := r.Notify(ctx, summary); err != nil {
			r.nonfatal = multierr.Append(r.nonfatal, fmt.Errorf("notify: %w", err))
		}
	}

	if len(failed) > 0 {
		return 1
	}
	return 0
}

func (r *Runner) checkAll(ctx context.Context, targets []target.Target) Summary {
	outcomes := make([]probe.Outcome, 0, len(targets))
	for i, t := range targets {
		if i > 0 {
			r.pause()
		}
		out := r.checkerFor(t).Check(ctx, t)
		r.Log.Info("target_checked",
			zap.Int("index", i+1),
			zap.Int("total", len(targets)),
			zap.String("url", t.URL),
			zap.String("kind", t.Kind.String()),
			zap.Bool("available", out.Available),
			zap.String("detail", out.Detail))
		outcomes = append(outcomes, out)
	}
	return Summary{Total: len(outcomes), Outcomes: outcomes}
}

// checkerFor resolves the strategy the classifier decided on: plain-transport
// for ordinary documents, rendering for pages and for documents on hosts that
// block non-browser clients.
func (r *Runner) checkerFor(t target.Target) probe.Checker {
	if t.Kind == target.Document && !t.RequiresRendering {
		return r.Protocol
	}
	return r.Render
}

// release tears the session down once per run and emits a single log line
// for everything non-fatal that went wrong on the way out.
func (r *Runner) release() {
	if err := r.Session.Close(); err != nil {
		r.nonfatal = multierr.Append(r.nonfatal, fmt.Errorf("session close: %w", err))
	}
	if r.nonfatal != nil {
		r.Log.Warn("run_cleanup", zap.Error(r.nonfatal))
	}
}

func (r *Runner) pause() {
	if r.Pace <= 0 {
		return
	}
	if r.sleep != nil {
		r.sleep(r.Pace)
		return
	}
	time.Sleep(r.Pace)
}
