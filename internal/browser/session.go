// Package browser owns the lifecycle of the headless rendering session: one
// browser per run, acquired before the checking loop and torn down
// unconditionally after it.
package browser

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/chromedp"
)

type Options struct {
	// NavigationTimeout bounds every page load performed in this session.
	NavigationTimeout time.Duration
	WindowWidth       int
	WindowHeight      int
}

// Session is a scoped headless-Chrome instance. The zero lifecycle is
// NewSession → Start → NewTab per target → Close; Close is safe to call even
// when Start failed or never ran.
type Session struct {
	opts Options

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func NewSession(opts Options) *Session {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 45 * time.Second
	}
	if opts.WindowWidth <= 0 {
		opts.WindowWidth = 1920
	}
	if opts.WindowHeight <= 0 {
		opts.WindowHeight = 1080
	}
	return &Session{opts: opts}
}

// Start launches the browser process. Configured for unattended operation:
// headless, sandbox disabled for container environments, fixed viewport,
// certificate errors tolerated, automation fingerprint reduced.
func (s *Session) Start(ctx context.Context) error {
	if s.browserCtx != nil {
		return errors.New("browser: session already started")
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(s.opts.WindowWidth, s.opts.WindowHeight),
		chromedp.IgnoreCertErrors,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions forces the process to launch now, so acquisition
	// failures surface here instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return err
	}

	s.allocCancel = allocCancel
	s.browserCtx = browserCtx
	s.browserCancel = browserCancel
	return nil
}

// NewTab derives a fresh tab context from the running browser. Cancelling
// the returned func closes only the tab; the browser survives for the next
// target.
func (s *Session) NewTab() (context.Context, context.CancelFunc, error) {
	if s.browserCtx == nil {
		return nil, nil, errors.New("browser: session not started")
	}
	tab, cancel := chromedp.NewContext(s.browserCtx)
	return tab, cancel, nil
}

// NavigationTimeout reports the per-navigation bound this session enforces.
func (s *Session) NavigationTimeout() time.Duration {
	return s.opts.NavigationTimeout
}

// Close tears the browser down. Best effort: callers log the error and move
// on, they never escalate it. No-op when the session never started.
func (s *Session) Close() error {
	if s.browserCtx == nil {
		return nil
	}
	err := chromedp.Cancel(s.browserCtx)
	s.allocCancel()
	s.browserCtx = nil
	s.browserCancel = nil
	s.allocCancel = nil
	return err
}
