// pkg/driver/cdp/session.go

// Package cdp implements the driver contract over a real Chrome/Chromium
// instance via the DevTools Protocol. Selectors are CSS, evaluated remotely
// by DOM.querySelectorAll. Handles wrap CDP node ids, which the browser
// invalidates whenever the document is rebuilt; the resulting failures are
// classified as stale references so the page-object engine re-resolves.
package cdp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config carries the browser options the driver needs. Zero values are safe
// defaults for headless automation.
type Config struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	NoSandbox         bool          `mapstructure:"no_sandbox" yaml:"no_sandbox"`
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// Session owns one browser tab and its CDP connection. It implements
// schemas.Driver. A session drives one logical test sequence at a time;
// concurrent use from multiple goroutines is unsupported.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	cfg    Config
	logger *zap.Logger

	mu       sync.Mutex
	isClosed bool
}

// NewSession launches a browser (or connects to the allocator already in
// parent) and opens a fresh tab.
func NewSession(parent context.Context, cfg Config, logger *zap.Logger) (*Session, error) {
	sessionID := uuid.New().String()

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", cfg.Headless))
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		id:  sessionID,
		ctx: tabCtx,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
		cfg:    cfg,
		logger: logger.With(zap.String("session_id", sessionID)),
	}

	// Force target creation so the first driver call does not pay for it.
	if err := chromedp.Run(tabCtx); err != nil {
		s.cancel()
		return nil, fmt.Errorf("starting browser target: %w", err)
	}

	s.logger.Debug("browser session started")
	return s, nil
}

// ID returns the unique identifier for the session.
func (s *Session) ID() string { return s.id }

// Navigate loads the URL and waits for the document body to be ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("navigating", zap.String("url", url))

	navTimeout := s.cfg.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = 90 * time.Second
	}
	navCtx, cancel := context.WithTimeout(ctx, navTimeout)
	defer cancel()

	err := s.run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("navigation timed out after %s: %w", navTimeout, err)
		}
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Close tears down the tab and the browser allocator. Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed {
		return nil
	}
	s.isClosed = true
	s.logger.Debug("closing browser session")
	s.cancel()
	return nil
}

// run executes chromedp actions under both the session lifetime and the
// caller's context.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := combineContext(s.ctx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// combineContext derives a context cancelled when either input is done. The
// result inherits values (including the CDP target) from primary.
func combineContext(primary, secondary context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(primary)
	go func() {
		select {
		case <-secondary.Done():
			cancel()
		case <-combined.Done():
		}
	}()
	return combined, cancel
}
