package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/use-agent/leadscrape/config"
)

// BrowserSession is one isolated browser with a single open tab.
type BrowserSession interface {
	// Navigate loads url and blocks until the network has gone idle.
	Navigate(ctx context.Context, url string) error

	// Capture returns the current rendered DOM.
	Capture(ctx context.Context) (*FetchResult, error)

	// Close tears the browser down. It is safe to call more than once.
	Close() error
}

// headerSetter is implemented by sessions that can send extra request
// headers.
type headerSetter interface {
	SetHeaders(headers map[string]string) error
}

// Launcher starts a fresh BrowserSession.
type Launcher func(ctx context.Context) (BrowserSession, error)

// RodEngine is the headless backend. Every Fetch launches its own browser
// and releases it before returning, on every path.
type RodEngine struct {
	launch      Launcher
	navTimeout  time.Duration
	settleDelay time.Duration
}

// NewRodEngine creates a RodEngine. A nil launch uses NewRodLauncher(cfg).
func NewRodEngine(cfg config.HeadlessConfig, launch Launcher) *RodEngine {
	if launch == nil {
		launch = NewRodLauncher(cfg)
	}
	navTimeout := cfg.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = DefaultNavigationTimeout
	}
	return &RodEngine{
		launch:      launch,
		navTimeout:  navTimeout,
		settleDelay: cfg.SettleDelay,
	}
}

func (e *RodEngine) Name() string { return "headless" }

// Fetch lifecycle:
//
//  1. Launch   - isolated browser + page
//  2. DEFER    - Close, exactly once, whatever happens below
//  3. Navigate - bounded by the navigation timeout, waits for network idle
//  4. Settle   - fixed delay for late client-side rendering
//  5. Capture  - page.HTML()
func (e *RodEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	session, err := e.launch(ctx)
	if err != nil {
		return nil, &RenderError{Stage: "launch", Err: err}
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			slog.Warn("headless: browser close failed", "url", req.URL, "error", cerr)
		}
	}()

	navCtx, cancel := context.WithTimeout(ctx, e.navTimeout)
	defer cancel()

	if hs, ok := session.(headerSetter); ok && len(req.Headers) > 0 {
		if err := hs.SetHeaders(req.Headers); err != nil {
			slog.Warn("headless: set extra headers failed", "url", req.URL, "error", err)
		}
	}

	if err := session.Navigate(navCtx, req.URL); err != nil {
		return nil, &RenderError{Stage: "navigate", Err: err}
	}

	if e.settleDelay > 0 {
		timer := time.NewTimer(e.settleDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, &RenderError{Stage: "settle", Err: ctx.Err()}
		}
	}

	result, err := session.Capture(ctx)
	if err != nil {
		return nil, &RenderError{Stage: "capture", Err: err}
	}
	return result, nil
}

// NewRodLauncher returns a Launcher that starts a local Chromium per call.
// The sandbox stays on unless cfg.NoSandbox is set.
func NewRodLauncher(cfg config.HeadlessConfig) Launcher {
	idle := cfg.IdleWindow
	if idle <= 0 {
		idle = 500 * time.Millisecond
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = config.DefaultUserAgent
	}

	return func(ctx context.Context) (BrowserSession, error) {
		l := launcher.New().
			Context(ctx).
			Headless(true).
			NoSandbox(cfg.NoSandbox)
		if cfg.BrowserBin != "" {
			l = l.Bin(cfg.BrowserBin)
		}
		l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
		l.Delete(flags.Flag("enable-automation"))
		l.Set(flags.Flag("disable-dev-shm-usage"))
		l.Set(flags.Flag("disable-extensions"))
		l.Set(flags.Flag("disable-component-update"))
		l.Set(flags.Flag("no-first-run"))

		s := &rodSession{launcher: l, idle: idle}

		controlURL, err := l.Launch()
		if err != nil {
			l.Kill()
			return nil, fmt.Errorf("start browser: %w", err)
		}

		s.browser = rod.New().ControlURL(controlURL).Context(ctx)
		if err := s.browser.Connect(); err != nil {
			s.browser = nil
			_ = s.Close()
			return nil, fmt.Errorf("connect browser: %w", err)
		}

		page, err := s.browser.Page(proto.TargetCreateTarget{})
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("open page: %w", err)
		}
		s.page = page

		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      cfg.UserAgent,
			AcceptLanguage: "en-US,en;q=0.9",
		}); err != nil {
			slog.Warn("headless: set user agent failed", "error", err)
		}

		if cfg.Stealth {
			if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
				slog.Warn("headless: stealth injection failed, proceeding without stealth", "error", err)
			}
		}

		return s, nil
	}
}

// rodSession owns the launcher process, the browser connection and the page.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	idle     time.Duration

	closeOnce sync.Once
	closeErr  error
}

// SetHeaders sends extra request headers with every navigation.
func (s *rodSession) SetHeaders(headers map[string]string) error {
	if len(headers) == 0 {
		return nil
	}
	return proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(headers)}.Call(s.page)
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)

	// The idle waiter must be registered before Navigate or in-flight
	// requests are missed.
	waitIdle := p.WaitRequestIdle(s.idle, nil, nil, nil)

	if err := p.Navigate(url); err != nil {
		return err
	}
	waitIdle()

	return ctx.Err()
}

func (s *rodSession) Capture(ctx context.Context) (*FetchResult, error) {
	p := s.page.Context(ctx)

	html, err := p.HTML()
	if err != nil {
		return nil, err
	}

	result := &FetchResult{HTML: html}

	if info, err := p.Info(); err == nil {
		result.FinalURL = info.URL
	}

	if res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`); err == nil {
		result.StatusCode = res.Value.Int()
	}

	return result, nil
}

func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.page != nil {
			if err := s.page.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close page: %w", err))
			}
		}
		if s.browser != nil {
			if err := s.browser.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close browser: %w", err))
			}
		}
		// Kill, wait for the process to exit, then remove its user-data dir.
		s.launcher.Kill()
		s.launcher.Cleanup()
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
