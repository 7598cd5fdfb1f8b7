package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/studycompanion/internal/client/client"
	"github.com/dmitrijs2005/studycompanion/internal/client/config"
	"github.com/dmitrijs2005/studycompanion/internal/client/endpoint"
	"github.com/dmitrijs2005/studycompanion/internal/client/session"
	"github.com/dmitrijs2005/studycompanion/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// probeTimeout bounds one watcher tick.
const probeTimeout = 3 * time.Second

type App struct {
	config   *config.Config
	sessions *session.Store
	endpoint *endpoint.Store
	api      client.Client
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer

	mu          sync.Mutex
	mode        Mode
	lastSummary *client.Summary
}

// NewApp builds the REPL over already initialized stores. api should read its
// base URL from ep so endpoint changes apply to the next request.
func NewApp(c *config.Config, sessions *session.Store, ep *endpoint.Store, api client.Client, logger logging.Logger) *App {
	return &App{
		config:   c,
		sessions: sessions,
		endpoint: ep,
		api:      api,
		logger:   logger.With("component", "cli"),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "switched mode", "mode", mode)
	}
}

func (a *App) summary() *client.Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSummary
}

func (a *App) setSummary(s *client.Summary) {
	a.mu.Lock()
	a.lastSummary = s
	a.mu.Unlock()
}

// Run probes the backend once, starts the watcher and blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.checkCapability(ctx)

	go a.StartCapabilityWatcher(ctx, a.config.ProbeInterval)

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.IsAuthenticated()
}

// checkCapability probes /api/status and falls back to the service root when
// the backend answers with an error. Unreachable backends switch the app to
// offline mode; reachable ones without AI support to disabled.
func (a *App) checkCapability(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	st, err := a.endpoint.ProbeCapability(ctx)
	if err == nil {
		if st.AIPowered {
			a.setMode(ModeOnline)
		} else {
			a.setMode(ModeDisabled)
		}
		return
	}

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		a.setMode(ModeOffline)
		return
	}

	ai, err := a.endpoint.ProbeRootCapability(ctx)
	switch {
	case err != nil:
		a.setMode(ModeOffline)
	case ai:
		a.setMode(ModeOnline)
	default:
		a.setMode(ModeDisabled)
	}
}

// StartCapabilityWatcher re-probes the backend every interval until ctx is
// done.
func (a *App) StartCapabilityWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkCapability(ctx)
		case <-ctx.Done():
			return
		}
	}
}
