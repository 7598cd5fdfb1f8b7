package endpoint

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/studycompanion/internal/client/client"
	"github.com/dmitrijs2005/studycompanion/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studycompanion/internal/common"
	"github.com/dmitrijs2005/studycompanion/internal/logging"
)

const maxPort = 65535

// Capability is the tri-state "AI-powered" flag.
type Capability int

const (
	CapabilityUnknown Capability = iota
	CapabilityEnabled
	CapabilityDisabled
)

// Enabled renders unknown as false.
func (c Capability) Enabled() bool { return c == CapabilityEnabled }

func (c Capability) String() string {
	switch c {
	case CapabilityEnabled:
		return "enabled"
	case CapabilityDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

func capabilityOf(aiPowered bool) Capability {
	if aiPowered {
		return CapabilityEnabled
	}
	return CapabilityDisabled
}

// Configuration is a snapshot of how the client reaches the backend.
type Configuration struct {
	BaseURL           string
	UseCustomEndpoint bool
	CustomHost        string
	CustomPort        int
	Capability        Capability
	LastProbeResult   *client.ServerStatus
}

func (c Configuration) clone() Configuration {
	if c.LastProbeResult != nil {
		st := *c.LastProbeResult
		st.IPAddresses = append([]string(nil), st.IPAddresses...)
		c.LastProbeResult = &st
	}
	return c
}

// Target describes the platform the client pretends to run on.
type Target struct {
	Platform  Platform
	Simulator bool
}

// Store serializes configuration changes and applies probe results.
type Store struct {
	repo     metadata.Repository
	resolver *Resolver
	target   Target
	logger   logging.Logger
	api      client.Client

	mu          sync.Mutex
	initialized bool
	cfg         Configuration
	probeSeq    uint64
}

type Option func(*storeOptions)

type storeOptions struct {
	timeout   time.Duration
	newClient func(client.BaseURLSource) client.Client
}

// WithTimeout bounds each probe request.
func WithTimeout(d time.Duration) Option {
	return func(o *storeOptions) { o.timeout = d }
}

// WithClient replaces the HTTP client used for probes. The factory receives
// the store itself as the base URL source.
func WithClient(newClient func(client.BaseURLSource) client.Client) Option {
	return func(o *storeOptions) { o.newClient = newClient }
}

func NewStore(repo metadata.Repository, resolver *Resolver, target Target, logger logging.Logger, opts ...Option) *Store {
	o := storeOptions{timeout: 10 * time.Second}
	for _, fn := range opts {
		fn(&o)
	}
	if o.newClient == nil {
		timeout := o.timeout
		o.newClient = func(src client.BaseURLSource) client.Client {
			return client.NewHTTPClient(src, timeout)
		}
	}
	if resolver == nil {
		resolver = NewResolver("", 0)
	}

	s := &Store{
		repo:     repo,
		resolver: resolver,
		target:   target,
		logger:   logger.With("component", "endpoint"),
	}
	s.cfg = Configuration{BaseURL: s.defaultURL()}
	s.api = o.newClient(s)
	return s
}

func (s *Store) defaultURL() string {
	return s.resolver.ResolveDefault(s.target.Platform, s.target.Simulator)
}

// Initialize loads the persisted endpoint. Without a usable apiUrl the
// default is computed and persisted. Storage failures fall back to the
// default without writing. Only the first call has any effect.
func (s *Store) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.initializeLocked(ctx)
	return nil
}

func (s *Store) initializeLocked(ctx context.Context) {
	if s.initialized {
		return
	}
	s.initialized = true

	values, err := s.loadPersisted(ctx)
	if err != nil {
		s.logger.Warn(ctx, "endpoint settings unreadable, using default", "error", err, "base_url", s.cfg.BaseURL)
		return
	}

	cfg := Configuration{
		CustomHost:        string(values[metadata.KeyServerIP]),
		UseCustomEndpoint: string(values[metadata.KeyUseCustomIP]) == "true",
	}
	if port, err := parsePort(string(values[metadata.KeyServerPort])); err == nil {
		cfg.CustomPort = port
	}

	if apiURL := string(values[metadata.KeyAPIURL]); isWellFormed(apiURL) {
		cfg.BaseURL = apiURL
		s.cfg = cfg
		s.logger.Info(ctx, "endpoint loaded", "base_url", apiURL, "custom", cfg.UseCustomEndpoint)
		return
	}

	cfg.BaseURL = s.defaultURL()
	if cfg.UseCustomEndpoint && validHost(cfg.CustomHost) == nil && cfg.CustomPort > 0 {
		cfg.BaseURL = buildURL(cfg.CustomHost, cfg.CustomPort)
	}
	s.cfg = cfg

	if err := s.repo.Set(ctx, metadata.KeyAPIURL, []byte(cfg.BaseURL)); err != nil {
		s.logger.Warn(ctx, "failed to persist default endpoint", "error", err)
	}
	s.logger.Info(ctx, "endpoint defaulted", "base_url", cfg.BaseURL)
}

func (s *Store) loadPersisted(ctx context.Context) (map[string][]byte, error) {
	keys := []string{metadata.KeyAPIURL, metadata.KeyServerIP, metadata.KeyServerPort, metadata.KeyUseCustomIP}
	values := make(map[string][]byte, len(keys))
	for _, k := range keys {
		v, err := s.repo.Get(ctx, k)
		if err != nil {
			return nil, &common.StorageError{Op: "get", Key: k, Err: err}
		}
		values[k] = v
	}
	return values, nil
}

func isWellFormed(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func parsePort(raw string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || port < 1 || port > maxPort {
		return 0, fmt.Errorf("%w: port %q must be an integer in 1..%d", ErrValidation, raw, maxPort)
	}
	return port, nil
}

func validHost(host string) error {
	if host == "" {
		return fmt.Errorf("%w: host is required", ErrValidation)
	}
	if strings.ContainsAny(host, "/?#@ \t") {
		return fmt.Errorf("%w: host %q", ErrValidation, host)
	}
	if strings.Contains(host, ":") && net.ParseIP(host) == nil {
		return fmt.Errorf("%w: host %q", ErrValidation, host)
	}
	return nil
}

// UpdateConfiguration validates the input, persists apiUrl, serverIp,
// serverPort and useCustomIp in one batch and then switches to the new URL.
// A custom endpoint needs a valid host; with the custom endpoint off the host
// may be empty but is still validated when given. On a storage failure
// nothing changes and a *common.StorageError is returned. The store is
// initialized first if needed.
func (s *Store) UpdateConfiguration(ctx context.Context, host, port string, useCustom bool) error {
	host = strings.TrimSpace(host)
	p, err := parsePort(port)
	if err != nil {
		return err
	}
	if useCustom || host != "" {
		if err := validHost(host); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.initializeLocked(ctx)
	return s.updateLocked(ctx, host, p, useCustom)
}

// updateLocked persists and applies an already validated configuration.
// The caller holds s.mu and has initialized the store.
func (s *Store) updateLocked(ctx context.Context, host string, port int, useCustom bool) error {
	base := s.defaultURL()
	if useCustom {
		base = buildURL(host, port)
	}

	err := s.repo.SetMany(ctx, map[string][]byte{
		metadata.KeyAPIURL:      []byte(base),
		metadata.KeyServerIP:    []byte(host),
		metadata.KeyServerPort:  []byte(strconv.Itoa(port)),
		metadata.KeyUseCustomIP: []byte(strconv.FormatBool(useCustom)),
	})
	if err != nil {
		return &common.StorageError{Op: "set", Key: "endpoint", Err: err}
	}

	s.cfg.BaseURL = base
	s.cfg.CustomHost = host
	s.cfg.CustomPort = port
	s.cfg.UseCustomEndpoint = useCustom
	// results of probes against the previous URL must not land here
	s.probeSeq++

	s.logger.Info(ctx, "endpoint updated", "base_url", base, "custom", useCustom)
	return nil
}

// ResetToDefault turns the custom endpoint off, keeping the last host and
// port on record. A host that no longer validates is dropped.
func (s *Store) ResetToDefault(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initializeLocked(ctx)

	host, port := s.cfg.CustomHost, s.cfg.CustomPort
	if host != "" && validHost(host) != nil {
		s.logger.Warn(ctx, "dropping invalid stored host", "host", host)
		host = ""
	}
	if port < 1 || port > maxPort {
		port = s.resolver.Port
	}
	return s.updateLocked(ctx, host, port, false)
}

func (s *Store) beginProbe() (uint64, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probeSeq++
	return s.probeSeq, s.cfg.BaseURL
}

// ProbeCapability asks /api/status whether the backend is AI-powered. Any
// failure sets the capability to disabled and returns a *NetworkError.
func (s *Store) ProbeCapability(ctx context.Context) (*client.ServerStatus, error) {
	seq, base := s.beginProbe()
	st, err := s.api.Status(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		err = &NetworkError{Op: "status", URL: base, Err: err}
	}
	if seq != s.probeSeq {
		s.logger.Debug(ctx, "discarding stale probe", "op", "status", "seq", seq)
		return st, err
	}

	if err != nil {
		s.cfg.Capability = CapabilityDisabled
		s.logger.Warn(ctx, "status probe failed", "error", err)
		return nil, err
	}

	s.cfg.Capability = capabilityOf(st.AIPowered)
	s.cfg.LastProbeResult = st
	s.logger.Debug(ctx, "status probe", "base_url", base, "capability", s.cfg.Capability)

	out := *st
	out.IPAddresses = append([]string(nil), st.IPAddresses...)
	return &out, nil
}

// ProbeRootCapability asks the service root instead. A missing ai_powered
// field counts as false.
func (s *Store) ProbeRootCapability(ctx context.Context) (bool, error) {
	seq, base := s.beginProbe()
	info, err := s.api.Root(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		err = &NetworkError{Op: "root", URL: base, Err: err}
	}
	ai := err == nil && info.AIPowered != nil && *info.AIPowered

	if seq != s.probeSeq {
		s.logger.Debug(ctx, "discarding stale probe", "op", "root", "seq", seq)
		return ai, err
	}

	if err != nil {
		s.cfg.Capability = CapabilityDisabled
		s.logger.Warn(ctx, "root probe failed", "error", err)
		return false, err
	}

	s.cfg.Capability = capabilityOf(ai)
	return ai, nil
}

// BaseURL implements client.BaseURLSource.
func (s *Store) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.BaseURL
}

func (s *Store) Snapshot() Configuration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.clone()
}

func (s *Store) Capability() Capability {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Capability
}

func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}
