// Package bootstrap opens the durable tier and builds the stores and the
// backend client shared by the client binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/studycompanion/internal/client/client"
	"github.com/dmitrijs2005/studycompanion/internal/client/config"
	"github.com/dmitrijs2005/studycompanion/internal/client/endpoint"
	"github.com/dmitrijs2005/studycompanion/internal/client/session"
	"github.com/dmitrijs2005/studycompanion/internal/client/storage"
	"github.com/dmitrijs2005/studycompanion/internal/logging"
)

// Deps are the initialized client components. Close releases the storage.
type Deps struct {
	Storage  *storage.Storage
	Sessions *session.Store
	Endpoint *endpoint.Store
	API      client.Client
}

func (d *Deps) Close() error {
	return d.Storage.Close()
}

// Open wires storage, the endpoint store and the session store from cfg and
// initializes both stores.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Deps, error) {
	st, err := storage.Open(ctx, storage.Options{
		Backend: cfg.StorageBackend,
		DSN:     cfg.StorageDSN,
		DataDir: cfg.DataDir,
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	logger.Debug(ctx, "storage opened", "backend", st.Backend)

	ep := endpoint.NewStore(
		st.Metadata,
		endpoint.NewResolver(cfg.LanIP, cfg.DefaultPort),
		endpoint.Target{Platform: endpoint.ParsePlatform(cfg.Platform), Simulator: cfg.Simulator},
		logger,
		endpoint.WithTimeout(cfg.RequestTimeout),
	)
	if err := ep.Initialize(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("init endpoint: %w", err)
	}

	registry := session.NewRegistry(st.Metadata, logger)
	auth := session.NewLocalAuthenticator(cfg.AdminUsername, cfg.AdminPassword, registry)
	sessions := session.NewStore(st.Metadata, session.NewTransientTier(), auth, logger, session.WithRegistry(registry))
	sessions.Initialize(ctx)

	return &Deps{
		Storage:  st,
		Sessions: sessions,
		Endpoint: ep,
		API:      client.NewHTTPClient(ep, cfg.RequestTimeout),
	}, nil
}
