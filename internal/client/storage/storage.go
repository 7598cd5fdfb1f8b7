package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/studycompanion/internal/client/migrations"
	"github.com/dmitrijs2005/studycompanion/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studycompanion/internal/filex"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

const (
	sqliteFile       = "studycompanion.db"
	badgerDir        = "badger"
	defaultRedisURL  = "redis://localhost:6379/0"
	sqliteDialect    = "sqlite3"
	postgresDialect  = "pgx"
	sqliteDriverName = "sqlite"
	pgxDriverName    = "pgx"
)

var (
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrMissingDSN     = errors.New("storage dsn is required")
)

// Options select and locate the durable tier.
type Options struct {
	Backend string
	// DSN is a file path (sqlite), connection string (postgres), directory
	// (badger) or redis:// URL. Empty means the backend default.
	DSN     string
	DataDir string
}

// Storage owns the opened backend. Close releases it.
type Storage struct {
	Backend  string
	Metadata metadata.Repository

	closers []func() error
}

// Close releases the backend handles. It is safe to call more than once.
func (s *Storage) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Open opens the configured backend, creating the data directory and running
// migrations where the backend needs them.
func Open(ctx context.Context, opts Options) (*Storage, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		backend = BackendSQLite
	}

	switch backend {
	case BackendSQLite:
		return openSQLite(ctx, opts)
	case BackendPostgres:
		return openPostgres(ctx, opts)
	case BackendBadger:
		return openBadger(opts)
	case BackendRedis:
		return openRedis(ctx, opts)
	case BackendMemory:
		return &Storage{Backend: BackendMemory, Metadata: metadata.NewMemoryRepository()}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

func openSQLite(ctx context.Context, opts Options) (*Storage, error) {
	dsn := opts.DSN
	if dsn == "" {
		dir, err := filex.EnsureDir(opts.DataDir)
		if err != nil {
			return nil, fmt.Errorf("data dir: %w", err)
		}
		dsn = filepath.Join(dir, sqliteFile)
	}

	db, err := sql.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	// sqlite allows a single writer; one connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db, sqliteDialect, migrations.SQLiteDir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Storage{
		Backend:  BackendSQLite,
		Metadata: metadata.NewSQLiteRepository(db),
		closers:  []func() error{db.Close},
	}, nil
}

func openPostgres(ctx context.Context, opts Options) (*Storage, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("%s: %w", BackendPostgres, ErrMissingDSN)
	}

	db, err := sql.Open(pgxDriverName, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := RunMigrations(ctx, db, postgresDialect, migrations.PostgresDir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Storage{
		Backend:  BackendPostgres,
		Metadata: metadata.NewPostgresRepository(db),
		closers:  []func() error{db.Close},
	}, nil
}

func openBadger(opts Options) (*Storage, error) {
	dir := opts.DSN
	if dir == "" {
		base, err := filex.EnsureDir(opts.DataDir)
		if err != nil {
			return nil, fmt.Errorf("data dir: %w", err)
		}
		dir = filepath.Join(base, badgerDir)
	}

	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("badger open error: %w", err)
	}

	return &Storage{
		Backend:  BackendBadger,
		Metadata: metadata.NewBadgerRepository(db),
		closers:  []func() error{db.Close},
	}, nil
}

func openRedis(ctx context.Context, opts Options) (*Storage, error) {
	dsn := opts.DSN
	if dsn == "" {
		dsn = defaultRedisURL
	}

	ropts, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}

	rdb := redis.NewClient(ropts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping error: %w", err)
	}

	return &Storage{
		Backend:  BackendRedis,
		Metadata: metadata.NewRedisRepository(rdb, metadata.DefaultRedisHash),
		closers:  []func() error{rdb.Close},
	}, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations in dir using the goose dialect.
func RunMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return gooseUpContext(ctx, db, dir)
}
