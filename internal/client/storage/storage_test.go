package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/studycompanion/internal/client/migrations"
	"github.com/dmitrijs2005/studycompanion/internal/client/repositories/metadata"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpen_SQLiteDefaultsToDataDir(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")

	s, err := Open(ctx, Options{DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.Equal(t, BackendSQLite, s.Backend)
	assert.FileExists(t, filepath.Join(dir, sqliteFile))
	_, ok := s.Metadata.(*metadata.SQLiteRepository)
	assert.True(t, ok)
}

func TestOpen_SQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, Options{Backend: "SQLite", DataDir: dir})
	require.NoError(t, err)
	require.NoError(t, s.Metadata.Set(ctx, metadata.KeyAPIURL, []byte("http://1.2.3.4:9000")))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	s, err = Open(ctx, Options{Backend: BackendSQLite, DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, err := s.Metadata.Get(ctx, metadata.KeyAPIURL)
	require.NoError(t, err)
	assert.Equal(t, "http://1.2.3.4:9000", string(v))
}

func TestOpen_BadgerSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, Options{Backend: BackendBadger, DataDir: dir})
	require.NoError(t, err)
	require.NoError(t, s.Metadata.Set(ctx, metadata.KeyUseCustomIP, []byte("true")))
	require.NoError(t, s.Close())

	s, err = Open(ctx, Options{Backend: BackendBadger, DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, err := s.Metadata.Get(ctx, metadata.KeyUseCustomIP)
	require.NoError(t, err)
	assert.Equal(t, "true", string(v))
	assert.DirExists(t, filepath.Join(dir, badgerDir))
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
	_, ok := s.Metadata.(*metadata.MemoryRepository)
	assert.True(t, ok)
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, Options{Backend: "floppy"})
	require.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(ctx, Options{Backend: BackendPostgres})
	require.ErrorIs(t, err, ErrMissingDSN)

	_, err = Open(ctx, Options{Backend: BackendRedis, DSN: "not-a-url://x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis url")
}

func TestRunMigrations_SQLiteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open(sqliteDriverName, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(ctx, db, sqliteDialect, migrations.SQLiteDir))
	require.NoError(t, RunMigrations(ctx, db, sqliteDialect, migrations.SQLiteDir))

	assert.True(t, tableExists(t, db, "goose_db_version"))
	assert.True(t, tableExists(t, db, "metadata"))
}

func TestRunMigrations_BadDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = RunMigrations(context.Background(), db, "oracle-ish", migrations.PostgresDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set goose dialect")
}

func TestRunMigrations_PropagatesGooseError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return errors.New("boom")
	}

	err = RunMigrations(context.Background(), db, postgresDialect, migrations.PostgresDir)
	require.EqualError(t, err, "boom")
	assert.Equal(t, migrations.PostgresDir, gotDir)
}
