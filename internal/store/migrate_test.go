// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package store

import (
	"errors"
	"regexp"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/coursehub/pkg/errutil"
)

type fakeRunner struct {
	upErr      error
	downErr    error
	stepsErr   error
	version    uint
	dirty      bool
	versionErr error
	forceErr   error
	srcErr     error
	dbErr      error
	forced     int
}

func (f *fakeRunner) Up() error                    { return f.upErr }
func (f *fakeRunner) Down() error                  { return f.downErr }
func (f *fakeRunner) Steps(int) error              { return f.stepsErr }
func (f *fakeRunner) Version() (uint, bool, error) { return f.version, f.dirty, f.versionErr }
func (f *fakeRunner) Close() (error, error)        { return f.srcErr, f.dbErr }
func (f *fakeRunner) Force(v int) error {
	f.forced = v
	return f.forceErr
}

func TestNewMigrator_BadURL(t *testing.T) {
	_, err := NewMigrator("badscheme://localhost:5432/testdb")
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u@h/db", migrateURL("postgres://u@h/db"))
	assert.Equal(t, "pgx5://u@h/db", migrateURL("postgresql://u@h/db"))
	assert.Equal(t, "pgx5://u@h/db", migrateURL("pgx5://u@h/db"))
}

func TestMigrator_NoChangeIsSuccess(t *testing.T) {
	m := &Migrator{m: &fakeRunner{upErr: migrate.ErrNoChange, downErr: migrate.ErrNoChange, stepsErr: migrate.ErrNoChange}}
	require.NoError(t, m.Up())
	require.NoError(t, m.Down())
	require.NoError(t, m.Steps(0))
}

func TestMigrator_Errors(t *testing.T) {
	boom := errors.New("database locked")
	m := &Migrator{m: &fakeRunner{upErr: boom, downErr: boom, stepsErr: boom, versionErr: boom, forceErr: boom}}

	errutil.AssertErrorCode(t, m.Up(), "MIGRATION_UP_FAILED")
	errutil.AssertErrorCode(t, m.Down(), "MIGRATION_DOWN_FAILED")
	errutil.AssertErrorCode(t, m.Steps(-1), "MIGRATION_STEPS_FAILED")
	errutil.AssertErrorCode(t, m.Force(1), "MIGRATION_FORCE_FAILED")
	_, _, err := m.Version()
	errutil.AssertErrorCode(t, err, "MIGRATION_VERSION_FAILED")
	_, err = m.Status()
	errutil.AssertErrorCode(t, err, "MIGRATION_VERSION_FAILED")
}

func TestMigrator_Version(t *testing.T) {
	v, dirty, err := (&Migrator{m: &fakeRunner{versionErr: migrate.ErrNilVersion}}).Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), v)
	assert.False(t, dirty)

	v, dirty, err = (&Migrator{m: &fakeRunner{version: 2, dirty: true}}).Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)
	assert.True(t, dirty)
}

func TestMigrator_Force(t *testing.T) {
	runner := &fakeRunner{}
	m := &Migrator{m: runner}

	errutil.AssertErrorCode(t, m.Force(-1), "MIGRATION_INVALID_VERSION")
	require.NoError(t, m.Force(1))
	assert.Equal(t, 1, runner.forced)
}

func TestMigrator_Status(t *testing.T) {
	m := &Migrator{m: &fakeRunner{version: 1}}
	status, err := m.Status()
	require.NoError(t, err)

	assert.Equal(t, uint(1), status.Version)
	require.Len(t, status.Applied, 1)
	assert.Equal(t, "000001_principals", status.Applied[0].Name)
	require.NotEmpty(t, status.Pending)
	assert.Equal(t, uint(2), status.Pending[0].Version)
}

func TestMigrator_Close(t *testing.T) {
	require.NoError(t, (&Migrator{m: &fakeRunner{}}).Close())

	err := (&Migrator{m: &fakeRunner{srcErr: errors.New("source"), dbErr: errors.New("database")}}).Close()
	errutil.AssertErrorCode(t, err, "MIGRATION_CLOSE_FAILED")
	assert.Contains(t, err.Error(), "source")
	assert.Contains(t, err.Error(), "database")
}

func TestEmbeddedMigrations(t *testing.T) {
	migrations, err := EmbeddedMigrations()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(migrations), 2)
	assert.Equal(t, Migration{Version: 1, Name: "000001_principals"}, migrations[0])

	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].Version, migrations[i].Version)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	pattern := regexp.MustCompile(`^\d{6}_\w+\.(up|down)\.sql$`)
	for _, entry := range entries {
		assert.Regexp(t, pattern, entry.Name())
	}
	// Every up migration has a matching down.
	assert.Len(t, entries, 2*len(migrations))
}
