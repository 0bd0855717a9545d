package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(1), version)

	return db
}

func TestKVStoreRoundTrip(t *testing.T) {
	store := NewKVStore(newTestDB(t))

	_, found, err := store.Get("cosmic-user")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set("cosmic-user", `{"email":"a@b.co"}`))
	value, found, err := store.Get("cosmic-user")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"email":"a@b.co"}`, value)

	require.NoError(t, store.Set("cosmic-user", `{"email":"c@d.co"}`))
	value, _, err = store.Get("cosmic-user")
	require.NoError(t, err)
	assert.Equal(t, `{"email":"c@d.co"}`, value, "set must overwrite")

	require.NoError(t, store.Delete("cosmic-user"))
	_, found, err = store.Get("cosmic-user")
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, store.Delete("cosmic-user"), "deleting a missing key is not an error")
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := newTestDB(t)

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestNewConnectionCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "neo.db")

	db, err := NewConnection(path)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
}

func TestKVStoreErrors(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	store := NewKVStore(&DB{sqlDB})
	dbErr := errors.New("disk I/O error")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = ?")).
		WithArgs("k").
		WillReturnError(dbErr)
	_, found, err := store.Get("k")
	assert.ErrorIs(t, err, dbErr)
	assert.False(t, found)

	mock.ExpectExec("INSERT INTO kv").
		WithArgs("k", "v").
		WillReturnError(dbErr)
	assert.ErrorIs(t, store.Set("k", "v"), dbErr)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv WHERE key = ?")).
		WithArgs("k").
		WillReturnError(dbErr)
	assert.ErrorIs(t, store.Delete("k"), dbErr)

	mock.ExpectQuery("SELECT value FROM kv").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	_, found, err = store.Get("missing")
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, mock.ExpectationsWereMet())
}
