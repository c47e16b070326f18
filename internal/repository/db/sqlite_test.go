package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const latestVersion = 2

func TestInitDB_MigratesAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nav.db")

	conn, err := InitDB(path)
	require.NoError(t, err)
	for _, table := range []string{"robot_state", "robot_events", "users"} {
		var n int
		require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n))
		assert.Equal(t, 1, n, "table %s", table)
	}
	require.NoError(t, conn.Close())

	conn, err = InitDB(path)
	require.NoError(t, err, "reopening a migrated database must be a no-op")
	t.Cleanup(func() { _ = conn.Close() })
	v, err := MigrateUp(conn)
	require.NoError(t, err)
	assert.EqualValues(t, latestVersion, v)
}

func TestMigrateUp_RolesForExistingUsers(t *testing.T) {
	conn, err := sql.Open(sqliteDriverName, filepath.Join(t.TempDir(), "old.db"))
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	m, err := newMigrate(conn)
	require.NoError(t, err)
	require.NoError(t, m.Migrate(1))
	_, err = conn.Exec(`INSERT INTO users (username, password_hash) VALUES ('ada', 'h1'), ('bob', 'h2')`)
	require.NoError(t, err)

	v, err := MigrateUp(conn)
	require.NoError(t, err)
	assert.EqualValues(t, latestVersion, v)

	roles := map[string]string{}
	rows, err := conn.Query(`SELECT username, role FROM users`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var name, role string
		require.NoError(t, rows.Scan(&name, &role))
		roles[name] = role
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, map[string]string{"ada": "operator", "bob": "viewer"}, roles)
}

func TestInitDB_BadPath(t *testing.T) {
	_, err := InitDB(filepath.Join(t.TempDir(), "missing", "dir", "nav.db"))
	assert.Error(t, err)
}
