package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafritemema/MARS-data-build/internal/ir"
)

func TestOpen_CreatesFileAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mars.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "open %d", i)

		var count int
		require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM sequences").Scan(&count))
		assert.Equal(t, 0, count)
		require.NoError(t, s.Close())
	}

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_KeepsStoredSequences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mars.db")
	seq := createTestSequence(t, drillAction(), "u1")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.WriteSequence(context.Background(), seq)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.ReadSequence(context.Background(), seq.ID)
	require.NoError(t, err)
	id, err := ir.SequenceID(got.Commands)
	require.NoError(t, err)
	assert.Equal(t, seq.ID, id)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/mars.db")
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())

	s, err := Open(filepath.Join(t.TempDir(), "mars.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	_ = s.Close()
}

func TestPragmas(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"},
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.pragma, func(t *testing.T) {
			var got string
			require.NoError(t, s.db.QueryRow("PRAGMA "+tt.pragma).Scan(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchema(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		table   string
		columns []string
		indexes []string
	}{
		{
			table:   "sequences",
			columns: []string{"id", "shape_hash", "action_type", "description", "command_count", "compiler_version", "ir_version", "seq"},
			indexes: []string{"idx_sequences_seq", "idx_sequences_shape"},
		},
		{
			table:   "commands",
			columns: []string{"sequence_id", "position", "origin", "action", "description", "definition"},
		},
		{
			table:   "trackers",
			columns: []string{"sequence_id", "uid", "position", "wait_position", "kind", "path", "reg", "interval_ms"},
			indexes: []string{"idx_trackers_uid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			assert.Equal(t, tt.columns, tableColumns(t, s.db, tt.table))
			indexes := tableIndexes(t, s.db, tt.table)
			for _, idx := range tt.indexes {
				assert.Contains(t, indexes, idx)
			}
		})
	}
}

func TestSchema_CommandsNeedSequence(t *testing.T) {
	s := createTestStore(t)

	_, err := s.db.Exec(`
		INSERT INTO commands (sequence_id, position, origin, action, description, definition)
		VALUES ('missing', 0, 'PROXY', 'WAIT', '', '{"uid":"u1"}')
	`)
	assert.Error(t, err, "foreign key must reject an orphan command")
}

func TestSchema_CommandPositionUnique(t *testing.T) {
	s := createTestStore(t)

	_, err := s.db.Exec(`
		INSERT INTO sequences (id, shape_hash, action_type, command_count, compiler_version, ir_version, seq)
		VALUES ('s1', 'h1', 'WORK.DRILL', 2, '0.1.0', '1', 1)
	`)
	require.NoError(t, err)

	insert := `
		INSERT INTO commands (sequence_id, position, origin, action, description, definition)
		VALUES ('s1', 0, 'PROXY', 'WAIT', '', '{"uid":"u1"}')
	`
	_, err = s.db.Exec(insert)
	require.NoError(t, err)
	_, err = s.db.Exec(insert)
	assert.Error(t, err, "a position holds one command")
}

func TestMigrate_FromUnversioned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mars.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(schemaSQL)
	require.NoError(t, err)
	_, err = db.Exec("PRAGMA user_version = 0")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, schemaVersion(), userVersion(t, s.db))
	assert.Contains(t, tableIndexes(t, s.db, "sequences"), "idx_sequences_shape")
}

func TestMigrate_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mars.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err)
		assert.Equal(t, schemaVersion(), userVersion(t, s.db), "open %d", i)
		require.NoError(t, s.Close())
	}
}

func userVersion(t *testing.T, db *sql.DB) int {
	t.Helper()
	var v int
	require.NoError(t, db.QueryRow("PRAGMA user_version").Scan(&v))
	return v
}

func tableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
	require.NoError(t, err)
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		columns = append(columns, name)
	}
	require.NoError(t, rows.Err())
	return columns
}

func tableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = ?", table)
	require.NoError(t, err)
	defer rows.Close()

	var indexes []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		indexes = append(indexes, name)
	}
	require.NoError(t, rows.Err())
	return indexes
}
