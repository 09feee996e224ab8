package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	err = s.Exec(context.Background(), `
		CREATE TABLE users (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			age         INTEGER,
			inserted_at TEXT DEFAULT '2024-01-01 00:00:00.000000'
		)
	`)
	require.NoError(t, err)
	return s
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var mode string
	err = s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)
}

func TestInsert_ReturnsGeneratedColumns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	row, err := s.Insert(ctx, "users",
		map[string]any{"id": "u1", "name": "ada", "age": int64(36)},
		[]string{"id", "inserted_at"})
	require.NoError(t, err)

	assert.Equal(t, "u1", row["id"])
	assert.Equal(t, "2024-01-01 00:00:00.000000", row["inserted_at"])
}

func TestInsert_NoReturning(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	row, err := s.Insert(ctx, "users",
		map[string]any{"id": "u1", "name": "ada"}, nil)
	require.NoError(t, err)
	assert.Empty(t, row)

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUpdate_MatchedRow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, "users", map[string]any{"id": "u1", "name": "ada", "age": int64(36)}, nil)
	require.NoError(t, err)

	row, err := s.Update(ctx, "users",
		map[string]any{"age": int64(37)},
		[]FieldValue{{Name: "id", Value: "u1"}},
		[]string{"age"})
	require.NoError(t, err)
	assert.Equal(t, int64(37), row["age"])
}

func TestUpdate_NoMatchIsStale(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Update(ctx, "users",
		map[string]any{"age": int64(1)},
		[]FieldValue{{Name: "id", Value: "missing"}}, nil)
	require.Error(t, err)

	var se *StaleError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "update", se.Op)
	assert.Equal(t, "users", se.Source)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, "users", map[string]any{"id": "u1", "name": "ada"}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "users", []FieldValue{{Name: "id", Value: "u1"}}))

	err = s.Delete(ctx, "users", []FieldValue{{Name: "id", Value: "u1"}})
	var se *StaleError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "delete", se.Op)
}

func TestDelete_NullFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, "users", map[string]any{"id": "u1", "name": "ada", "age": nil}, nil)
	require.NoError(t, err)

	err = s.Delete(ctx, "users", []FieldValue{
		{Name: "id", Value: "u1"},
		{Name: "age", Value: nil},
	})
	require.NoError(t, err)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx *Tx) error {
		if _, err := tx.Insert(ctx, "users", map[string]any{"id": "u1", "name": "ada"}, nil); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Zero(t, count, "insert rolled back")
}

func TestTransaction_Commits(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx *Tx) error {
		_, err := tx.Insert(ctx, "users", map[string]any{"id": "u1", "name": "ada"}, nil)
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 1, count)
}
