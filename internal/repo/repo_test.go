package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamdb/loam/internal/fieldtype"
	"github.com/loamdb/loam/internal/schema"
	"github.com/loamdb/loam/internal/store"
)

func userSchema() schema.Schema {
	return schema.Schema{
		Name:       "user",
		Source:     "users",
		PrimaryKey: "id",
		Fields: []schema.Field{
			{Name: "id", Type: fieldtype.KindUUID},
			{Name: "name", Type: fieldtype.KindString},
			{Name: "age", Type: fieldtype.KindInteger},
			{Name: "inserted_at", Type: fieldtype.KindDateTime},
		},
		ReadAfterWrites: []string{"inserted_at"},
	}
}

func openTestRepo(t *testing.T) *Repo {
	t.Helper()

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	err = st.Exec(context.Background(), `
		CREATE TABLE users (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			age         INTEGER,
			inserted_at TEXT NOT NULL DEFAULT '2024-01-01 00:00:00.000000'
		)
	`)
	require.NoError(t, err)

	return New(st, []schema.Schema{userSchema()})
}

func TestInsert_GeneratesPrimaryKey(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	rec, err := r.Insert(ctx, "user", map[string]any{
		"name": "ada",
		"age":  int64(36),
	})
	require.NoError(t, err)

	id, ok := rec["id"].(string)
	require.True(t, ok, "generated key is a string uuid")
	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	// Store-generated column comes back loaded, not as raw text.
	ts, ok := rec["inserted_at"].(time.Time)
	require.True(t, ok, "read-after-write column loaded to time.Time, got %T", rec["inserted_at"])
	assert.Equal(t, 2024, ts.Year())
}

func TestInsert_KeepsCallerKey(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	id := uuid.NewString()
	rec, err := r.Insert(ctx, "user", map[string]any{
		"id":   id,
		"name": "ada",
	})
	require.NoError(t, err)
	assert.Equal(t, id, rec["id"])
}

func TestInsert_DumpFailureNamesField(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	_, err := r.Insert(ctx, "user", map[string]any{
		"name": "ada",
		"age":  "thirty-six",
	})
	require.Error(t, err)
	require.True(t, IsFieldError(err))

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "user", fe.Model)
	assert.Equal(t, "age", fe.Field)
	assert.Equal(t, "integer", fieldtype.TypeString(fe.Type))
}

func TestInsert_UnknownField(t *testing.T) {
	r := openTestRepo(t)

	_, err := r.Insert(context.Background(), "user", map[string]any{
		"name":     "ada",
		"nickname": "a",
	})
	var ufe *UnknownFieldError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, "nickname", ufe.Field)
}

func TestInsert_UnknownModel(t *testing.T) {
	r := openTestRepo(t)

	_, err := r.Insert(context.Background(), "ghost", map[string]any{})
	var ume *UnknownModelError
	require.ErrorAs(t, err, &ume)
}

func TestInsert_DumpsDateTime(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 9, 13, 30, 0, 987654000, time.UTC)
	rec, err := r.Insert(ctx, "user", map[string]any{
		"name":        "ada",
		"inserted_at": at,
	})
	require.NoError(t, err)

	var stored string
	require.NoError(t, r.st.DB().QueryRow(
		"SELECT inserted_at FROM users WHERE id = ?", rec["id"]).Scan(&stored))
	assert.Equal(t, "2024-03-09 13:30:00.987654", stored)
}

func TestUpdate(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	rec, err := r.Insert(ctx, "user", map[string]any{"name": "ada", "age": int64(36)})
	require.NoError(t, err)

	updated, err := r.Update(ctx, "user", rec["id"], map[string]any{"age": int64(37)})
	require.NoError(t, err)
	assert.Equal(t, int64(37), updated["age"])
	assert.Equal(t, rec["id"], updated["id"])
}

func TestUpdate_MissingRowIsStale(t *testing.T) {
	r := openTestRepo(t)

	_, err := r.Update(context.Background(), "user", uuid.NewString(), map[string]any{"age": int64(1)})
	var se *store.StaleError
	require.ErrorAs(t, err, &se)
}

func TestDelete(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	rec, err := r.Insert(ctx, "user", map[string]any{"name": "ada"})
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, "user", rec["id"]))

	var se *store.StaleError
	require.ErrorAs(t, r.Delete(ctx, "user", rec["id"]), &se)
}

func TestTransaction_RollsBack(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := r.Transaction(ctx, func(txr *Repo) error {
		if _, err := txr.Insert(ctx, "user", map[string]any{"name": "ada"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, r.st.DB().QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Zero(t, count)
}
