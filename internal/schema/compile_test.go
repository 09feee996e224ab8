package schema

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamdb/loam/internal/fieldtype"
)

func TestCompileModelBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		model: user: {
			source: "users"
			primary_key: "id"

			fields: {
				id: "uuid"
				name: "string"
				age: "integer"
				tags: "[]string"
				inserted_at: "datetime"
			}

			read_after_writes: ["id", "inserted_at"]
		}
	`)

	require.NoError(t, v.Err())
	modelVal := v.LookupPath(cue.ParsePath("model.user"))

	s, err := CompileModel(modelVal)
	require.NoError(t, err)

	assert.Equal(t, "user", s.Name)
	assert.Equal(t, "users", s.Source)
	assert.Equal(t, "id", s.PrimaryKey)
	assert.Equal(t, []string{"id", "name", "age", "tags", "inserted_at"}, s.FieldNames())
	assert.Equal(t, []string{"id", "inserted_at"}, s.ReadAfterWrites)

	typ, ok := s.TypeOf("tags")
	require.True(t, ok)
	assert.Equal(t, fieldtype.Array{Elem: fieldtype.KindString}, typ)

	typ, ok = s.TypeOf("id")
	require.True(t, ok)
	assert.Equal(t, fieldtype.KindUUID, typ)

	assert.True(t, s.HasField("name"))
	assert.False(t, s.HasField("nmae"))
}

func TestCompileModelMissingSource(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		model: bad: {
			fields: { id: "uuid" }
		}
	`)

	require.NoError(t, v.Err())
	_, err := CompileModel(v.LookupPath(cue.ParsePath("model.bad")))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "source")
	assert.Contains(t, err.Error(), "required")
}

func TestCompileModelMissingFields(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		model: empty: {
			source: "empties"
		}
	`)

	require.NoError(t, v.Err())
	_, err := CompileModel(v.LookupPath(cue.ParsePath("model.empty")))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "field")
	assert.Contains(t, err.Error(), "required")
}

func TestCompileModelUnknownType(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		model: bad: {
			source: "bads"
			fields: { amount: "money" }
		}
	`)

	require.NoError(t, v.Err())
	_, err := CompileModel(v.LookupPath(cue.ParsePath("model.bad")))

	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "fields.amount", ce.Field)
	assert.Contains(t, ce.Message, "money")
}

func TestCompileModelPrimaryKeyMustExist(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		model: bad: {
			source: "bads"
			primary_key: "uid"
			fields: { id: "uuid" }
		}
	`)

	require.NoError(t, v.Err())
	_, err := CompileModel(v.LookupPath(cue.ParsePath("model.bad")))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "uid")
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("decimal")
	require.NoError(t, err)
	assert.Equal(t, fieldtype.KindDecimal, typ)

	typ, err = ParseType("[][]integer")
	require.NoError(t, err)
	assert.Equal(t, fieldtype.Array{Elem: fieldtype.Array{Elem: fieldtype.KindInteger}}, typ)

	_, err = ParseType("[]money")
	require.Error(t, err)
}
