package cognite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_RoundTrip(t *testing.T) {
	t.Parallel()

	p := Partition{Index: 2, Of: 5}
	parsed, err := ParsePartition(p.String())
	require.NoError(t, err)
	assert.Equal(t, p, parsed)
	assert.Equal(t, "2/5", p.String())
}

func TestParsePartition_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParsePartition("not-a-partition")
	require.Error(t, err)

	_, err = ParsePartition("a/3")
	require.Error(t, err)
}

func TestQueryParams_OmitsAbsentOptionals(t *testing.T) {
	t.Parallel()

	q := NewQueryParams().
		Set("limit", "10").
		SetOptional("cursor", "abc", false).
		SetOptional("source", "x", true)

	values := q.Values()
	assert.Equal(t, "10", values.Get("limit"))
	assert.Empty(t, values.Get("cursor"))
	assert.Equal(t, "x", values.Get("source"))
}

func TestQueryParams_SetEachFlattensRepeatedKeys(t *testing.T) {
	t.Parallel()

	q := NewQueryParams().SetEach("ids", []string{"a", "b", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, q.Values()["ids"])
}

func TestQueryParams_SetJoined(t *testing.T) {
	t.Parallel()

	q := NewQueryParams().SetJoined("fields", []string{"a", "b"})
	assert.Equal(t, "a,b", q.Values().Get("fields"))
}

func TestQueryParams_NilReceiverYieldsEmptyValues(t *testing.T) {
	t.Parallel()

	var q *QueryParams
	assert.Empty(t, q.Values())
}
