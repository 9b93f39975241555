package cognite

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateSet_Wire(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(UpdateSet[string]{Value: "new-name"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"set":"new-name"}`, string(data))
}

func TestUpdateSetNull_MutualExclusion(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(SetValue(42))
	require.NoError(t, err)
	assert.JSONEq(t, `{"set":42}`, string(data))

	data, err = json.Marshal(SetNull[int]())
	require.NoError(t, err)
	assert.JSONEq(t, `{"setNull":true}`, string(data))

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	_, hasSet := raw["set"]
	_, hasSetNull := raw["setNull"]
	assert.False(t, hasSet && hasSetNull, "set and setNull must never both appear")
}

func TestUpdateList_AdditiveOmitsEmptyDeltas(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(AddRemove[string, string]([]string{"a"}, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"add":["a"]}`, string(data))

	data, err = json.Marshal(AddRemove[string, string](nil, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestUpdateList_Replace(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ReplaceList[string, string]([]string{"x", "y"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"set":["x","y"]}`, string(data))

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	_, hasAdd := raw["add"]
	assert.False(t, hasAdd, "set and add must never both appear")
}

func TestUpdateMap_AdditiveAndReplace(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(AddRemoveMap(map[string]string{"k": "v"}, []string{"old"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"add":{"k":"v"},"remove":["old"]}`, string(data))

	data, err = json.Marshal(ReplaceMap(map[string]string{"k2": "v2"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"set":{"k2":"v2"}}`, string(data))
}

func TestPatch_FlattensIdentityAlongsideUpdate(t *testing.T) {
	t.Parallel()

	p := Patch[struct {
		Name UpdateSet[string] `json:"name"`
	}]{
		Identity: IdentityByExternalID("asset-1"),
		Update: struct {
			Name UpdateSet[string] `json:"name"`
		}{Name: UpdateSet[string]{Value: "renamed"}},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"externalId":"asset-1","update":{"name":{"set":"renamed"}}}`, string(data))
}
