package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchDoc struct {
	ID      uint64  `json:"id"`
	Name    string  `json:"name"`
	Rate    float64 `json:"rate"`
	Details string  `json:"details"`
}

func TestApplyJSONPatchReplace(t *testing.T) {
	doc := patchDoc{ID: 1, Name: "Pool Villa", Rate: 200, Details: "old"}
	ops := []byte(`[
		{"op":"replace","path":"/name","value":"Lagoon Villa"},
		{"op":"replace","path":"/rate","value":350}
	]`)

	require.NoError(t, ApplyJSONPatch(&doc, ops))
	assert.Equal(t, "Lagoon Villa", doc.Name)
	assert.Equal(t, 350.0, doc.Rate)
	// Fields outside the operation list are untouched.
	assert.Equal(t, uint64(1), doc.ID)
	assert.Equal(t, "old", doc.Details)
}

func TestApplyJSONPatchOperatesOnWireNames(t *testing.T) {
	// Paths address JSON property names, not Go field names.
	doc := patchDoc{ID: 1, Name: "x"}
	err := ApplyJSONPatch(&doc, []byte(`[{"op":"replace","path":"/Name","value":"y"}]`))
	assert.Error(t, err)
	assert.Equal(t, "x", doc.Name)
}

func TestApplyJSONPatchMalformed(t *testing.T) {
	doc := patchDoc{ID: 1, Name: "Pool Villa"}

	// Not an operation array.
	err := ApplyJSONPatch(&doc, []byte(`{"name":"y"}`))
	assert.Error(t, err)

	// Inapplicable test op fails the whole patch and leaves doc untouched.
	err = ApplyJSONPatch(&doc, []byte(`[
		{"op":"test","path":"/name","value":"Other"},
		{"op":"replace","path":"/name","value":"y"}
	]`))
	assert.Error(t, err)
	assert.Equal(t, "Pool Villa", doc.Name)
}
