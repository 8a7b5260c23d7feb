package utils

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyJSONPatch applies an RFC 6902 operation sequence (replace/add/remove)
// to doc in order. doc must be a pointer to a JSON-serializable value; it is
// round-tripped through JSON so the patch operates on the wire shape, not on
// Go field names. Any malformed or inapplicable operation fails the whole
// patch and leaves doc untouched.
func ApplyJSONPatch(doc any, ops []byte) error {
	patch, err := jsonpatch.DecodePatch(ops)
	if err != nil {
		return err
	}
	orig, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	patched, err := patch.Apply(orig)
	if err != nil {
		return err
	}
	return json.Unmarshal(patched, doc)
}
