package render

import "encoding/json"

// RenderJSON encodes the snapshot as indented JSON.
func RenderJSON(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
