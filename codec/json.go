package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Configuration snapshots contain only maps, slices, strings and numbers,
// so both JSON codecs produce interchangeable output. Map keys are written
// in sorted order, which keeps encoded configurations stable for
// fingerprinting.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used for configuration snapshots, fingerprints and
// new generation records.
var Default Codec = GoJSON{}
