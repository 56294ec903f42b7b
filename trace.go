package presentation

import "encoding/json"

const columnOrderPath = "columnOrder"

// Trace captures which scoped layers contributed to a resolved value.
type Trace struct {
	Path   string       `json:"path"`
	Layers []Provenance `json:"layers"`
}

// Provenance describes one layer's contribution to a traced path.
type Provenance struct {
	Scope      Scope    `json:"scope"`
	SnapshotID string   `json:"snapshot_id,omitempty"`
	Path       string   `json:"path"`
	Value      []string `json:"value,omitempty"`
	Found      bool     `json:"found"`
}

// Winner returns the strongest layer that provided a value.
func (t Trace) Winner() (Provenance, bool) {
	for _, layer := range t.Layers {
		if layer.Found {
			return layer, true
		}
	}
	return Provenance{}, false
}

// ToJSON serialises the trace for logging or transport.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON parses a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
