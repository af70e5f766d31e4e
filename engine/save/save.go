// Package save implements JSON serialization and deserialization of the
// application state.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/duopoly/engine/contour"
	"github.com/nathoo/duopoly/types"
)

// FormatVersion is written into every save file.
const FormatVersion = "1"

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version    string         `json:"version"`
	BR1        string         `json:"br1"`
	BR2        string         `json:"br2"`
	Scenario   types.Scenario `json:"scenario"`
	ShowIso    bool           `json:"show_iso"`
	ShowRegion bool           `json:"show_region"`
	IsoLevels  int            `json:"iso_levels"`
}

// Save serializes state to JSON bytes.
func Save(s SaveData) ([]byte, error) {
	s.Version = FormatVersion
	return json.MarshalIndent(s, "", "  ")
}

// Load deserializes JSON bytes into SaveData. Missing or invalid fields are
// normalized: an unknown scenario becomes Cournot and the iso-line count is
// clamped to its allowed range. Empty formulas are left empty so the caller
// can substitute its defaults.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("decoding save: %w", err)
	}
	if !sd.Scenario.Valid() {
		sd.Scenario = types.ScenarioCournot
	}
	if sd.IsoLevels == 0 {
		sd.IsoLevels = contour.DefaultLevels
	}
	sd.IsoLevels = contour.ClampLevels(sd.IsoLevels)
	return &sd, nil
}
