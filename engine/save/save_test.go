package save

import (
	"encoding/json"
	"testing"

	"github.com/nathoo/duopoly/types"
)

func TestRoundTrip(t *testing.T) {
	in := SaveData{
		BR1:        "(90 - q2)/2",
		BR2:        "(100 - q1)/2",
		Scenario:   types.ScenarioStackelberg2,
		ShowIso:    true,
		ShowRegion: false,
		IsoLevels:  5,
	}

	data, err := Save(in)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if sd.Version != FormatVersion {
		t.Errorf("expected version %q, got %q", FormatVersion, sd.Version)
	}
	if sd.BR1 != in.BR1 || sd.BR2 != in.BR2 {
		t.Errorf("formulas mismatch: %q, %q", sd.BR1, sd.BR2)
	}
	if sd.Scenario != types.ScenarioStackelberg2 {
		t.Errorf("expected scenario stackelberg2, got %q", sd.Scenario)
	}
	if !sd.ShowIso || sd.ShowRegion {
		t.Errorf("toggles mismatch: iso=%v region=%v", sd.ShowIso, sd.ShowRegion)
	}
	if sd.IsoLevels != 5 {
		t.Errorf("expected 5 iso levels, got %d", sd.IsoLevels)
	}
}

func TestSave_ProducesValidJSON(t *testing.T) {
	data, err := Save(SaveData{Scenario: types.ScenarioCournot, IsoLevels: 3})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !json.Valid(data) {
		t.Fatal("Save output is not valid JSON")
	}

	var raw map[string]any
	json.Unmarshal(data, &raw)
	if raw["scenario"] != "cournot" {
		t.Errorf("expected scenario 'cournot', got %v", raw["scenario"])
	}
	if raw["version"] != FormatVersion {
		t.Errorf("expected version %q, got %v", FormatVersion, raw["version"])
	}
}

func TestLoad_Normalizes(t *testing.T) {
	data := []byte(`{"scenario":"bertrand","iso_levels":12}`)

	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sd.Scenario != types.ScenarioCournot {
		t.Errorf("expected unknown scenario to become cournot, got %q", sd.Scenario)
	}
	if sd.IsoLevels != 7 {
		t.Errorf("expected iso levels clamped to 7, got %d", sd.IsoLevels)
	}
}

func TestLoad_MissingOptionalFields(t *testing.T) {
	sd, err := Load([]byte(`{}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sd.IsoLevels != 3 {
		t.Errorf("expected default 3 iso levels, got %d", sd.IsoLevels)
	}
	if sd.BR1 != "" || sd.BR2 != "" {
		t.Error("expected empty formulas to stay empty")
	}
}

func TestLoad_Garbage(t *testing.T) {
	if _, err := Load([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
