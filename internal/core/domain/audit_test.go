package domain

import "testing"

func TestDiffChanges(t *testing.T) {
	before := map[string]interface{}{
		"name":   "Trek Marlin 7",
		"status": "in_use",
		"price":  1000,
	}
	after := map[string]interface{}{
		"name":   "Trek Marlin 7",
		"status": "sold",
		"price":  float64(1000), // json round trip turns ints into float64
	}

	changes := DiffChanges(before, after)
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1: %v", len(changes), changes)
	}
	c, ok := changes["status"]
	if !ok {
		t.Fatal("status change missing")
	}
	if c.Old != "in_use" || c.New != "sold" {
		t.Errorf("status change = %v → %v, want in_use → sold", c.Old, c.New)
	}
}

func TestDiffChangesRemovedField(t *testing.T) {
	before := map[string]interface{}{"serial_number": "ABC123"}
	after := map[string]interface{}{}

	changes := DiffChanges(before, after)
	c, ok := changes["serial_number"]
	if !ok {
		t.Fatal("removed field should appear in diff")
	}
	if c.Old != "ABC123" || c.New != nil {
		t.Errorf("removed field = %v → %v, want ABC123 → nil", c.Old, c.New)
	}
}

func TestDiffChangesAddedField(t *testing.T) {
	changes := DiffChanges(map[string]interface{}{}, map[string]interface{}{"frame": "carbon"})
	c, ok := changes["frame"]
	if !ok {
		t.Fatal("added field should appear in diff")
	}
	if c.Old != nil || c.New != "carbon" {
		t.Errorf("added field = %v → %v, want nil → carbon", c.Old, c.New)
	}
}

func TestDiffChangesIdenticalIsNil(t *testing.T) {
	snap := map[string]interface{}{"name": "same", "n": 1}
	if changes := DiffChanges(snap, snap); changes != nil {
		t.Errorf("identical snapshots should diff to nil, got %v", changes)
	}
}

func TestFormatChangesSortedOutput(t *testing.T) {
	changes := map[string]FieldChange{
		"status": {Old: "in_use", New: "sold"},
		"brand":  {Old: "Trek", New: "Giant"},
	}
	got := FormatChanges(changes)
	want := `brand: "Trek" → "Giant", status: "in_use" → "sold"`
	if got != want {
		t.Errorf("FormatChanges = %q, want %q", got, want)
	}
}

func TestFormatChangesEmpty(t *testing.T) {
	if got := FormatChanges(nil); got != "" {
		t.Errorf("empty diff should format to empty string, got %q", got)
	}
}
