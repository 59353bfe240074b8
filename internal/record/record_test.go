package record

import (
	"encoding/json"
	"testing"
)

func TestAppendUnique(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	list := []string{}
	list = AppendUnique(list, "Strength")
	list = AppendUnique(list, "Agility")
	list = AppendUnique(list, "Strength")

	if len(list) != 2 {
		t.Fatalf("AppendUnique() produced %d entries, want 2", len(list))
	}

	// First-seen order preserved.
	if list[0] != "Strength" || list[1] != "Agility" {
		t.Errorf("AppendUnique() order = %v, want [Strength Agility]", list)
	}
}

func TestWireShape_EmptyListsNeverNull(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	records := []Record{
		NewIngredient("Morel"),
		NewProcessedIngredient("Stew"),
		NewPotion(),
	}

	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("marshal %s: %v", r.RecordKind(), err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal %s: %v", r.RecordKind(), err)
		}

		if decoded["type"] != string(r.RecordKind()) {
			t.Errorf("type = %v, want %s", decoded["type"], r.RecordKind())
		}

		for field, value := range decoded {
			if value == nil {
				t.Errorf("%s field %q serialized as null, want empty array", r.RecordKind(), field)
			}
		}
	}
}

func TestWireShape_FingerprintOmittedUntilSet(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	ing := NewIngredient("Morel")

	data, err := json.Marshal(ing)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if _, ok := decoded["fingerprint"]; ok {
		t.Error("fingerprint present before SetFingerprint")
	}

	ing.SetFingerprint("fp-1")

	data, err = json.Marshal(ing)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded["fingerprint"] != "fp-1" {
		t.Errorf("fingerprint = %v, want fp-1", decoded["fingerprint"])
	}
}

func TestRecordKinds(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	if NewIngredient("x").RecordKind() != KindIngredient {
		t.Error("ingredient kind mismatch")
	}

	if NewProcessedIngredient("x").RecordKind() != KindProcessedIngredient {
		t.Error("processed ingredient kind mismatch")
	}

	if NewPotion().RecordKind() != KindPotion {
		t.Error("potion kind mismatch")
	}
}
