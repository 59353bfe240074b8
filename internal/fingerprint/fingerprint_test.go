package fingerprint

import (
	"errors"
	"regexp"
	"testing"

	"github.com/alembic-io/alembic/internal/record"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestCompute_FixedWidthHex(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	records := []record.Record{
		record.NewIngredient("Bloated Bolete"),
		record.NewProcessedIngredient("Dried Morel"),
		record.NewPotion(),
	}

	for _, rec := range records {
		fp, err := Compute(rec)
		if err != nil {
			t.Fatalf("Compute(%T) unexpected error: %v", rec, err)
		}

		if len(fp) != HexLength {
			t.Errorf("Compute(%T) length = %d, want %d", rec, len(fp), HexLength)
		}

		if !hexPattern.MatchString(fp) {
			t.Errorf("Compute(%T) = %q, want lowercase fixed-width hex", rec, fp)
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	potion := record.NewPotion()
	potion.BuffNames = []string{"Strength", "Agility"}
	potion.HealNames = []string{"Aching Joints"}
	potion.ComposedOf = []string{"Dried Morel (Morel)", "Honey"}

	first, err := Compute(potion)
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}

	second, err := Compute(potion)
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("Compute() not deterministic: %q != %q", first, second)
	}
}

func TestCompute_OrderSensitive(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	a := record.NewPotion()
	a.BuffNames = []string{"Strength", "Agility"}

	b := record.NewPotion()
	b.BuffNames = []string{"Agility", "Strength"}

	fpA, err := Compute(a)
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}

	fpB, err := Compute(b)
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}

	if fpA == fpB {
		t.Error("Compute() ignored list order, want order-sensitive digests")
	}
}

func TestCompute_CategoriesDiffer(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	// Same name, different category: the canonical tag keeps them apart.
	ing := record.NewIngredient("Morel")
	proc := record.NewProcessedIngredient("Morel")
	proc.ComposedOf = []string{}

	fpIng, err := Compute(ing)
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}

	fpProc, err := Compute(proc)
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}

	if fpIng == fpProc {
		t.Error("Compute() collided across categories")
	}
}

func TestCanonical(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	proc := record.NewProcessedIngredient("Stew")
	proc.ComposedOf = []string{"Dried Morel (Morel)", "Water"}

	potion := record.NewPotion()
	potion.BuffNames = []string{"Strength"}
	potion.HealNames = []string{"Aching Joints"}
	potion.WoundNames = []string{"Upset Stomach"}
	potion.ComposedOf = []string{"Honey"}

	tests := []struct {
		name string
		rec  record.Record
		want string
	}{
		{
			name: "ingredient",
			rec:  record.NewIngredient("Morel"),
			want: "ingredient;Morel",
		},
		{
			name: "processed ingredient",
			rec:  proc,
			want: "processed;Stew;Dried Morel (Morel);Water;",
		},
		{
			name: "potion",
			rec:  potion,
			want: "potion;buff:Strength;heal:Aching Joints;wound:Upset Stomach;Honey;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonical(tt.rec)
			if err != nil {
				t.Fatalf("Canonical() unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("Canonical() = %q, want %q", got, tt.want)
			}
		})
	}
}

type bogusRecord struct{}

func (bogusRecord) RecordKind() record.Kind { return record.Kind("bogus") }
func (bogusRecord) SetFingerprint(string)   {}

func TestCompute_UnknownRecord(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	_, err := Compute(bogusRecord{})
	if !errors.Is(err, ErrUnknownRecord) {
		t.Errorf("Compute() error = %v, want ErrUnknownRecord", err)
	}
}
