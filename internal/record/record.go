// Package record defines the normalized, category-specific records produced
// by extraction and shipped to the codex endpoint.
//
// Records are a tagged union over three variants. On the wire each record
// serializes all its fields plus a "type" discriminator and the record's
// content fingerprint, which the remote side uses as a correlation id.
package record

// Kind is the wire discriminator for a record variant.
type Kind string

// Record kinds as they appear in the "type" field of serialized records.
const (
	KindIngredient          Kind = "ingredient"
	KindProcessedIngredient Kind = "processed_ingredient"
	KindPotion              Kind = "potion"
)

// Record is the tagged union over the three record variants.
type Record interface {
	// RecordKind returns the variant's wire discriminator.
	RecordKind() Kind

	// SetFingerprint stamps the record's content fingerprint for the wire.
	SetFingerprint(fp string)
}

// Ingredient is a base component carrying effect facets but no recipe.
// Effect lists hold display labels, first-seen order, no duplicates.
type Ingredient struct {
	Type              Kind     `json:"type"`
	Name              string   `json:"name"`
	Buffs             []string `json:"buffs"`
	Heals             []string `json:"heals"`
	DurationModifiers []string `json:"durationModifiers"`
	Fingerprint       string   `json:"fingerprint,omitempty"`
}

// NewIngredient returns an Ingredient with its discriminator set and all
// lists initialized so the record serializes with empty arrays, never null.
func NewIngredient(name string) *Ingredient {
	return &Ingredient{
		Type:              KindIngredient,
		Name:              name,
		Buffs:             []string{},
		Heals:             []string{},
		DurationModifiers: []string{},
	}
}

// RecordKind implements Record.
func (*Ingredient) RecordKind() Kind { return KindIngredient }

// SetFingerprint implements Record.
func (r *Ingredient) SetFingerprint(fp string) { r.Fingerprint = fp }

// ProcessedIngredient is a component bearing a recipe. ComposedOf holds the
// expanded composition strings, one per top-level input, in declared order,
// and is never empty; extraction rejects a processed ingredient without a
// resolvable recipe before it can reach the queue.
type ProcessedIngredient struct {
	Type              Kind     `json:"type"`
	Name              string   `json:"name"`
	Buffs             []string `json:"buffs"`
	Heals             []string `json:"heals"`
	DurationModifiers []string `json:"durationModifiers"`
	ComposedOf        []string `json:"composedOf"`
	Fingerprint       string   `json:"fingerprint,omitempty"`
}

// NewProcessedIngredient returns a ProcessedIngredient with its
// discriminator set and all lists initialized.
func NewProcessedIngredient(name string) *ProcessedIngredient {
	return &ProcessedIngredient{
		Type:              KindProcessedIngredient,
		Name:              name,
		Buffs:             []string{},
		Heals:             []string{},
		DurationModifiers: []string{},
		ComposedOf:        []string{},
	}
}

// RecordKind implements Record.
func (*ProcessedIngredient) RecordKind() Kind { return KindProcessedIngredient }

// SetFingerprint implements Record.
func (r *ProcessedIngredient) SetFingerprint(fp string) { r.Fingerprint = fp }

// Potion is a brewed elixir. Its effect lists carry names only, never
// magnitudes, bucketed by the effect's structural kind.
type Potion struct {
	Type        Kind     `json:"type"`
	BuffNames   []string `json:"buffNames"`
	HealNames   []string `json:"healNames"`
	WoundNames  []string `json:"woundNames"`
	ComposedOf  []string `json:"composedOf"`
	Fingerprint string   `json:"fingerprint,omitempty"`
}

// NewPotion returns a Potion with its discriminator set and all lists
// initialized.
func NewPotion() *Potion {
	return &Potion{
		Type:       KindPotion,
		BuffNames:  []string{},
		HealNames:  []string{},
		WoundNames: []string{},
		ComposedOf: []string{},
	}
}

// RecordKind implements Record.
func (*Potion) RecordKind() Kind { return KindPotion }

// SetFingerprint implements Record.
func (r *Potion) SetFingerprint(fp string) { r.Fingerprint = fp }

// AppendUnique appends label to list only if not already present, preserving
// first-seen order. Effect lists have order-preserving set semantics.
func AppendUnique(list []string, label string) []string {
	for _, existing := range list {
		if existing == label {
			return list
		}
	}

	return append(list, label)
}
