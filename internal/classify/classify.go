// Package classify decides which alchemical category an item descriptor
// belongs to by testing for the presence of specific facet kinds.
//
// Classification is pure pattern matching over the closed facet kind set;
// it never reads facet payloads, so a descriptor with unresolved attachments
// still classifies cleanly. Extraction (internal/extract) is responsible for
// payload-level failures.
package classify

import (
	"github.com/alembic-io/alembic/internal/facet"
)

// Category is the classification result for one descriptor.
type Category int

// Categories, mutually exclusive. Precedence is fixed: a descriptor carrying
// both a recipe and effect facets is a processed ingredient, never a plain
// ingredient.
const (
	// None means the descriptor matched no category; ingestion is a no-op.
	None Category = iota

	// Ingredient is a base component: at least one effect facet, no recipe.
	Ingredient

	// ProcessedIngredient is a component bearing a recipe facet. Effect
	// facets are irrelevant to the test; a processed ingredient may
	// declare zero known effects.
	ProcessedIngredient

	// Potion is a container whose contents include an elixir marker.
	Potion
)

// String returns the category name for logging.
func (c Category) String() string {
	switch c {
	case Ingredient:
		return "ingredient"
	case ProcessedIngredient:
		return "processed_ingredient"
	case Potion:
		return "potion"
	default:
		return "none"
	}
}

// Classify determines the category of a descriptor.
//
// Rules, first match wins:
//  1. A recipe facet present → ProcessedIngredient.
//  2. Any effect facet (buff, heal, duration) and no recipe → Ingredient.
//  3. A contents facet whose sub-facets include an elixir marker → Potion.
//  4. Otherwise → None.
//
// Classify has no side effects and is total: a nil or empty descriptor
// returns None.
func Classify(d *facet.Descriptor) Category {
	if d == nil {
		return None
	}

	var hasRecipe, hasEffect bool

	for _, f := range d.Facets {
		switch f.FacetKind() {
		case facet.KindRecipe:
			hasRecipe = true
		case facet.KindBuff, facet.KindHeal, facet.KindDuration:
			hasEffect = true
		}
	}

	if hasRecipe {
		return ProcessedIngredient
	}

	if hasEffect {
		return Ingredient
	}

	if hasElixirContents(d) {
		return Potion
	}

	return None
}

// hasElixirContents reports whether any contents facet holds an elixir
// marker. The elixir is identified by its kind tag alone, not by its effect
// list; an elixir with no known effects still makes the item a potion.
func hasElixirContents(d *facet.Descriptor) bool {
	for _, f := range d.Facets {
		contents, ok := f.(facet.Contents)
		if !ok {
			continue
		}

		for _, sub := range contents.Sub {
			if sub.FacetKind() == facet.KindElixir {
				return true
			}
		}
	}

	return false
}
