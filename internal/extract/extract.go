// Package extract builds normalized records from classified descriptors.
//
// Extraction pulls the category's attribute set out of the descriptor's
// facets: effect display labels for ingredients, a recursively expanded
// composition tree for processed ingredients and potions, and effect names
// (never magnitudes) for potions.
//
// Failure policy: a single unresolvable facet is skipped and extraction
// continues; a partially-missing attachment never aborts the whole record.
// The only hard failures are a processed ingredient whose recipe expands to
// nothing, a composition tree deeper than the recursion limit, and an
// unclassifiable category.
package extract

import (
	"errors"
	"fmt"

	"github.com/alembic-io/alembic/internal/classify"
	"github.com/alembic-io/alembic/internal/facet"
	"github.com/alembic-io/alembic/internal/record"
)

const (
	// unknownName is the fallback item name when a descriptor carries no
	// name facet.
	unknownName = "Unknown"

	// durationModifierLabel is the fixed label contributed by a
	// duration-modifier effect facet.
	durationModifierLabel = "reduces potion duration"

	// maxRecipeDepth bounds composition tree expansion. Trees are assumed
	// acyclic, but a cycle or a pathologically deep tree fails extraction
	// instead of exhausting the stack.
	maxRecipeDepth = 32
)

// Sentinel errors for extraction failures.
var (
	// ErrMissingRecipe is returned when a processed ingredient's recipe
	// expands to an empty composition list. Enforced here, before any
	// queueing decision.
	ErrMissingRecipe = errors.New("processed ingredient without resolvable recipe")

	// ErrRecipeTooDeep is returned when composition expansion exceeds the
	// recursion depth limit.
	ErrRecipeTooDeep = errors.New("composition tree exceeds depth limit")

	// ErrUnknownCategory is returned for a category extraction does not
	// handle (including None).
	ErrUnknownCategory = errors.New("unknown category")
)

// Extract builds the record for a descriptor already classified into
// category. The returned record satisfies the per-category invariants of
// the record package; on error no record is produced and the descriptor's
// submission is discarded.
func Extract(category classify.Category, d *facet.Descriptor) (record.Record, error) {
	switch category {
	case classify.Ingredient:
		return extractIngredient(d), nil
	case classify.ProcessedIngredient:
		return extractProcessedIngredient(d)
	case classify.Potion:
		return extractPotion(d)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
}

// extractIngredient scans every effect facet and collects display labels.
func extractIngredient(d *facet.Descriptor) *record.Ingredient {
	rec := record.NewIngredient(itemName(d))
	rec.Buffs, rec.Heals, rec.DurationModifiers = effectLabels(d)

	return rec
}

// extractProcessedIngredient expands the mandatory recipe facet and collects
// the optional effect labels.
func extractProcessedIngredient(d *facet.Descriptor) (*record.ProcessedIngredient, error) {
	rec := record.NewProcessedIngredient(itemName(d))

	for _, f := range d.Facets {
		recipe, ok := f.(facet.Recipe)
		if !ok {
			continue
		}

		composedOf, err := expandInputs(recipe.Inputs)
		if err != nil {
			return nil, err
		}

		rec.ComposedOf = composedOf

		break
	}

	if len(rec.ComposedOf) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingRecipe, rec.Name)
	}

	rec.Buffs, rec.Heals, rec.DurationModifiers = effectLabels(d)

	return rec, nil
}

// extractPotion locates the container facet, expands the single
// composition-bearing sub-facet, and collects effect names from the single
// elixir sub-facet.
func extractPotion(d *facet.Descriptor) (*record.Potion, error) {
	rec := record.NewPotion()

	for _, f := range d.Facets {
		contents, ok := f.(facet.Contents)
		if !ok {
			continue
		}

		for _, sub := range contents.Sub {
			if recipe, ok := sub.(facet.Recipe); ok {
				composedOf, err := expandInputs(recipe.Inputs)
				if err != nil {
					return nil, err
				}

				rec.ComposedOf = composedOf
			}
		}

		for _, sub := range contents.Sub {
			if elixir, ok := sub.(facet.Elixir); ok {
				collectElixirEffectNames(elixir, rec)

				break
			}
		}
	}

	return rec, nil
}

// itemName returns the descriptor's display name, or the fixed fallback when
// no name facet is present.
func itemName(d *facet.Descriptor) string {
	for _, f := range d.Facets {
		if name, ok := f.(facet.Name); ok {
			return name.Text
		}
	}

	return unknownName
}

// effectLabels collects the effect display labels of a descriptor, bucketed
// by facet kind. Unresolved attachments are skipped.
func effectLabels(d *facet.Descriptor) (buffs, heals, durationModifiers []string) {
	buffs, heals, durationModifiers = []string{}, []string{}, []string{}

	for _, f := range d.Facets {
		switch eff := f.(type) {
		case facet.Buff:
			if eff.Resource == nil {
				continue
			}

			buffs = record.AppendUnique(buffs, eff.Resource.DisplayName())
		case facet.Heal:
			if eff.Resource == nil {
				continue
			}

			heals = record.AppendUnique(heals, eff.Resource.DisplayName())
		case facet.Duration:
			durationModifiers = record.AppendUnique(durationModifiers, durationModifierLabel)
		}
	}

	return buffs, heals, durationModifiers
}

// collectElixirEffectNames buckets the elixir's effect names into the
// potion's buff/heal/wound lists by structural kind. Names only; the
// effect magnitudes never leave the descriptor.
func collectElixirEffectNames(elixir facet.Elixir, rec *record.Potion) {
	for _, eff := range elixir.Effects {
		switch e := eff.(type) {
		case facet.AttrMod:
			for _, attr := range e.Attrs {
				if attr == nil {
					continue
				}

				rec.BuffNames = record.AppendUnique(rec.BuffNames, attr.DisplayName())
			}
		case facet.HealWound:
			if e.Resource == nil {
				continue
			}

			rec.HealNames = record.AppendUnique(rec.HealNames, e.Resource.DisplayName())
		case facet.AddWound:
			if e.Resource == nil {
				continue
			}

			rec.WoundNames = record.AppendUnique(rec.WoundNames, e.Resource.DisplayName())
		}
	}
}
