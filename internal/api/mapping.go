package api

import (
	"errors"
	"fmt"

	"github.com/alembic-io/alembic/internal/facet"
)

var (
	// ErrUnknownFacetKind indicates a facet payload with an unrecognized kind tag.
	ErrUnknownFacetKind = errors.New("unknown facet kind")

	// ErrUnknownEffectKind indicates an elixir effect payload with an unrecognized kind tag.
	ErrUnknownEffectKind = errors.New("unknown effect kind")
)

// mapItemDescriptor maps an API item descriptor to the facet domain model.
// The facet set is closed: an unrecognized kind tag fails the whole
// descriptor rather than being silently dropped, so a client schema drift
// surfaces as a 4xx instead of a misclassification.
func mapItemDescriptor(item *ItemDescriptor) (*facet.Descriptor, error) {
	facets, err := mapFacets(item.Facets)
	if err != nil {
		return nil, err
	}

	return &facet.Descriptor{Facets: facets}, nil
}

func mapFacets(payloads []FacetPayload) ([]facet.Facet, error) {
	facets := make([]facet.Facet, 0, len(payloads))

	for i := range payloads {
		f, err := mapFacet(&payloads[i])
		if err != nil {
			return nil, fmt.Errorf("facet %d: %w", i, err)
		}

		facets = append(facets, f)
	}

	return facets, nil
}

func mapFacet(p *FacetPayload) (facet.Facet, error) {
	switch facet.Kind(p.Kind) {
	case facet.KindName:
		return facet.Name{Text: p.Text}, nil
	case facet.KindBuff:
		return facet.Buff{Resource: mapResource(p.Attribute)}, nil
	case facet.KindHeal:
		return facet.Heal{Resource: mapResource(p.Wound)}, nil
	case facet.KindDuration:
		return facet.Duration{}, nil
	case facet.KindRecipe:
		return facet.Recipe{Inputs: mapRecipeNodes(p.Inputs)}, nil
	case facet.KindContents:
		sub, err := mapFacets(p.Sub)
		if err != nil {
			return nil, err
		}

		return facet.Contents{Sub: sub}, nil
	case facet.KindElixir:
		effects, err := mapEffects(p.Effects)
		if err != nil {
			return nil, err
		}

		return facet.Elixir{Effects: effects}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFacetKind, p.Kind)
	}
}

func mapEffects(payloads []EffectPayload) ([]facet.Effect, error) {
	effects := make([]facet.Effect, 0, len(payloads))

	for i := range payloads {
		e, err := mapEffect(&payloads[i])
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}

		effects = append(effects, e)
	}

	return effects, nil
}

func mapEffect(p *EffectPayload) (facet.Effect, error) {
	switch facet.EffectKind(p.Kind) {
	case facet.EffectAttrMod:
		attrs := make([]*facet.Resource, 0, len(p.Attributes))
		for _, attr := range p.Attributes {
			attrs = append(attrs, mapResource(attr))
		}

		return facet.AttrMod{Attrs: attrs}, nil
	case facet.EffectHealWound:
		return facet.HealWound{Resource: mapResource(p.Wound)}, nil
	case facet.EffectAddWound:
		return facet.AddWound{Resource: mapResource(p.Wound)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffectKind, p.Kind)
	}
}

func mapRecipeNodes(payloads []*RecipeNodePayload) []*facet.RecipeNode {
	if len(payloads) == 0 {
		return nil
	}

	nodes := make([]*facet.RecipeNode, 0, len(payloads))

	for _, p := range payloads {
		if p == nil {
			nodes = append(nodes, nil)

			continue
		}

		nodes = append(nodes, &facet.RecipeNode{
			Resource: mapResource(p.Resource),
			Inputs:   mapRecipeNodes(p.Inputs),
		})
	}

	return nodes
}

func mapResource(p *ResourcePayload) *facet.Resource {
	if p == nil {
		return nil
	}

	return &facet.Resource{Name: p.Name, Tooltip: p.Tooltip}
}
