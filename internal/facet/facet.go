// Package facet provides the domain model for observed item descriptors.
//
// A descriptor is an ordered bundle of typed facets attached to a single
// observed item: its display name, alchemical effects, a composition recipe,
// or nested container contents. The facet set is closed: classification and
// extraction switch over the enumerated kinds rather than inspecting type
// names at runtime, and every facet exposes strongly-typed accessors so a
// partially-populated facet degrades to a nil attachment instead of a
// reflective lookup failure.
//
// Descriptors are immutable for the duration of a single ingestion call and
// are never retained by the pipeline.
package facet

// Kind identifies the type of a facet within a descriptor.
type Kind string

// The closed set of facet kinds.
const (
	// KindName carries the item's display name.
	KindName Kind = "name"

	// KindBuff marks an attribute-buff effect on an ingredient.
	KindBuff Kind = "buff"

	// KindHeal marks a wound-healing effect on an ingredient.
	KindHeal Kind = "heal"

	// KindDuration marks a potion-duration-reducing effect on an ingredient.
	KindDuration Kind = "duration"

	// KindRecipe carries the composition tree of a processed ingredient.
	KindRecipe Kind = "recipe"

	// KindContents carries the nested facets of a container item.
	KindContents Kind = "contents"

	// KindElixir marks brewed-elixir contents inside a container. Its
	// presence (not its effect list) identifies a potion.
	KindElixir Kind = "elixir"
)

// Facet is one optional, typed sub-record attached to a descriptor.
type Facet interface {
	// FacetKind returns the facet's kind tag.
	FacetKind() Kind
}

// Descriptor is the ordered facet bundle describing one observed item.
// The zero value is a valid, empty descriptor.
type Descriptor struct {
	Facets []Facet
}

// Resource is a display-name attachment resolved from the game client's
// resource system. Tooltip is the human-readable label; Name is the raw
// internal resource path used as a fallback when no tooltip is attached.
type Resource struct {
	Name    string
	Tooltip string
}

// DisplayName returns the tooltip text, falling back to the raw internal
// name when no tooltip is attached.
func (r *Resource) DisplayName() string {
	if r.Tooltip != "" {
		return r.Tooltip
	}

	return r.Name
}

// Name is the item display name facet.
type Name struct {
	Text string
}

// FacetKind implements Facet.
func (Name) FacetKind() Kind { return KindName }

// Buff is an attribute-buff effect facet. Resource identifies the buffed
// attribute; nil means the attachment could not be resolved.
type Buff struct {
	Resource *Resource
}

// FacetKind implements Facet.
func (Buff) FacetKind() Kind { return KindBuff }

// Heal is a wound-healing effect facet. Resource identifies the treated
// wound; nil means the attachment could not be resolved.
type Heal struct {
	Resource *Resource
}

// FacetKind implements Facet.
func (Heal) FacetKind() Kind { return KindHeal }

// Duration is the potion-duration-reducing effect facet. It carries no
// payload; its presence is the effect.
type Duration struct{}

// FacetKind implements Facet.
func (Duration) FacetKind() Kind { return KindDuration }

// Recipe is the composition facet of a processed ingredient.
type Recipe struct {
	Inputs []*RecipeNode
}

// FacetKind implements Facet.
func (Recipe) FacetKind() Kind { return KindRecipe }

// RecipeNode is one node of a composition tree: the component's own resource
// plus the components it was made from, in declared order. Leaf nodes have
// no inputs. Composition trees are assumed acyclic; extraction enforces a
// depth limit rather than trusting that assumption unboundedly.
type RecipeNode struct {
	Resource *Resource
	Inputs   []*RecipeNode
}

// Contents is the container facet: the facets of whatever the container
// holds, in declared order.
type Contents struct {
	Sub []Facet
}

// FacetKind implements Facet.
func (Contents) FacetKind() Kind { return KindContents }

// Elixir is the brewed-elixir marker facet found inside a container's
// contents. Effects lists the elixir's effects; only their names are ever
// extracted, never magnitudes.
type Elixir struct {
	Effects []Effect
}

// FacetKind implements Facet.
func (Elixir) FacetKind() Kind { return KindElixir }
