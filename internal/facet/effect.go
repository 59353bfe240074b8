package facet

// EffectKind identifies the structural kind of an elixir effect.
type EffectKind string

// The closed set of elixir effect kinds.
const (
	// EffectAttrMod buffs one or more attributes while the elixir lasts.
	EffectAttrMod EffectKind = "attrMod"

	// EffectHealWound treats an existing wound.
	EffectHealWound EffectKind = "healWound"

	// EffectAddWound inflicts a wound as a side effect.
	EffectAddWound EffectKind = "addWound"
)

// Effect is one entry in an elixir's effect list. Effects expose only the
// resources needed to resolve display names; magnitudes stay behind the
// descriptor boundary.
type Effect interface {
	// EffectKind returns the effect's kind tag.
	EffectKind() EffectKind
}

// AttrMod is an attribute-buff elixir effect. Attrs lists the buffed
// attributes in declared order; nil entries are unresolved attachments.
type AttrMod struct {
	Attrs []*Resource
}

// EffectKind implements Effect.
func (AttrMod) EffectKind() EffectKind { return EffectAttrMod }

// HealWound is a wound-treating elixir effect.
type HealWound struct {
	Resource *Resource
}

// EffectKind implements Effect.
func (HealWound) EffectKind() EffectKind { return EffectHealWound }

// AddWound is a wound-inflicting elixir effect.
type AddWound struct {
	Resource *Resource
}

// EffectKind implements Effect.
func (AddWound) EffectKind() EffectKind { return EffectAddWound }
