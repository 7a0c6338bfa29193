package component

// Sprite ties an entity to an opaque asset reference. Resolution happens
// at publish time through the asset boundary; an unresolved sprite skips
// the entity's render publish for that frame, a failed one is reported
// once and the entity publishes without a visual.
type Sprite struct {
	AssetRef string

	// FailureLogged suppresses repeated failure reports for this entity.
	FailureLogged bool
}
