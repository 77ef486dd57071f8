package archetype

// Query selects archetypes by component membership: every bit in Include
// must be present, and no bit in Exclude may be present — mirroring the
// original's ComponentQuery::SetupInclusionQuery/SetupExclusionQuery pair.
type Query struct {
	Include Fingerprint
	Exclude Fingerprint
}

// Matches reports whether fp satisfies the query.
func (q Query) Matches(fp Fingerprint) bool {
	if !fp.HasAll(q.Include) {
		return false
	}
	return !fp.HasAny(q.Exclude)
}
