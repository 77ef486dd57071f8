package archetype

// Tag is embedded by zero-sized marker components — membership in an
// archetype's fingerprint without any data, the Go rendition of the
// original's TagComponent. A column of Tag values costs nothing per entity
// since Tag occupies zero bytes; it exists purely so a Query can be written
// against it like any other component.
type Tag struct{}
