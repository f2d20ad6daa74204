// Package vector provides the exact nearest-neighbor index used as the semantic
// fallback of category resolution, and the descriptive text embedded per entry.
package vector
