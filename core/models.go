package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// PathSeparator joins the label segments of a taxonomy path.
const PathSeparator = " > "

// ID is a content-derived identifier used for storage keys.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Entry is one flattened taxonomy node with precomputed search metadata.
// Entries are created once while flattening and are never mutated afterwards.
type Entry struct {
	Path        string              // Full ancestor chain joined with PathSeparator, unique
	Segments    []string            // Individual labels of Path, root first
	ID          string              // Opaque identifier, empty when the node carries none
	Definition  string              // Human-readable description, may be empty
	Parent      string              // Path of the parent entry, empty for roots
	Children    []string            // Full paths of the direct children in declared order
	Leaf        string              // Lowercase form of the last segment
	LeafCompact string              // Leaf with all whitespace removed
	SearchTerms map[string]struct{} // Normalized variants of every segment and of the full path
}

// Depth returns the number of path segments.
func (e *Entry) Depth() int {
	return len(e.Segments)
}

// HasID reports whether the entry carries an identifier.
func (e *Entry) HasID() bool {
	return e.ID != ""
}

// ChildLabels returns the last segment of each child path.
func (e *Entry) ChildLabels() []string {
	labels := make([]string, len(e.Children))
	for i, child := range e.Children {
		labels[i] = LastSegment(child)
	}
	return labels
}

// LastSegment returns the final label of a separator-joined path.
func LastSegment(path string) string {
	if i := strings.LastIndex(path, PathSeparator); i >= 0 {
		return path[i+len(PathSeparator):]
	}
	return path
}

// MatchKind records which stage of resolution selected an entry.
type MatchKind int

const (
	// MatchLexical means the rule-based lexical matcher cleared the threshold.
	MatchLexical MatchKind = iota + 1
	// MatchVector means the nearest-neighbor fallback selected the entry.
	MatchVector
)

func (m MatchKind) String() string {
	switch m {
	case MatchLexical:
		return "lexical"
	case MatchVector:
		return "vector"
	default:
		return "unknown"
	}
}

// ResolvedCategory is the result record handed to callers of the resolver.
// The JSON form is the contract consumed by command dispatch layers.
type ResolvedCategory struct {
	Path       string   `json:"path"`
	ID         *string  `json:"id"`
	Definition string   `json:"definition"`
	Children   []string `json:"children"`

	Match        MatchKind `json:"-"`
	LexicalScore int       `json:"-"` // Best lexical score observed, even when the vector stage won
	Distance     float32   `json:"-"` // Squared L2 distance, only set for MatchVector
}

// NewResolvedCategory builds a result record from an entry.
func NewResolvedCategory(entry *Entry) *ResolvedCategory {
	result := &ResolvedCategory{
		Path:       entry.Path,
		Definition: entry.Definition,
		Children:   entry.ChildLabels(),
	}
	if entry.HasID() {
		id := entry.ID
		result.ID = &id
	}
	return result
}

// IDOrEmpty returns the identifier or an empty string when absent.
func (r *ResolvedCategory) IDOrEmpty() string {
	if r.ID == nil {
		return ""
	}
	return *r.ID
}

// StockRecord is a persisted quantity for a taxonomy path.
type StockRecord struct {
	Path      string
	Qty       float64
	UpdatedAt time.Time
}

// CachedEmbedding is a persisted embedding vector for a piece of text.
type CachedEmbedding struct {
	Model  string
	Text   string
	Vector []float32
}
