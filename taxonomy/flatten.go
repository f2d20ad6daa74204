package taxonomy

import (
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/lexical"
)

// frame is one pending node on the flattening work stack.
type frame struct {
	node     *Node
	segments []string
	parent   string
	lineage  []*Node
}

// Flatten walks the taxonomy depth-first and emits one entry per node in pre-order,
// children in declared order. The walk uses an explicit work stack and rejects nodes
// that are their own ancestors. Shared (non-cyclic) subtrees are emitted once per path.
func Flatten(roots []*Node) ([]core.Entry, error) {
	if len(roots) == 0 {
		return nil, ErrEmptyTaxonomy
	}

	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i]})
	}

	var entries []core.Entry
	seen := make(map[string]struct{})

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.node == nil {
			return nil, fmt.Errorf("%w: nil node under %q", ErrMalformedTaxonomy, f.parent)
		}
		if slices.Contains(f.lineage, f.node) {
			return nil, fmt.Errorf("%w: %q is its own ancestor", ErrCyclicTaxonomy, f.node.Label)
		}

		label := strings.TrimSpace(f.node.Label)
		if err := validateLabel(label, f.parent); err != nil {
			return nil, err
		}

		segments := append(slices.Clip(f.segments), label)
		path := strings.Join(segments, core.PathSeparator)
		if _, dup := seen[path]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePath, path)
		}
		seen[path] = struct{}{}

		children := make([]string, len(f.node.Children))
		for i, child := range f.node.Children {
			if child == nil {
				return nil, fmt.Errorf("%w: nil child under %q", ErrMalformedTaxonomy, path)
			}
			children[i] = path + core.PathSeparator + strings.TrimSpace(child.Label)
		}

		entries = append(entries, newEntry(path, segments, f.parent, children, f.node))

		lineage := append(slices.Clip(f.lineage), f.node)
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				node:     f.node.Children[i],
				segments: segments,
				parent:   path,
				lineage:  lineage,
			})
		}
	}

	return entries, nil
}

// newEntry computes the normalized search metadata for one node.
func newEntry(path string, segments []string, parent string, children []string, node *Node) core.Entry {
	leaf := lexical.Lower(segments[len(segments)-1])
	_, leafCompact := lexical.Normalize(leaf)

	terms := make(map[string]struct{})
	for _, segment := range segments {
		variants, _ := lexical.Normalize(segment)
		for v := range variants {
			terms[v] = struct{}{}
		}
	}
	pathVariants, _ := lexical.Normalize(path)
	for v := range pathVariants {
		terms[v] = struct{}{}
	}
	terms[leaf] = struct{}{}
	terms[leafCompact] = struct{}{}

	return core.Entry{
		Path:        path,
		Segments:    segments,
		ID:          node.ID,
		Definition:  node.Definition,
		Parent:      parent,
		Children:    children,
		Leaf:        leaf,
		LeafCompact: leafCompact,
		SearchTerms: terms,
	}
}

func validateLabel(label, parent string) error {
	if label == "" {
		return fmt.Errorf("%w: empty label under %q", ErrMalformedTaxonomy, parent)
	}
	if strings.Contains(label, core.PathSeparator) {
		return fmt.Errorf("%w: label %q contains the path separator", ErrMalformedTaxonomy, label)
	}
	if label == MetaKey {
		return fmt.Errorf("%w: %s cannot be used as a label", ErrMalformedTaxonomy, MetaKey)
	}
	return nil
}
