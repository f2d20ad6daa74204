package taxonomy

import "errors"

var (
	// ErrMalformedTaxonomy indicates input that does not follow the taxonomy structure.
	ErrMalformedTaxonomy = errors.New("malformed taxonomy")

	// ErrCyclicTaxonomy indicates a node that is its own ancestor.
	ErrCyclicTaxonomy = errors.New("taxonomy contains a cycle")

	// ErrDuplicatePath indicates two nodes that flatten to the same path.
	ErrDuplicatePath = errors.New("duplicate taxonomy path")

	// ErrEmptyTaxonomy indicates a taxonomy without any nodes.
	ErrEmptyTaxonomy = errors.New("taxonomy is empty")
)
