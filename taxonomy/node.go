package taxonomy

// MetaKey is the reserved mapping key that carries a node's id and definition.
const MetaKey = "_meta"

// Node is one taxonomy node before flattening.
// Children keep their declared order. Leaf items from list-valued nodes are
// Nodes without metadata or children.
type Node struct {
	Label      string
	ID         string
	Definition string
	Children   []*Node
}

// NewNode creates a node with the given label and children.
func NewNode(label string, children ...*Node) *Node {
	return &Node{Label: label, Children: children}
}

// WithMeta sets the node's identifier and definition and returns the node.
func (n *Node) WithMeta(id, definition string) *Node {
	n.ID = id
	n.Definition = definition
	return n
}
