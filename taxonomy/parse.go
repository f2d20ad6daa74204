package taxonomy

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/poiesic/categorit/core"
	"gopkg.in/yaml.v3"
)

// maxNodes bounds alias expansion.
const maxNodes = 1 << 20

// parseTask is one pending yaml value to convert into the children of target.
type parseTask struct {
	value   *yaml.Node
	target  *Node
	lineage []*yaml.Node
}

// LoadFile reads and parses a taxonomy file. JSON and YAML are both accepted.
func LoadFile(path string) ([]*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	roots, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return roots, nil
}

// LoadEntries reads a taxonomy file and flattens it.
func LoadEntries(path string) ([]core.Entry, error) {
	roots, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := Flatten(roots)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Parse decodes a taxonomy document into root nodes, preserving key order.
//
// The document is a mapping from label to node. A node is either a mapping from
// child label to child node, optionally carrying the reserved MetaKey with
// {id, definition}, or a list of terminal item names. Any other value is malformed.
// YAML aliases are expanded; an alias that refers to one of its own ancestors is
// reported as ErrCyclicTaxonomy.
func Parse(data []byte) ([]*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyTaxonomy
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedTaxonomy, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, ErrEmptyTaxonomy
	}

	top := resolveAlias(doc.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: document must be a mapping of root labels", ErrMalformedTaxonomy, top.Line)
	}
	if len(top.Content) == 0 {
		return nil, ErrEmptyTaxonomy
	}

	var roots []*Node
	var stack []parseTask
	for i := 0; i+1 < len(top.Content); i += 2 {
		key := top.Content[i]
		label, err := labelOf(key)
		if err != nil {
			return nil, err
		}
		if label == MetaKey {
			return nil, fmt.Errorf("%w: line %d: %s is not allowed at the top level", ErrMalformedTaxonomy, key.Line, MetaKey)
		}
		root := &Node{Label: label}
		roots = append(roots, root)
		stack = append(stack, parseTask{value: top.Content[i+1], target: root, lineage: []*yaml.Node{top}})
	}

	visited := 0
	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visited++
		if visited > maxNodes {
			return nil, fmt.Errorf("%w: more than %d nodes", ErrMalformedTaxonomy, maxNodes)
		}

		value := resolveAlias(task.value)
		if slices.Contains(task.lineage, value) {
			return nil, fmt.Errorf("%w: line %d: %q refers to one of its ancestors", ErrCyclicTaxonomy, task.value.Line, task.target.Label)
		}

		switch value.Kind {
		case yaml.MappingNode:
			lineage := append(slices.Clip(task.lineage), value)
			for i := 0; i+1 < len(value.Content); i += 2 {
				key := value.Content[i]
				label, err := labelOf(key)
				if err != nil {
					return nil, err
				}
				if label == MetaKey {
					if err := parseMeta(value.Content[i+1], task.target); err != nil {
						return nil, err
					}
					continue
				}
				child := &Node{Label: label}
				task.target.Children = append(task.target.Children, child)
				stack = append(stack, parseTask{value: value.Content[i+1], target: child, lineage: lineage})
			}

		case yaml.SequenceNode:
			for _, item := range value.Content {
				item = resolveAlias(item)
				if item.Kind != yaml.ScalarNode || isNull(item) {
					return nil, fmt.Errorf("%w: line %d: items of %q must be names", ErrMalformedTaxonomy, item.Line, task.target.Label)
				}
				label, err := labelOf(item)
				if err != nil {
					return nil, err
				}
				task.target.Children = append(task.target.Children, &Node{Label: label})
			}

		default:
			return nil, fmt.Errorf("%w: line %d: %q must be a mapping or a list", ErrMalformedTaxonomy, value.Line, task.target.Label)
		}
	}

	return roots, nil
}

// parseMeta copies id and definition from a metadata mapping onto node.
func parseMeta(value *yaml.Node, node *Node) error {
	value = resolveAlias(value)
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: %s of %q must be a mapping", ErrMalformedTaxonomy, value.Line, MetaKey, node.Label)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		field := resolveAlias(value.Content[i+1])
		if key != "id" && key != "definition" {
			continue
		}
		if field.Kind != yaml.ScalarNode {
			return fmt.Errorf("%w: line %d: %s.%s of %q must be a scalar", ErrMalformedTaxonomy, field.Line, MetaKey, key, node.Label)
		}
		if isNull(field) {
			continue
		}
		if key == "id" {
			node.ID = field.Value
		} else {
			node.Definition = field.Value
		}
	}
	return nil
}

func labelOf(key *yaml.Node) (string, error) {
	key = resolveAlias(key)
	if key.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("%w: line %d: labels must be scalars", ErrMalformedTaxonomy, key.Line)
	}
	return strings.TrimSpace(key.Value), nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
