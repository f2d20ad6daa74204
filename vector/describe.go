package vector

import (
	"strings"

	"github.com/poiesic/categorit/core"
)

// Describe synthesizes the text embedded for an entry. It names the path, the
// parent, the direct children, the definition and the identifier so that the
// embedding carries the node's position in the hierarchy.
//
//	Skincare > By Category > UV Protection | parent: By Category | no direct children | Sun protection | identifier 3fa9b1c2
func Describe(entry *core.Entry) string {
	var b strings.Builder
	b.WriteString(entry.Path)

	b.WriteString(" | parent: ")
	if entry.Parent == "" {
		b.WriteString("root")
	} else {
		b.WriteString(core.LastSegment(entry.Parent))
	}

	if len(entry.Children) == 0 {
		b.WriteString(" | no direct children")
	} else {
		b.WriteString(" | children: ")
		b.WriteString(strings.Join(entry.ChildLabels(), ", "))
	}

	b.WriteString(" | ")
	b.WriteString(entry.Definition)

	b.WriteString(" | identifier ")
	if entry.HasID() {
		b.WriteString(entry.ID)
	} else {
		b.WriteString("none")
	}
	return b.String()
}

// DescribeAll returns the descriptive text of every entry in order.
func DescribeAll(entries []core.Entry) []string {
	texts := make([]string, len(entries))
	for i := range entries {
		texts[i] = Describe(&entries[i])
	}
	return texts
}
