package command

import (
	"fmt"
	"strings"
)

// Tag names one command of the fixed command set.
type Tag string

const (
	FindBestCategory Tag = "find_best_category"
	GetQuantity      Tag = "get_quantity"
	SetQuantity      Tag = "set_quantity"
)

// AllTags lists every command in dispatch order.
var AllTags = []Tag{FindBestCategory, GetQuantity, SetQuantity}

// ParseTag maps a command name to its tag. Names are matched exactly after
// trimming; anything else is ErrUnknownCommand.
func ParseTag(name string) (Tag, error) {
	switch tag := Tag(strings.TrimSpace(name)); tag {
	case FindBestCategory, GetQuantity, SetQuantity:
		return tag, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
}

func (t Tag) String() string {
	return string(t)
}

// needsStock reports whether the command reads or writes quantities.
func (t Tag) needsStock() bool {
	return t == GetQuantity || t == SetQuantity
}
