package command

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/poiesic/categorit/core"
)

// FindBestCategoryArgs are the arguments of find_best_category.
type FindBestCategoryArgs struct {
	Query string `json:"query"`
}

func (a *FindBestCategoryArgs) Validate() error {
	if _, err := core.ValidateQuery(a.Query); err != nil {
		return err
	}
	return nil
}

// GetQuantityArgs are the arguments of get_quantity.
type GetQuantityArgs struct {
	Path string `json:"path"`
}

func (a *GetQuantityArgs) Validate() error {
	if a.Path == "" {
		return core.ErrEmptyPath
	}
	return nil
}

// SetQuantityArgs are the arguments of set_quantity. Qty is a pointer so a
// missing quantity is distinguishable from zero.
type SetQuantityArgs struct {
	Path string   `json:"path"`
	Qty  *float64 `json:"qty"`
}

func (a *SetQuantityArgs) Validate() error {
	if a.Path == "" {
		return core.ErrEmptyPath
	}
	if a.Qty == nil {
		return fmt.Errorf("qty is required")
	}
	if !core.IsValidQuantity(*a.Qty) {
		return core.ErrInvalidQuantity
	}
	return nil
}

type validator interface {
	Validate() error
}

// decodeArgs converts a JSON-like argument map into dst and validates it.
// Unknown keys and mistyped values are rejected.
func decodeArgs(args map[string]any, dst validator) error {
	if args == nil {
		args = map[string]any{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	if err := dst.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	return nil
}
