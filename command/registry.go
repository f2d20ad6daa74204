// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/storage"
)

// Resolver is the part of resolver.Resolver the registry depends on.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*core.ResolvedCategory, error)
	Lookup(path string) (*core.ResolvedCategory, bool)
}

// QuantityResult is the result of get_quantity and set_quantity.
type QuantityResult struct {
	Path  string  `json:"path"`
	Qty   float64 `json:"qty"`
	Found bool    `json:"found"`
}

type handler func(ctx context.Context, args map[string]any) (any, error)

// Registry dispatches the fixed command set to typed handlers.
// get_quantity and set_quantity are only registered when a stock repository
// is configured.
type Registry struct {
	resolver Resolver
	stock    storage.StockRepository
	handlers map[Tag]handler
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithStock enables the quantity commands backed by repo.
func WithStock(repo storage.StockRepository) Option {
	return func(r *Registry) {
		r.stock = repo
	}
}

// WithLogger sets the registry's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates a registry dispatching find_best_category to resolver.
func NewRegistry(resolver Resolver, opts ...Option) (*Registry, error) {
	if resolver == nil {
		return nil, ErrResolverRequired
	}

	r := &Registry{
		resolver: resolver,
		logger:   slog.Default().With("component", "command"),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.handlers = map[Tag]handler{
		FindBestCategory: r.findBestCategory,
	}
	if r.stock != nil {
		r.handlers[GetQuantity] = r.getQuantity
		r.handlers[SetQuantity] = r.setQuantity
	}
	return r, nil
}

// Tags returns the available commands in dispatch order.
func (r *Registry) Tags() []Tag {
	tags := make([]Tag, 0, len(r.handlers))
	for _, tag := range AllTags {
		if _, ok := r.handlers[tag]; ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Has reports whether tag is available.
func (r *Registry) Has(tag Tag) bool {
	_, ok := r.handlers[tag]
	return ok
}

// Definitions describes the available commands.
func (r *Registry) Definitions() []Definition {
	tags := r.Tags()
	defs := make([]Definition, len(tags))
	for i, tag := range tags {
		defs[i] = definitions[tag]
	}
	return defs
}

// Dispatch runs the command called name with args. The result is JSON-encodable.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (any, error) {
	tag, err := ParseTag(name)
	if err != nil {
		return nil, err
	}
	h, ok := r.handlers[tag]
	if !ok {
		if tag.needsStock() {
			return nil, fmt.Errorf("%w: %s is not available without a stock repository", ErrUnknownCommand, tag)
		}
		return nil, fmt.Errorf("%w: %s is not available", ErrUnknownCommand, tag)
	}

	r.logger.Debug("dispatching command", "command", tag, "args", args)
	result, err := h(ctx, args)
	if err != nil {
		r.logger.Debug("command failed", "command", tag, "err", err)
		return nil, err
	}
	return result, nil
}

// DispatchJSON decodes a JSON object of arguments, dispatches, and encodes the result
// without HTML escaping. Empty input is treated as no arguments.
func (r *Registry) DispatchJSON(ctx context.Context, name string, rawArgs []byte) (json.RawMessage, error) {
	var args map[string]any
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
		}
	}

	result, err := r.Dispatch(ctx, name, args)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (r *Registry) findBestCategory(ctx context.Context, args map[string]any) (any, error) {
	var a FindBestCategoryArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return r.resolver.Resolve(ctx, a.Query)
}

func (r *Registry) getQuantity(ctx context.Context, args map[string]any) (any, error) {
	var a GetQuantityArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	qty, found, err := r.stock.GetQuantity(ctx, a.Path)
	if err != nil {
		return nil, err
	}
	return &QuantityResult{Path: a.Path, Qty: qty, Found: found}, nil
}

func (r *Registry) setQuantity(ctx context.Context, args map[string]any) (any, error) {
	var a SetQuantityArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if _, ok := r.resolver.Lookup(a.Path); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, a.Path)
	}
	qty, err := r.stock.SetQuantity(ctx, a.Path, *a.Qty)
	if err != nil {
		return nil, err
	}
	return &QuantityResult{Path: a.Path, Qty: qty, Found: true}, nil
}
