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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/categorit/core"
)

// MarshalCachedEmbedding serializes a CachedEmbedding to bytes.
// Layout: model, text, vector length, vector components.
func MarshalCachedEmbedding(e *core.CachedEmbedding) []byte {
	size := ord.String.Size(e.Model) + ord.String.Size(e.Text) + varint.PositiveInt.Size(len(e.Vector))
	for _, v := range e.Vector {
		size += raw.Float32.Size(v)
	}

	buf := make([]byte, size)
	n := ord.String.Marshal(e.Model, buf)
	n += ord.String.Marshal(e.Text, buf[n:])
	n += varint.PositiveInt.Marshal(len(e.Vector), buf[n:])
	for _, v := range e.Vector {
		n += raw.Float32.Marshal(v, buf[n:])
	}
	return buf
}

// UnmarshalCachedEmbedding deserializes a CachedEmbedding from bytes.
func UnmarshalCachedEmbedding(data []byte) (*core.CachedEmbedding, error) {
	model, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: model: %w", ErrSerializationFailed, err)
	}
	text, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: text: %w", ErrSerializationFailed, err)
	}
	n += m

	length, m, err := varint.PositiveInt.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: vector length: %w", ErrSerializationFailed, err)
	}
	n += m
	if length < 0 || length > (len(data)-n)/4 {
		return nil, fmt.Errorf("%w: vector of %d components in %d bytes", ErrTruncatedData, length, len(data)-n)
	}

	vector := make([]float32, length)
	for i := range vector {
		vector[i], m, err = raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: component %d: %w", ErrSerializationFailed, i, err)
		}
		n += m
	}

	return &core.CachedEmbedding{Model: model, Text: text, Vector: vector}, nil
}

// MarshalStockRecord serializes a StockRecord to bytes.
// Layout: path, quantity, update time in Unix microseconds.
func MarshalStockRecord(record *core.StockRecord) []byte {
	updated := record.UpdatedAt.UnixMicro()
	buf := make([]byte, ord.String.Size(record.Path)+raw.Float64.Size(record.Qty)+varint.Int64.Size(updated))
	n := ord.String.Marshal(record.Path, buf)
	n += raw.Float64.Marshal(record.Qty, buf[n:])
	varint.Int64.Marshal(updated, buf[n:])
	return buf
}

// UnmarshalStockRecord deserializes a StockRecord from bytes.
func UnmarshalStockRecord(data []byte) (*core.StockRecord, error) {
	path, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: path: %w", ErrSerializationFailed, err)
	}
	qty, m, err := raw.Float64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: quantity: %w", ErrSerializationFailed, err)
	}
	n += m
	updated, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: updated at: %w", ErrSerializationFailed, err)
	}

	return &core.StockRecord{
		Path:      path,
		Qty:       qty,
		UpdatedAt: time.UnixMicro(updated).UTC(),
	}, nil
}
