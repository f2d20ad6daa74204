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


package core

import (
	"fmt"
	"math"
	"strings"
)

// ValidateQuery rejects empty and whitespace-only queries.
// It returns the query with outer whitespace trimmed.
func ValidateQuery(query string) (string, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return "", ErrEmptyQuery
	}
	return trimmed, nil
}

// ValidateStockRecord validates a StockRecord according to domain rules.
//
// Validation rules:
//   - Path must not be empty
//   - Qty must be finite
//
// NOT validated:
//   - UpdatedAt (set by the repository on write)
//   - Path existence in a taxonomy (checked by the command layer)
func ValidateStockRecord(record *StockRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidStockRecord)
	}

	if record.Path == "" {
		return fmt.Errorf("%w: %w", ErrInvalidStockRecord, ErrEmptyPath)
	}

	if !IsValidQuantity(record.Qty) {
		return fmt.Errorf("%w: %w", ErrInvalidStockRecord, ErrInvalidQuantity)
	}

	return nil
}

// IsValidQuantity reports whether qty is a finite number.
func IsValidQuantity(qty float64) bool {
	return !math.IsNaN(qty) && !math.IsInf(qty, 0)
}
