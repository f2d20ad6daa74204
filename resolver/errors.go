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


package resolver

import "errors"

var (
	// ErrEmbeddingFailed is returned when the vector fallback could not embed the query.
	// It only affects the query being resolved.
	ErrEmbeddingFailed = errors.New("query embedding failed")

	// ErrNoConfidentMatch is returned in strict mode when the nearest entry is
	// farther than the configured maximum distance.
	ErrNoConfidentMatch = errors.New("no confident match")

	// ErrEntriesRequired is returned when the resolver is created without entries.
	ErrEntriesRequired = errors.New("taxonomy entries required")

	// ErrIndexRequired is returned when the resolver is created without a vector index.
	ErrIndexRequired = errors.New("vector index required")

	// ErrIndexMismatch is returned when the index size differs from the entry count.
	ErrIndexMismatch = errors.New("vector index does not match entries")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
