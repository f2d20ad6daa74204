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


// Package storage provides the storage abstraction layer for categorit.
//
// Category resolution itself is stateless. Storage backs two collaborators:
// the embedding cache used while building the vector index, and the quantity
// store used by the command layer.
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return interfaces:
//
//	cache, err := badger.NewEmbeddingCache(backend)  // returns storage.EmbeddingCache
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Serialization
//
// Records are encoded with mus-go serializers (see serialization.go). The
// encoding is compact and versionless; changing a record layout requires
// purging the affected keys.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	stock, err := badger.NewStockRepository(backend)
//
// Use in tests with in-memory storage:
//
//	cache, stock, backend, err := badger.NewMemoryRepositories()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
