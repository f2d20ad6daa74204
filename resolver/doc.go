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


// Package resolver maps free-text phrases to taxonomy entries.
//
// Resolution is a two-stage cascade. The lexical matcher scores every entry
// against the normalized query; a best score of at least LexicalThreshold wins
// outright. Otherwise the raw query is embedded and the nearest entry of the
// vector index is returned. Unless WithMaxDistance is set, Resolve always
// returns some entry for a non-blank query.
//
//	r, err := resolver.New(entries, index, provider.Embedder())
//	category, err := r.Resolve(ctx, "UV")
//	// category.Path == "Skincare > By Category > UV Protection"
package resolver
