// Package indexer builds the vector index over a flattened taxonomy.
//
// Each entry is rendered to descriptive text (vector.Describe) and embedded in
// sequential batches. Requests are retried with exponential backoff, and an
// optional persistent cache lets repeated startups skip texts that were already
// embedded with the same model. A build either produces a complete index whose
// positions match the entry order or fails with ErrIndexBuildFailed.
package indexer
