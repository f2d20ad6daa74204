// Package mock provides test double implementations of AI service interfaces.
//
// # Usage in Tests
//
//	// Deterministic default vectors, one pinned vector
//	embedder := mock.NewMockEmbedder().WithVector("sunscreen", []float32{1, 0})
//
//	// Failure injection
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, errors.New("service unavailable")
//	}
//
//	// Call counts
//	count := embedder.CallCount()
//
// Default vectors are unit length and derived from an FNV hash of the text, so
// the same text always produces the same vector.
package mock
