package resolver

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/categorit/ai/mock"
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/lexical"
	"github.com/poiesic/categorit/taxonomy"
	"github.com/poiesic/categorit/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureTaxonomy = `
Skincare:
  By Category:
    UV Protection:
      _meta: {id: 3fa9b1c2, definition: Sun protection}
    Serums: {}
    Moisturizers: [Day Cream, Night Cream]
Eyes:
  Liners: [Liner Pencils]
`

// Entry positions in fixtureTaxonomy.
const (
	posSkincare = iota
	posByCategory
	posUVProtection
	posSerums
	posMoisturizers
	posDayCream
	posNightCream
	posEyes
	posLiners
	posLinerPencils
	fixtureSize
)

func oneHot(i int) []float32 {
	v := make([]float32, fixtureSize)
	v[i] = 1
	return v
}

// newFixture builds a resolver whose index holds the one-hot vector of each position.
func newFixture(t *testing.T, opts ...Option) (*Resolver, *mock.MockEmbedder) {
	t.Helper()

	roots, err := taxonomy.Parse([]byte(fixtureTaxonomy))
	require.NoError(t, err)
	entries, err := taxonomy.Flatten(roots)
	require.NoError(t, err)
	require.Len(t, entries, fixtureSize)

	vectors := make([][]float32, len(entries))
	for i := range vectors {
		vectors[i] = oneHot(i)
	}
	index, err := vector.NewIndex(vectors)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.Dimension = fixtureSize
	embedder.WithVector("hydrating", oneHot(posMoisturizers))
	embedder.WithVector("care > by", oneHot(posLiners))
	embedder.WithVector("faraway", make([]float32, fixtureSize))

	opts = append([]Option{WithRetry(2, time.Millisecond)}, opts...)
	r, err := New(entries, index, embedder, opts...)
	require.NoError(t, err)
	return r, embedder
}

func TestNew_Validation(t *testing.T) {
	entries := []core.Entry{{Path: "A", Segments: []string{"A"}}}
	index, err := vector.NewIndex([][]float32{{1}})
	require.NoError(t, err)
	twoVectors, err := vector.NewIndex([][]float32{{1}, {2}})
	require.NoError(t, err)
	embedder := mock.NewMockEmbedder()

	tests := []struct {
		name     string
		entries  []core.Entry
		index    *vector.Index
		embedder *mock.MockEmbedder
		wantErr  error
	}{
		{name: "no entries", index: index, embedder: embedder, wantErr: ErrEntriesRequired},
		{name: "no index", entries: entries, embedder: embedder, wantErr: ErrIndexRequired},
		{name: "size mismatch", entries: entries, index: twoVectors, embedder: embedder, wantErr: ErrIndexMismatch},
		{name: "no embedder", entries: entries, index: index, wantErr: ErrEmbedderRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.embedder == nil {
				_, err = New(tt.entries, tt.index, nil)
			} else {
				_, err = New(tt.entries, tt.index, tt.embedder)
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = New(entries, index, embedder, WithQueryTimeout(0))
	assert.Error(t, err)
	_, err = New(entries, index, embedder, WithRetry(0, time.Second))
	assert.Error(t, err)
	_, err = New(entries, index, embedder, WithMaxDistance(-1))
	assert.Error(t, err)
}

func TestResolve_Lexical(t *testing.T) {
	r, embedder := newFixture(t)

	tests := []struct {
		name      string
		query     string
		wantPath  string
		wantScore int
	}{
		{name: "exact leaf", query: "serums", wantPath: "Skincare > By Category > Serums", wantScore: lexical.ScoreExactLeaf},
		{name: "exact leaf ignores case and spacing", query: "  UV   Protection ", wantPath: "Skincare > By Category > UV Protection", wantScore: lexical.ScoreExactLeaf},
		{name: "compact equivalence", query: "uvprotection", wantPath: "Skincare > By Category > UV Protection", wantScore: lexical.ScoreCompactLeaf},
		{name: "leaf prefix", query: "UV", wantPath: "Skincare > By Category > UV Protection", wantScore: lexical.ScoreLeafPrefix},
		{name: "deeper path wins a tie", query: "liner", wantPath: "Eyes > Liners > Liner Pencils", wantScore: lexical.ScoreLeafPrefix},
		{name: "first seen wins an equal tie", query: "cream", wantPath: "Skincare > By Category > Moisturizers > Day Cream", wantScore: lexical.ScoreLeafSubstring},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.Resolve(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, result.Path)
			assert.Equal(t, core.MatchLexical, result.Match)
			assert.Equal(t, tt.wantScore, result.LexicalScore)
		})
	}

	assert.Zero(t, embedder.CallCount(), "lexical matches never embed")
}

func TestResolve_EndToEnd(t *testing.T) {
	r, _ := newFixture(t)

	result, err := r.Resolve(context.Background(), "UV")
	require.NoError(t, err)
	assert.Equal(t, "Skincare > By Category > UV Protection", result.Path)
	require.NotNil(t, result.ID)
	assert.Equal(t, "3fa9b1c2", *result.ID)
	assert.Equal(t, "Sun protection", result.Definition)
	assert.Empty(t, result.Children)
}

func TestResolve_VectorFallback(t *testing.T) {
	r, embedder := newFixture(t)

	result, err := r.Resolve(context.Background(), "hydrating")
	require.NoError(t, err)
	assert.Equal(t, "Skincare > By Category > Moisturizers", result.Path)
	assert.Equal(t, core.MatchVector, result.Match)
	assert.Equal(t, lexical.ScoreNone, result.LexicalScore)
	assert.Zero(t, result.Distance)
	assert.Equal(t, []string{"Day Cream", "Night Cream"}, result.Children)
	assert.Nil(t, result.ID)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestResolve_TermSubstringFallsBelowThreshold(t *testing.T) {
	r, _ := newFixture(t)

	result, err := r.Resolve(context.Background(), "care > by")
	require.NoError(t, err)
	assert.Equal(t, lexical.ScoreTermSubstring, result.LexicalScore)
	assert.Equal(t, core.MatchVector, result.Match)
	assert.Equal(t, "Eyes > Liners", result.Path)
}

func TestResolve_BestEffortByDefault(t *testing.T) {
	r, _ := newFixture(t)

	result, err := r.Resolve(context.Background(), "faraway")
	require.NoError(t, err)
	assert.Equal(t, "Skincare", result.Path, "equal distances go to the lowest position")
	assert.InDelta(t, 1.0, result.Distance, 1e-6)
}

func TestResolve_StrictMode(t *testing.T) {
	r, _ := newFixture(t, WithMaxDistance(0.5))

	_, err := r.Resolve(context.Background(), "faraway")
	assert.ErrorIs(t, err, ErrNoConfidentMatch)

	result, err := r.Resolve(context.Background(), "hydrating")
	require.NoError(t, err)
	assert.Equal(t, "Skincare > By Category > Moisturizers", result.Path)

	result, err = r.Resolve(context.Background(), "UV")
	require.NoError(t, err, "lexical matches are unaffected")
	assert.Equal(t, core.MatchLexical, result.Match)
}

func TestResolve_EmptyQuery(t *testing.T) {
	r, embedder := newFixture(t)

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := r.Resolve(context.Background(), q)
		assert.ErrorIs(t, err, core.ErrEmptyQuery)
	}
	assert.Zero(t, embedder.CallCount())
}

func TestResolve_EmbedsTrimmedQuery(t *testing.T) {
	r, embedder := newFixture(t)
	var mu sync.Mutex
	var embedded []string
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		mu.Lock()
		defer mu.Unlock()
		embedded = append(embedded, text)
		return oneHot(posMoisturizers), nil
	}

	result, err := r.Resolve(context.Background(), "  hydrating \n")
	require.NoError(t, err)
	assert.Equal(t, "Skincare > By Category > Moisturizers", result.Path)
	assert.Equal(t, []string{"hydrating"}, embedded)
}

func TestResolve_EmbeddingFailure(t *testing.T) {
	r, embedder := newFixture(t)
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("service unavailable")
	}

	_, err := r.Resolve(context.Background(), "hydrating")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
	assert.Contains(t, err.Error(), "service unavailable")
	assert.Equal(t, 2, embedder.CallCount(), "retried once")
}

func TestResolve_EmbeddingRecoversOnRetry(t *testing.T) {
	r, embedder := newFixture(t)
	var mu sync.Mutex
	calls := 0
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return nil, errors.New("flaky")
		}
		return oneHot(posSerums), nil
	}

	result, err := r.Resolve(context.Background(), "hydrating")
	require.NoError(t, err)
	assert.Equal(t, "Skincare > By Category > Serums", result.Path)
}

func TestResolve_EmbeddingTimeout(t *testing.T) {
	r, embedder := newFixture(t, WithQueryTimeout(20*time.Millisecond))
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	started := time.Now()
	_, err := r.Resolve(context.Background(), "hydrating")
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(started), 2*time.Second)
}

func TestResolve_WrongDimension(t *testing.T) {
	r, embedder := newFixture(t)
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 2}, nil
	}

	_, err := r.Resolve(context.Background(), "hydrating")
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
}

func TestResolve_Idempotent(t *testing.T) {
	r, _ := newFixture(t)

	for _, q := range []string{"UV", "hydrating", "care > by", "cream"} {
		first, err := r.Resolve(context.Background(), q)
		require.NoError(t, err)
		second, err := r.Resolve(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, first, second, q)
	}
}

func TestResolve_Concurrent(t *testing.T) {
	r, _ := newFixture(t)
	queries := map[string]string{
		"UV":        "Skincare > By Category > UV Protection",
		"serums":    "Skincare > By Category > Serums",
		"hydrating": "Skincare > By Category > Moisturizers",
		"liner":     "Eyes > Liners > Liner Pencils",
	}

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		for q, want := range queries {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result, err := r.Resolve(context.Background(), q)
				if assert.NoError(t, err) {
					assert.Equal(t, want, result.Path)
				}
			}()
		}
	}
	wg.Wait()
}

func TestLookup(t *testing.T) {
	r, _ := newFixture(t)

	result, ok := r.Lookup("Skincare > By Category")
	require.True(t, ok)
	assert.Equal(t, []string{"UV Protection", "Serums", "Moisturizers"}, result.Children)

	_, ok = r.Lookup("Skincare > Nope")
	assert.False(t, ok)
}

func TestEntries(t *testing.T) {
	r, _ := newFixture(t)

	entries := r.Entries()
	require.Len(t, entries, fixtureSize)
	assert.Equal(t, fixtureSize, r.Len())
	assert.Equal(t, "Skincare", entries[posSkincare].Path)

	entries[0].Path = "mutated"
	assert.Equal(t, "Skincare", r.Entries()[0].Path)
}
