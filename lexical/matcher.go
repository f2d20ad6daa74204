package lexical

import (
	"strings"

	"github.com/poiesic/categorit/core"
)

// Lexical scores. Scores are ordinal and only comparable with each other.
const (
	ScoreExactLeaf     = 6
	ScoreCompactLeaf   = 5
	ScoreSearchTerm    = 5
	ScoreLeafPrefix    = 4
	ScoreCompactPrefix = 3
	ScoreLeafSubstring = 2
	ScoreTermSubstring = 1
	ScoreNone          = 0
)

// Match is the outcome of BestMatch.
type Match struct {
	Index int // Position of the winning entry, -1 when there are no entries
	Score int
}

// Score rates one entry against a normalized query using a fixed rule ladder.
// The first rule that applies determines the score.
func Score(normalized, compact string, entry *core.Entry) int {
	switch {
	case normalized == entry.Leaf:
		return ScoreExactLeaf
	case compact != "" && compact == entry.LeafCompact:
		return ScoreCompactLeaf
	case hasTerm(entry.SearchTerms, normalized):
		return ScoreSearchTerm
	case strings.HasPrefix(entry.Leaf, normalized):
		return ScoreLeafPrefix
	case compact != "" && strings.HasPrefix(entry.LeafCompact, compact):
		return ScoreCompactPrefix
	case normalized != "" && strings.Contains(entry.Leaf, normalized):
		return ScoreLeafSubstring
	case compact != "" && strings.Contains(entry.LeafCompact, compact):
		return ScoreLeafSubstring
	case containedInTerm(entry.SearchTerms, normalized):
		return ScoreTermSubstring
	default:
		return ScoreNone
	}
}

// BestMatch scores every entry and returns the best one. A strictly higher score wins;
// equal scores go to the deeper path; equal score and depth keep the first entry seen.
func BestMatch(entries []core.Entry, normalized, compact string) Match {
	best := Match{Index: -1, Score: -1}
	bestDepth := -1

	for i := range entries {
		score := Score(normalized, compact, &entries[i])
		depth := entries[i].Depth()
		if score > best.Score || (score == best.Score && depth > bestDepth) {
			best = Match{Index: i, Score: score}
			bestDepth = depth
		}
	}

	if best.Index < 0 {
		best.Score = ScoreNone
	}
	return best
}

func hasTerm(terms map[string]struct{}, term string) bool {
	_, ok := terms[term]
	return ok
}

func containedInTerm(terms map[string]struct{}, query string) bool {
	for term := range terms {
		if term != "" && strings.Contains(term, query) {
			return true
		}
	}
	return false
}
