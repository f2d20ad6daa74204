// Package lexical implements label normalization and rule-based lexical scoring
// of taxonomy entries.
//
// Normalize produces the lowercase variants stored on every entry at flattening
// time. Score applies a fixed ladder of string rules (exact leaf, compact leaf,
// search-term membership, prefixes, substrings) and BestMatch picks the winner,
// preferring deeper paths when scores tie.
//
// Scores are ordinal signals from 0 to 6. They are never blended with vector
// similarity.
package lexical
