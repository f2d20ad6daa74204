package lexical

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Variants is a deduplicated set of normalized label forms.
type Variants map[string]struct{}

// Normalize produces the lowercase lookup variants of a label.
//
// The base form is the NFC-normalized, trimmed, lowercased label. Variants are the base
// form and the base form with "&" spelled "and", "&" dropped, "/" and "-" turned into
// spaces, each with whitespace runs collapsed. The compact form is the base with all
// whitespace removed; it is returned separately and is also a member of the set.
// Empty input yields an empty set and an empty compact form.
func Normalize(label string) (Variants, string) {
	base := strings.ToLower(strings.TrimSpace(norm.NFC.String(label)))
	variants := make(Variants, 6)
	if base == "" {
		return variants, ""
	}

	for _, v := range []string{
		base,
		strings.ReplaceAll(base, "&", "and"),
		strings.ReplaceAll(base, "&", ""),
		strings.ReplaceAll(base, "/", " "),
		strings.ReplaceAll(base, "-", " "),
	} {
		if v = collapseSpaces(v); v != "" {
			variants[v] = struct{}{}
		}
	}

	compact := removeSpaces(base)
	variants[compact] = struct{}{}
	return variants, compact
}

// NormalizeQuery returns the whitespace-collapsed lowercase form of a query and its
// compact form. Unlike Normalize it applies no punctuation substitutions.
func NormalizeQuery(query string) (normalized, compact string) {
	normalized = collapseSpaces(strings.ToLower(norm.NFC.String(query)))
	return normalized, removeSpaces(normalized)
}

// Lower returns the NFC-normalized lowercase form of a label without trimming or collapsing.
func Lower(label string) string {
	return strings.ToLower(norm.NFC.String(label))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func removeSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
