// Package resolve maps free-text references from parsed actions onto
// explicit candidate sets built per verb. Intentionally simple: text
// normalization plus exact/substring matching, no fuzzy-search library.
package resolve

import (
	"fmt"
	"strings"
)

// Candidate is one resolvable entity: an id plus its display name.
type Candidate struct {
	ID   string
	Name string
}

// NotFoundError indicates no candidate matched a reference.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %q here", e.Ref)
}

// AmbiguityError indicates multiple candidates matched a reference.
type AmbiguityError struct {
	Ref     string
	Matches []Candidate
}

func (e *AmbiguityError) Error() string {
	names := make([]string, len(e.Matches))
	for i, m := range e.Matches {
		names[i] = m.Name
	}
	return fmt.Sprintf("which %s? (%s)", e.Ref, strings.Join(names, ", "))
}

// diacritics folds the German umlauts and sharp s; everything else
// passes through unchanged.
var diacritics = strings.NewReplacer(
	"ä", "a", "ö", "o", "ü", "u", "ß", "ss",
	"á", "a", "à", "a", "â", "a",
	"é", "e", "è", "e", "ê", "e",
	"í", "i", "ì", "i", "î", "i",
	"ó", "o", "ò", "o", "ô", "o",
	"ú", "u", "ù", "u", "û", "u",
)

// Normalize lowercases, folds diacritics, and collapses whitespace.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = diacritics.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Find resolves a reference against a candidate set. Exact id or name
// matches win outright; otherwise a normalized substring match in
// either direction counts. Returns NotFoundError or AmbiguityError on
// zero or multiple hits.
func Find(ref string, candidates []Candidate) (Candidate, error) {
	norm := Normalize(ref)
	if norm == "" {
		return Candidate{}, &NotFoundError{Ref: ref}
	}

	var exact, partial []Candidate
	for _, c := range candidates {
		id := Normalize(c.ID)
		name := Normalize(c.Name)
		switch {
		case id == norm || name == norm:
			exact = append(exact, c)
		case strings.Contains(name, norm) || strings.Contains(id, norm) ||
			strings.Contains(norm, name) && name != "":
			partial = append(partial, c)
		}
	}

	pick := exact
	if len(pick) == 0 {
		pick = partial
	}
	pick = dedupe(pick)

	switch len(pick) {
	case 0:
		return Candidate{}, &NotFoundError{Ref: ref}
	case 1:
		return pick[0], nil
	default:
		return Candidate{}, &AmbiguityError{Ref: ref, Matches: pick}
	}
}

func dedupe(cands []Candidate) []Candidate {
	seen := map[string]bool{}
	out := cands[:0]
	for _, c := range cands {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}
