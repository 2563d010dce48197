// Package search implements the note text search: query parsing,
// matching and relevance scoring over title, content and tags.
package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"sharednotes/cmd/internal/domain/entity"
)

// Field weights. Every field counts the same, like a plain text index.
const (
	titleWeight   = 1.0
	contentWeight = 1.0
	tagsWeight    = 1.0
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {},
	"by": {}, "for": {}, "if": {}, "in": {}, "into": {}, "is": {}, "it": {}, "no": {},
	"not": {}, "of": {}, "on": {}, "or": {}, "such": {}, "that": {}, "the": {},
	"their": {}, "then": {}, "there": {}, "these": {}, "they": {}, "this": {}, "to": {},
	"was": {}, "will": {}, "with": {},
}

// Query is a parsed search string.
//
//	unique searchable     any of the terms
//	"exact phrase"        every phrase must appear
//	-draft                notes containing the term are dropped
type Query struct {
	Terms    []string
	Phrases  []string
	Excluded []string
}

// Parse splits raw into terms, quoted phrases and excluded terms.
// Everything is lowercased and stop words are dropped.
func Parse(raw string) Query {
	var q Query

	parts := strings.Split(raw, `"`)
	for i, part := range parts {
		// Odd segments sit between quotes
		if i%2 == 1 {
			phrase := strings.Join(tokenize(part), " ")
			if phrase != "" && !slices.Contains(q.Phrases, phrase) {
				q.Phrases = append(q.Phrases, phrase)
			}
			continue
		}

		for _, word := range strings.Fields(part) {
			negated := strings.HasPrefix(word, "-")
			for _, tok := range tokenize(word) {
				if _, stop := stopWords[tok]; stop {
					continue
				}

				if negated {
					q.Excluded = appendUnique(q.Excluded, tok)
				} else {
					q.Terms = appendUnique(q.Terms, tok)
				}
			}
		}
	}
	return q
}

// IsEmpty reports whether the query can match nothing.
func (q Query) IsEmpty() bool {
	return len(q.Terms) == 0 && len(q.Phrases) == 0
}

// Candidates lists every token a matching note must contain at least one of.
func (q Query) Candidates() []string {
	tokens := slices.Clone(q.Terms)
	for _, phrase := range q.Phrases {
		for _, tok := range strings.Fields(phrase) {
			tokens = appendUnique(tokens, tok)
		}
	}
	return tokens
}

// Score returns the relevance of note, or 0 when it does not match.
func (q Query) Score(note *entity.Note) float64 {
	fields := []struct {
		tokens []string
		weight float64
	}{
		{tokenize(note.Title), titleWeight},
		{tokenize(note.Content), contentWeight},
		{tokenize(strings.Join(note.Tags, " ")), tagsWeight},
	}

	texts := make([]string, len(fields))
	for i, f := range fields {
		texts[i] = " " + strings.Join(f.tokens, " ") + " "
	}

	for _, excluded := range q.Excluded {
		if anyContains(texts, excluded) {
			return 0
		}
	}

	for _, phrase := range q.Phrases {
		if !anyContains(texts, phrase) {
			return 0
		}
	}

	var score float64
	for _, term := range q.Candidates() {
		for _, f := range fields {
			count := countOf(f.tokens, term)
			if count == 0 {
				continue
			}
			score += f.weight * (0.5*float64(count)/float64(len(f.tokens)) + 0.5)
		}
	}
	return score
}

// Rank keeps the matching notes, best score first. Notes with equal scores
// keep their relative input order.
func Rank(q Query, notes []*entity.Note) []*entity.Note {
	type scored struct {
		note  *entity.Note
		score float64
	}

	results := make([]scored, 0, len(notes))
	for _, note := range notes {
		if s := q.Score(note); s > 0 {
			results = append(results, scored{note: note, score: s})
		}
	}

	slices.SortStableFunc(results, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	ranked := make([]*entity.Note, len(results))
	for i, r := range results {
		ranked[i] = r.note
	}
	return ranked
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// anyContains reports whether one of the space padded texts holds words as whole tokens.
func anyContains(texts []string, words string) bool {
	for _, text := range texts {
		if strings.Contains(text, " "+words+" ") {
			return true
		}
	}
	return false
}

func countOf(tokens []string, term string) int {
	n := 0
	for _, tok := range tokens {
		if tok == term {
			n++
		}
	}
	return n
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
