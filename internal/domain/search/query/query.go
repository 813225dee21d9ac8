// Package query defines the search filter variants the store adapter
// translates into its native query language. The two builders mirror the two
// retrieval strategies: indexed phrase-aware text search and literal
// substring matching over title, content, and author.
package query

import (
	"fmt"
	"regexp"
	"strings"
)

// Query is the tagged union of search filters. Translation to store syntax
// happens only at the store-adapter boundary.
type Query interface {
	isQuery()
}

// Normalize strips leading and trailing whitespace from a raw search phrase.
// Case, interior whitespace, and punctuation are left untouched.
func Normalize(phrase string) string {
	return strings.TrimSpace(phrase)
}

// Text is an indexed full-text query: relevance-ranked, and exact-phrase when
// the normalized input contains interior whitespace.
type Text struct {
	search string
}

// BuildText normalizes the phrase and wraps it in double quotes when it
// contains an interior space, so the text engine treats it as an exact phrase
// rather than an OR of terms. Fails when nothing remains after normalization.
func BuildText(phrase string) (Text, error) {
	s := Normalize(phrase)
	if s == "" {
		return Text{}, fmt.Errorf("empty search phrase after normalization")
	}
	if strings.Contains(s, " ") {
		s = `"` + s + `"`
	}
	return Text{search: s}, nil
}

// Search returns the normalized, possibly quoted, search expression.
func (t Text) Search() string { return t.search }

// IsPhrase reports whether the expression carries exact-phrase quoting.
func (t Text) IsPhrase() bool { return strings.HasPrefix(t.search, `"`) }

func (Text) isQuery() {}

// Substring is the fallback query: unranked, case-insensitive literal
// substring match across title, content, and author.
type Substring struct {
	term string
	re   *regexp.Regexp
}

// BuildSubstring builds a literal substring query. All regexp metacharacters
// in term are quoted, so "a.b" matches only "a.b", never "axb".
func BuildSubstring(term string) Substring {
	return Substring{
		term: term,
		re:   regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term)),
	}
}

// Term returns the raw search term.
func (s Substring) Term() string { return s.term }

// Matches reports whether text contains the term as a literal,
// case-insensitive substring. This is the canonical matching semantics the
// adapter translation must preserve.
func (s Substring) Matches(text string) bool { return s.re.MatchString(text) }

func (Substring) isQuery() {}
