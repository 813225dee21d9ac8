package redis

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/geodocs/internal/domain/search/query"
)

// searchFieldGroup lists the indexed text fields every search runs against.
const searchFieldGroup = "title|content|author"

// renderQuery translates a query variant into RediSearch dialect 2 syntax
// scoped to the text field group.
func renderQuery(q query.Query) (string, error) {
	switch v := q.(type) {
	case query.Text:
		return "@" + searchFieldGroup + ":(" + renderText(v) + ")", nil
	case query.Substring:
		rendered, err := renderSubstring(v)
		if err != nil {
			return "", err
		}
		return "@" + searchFieldGroup + ":(" + rendered + ")", nil
	default:
		return "", fmt.Errorf("unsupported query type %T", q)
	}
}

// renderText keeps exact-phrase quoting intact while escaping the phrase body.
func renderText(t query.Text) string {
	if t.IsPhrase() {
		inner := strings.Trim(t.Search(), `"`)
		return `"` + escapeQuery(inner) + `"`
	}
	return escapeQuery(t.Search())
}

// renderSubstring widens the term into per-token infix wildcards. Requires
// the text fields to be indexed WITHSUFFIXTRIE. Wildcards match within
// single index tokens, so the term is split on the same boundaries the
// tokenizer uses (any non-alphanumeric rune): the index answers with a
// candidate superset, and callers filter it down with Substring.Matches.
func renderSubstring(sub query.Substring) (string, error) {
	tokens := strings.FieldsFunc(sub.Term(), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) == 0 {
		return "", fmt.Errorf("substring term has no searchable characters")
	}
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		parts = append(parts, "*"+tok+"*")
	}
	return strings.Join(parts, " "), nil
}

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)
