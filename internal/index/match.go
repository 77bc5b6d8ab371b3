package index

import (
	"strings"
	"unicode"
)

// snippetRadius is the number of runes kept on each side of a body hit.
const snippetRadius = 60

// lowerRunes lower-cases s rune by rune, so rune offsets in the result line
// up with rune offsets in s.
func lowerRunes(s string) []rune {
	r := []rune(s)
	for i, c := range r {
		r[i] = unicode.ToLower(c)
	}
	return r
}

// fold returns the lower-cased form stored in the *_lc columns.
func fold(s string) string {
	return string(lowerRunes(s))
}

// indexRunes returns the offset of the first occurrence of needle in hay,
// or -1.
func indexRunes(hay, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
outer:
	for i := 0; i+len(needle) <= len(hay); i++ {
		for j, c := range needle {
			if hay[i+j] != c {
				continue outer
			}
		}
		return i
	}
	return -1
}

// classify reports the first field q occurs in, ignoring case.
func classify(q []rune, title, description, body string) (Match, bool) {
	switch {
	case indexRunes(lowerRunes(title), q) >= 0:
		return MatchTitle, true
	case indexRunes(lowerRunes(description), q) >= 0:
		return MatchDescription, true
	case indexRunes(lowerRunes(body), q) >= 0:
		return MatchBody, true
	}
	return "", false
}

// snippet returns a short single-line excerpt of body around the first hit
// of q. Without a body hit it falls back to description, then to the start
// of body.
func snippet(q []rune, description, body string) string {
	runes := []rune(body)
	at := indexRunes(lowerRunes(body), q)
	if at < 0 {
		if description != "" {
			return description
		}
		return collapse(string(runes[:min(len(runes), 2*snippetRadius)]))
	}

	start := max(0, at-snippetRadius)
	end := min(len(runes), at+len(q)+snippetRadius)
	out := collapse(string(runes[start:end]))
	if start > 0 {
		out = "…" + out
	}
	if end < len(runes) {
		out += "…"
	}
	return out
}

// collapse joins s onto one line with single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeQuery trims and lower-cases a search query.
func normalizeQuery(q string) []rune {
	return lowerRunes(strings.TrimSpace(q))
}

// escapeLike escapes LIKE wildcards with a backslash.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
