package scanner

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var numberRun = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// span is one segment of a natural-sort key: either a numeric run parsed as
// a float or a lowercased text run. Splitting on numberRun yields spans that
// strictly alternate text/number (the text spans may be empty), so spans at
// the same position in two keys always have the same kind.
type span struct {
	text    string
	num     float64
	numeric bool
}

func sortKey(s string) []span {
	matches := numberRun.FindAllStringIndex(s, -1)
	spans := make([]span, 0, len(matches)*2+1)
	prev := 0
	for _, m := range matches {
		spans = append(spans, span{text: strings.ToLower(s[prev:m[0]])})
		n, _ := strconv.ParseFloat(s[m[0]:m[1]], 64)
		spans = append(spans, span{num: n, numeric: true})
		prev = m[1]
	}
	spans = append(spans, span{text: strings.ToLower(s[prev:])})
	return spans
}

// Less reports whether a orders before b under natural sort: embedded digit
// runs (with optional decimal point and leading minus) compare numerically,
// everything else compares case-insensitively as text.
func Less(a, b string) bool {
	ka, kb := sortKey(a), sortKey(b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		sa, sb := ka[i], kb[i]
		if sa.numeric && sb.numeric {
			if sa.num != sb.num {
				return sa.num < sb.num
			}
			continue
		}
		if sa.text != sb.text {
			return sa.text < sb.text
		}
	}
	return len(ka) < len(kb)
}

// Sort orders keys in place using natural sort.
func Sort(keys []string) {
	sort.Slice(keys, func(i, j int) bool { return Less(keys[i], keys[j]) })
}
