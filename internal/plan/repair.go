package plan

import "strings"

// repairStep rewrites a JSON fragment. Steps run in order, each on the
// previous step's output.
type repairStep func(string) string

var repairSteps = []repairStep{
	normalizeLineEndings,
	normalizeSmartQuotes,
	StripTrailingCommas,
	ConvertSingleQuotes,
}

// RepairCandidates returns the fragment followed by progressively repaired
// rewrites of it. Every candidate is trimmed and appears once.
func RepairCandidates(fragment string) []string {
	current := strings.TrimSpace(fragment)
	candidates := []string{current}
	seen := map[string]struct{}{current: {}}

	for _, step := range repairSteps {
		current = strings.TrimSpace(step(current))
		if _, ok := seen[current]; ok {
			continue
		}
		seen[current] = struct{}{}
		candidates = append(candidates, current)
	}
	return candidates
}

func normalizeLineEndings(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

var smartQuotes = strings.NewReplacer(
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`, "″", `"`,
	"‘", "'", "’", "'", "‚", "'", "‛", "'", "′", "'",
)

func normalizeSmartQuotes(s string) string {
	return smartQuotes.Replace(s)
}

type quoteState int

const (
	outsideString quoteState = iota
	inSingleQuote
	inDoubleQuote
)

// quoteScanner tracks string state one byte at a time. A quote preceded by
// an odd run of backslashes never toggles the state.
type quoteScanner struct {
	state       quoteState
	backslashes int
}

// advance consumes c and returns the state c was read in.
func (q *quoteScanner) advance(c byte) quoteState {
	before := q.state
	if c == '\\' {
		q.backslashes++
		return before
	}
	escaped := q.backslashes%2 == 1
	q.backslashes = 0
	if escaped {
		return before
	}

	switch {
	case q.state == outsideString && c == '"':
		q.state = inDoubleQuote
	case q.state == outsideString && c == '\'':
		q.state = inSingleQuote
	case q.state == inDoubleQuote && c == '"':
		q.state = outsideString
	case q.state == inSingleQuote && c == '\'':
		q.state = outsideString
	}
	return before
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// StripTrailingCommas removes commas outside strings that are followed,
// after whitespace and further commas, by a closing brace or bracket.
// It is idempotent.
func StripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var q quoteScanner
	for i := 0; i < len(s); i++ {
		c := s[i]
		if q.advance(c) == outsideString && c == ',' && closesAfter(s, i+1) {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func closesAfter(s string, from int) bool {
	for j := from; j < len(s); j++ {
		switch c := s[j]; {
		case isSpace(c) || c == ',':
			continue
		case c == '}' || c == ']':
			return true
		default:
			return false
		}
	}
	return false
}

// ConvertSingleQuotes rewrites single-quoted keys and values as
// double-quoted strings. Double-quoted strings are copied unchanged.
func ConvertSingleQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	var q quoteScanner
	for i := 0; i < len(s); i++ {
		c := s[i]
		if q.state != outsideString || c != '\'' {
			q.advance(c)
			b.WriteByte(c)
			continue
		}

		end := closingSingleQuote(s, i+1)
		if end < 0 {
			b.WriteString(s[i:])
			break
		}

		prev := prevSignificant(s, i-1)
		next := nextSignificant(s, end+1)
		isKey := next == ':'
		isValue := (prev == ':' || prev == '[' || prev == ',') && (next == ',' || next == '}' || next == ']')
		if isKey || isValue {
			b.WriteByte('"')
			b.WriteString(requoteInner(s[i+1 : end]))
			b.WriteByte('"')
		} else {
			b.WriteString(s[i : end+1])
		}
		q.backslashes = 0
		i = end
	}
	return b.String()
}

// closingSingleQuote returns the index of the unescaped quote closing a
// single-quoted run starting at from, or -1.
func closingSingleQuote(s string, from int) int {
	backslashes := 0
	for j := from; j < len(s); j++ {
		switch s[j] {
		case '\\':
			backslashes++
			continue
		case '\'':
			if backslashes%2 == 0 {
				return j
			}
		}
		backslashes = 0
	}
	return -1
}

func prevSignificant(s string, from int) byte {
	for j := from; j >= 0; j-- {
		if !isSpace(s[j]) {
			return s[j]
		}
	}
	return 0
}

func nextSignificant(s string, from int) byte {
	for j := from; j < len(s); j++ {
		if !isSpace(s[j]) {
			return s[j]
		}
	}
	return 0
}

// requoteInner turns the body of a single-quoted string into a valid
// double-quoted body: \' becomes ' and bare " is escaped.
func requoteInner(inner string) string {
	var b strings.Builder
	b.Grow(len(inner))
	for k := 0; k < len(inner); k++ {
		c := inner[k]
		switch {
		case c == '\\' && k+1 < len(inner):
			if inner[k+1] == '\'' {
				b.WriteByte('\'')
			} else {
				b.WriteByte(c)
				b.WriteByte(inner[k+1])
			}
			k++
		case c == '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
