package query

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DateLayout is the day format accepted by date attributes.
const DateLayout = "2006-01-02"

// rangeSep separates the bounds of a range value.
const rangeSep = ".."

// openBound stands in for a missing range bound.
const openBound = "*"

// operators are the boolean keywords of the query language.
var operators = map[string]struct{}{"and": {}, "or": {}, "not": {}}

// Range is an inclusive pair of bounds. An empty bound is open.
type Range struct {
	From string
	To   string
}

// Dates returns a day range. A zero time leaves that bound open.
func Dates(from, to time.Time) Range {
	return Range{From: Day(from), To: Day(to)}
}

// Day formats t as a query date, or returns "" for the zero time.
func Day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// IsZero reports whether both bounds are open.
func (r Range) IsZero() bool {
	return r.From == "" && r.To == ""
}

// Field is a custom-field constraint.
type Field struct {
	Name  string
	Value string
}

// Builder accumulates clauses. The zero value is ready to use.
type Builder struct {
	clauses []string
	text    []string
}

// Term adds "key: value". Empty values are skipped.
func (b *Builder) Term(key, value string) *Builder {
	if key == "" || value == "" {
		return b
	}
	b.clauses = append(b.clauses, key+": "+Quote(value))
	return b
}

// Terms adds "key: v1, v2", which matches any of the values. Empty values are
// dropped, and no clause is added when none remain.
func (b *Builder) Terms(key string, values ...string) *Builder {
	if key == "" {
		return b
	}
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			quoted = append(quoted, Quote(v))
		}
	}
	if len(quoted) == 0 {
		return b
	}
	b.clauses = append(b.clauses, key+": "+strings.Join(quoted, ", "))
	return b
}

// Range adds "key: from .. to". A range with both bounds open is skipped;
// a single open bound renders as "*".
func (b *Builder) Range(key string, r Range) *Builder {
	if key == "" || r.IsZero() {
		return b
	}
	b.clauses = append(b.clauses, key+": "+bound(r.From)+" "+rangeSep+" "+bound(r.To))
	return b
}

// Field adds a custom-field clause. Names containing whitespace are braced.
func (b *Builder) Field(f Field) *Builder {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return b
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		name = "{" + name + "}"
	}
	return b.Term(name, f.Value)
}

// Text appends unprefixed free text. It always renders after every clause.
func (b *Builder) Text(text string) *Builder {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return b
	}
	if hasReserved(text, false) {
		text = quote(text)
	}
	b.text = append(b.text, text)
	return b
}

// String joins the clauses with single spaces.
func (b *Builder) String() string {
	parts := make([]string, 0, len(b.clauses)+len(b.text))
	parts = append(parts, b.clauses...)
	parts = append(parts, b.text...)
	return strings.Join(parts, " ")
}

// Quote returns v in NFC form, double-quoted when it would otherwise be
// misread as more than one token.
func Quote(v string) string {
	v = norm.NFC.String(v)
	if hasReserved(v, true) {
		return quote(v)
	}
	return v
}

func bound(v string) string {
	if v == "" {
		return openBound
	}
	return Quote(v)
}

func quote(v string) string {
	var sb strings.Builder
	sb.Grow(len(v) + 2)
	sb.WriteByte('"')
	for _, r := range v {
		if r == '"' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}

// hasReserved reports whether v contains characters or words the query
// parser treats as delimiters. Whitespace only counts when spaces is set.
func hasReserved(v string, spaces bool) bool {
	if strings.HasPrefix(v, "-") || strings.Contains(v, rangeSep) {
		return true
	}
	for _, r := range v {
		switch {
		case r == ':', r == '"', r == '\\', r == '{', r == '}', r == ',', r == '(', r == ')':
			return true
		case spaces && unicode.IsSpace(r):
			return true
		}
	}
	for _, word := range strings.Fields(v) {
		if _, ok := operators[strings.ToLower(word)]; ok {
			return true
		}
	}
	return false
}
