// Package germandate parses German-language dates such as
// "Montag, den 5. Juni 2017" against strftime-style layouts.
//
// Month and weekday names come from an explicit Tables value rather than from
// the process locale, so parsing behaves the same on every machine.
package germandate

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

type directive byte

// Parser matches one layout. It is safe for concurrent use.
type Parser struct {
	layout     string
	re         *regexp.Regexp
	directives []directive
	tables     Tables
	loc        *time.Location
}

// Option configures a Parser.
type Option func(*Parser)

// WithTables replaces the German name tables.
func WithTables(t Tables) Option {
	return func(p *Parser) { p.tables = t }
}

// WithLocation sets the location of parsed dates. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) { p.loc = loc }
}

// New compiles layout. Supported directives: %A %a %d %B %b %m %Y %y %%.
func New(layout string, opts ...Option) (*Parser, error) {
	p := &Parser{layout: layout, tables: German, loc: time.UTC}
	for _, opt := range opts {
		opt(p)
	}

	if strings.TrimSpace(layout) == "" {
		return nil, fmt.Errorf("germandate: empty layout")
	}

	var b strings.Builder
	b.WriteString(`(?i)^\s*`)
	runes := []rune(layout)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '%':
			if i+1 >= len(runes) {
				return nil, fmt.Errorf("germandate: dangling %% in layout %q", layout)
			}
			i++
			d := runes[i]
			group, err := p.group(directive(d))
			if err != nil {
				return nil, fmt.Errorf("germandate: layout %q: %w", layout, err)
			}
			if d == '%' {
				b.WriteString(group)
				continue
			}
			b.WriteString("(" + group + ")")
			p.directives = append(p.directives, directive(d))
		case unicode.IsSpace(r):
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
			}
			b.WriteString(`\s+`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`\s*$`)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("germandate: layout %q: %w", layout, err)
	}
	p.re = re
	return p, nil
}

// MustNew is New for layouts known at compile time.
func MustNew(layout string, opts ...Option) *Parser {
	p, err := New(layout, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Layout returns the layout the parser was built from.
func (p *Parser) Layout() string { return p.layout }

func (p *Parser) group(d directive) (string, error) {
	switch d {
	case 'A':
		return alternation(p.tables.Weekdays), nil
	case 'a':
		return alternation(p.tables.WeekdayAbbr), nil
	case 'B':
		return alternation(p.tables.Months), nil
	case 'b':
		return alternation(p.tables.MonthAbbr), nil
	case 'd', 'm':
		return `\d{1,2}`, nil
	case 'Y':
		return `\d{4}`, nil
	case 'y':
		return `\d{2}`, nil
	case '%':
		return `%`, nil
	default:
		return "", fmt.Errorf("unsupported directive %%%c", d)
	}
}

// alternation builds a regexp alternation over the keys, longest first so
// that "Sept." wins over "Sep".
func alternation[V any](names map[string]V) string {
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return strings.Join(keys, "|")
}

// Parse converts value to a calendar date. Weekday names are matched but not
// checked against the resulting date.
func (p *Parser) Parse(value string) (time.Time, error) {
	m := p.re.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, fmt.Errorf("germandate: %q does not match layout %q", value, p.layout)
	}

	year, month, day := 1900, time.January, 1
	for i, d := range p.directives {
		raw := m[i+1]
		key := strings.ToLower(raw)
		switch d {
		case 'B':
			month = p.tables.Months[key]
		case 'b':
			month = p.tables.MonthAbbr[key]
		case 'm':
			n, _ := strconv.Atoi(raw)
			if n < 1 || n > 12 {
				return time.Time{}, fmt.Errorf("germandate: month %d out of range in %q", n, value)
			}
			month = time.Month(n)
		case 'd':
			day, _ = strconv.Atoi(raw)
		case 'Y':
			year, _ = strconv.Atoi(raw)
		case 'y':
			n, _ := strconv.Atoi(raw)
			// Same pivot as strptime: 69-99 is the 20th century.
			if n < 69 {
				year = 2000 + n
			} else {
				year = 1900 + n
			}
		}
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, p.loc)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("germandate: %q is not a valid date", value)
	}
	return t, nil
}

// Parse parses value with layout using the German tables.
func Parse(layout, value string) (time.Time, error) {
	p, err := New(layout)
	if err != nil {
		return time.Time{}, err
	}
	return p.Parse(value)
}
