package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/aretw0/plenum/pkg/germandate"
	"github.com/aretw0/plenum/pkg/schema"
)

// Session header fields.
const (
	FieldSitting = "sitting"
	FieldBegin   = "begin"
)

var sessionHeaderSchema = schema.Schema{
	FieldSitting:  schema.Required(schema.OneOf(schema.NonEmptyString(), schema.Int())),
	FieldLocation: schema.Required(schema.NonEmptyString()),
	FieldDate:     schema.Required(schema.OneOf(schema.NonEmptyString(), schema.Time())),
	FieldBegin:    schema.Optional(schema.NonEmptyString()),
}

var clockPattern = regexp.MustCompile(`(\d{1,2})[.:](\d{2})`)

// SessionHeaderRecord opens the verbatim part of a protocol:
//
//	230. Sitzung
//	Berlin, Montag, den 5. Juni 2017
//	Beginn: 13.00 Uhr
type SessionHeaderRecord struct {
	guard
	dates DateParser

	sitting  int
	location string
	date     time.Time
	begin    string
}

// NewSessionHeaderRecord builds the session header. sitting accepts the raw
// "230. Sitzung" line, begin the raw "Beginn: 13.00 Uhr" line.
func NewSessionHeaderRecord(raw map[string]any, dates DateParser) (*SessionHeaderRecord, error) {
	if dates == nil {
		dates = germandate.MustNew(DefaultDateLayout).Parse
	}
	s := &SessionHeaderRecord{
		guard: newGuard(KindSessionHeader, []string{FieldSitting, FieldLocation, FieldDate}, nil),
		dates: dates,
	}
	if err := construct(KindSessionHeader, sessionHeaderSchema, raw, s.assign); err != nil {
		return nil, err
	}
	s.seal()
	return s, nil
}

func (s *SessionHeaderRecord) record()          {}
func (s *SessionHeaderRecord) Kind() Kind       { return KindSessionHeader }
func (s *SessionHeaderRecord) Sitting() int     { return s.sitting }
func (s *SessionHeaderRecord) Location() string { return s.location }
func (s *SessionHeaderRecord) Date() time.Time  { return s.date }

// Begin is the opening time as "HH:MM", or empty when the protocol omits it.
func (s *SessionHeaderRecord) Begin() string { return s.begin }

func (s *SessionHeaderRecord) Get(field string) (any, error) {
	switch field {
	case FieldSitting:
		return s.sitting, nil
	case FieldLocation:
		return s.location, nil
	case FieldDate:
		return s.date, nil
	case FieldBegin:
		return s.begin, nil
	}
	return nil, s.unknown(field)
}

func (s *SessionHeaderRecord) Set(field string, value any) error {
	if err := s.checkWrite(field); err != nil {
		return err
	}
	return s.assign(field, value)
}

func (s *SessionHeaderRecord) assign(field string, value any) error {
	switch field {
	case FieldSitting:
		if n, err := asInt(KindSessionHeader, field, value); err == nil {
			s.sitting = n
			return nil
		}
		line, err := asString(KindSessionHeader, field, value)
		if err != nil {
			return err
		}
		digits := digitsPattern.FindString(line)
		if digits == "" {
			return fieldErr(KindSessionHeader, field, value, "no sitting number in %q", line)
		}
		s.sitting, _ = strconv.Atoi(digits)
		return nil
	case FieldLocation:
		line, err := asString(KindSessionHeader, field, value)
		s.location = ExtractLocation(line)
		return err
	case FieldDate:
		if t, ok := value.(time.Time); ok {
			s.date = t
			return nil
		}
		line, err := asString(KindSessionHeader, field, value)
		if err != nil {
			return err
		}
		t, err := ExtractDate(line, s.dates)
		if err != nil {
			return &FieldError{Kind: KindSessionHeader, Field: field, Value: value, Err: err}
		}
		s.date = t
		return nil
	case FieldBegin:
		line, err := asString(KindSessionHeader, field, value)
		if err != nil {
			return err
		}
		m := clockPattern.FindStringSubmatch(line)
		if m == nil {
			return fieldErr(KindSessionHeader, field, value, "no time of day in %q", line)
		}
		hour, _ := strconv.Atoi(m[1])
		s.begin = fmt.Sprintf("%02d:%s", hour, m[2])
		return nil
	}
	return s.unknown(field)
}

func (s *SessionHeaderRecord) Attributes() map[string]any {
	attrs := map[string]any{
		FieldSitting:  s.sitting,
		FieldLocation: s.location,
		FieldDate:     s.date.Format(attributeDateLayout),
	}
	if s.begin != "" {
		attrs[FieldBegin] = s.begin
	}
	return attrs
}
