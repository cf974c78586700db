package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/plenum/pkg/germandate"
	"github.com/aretw0/plenum/pkg/schema"
)

// Header fields.
const (
	FieldParliament   = "parliament"
	FieldDocumentType = "document_type"
	FieldNumber       = "number"
	FieldLocation     = "location"
	FieldDate         = "date"
	FieldSource       = "source"
)

var headerSchema = schema.Schema{
	FieldParliament:   schema.Required(schema.NonEmptyString()),
	FieldDocumentType: schema.Required(schema.NonEmptyString()),
	FieldNumber:       schema.Required(schema.NonEmptyString()),
	FieldLocation:     schema.Required(schema.NonEmptyString()),
	FieldDate:         schema.Required(schema.OneOf(schema.NonEmptyString(), schema.Time())),
	FieldSource:       schema.Optional(schema.Lines(0)),
}

// HeaderRecord is the four-line title block of a protocol:
//
//	Deutscher Bundestag
//	Plenarprotokoll
//	18/230
//	Berlin, Montag, den 5. Juni 2017
//
// All fields are write-protected once constructed; the raw source lines are
// kept but cannot be read back.
type HeaderRecord struct {
	guard
	dates DateParser

	parliament   string
	documentType string
	number       string
	location     string
	date         time.Time
	source       []string
}

// NewHeaderRecord builds a header from raw values. Location and date may both
// be the combined "Berlin, Montag, den 5. Juni 2017" line; the location keeps
// the first comma segment and the date is parsed from the remainder.
// A nil dates parser falls back to DefaultDateLayout.
func NewHeaderRecord(raw map[string]any, dates DateParser) (*HeaderRecord, error) {
	if dates == nil {
		dates = germandate.MustNew(DefaultDateLayout).Parse
	}
	h := &HeaderRecord{
		guard: newGuard(KindHeader,
			[]string{FieldParliament, FieldDocumentType, FieldNumber, FieldLocation, FieldDate, FieldSource},
			[]string{FieldSource}),
		dates: dates,
	}
	if err := construct(KindHeader, headerSchema, raw, h.assign); err != nil {
		return nil, err
	}
	h.seal()
	return h, nil
}

func (h *HeaderRecord) record() {}

func (h *HeaderRecord) Kind() Kind { return KindHeader }

func (h *HeaderRecord) Parliament() string   { return h.parliament }
func (h *HeaderRecord) DocumentType() string { return h.documentType }
func (h *HeaderRecord) Number() string       { return h.number }
func (h *HeaderRecord) Location() string     { return h.location }
func (h *HeaderRecord) Date() time.Time      { return h.date }

func (h *HeaderRecord) Get(field string) (any, error) {
	if err := h.checkRead(field); err != nil {
		return nil, err
	}
	switch field {
	case FieldParliament:
		return h.parliament, nil
	case FieldDocumentType:
		return h.documentType, nil
	case FieldNumber:
		return h.number, nil
	case FieldLocation:
		return h.location, nil
	case FieldDate:
		return h.date, nil
	}
	return nil, h.unknown(field)
}

func (h *HeaderRecord) Set(field string, value any) error {
	if err := h.checkWrite(field); err != nil {
		return err
	}
	return h.assign(field, value)
}

func (h *HeaderRecord) assign(field string, value any) error {
	switch field {
	case FieldParliament:
		s, err := asString(KindHeader, field, value)
		h.parliament = s
		return err
	case FieldDocumentType:
		s, err := asString(KindHeader, field, value)
		h.documentType = s
		return err
	case FieldNumber:
		s, err := asString(KindHeader, field, value)
		h.number = s
		return err
	case FieldLocation:
		s, err := asString(KindHeader, field, value)
		if err != nil {
			return err
		}
		h.location = ExtractLocation(s)
		return nil
	case FieldDate:
		if t, ok := value.(time.Time); ok {
			h.date = t
			return nil
		}
		s, err := asString(KindHeader, field, value)
		if err != nil {
			return err
		}
		t, err := ExtractDate(s, h.dates)
		if err != nil {
			return &FieldError{Kind: KindHeader, Field: field, Value: value, Err: err}
		}
		h.date = t
		return nil
	case FieldSource:
		lines, err := asLines(KindHeader, field, value)
		h.source = lines
		return err
	}
	return h.unknown(field)
}

func (h *HeaderRecord) Attributes() map[string]any {
	return map[string]any{
		FieldParliament:   h.parliament,
		FieldDocumentType: h.documentType,
		FieldNumber:       h.number,
		FieldLocation:     h.location,
		FieldDate:         h.date.Format(attributeDateLayout),
	}
}

// ExtractLocation returns the first comma segment of a "place, date" line.
func ExtractLocation(line string) string {
	location, _, _ := strings.Cut(line, ",")
	return strings.TrimSpace(location)
}

// ExtractDate parses everything after the first comma of a "place, date" line.
// A line without a comma is parsed as a whole.
func ExtractDate(line string, dates DateParser) (time.Time, error) {
	_, rest, found := strings.Cut(line, ",")
	if !found {
		rest = line
	}
	t, err := dates(strings.TrimSpace(rest))
	if err != nil {
		return time.Time{}, fmt.Errorf("date of %q: %w", line, err)
	}
	return t, nil
}

var headerSectionSchema = schema.Schema{
	"header_information": schema.Required(recordOf(KindHeader)),
}

// HeaderSection is the aggregate of the HEADER section.
type HeaderSection struct {
	guard
	information *HeaderRecord
}

// NewHeaderSection wraps the section's single header record.
func NewHeaderSection(raw map[string]any) (*HeaderSection, error) {
	s := &HeaderSection{guard: newGuard(KindHeaderSection, nil, nil)}
	if err := construct(KindHeaderSection, headerSectionSchema, raw, s.Set); err != nil {
		return nil, err
	}
	s.seal()
	return s, nil
}

func (s *HeaderSection) record()    {}
func (s *HeaderSection) Kind() Kind { return KindHeaderSection }

// Information returns the wrapped header.
func (s *HeaderSection) Information() *HeaderRecord { return s.information }

func (s *HeaderSection) Get(field string) (any, error) {
	if field == "header_information" {
		return s.information, nil
	}
	return nil, s.unknown(field)
}

func (s *HeaderSection) Set(field string, value any) error {
	if field != "header_information" {
		return s.unknown(field)
	}
	h, ok := value.(*HeaderRecord)
	if !ok {
		return fieldErr(KindHeaderSection, field, value, "expected header record, got %T", value)
	}
	s.information = h
	return nil
}

func (s *HeaderSection) Attributes() map[string]any {
	return map[string]any{"header_information": Snapshot(s.information)}
}
