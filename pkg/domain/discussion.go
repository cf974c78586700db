package domain

import (
	"regexp"
	"strings"

	"github.com/aretw0/plenum/pkg/schema"
)

// Speech fields.
const (
	FieldSpeaker       = "speaker"
	FieldRole          = "role"
	FieldAffiliation   = "affiliation"
	FieldText          = "text"
	FieldInterjections = "interjections"
	FieldSpeeches      = "speeches"
)

var defaultInterjection = regexp.MustCompile(`^\(`)

var speechSchema = schema.Schema{
	FieldSpeaker:     schema.Required(schema.NonEmptyString()),
	FieldRole:        schema.Optional(schema.String()),
	FieldAffiliation: schema.Optional(schema.String()),
	FieldText:        schema.Optional(schema.Lines(0)),
	FieldSource:      schema.Optional(schema.Lines(0)),
}

// SpeechRecord is one contribution to the debate. Lines opening with the
// interjection pattern, up to the line closing the parenthesis, are moved out
// of the text into Interjections.
type SpeechRecord struct {
	guard
	interjection *regexp.Regexp

	speaker       string
	role          string
	affiliation   string
	text          []string
	interjections []string
	source        []string
}

// NewSpeechRecord builds a speech. A nil interjection pattern matches lines
// starting with "(".
func NewSpeechRecord(raw map[string]any, interjection *regexp.Regexp) (*SpeechRecord, error) {
	if interjection == nil {
		interjection = defaultInterjection
	}
	s := &SpeechRecord{
		guard:        newGuard(KindSpeech, []string{FieldSource}, []string{FieldSource}),
		interjection: interjection,
	}
	if err := construct(KindSpeech, speechSchema, raw, s.assign); err != nil {
		return nil, err
	}
	s.seal()
	return s, nil
}

func (s *SpeechRecord) record()                 {}
func (s *SpeechRecord) Kind() Kind              { return KindSpeech }
func (s *SpeechRecord) Speaker() string         { return s.speaker }
func (s *SpeechRecord) Role() string            { return s.role }
func (s *SpeechRecord) Affiliation() string     { return s.affiliation }
func (s *SpeechRecord) Text() []string          { return s.text }
func (s *SpeechRecord) Interjections() []string { return s.interjections }

func (s *SpeechRecord) Get(field string) (any, error) {
	if err := s.checkRead(field); err != nil {
		return nil, err
	}
	switch field {
	case FieldSpeaker:
		return s.speaker, nil
	case FieldRole:
		return s.role, nil
	case FieldAffiliation:
		return s.affiliation, nil
	case FieldText:
		return s.text, nil
	case FieldInterjections:
		return s.interjections, nil
	}
	return nil, s.unknown(field)
}

func (s *SpeechRecord) Set(field string, value any) error {
	if err := s.checkWrite(field); err != nil {
		return err
	}
	return s.assign(field, value)
}

func (s *SpeechRecord) assign(field string, value any) error {
	switch field {
	case FieldSpeaker:
		v, err := asString(KindSpeech, field, value)
		s.speaker = v
		return err
	case FieldRole:
		v, err := asString(KindSpeech, field, value)
		s.role = v
		return err
	case FieldAffiliation:
		v, err := asString(KindSpeech, field, value)
		s.affiliation = v
		return err
	case FieldText:
		lines, err := asLines(KindSpeech, field, value)
		if err != nil {
			return err
		}
		s.text, s.interjections = splitInterjections(lines, s.interjection)
		return nil
	case FieldSource:
		lines, err := asLines(KindSpeech, field, value)
		s.source = lines
		return err
	}
	return s.unknown(field)
}

func splitInterjections(lines []string, open *regexp.Regexp) (text, interjections []string) {
	var current []string
	for _, line := range lines {
		switch {
		case current != nil:
			current = append(current, strings.TrimSpace(line))
		case open.MatchString(line):
			current = []string{strings.TrimSpace(line)}
		default:
			text = append(text, line)
			continue
		}
		if strings.HasSuffix(strings.TrimSpace(line), ")") {
			interjections = append(interjections, strings.Join(current, " "))
			current = nil
		}
	}
	if current != nil {
		interjections = append(interjections, strings.Join(current, " "))
	}
	return text, interjections
}

func (s *SpeechRecord) Attributes() map[string]any {
	attrs := map[string]any{
		FieldSpeaker:       s.speaker,
		FieldText:          append([]string{}, s.text...),
		FieldInterjections: append([]string{}, s.interjections...),
	}
	if s.role != "" {
		attrs[FieldRole] = s.role
	}
	if s.affiliation != "" {
		attrs[FieldAffiliation] = s.affiliation
	}
	return attrs
}

var discussionsSchema = schema.Schema{
	FieldSpeeches: schema.Required(schema.Slice(recordOf(KindSpeech))),
}

// DiscussionsRecord is the aggregate of the DISCUSSIONS section.
type DiscussionsRecord struct {
	guard
	speeches []*SpeechRecord
}

// NewDiscussionsRecord collects speeches in document order.
func NewDiscussionsRecord(raw map[string]any) (*DiscussionsRecord, error) {
	d := &DiscussionsRecord{guard: newGuard(KindDiscussions, nil, nil)}
	if err := construct(KindDiscussions, discussionsSchema, raw, d.Set); err != nil {
		return nil, err
	}
	d.seal()
	return d, nil
}

func (d *DiscussionsRecord) record()                  {}
func (d *DiscussionsRecord) Kind() Kind               { return KindDiscussions }
func (d *DiscussionsRecord) Speeches() []*SpeechRecord { return d.speeches }

func (d *DiscussionsRecord) Get(field string) (any, error) {
	if field == FieldSpeeches {
		return d.speeches, nil
	}
	return nil, d.unknown(field)
}

func (d *DiscussionsRecord) Set(field string, value any) error {
	if field != FieldSpeeches {
		return d.unknown(field)
	}
	records, ok := value.([]Record)
	if !ok {
		return fieldErr(KindDiscussions, field, value, "expected records, got %T", value)
	}
	speeches := make([]*SpeechRecord, 0, len(records))
	for _, r := range records {
		sp, ok := r.(*SpeechRecord)
		if !ok {
			return fieldErr(KindDiscussions, field, value, "unexpected %s record", r.Kind())
		}
		speeches = append(speeches, sp)
	}
	d.speeches = speeches
	return nil
}

func (d *DiscussionsRecord) Attributes() map[string]any {
	return map[string]any{FieldSpeeches: attributesOf(d.speeches)}
}
