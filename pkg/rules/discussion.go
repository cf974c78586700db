package rules

import (
	"regexp"
	"strings"

	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/patterns"
)

var (
	presidingPattern   = regexp.MustCompile(`^((?:Alters|Vize)?[Pp]räsident(?:in)?)\s+(.+)$`)
	affiliationPattern = regexp.MustCompile(`^(.+?)\s+\(([^()]+)\)$`)
)

// SpeechRule builds a SpeechRecord from a speaker line ("Name (Party):") and
// the text up to the next speaker.
type SpeechRule struct {
	base
}

// NewSpeechRule is the Factory of SpeechRule.
func NewSpeechRule(line string, env *Env) Rule {
	return &SpeechRule{base: newBase("SpeechRule", line, env, env.matcher(patterns.Speech))}
}

func (r *SpeechRule) Apply(lookahead []Token) (Result, error) {
	if err := r.ready(); err != nil {
		return Result{}, err
	}
	span, err := r.lookAhead(lookahead)
	if err != nil {
		return r.fail(err)
	}

	speaker, role, affiliation := ParseSpeaker(span.Lines[0])
	raw := map[string]any{
		domain.FieldSpeaker: speaker,
		domain.FieldText:    span.Lines[1:],
		domain.FieldSource:  span.Lines,
	}
	if role != "" {
		raw[domain.FieldRole] = role
	}
	if affiliation != "" {
		raw[domain.FieldAffiliation] = affiliation
	}

	s, err := domain.NewSpeechRecord(raw, r.env.pattern(patterns.Interjection))
	if err != nil {
		return r.fail(err)
	}
	return r.done(s, span.Consumed)
}

// ParseSpeaker splits a speaker line into name, role and party:
//
//	Präsident Dr. Norbert Lammert:       -> "Dr. Norbert Lammert", "Präsident", ""
//	Volker Kauder (CDU/CSU):             -> "Volker Kauder", "", "CDU/CSU"
//	Dr. Angela Merkel, Bundeskanzlerin:  -> "Dr. Angela Merkel", "Bundeskanzlerin", ""
func ParseSpeaker(line string) (speaker, role, affiliation string) {
	line = strings.TrimSuffix(strings.TrimSpace(line), ":")

	if m := presidingPattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[2]), m[1], ""
	}
	if m := affiliationPattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), "", strings.TrimSpace(m[2])
	}
	if name, office, ok := strings.Cut(line, ","); ok {
		return strings.TrimSpace(name), strings.TrimSpace(office), ""
	}
	return line, "", ""
}
