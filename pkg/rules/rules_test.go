package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/plenum/pkg/config"
	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/patterns"
)

func testEnv(t *testing.T) *Env {
	t.Helper()
	env, err := NewEnv(config.Default())
	require.NoError(t, err)
	return env
}

// started builds a rule on lines[0] and folds the remaining lines into it.
func started(t *testing.T, factory Factory, env *Env, lines ...string) Rule {
	t.Helper()
	r := factory(lines[0], env)
	require.True(t, r.Triggers(), "rule should trigger on %q", lines[0])
	require.NoError(t, r.Start())
	fillers := make([]*domain.FillerRecord, 0, len(lines)-1)
	for _, l := range lines[1:] {
		fillers = append(fillers, domain.NewFiller(l))
	}
	if len(fillers) > 0 {
		require.NoError(t, r.Expand(fillers...))
	}
	return r
}

func TestHeaderRule_RoundTrip(t *testing.T) {
	env := testEnv(t)
	r := started(t, NewHeaderRule, env,
		"Deutscher Bundestag", "Plenarprotokoll", "18/230", "Berlin, Montag, den 5. Juni 2017")

	res, err := r.Apply(nil)
	require.NoError(t, err)
	assert.Equal(t, Applied, r.State())
	assert.Equal(t, 4, res.Consumed)

	h, ok := res.Record.(*domain.HeaderRecord)
	require.True(t, ok)
	assert.Equal(t, "Berlin", h.Location())
	assert.Equal(t, time.Date(2017, time.June, 5, 0, 0, 0, 0, time.UTC), h.Date())
	assert.Equal(t, "Plenarprotokoll", h.DocumentType())
}

func TestHeaderRule_WrongLineCount(t *testing.T) {
	env := testEnv(t)
	for _, lines := range [][]string{
		{"Deutscher Bundestag", "Plenarprotokoll", "18/230"},
		{"Deutscher Bundestag", "Plenarprotokoll", "18/230", "Berlin, Montag, den 5. Juni 2017", "extra"},
	} {
		r := started(t, NewHeaderRule, env, lines...)
		_, err := r.Apply(nil)

		var rae *domain.RuleApplicationError
		require.ErrorAs(t, err, &rae)
		assert.Equal(t, "HeaderRule", rae.Rule)
		assert.Equal(t, lines, rae.Input)
		assert.Equal(t, Failed, r.State())
	}
}

func TestHeaderRule_SchemaFailureIsWrapped(t *testing.T) {
	env := testEnv(t)
	r := started(t, NewHeaderRule, env, "Deutscher Bundestag", "Plenarprotokoll", "18/230", "Berlin, gestern")

	_, err := r.Apply(nil)
	assert.ErrorIs(t, err, domain.ErrRuleApplication)
	assert.ErrorIs(t, err, domain.ErrSchemaViolation)
}

func TestRule_StateMachine(t *testing.T) {
	env := testEnv(t)

	r := NewHeaderRule("Deutscher Bundestag", env)
	assert.Equal(t, Untriggered, r.State())
	assert.ErrorIs(t, r.Expand(domain.NewFiller("x")), domain.ErrInvalidState)
	_, err := r.Apply(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	require.NoError(t, r.Start())
	assert.Equal(t, Triggered, r.State())
	assert.ErrorIs(t, r.Start(), domain.ErrInvalidState)
	assert.ErrorIs(t, r.Expand(nil), domain.ErrInvalidState)

	require.NoError(t, r.Expand(domain.NewFiller("Plenarprotokoll")))
	assert.Equal(t, Expanding, r.State())

	miss := NewHeaderRule("Bundesrat", env)
	assert.False(t, miss.Triggers())
	assert.ErrorIs(t, miss.Start(), domain.ErrInvalidState)
}

func TestAgendaItemRule_Numbering(t *testing.T) {
	env := testEnv(t)
	r := started(t, NewAgendaItemRule, env, "Tagesordnungspunkt 7:", "Vereinbarte Debatte", "a)\tSome title")

	res, err := r.Apply(Tokens(r.Input(), EndOfSection))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Consumed)

	item := res.Record.(*domain.AgendaItem)
	assert.Equal(t, "Tagesordnungspunkt", item.ItemType())
	assert.Equal(t, 7, item.Number())
	require.Len(t, item.SubItems(), 1)
	assert.Equal(t, "Untertagesordnungspunkt", item.SubItems()[0].ItemType())
	assert.Equal(t, "A", item.SubItems()[0].Number())
	assert.Equal(t, []string{"Some title"}, item.SubItems()[0].Content())
}

func TestAgendaItemRule_FailsWithoutBoundary(t *testing.T) {
	env := testEnv(t)
	r := started(t, NewAgendaItemRule, env, "Tagesordnungspunkt 7:", "Debatte")

	_, err := r.Apply([]Token{LineToken("Tagesordnungspunkt 7:"), LineToken("Debatte")})
	assert.ErrorIs(t, err, ErrNoBoundary)
	assert.ErrorIs(t, err, domain.ErrRuleApplication)
}

func TestAgendaCommentRule(t *testing.T) {
	env := testEnv(t)

	r := started(t, NewAgendaCommentRule, env, "Glückwünsche zum Geburtstag", "der Abgeordneten Ulla Schmidt", "23405 A")
	res, err := r.Apply(Tokens(r.Input(), EndOfSection))
	require.NoError(t, err)
	c := res.Record.(*domain.AgendaComment)
	assert.Equal(t, "Glückwünsche zum Geburtstag", c.Identifier())
	assert.Equal(t, "der Abgeordneten Ulla Schmidt", c.Comment())

	short := started(t, NewAgendaCommentRule, env, "Glückwünsche zum Geburtstag", "der Abgeordneten Ulla Schmidt")
	_, err = short.Apply(Tokens(short.Input(), EndOfSection))
	assert.ErrorIs(t, err, domain.ErrRuleApplication)

}

func TestAgendaCommentRule_RejectsMisfiredSegments(t *testing.T) {
	env := testEnv(t)

	tests := []struct {
		name  string
		lines []string
	}{
		{"attachment", []string{"Glückwünsche", "Anlage 2", "23405 A"}},
		{"agenda item", []string{"Glückwünsche", "Tagesordnungspunkt 3:", "Wahl des Wehrbeauftragten"}},
		{"additional item", []string{"Glückwünsche", "Zusatztagesordnungspunkt 1:", "Aktuelle Stunde"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := started(t, NewAgendaCommentRule, env, tt.lines...)
			_, err := r.Apply(Tokens(r.Input(), EndOfSection))

			var rae *domain.RuleApplicationError
			require.ErrorAs(t, err, &rae)
			assert.Equal(t, "AgendaCommentRule", rae.Rule)
			assert.Contains(t, rae.Reason.Error(), "opens an agenda item or attachment")
			assert.Contains(t, rae.Reason.Error(), tt.lines[1])
			assert.Equal(t, Failed, r.State())
		})
	}
}

func TestAgendaAttachmentRule(t *testing.T) {
	env := testEnv(t)
	r := started(t, NewAgendaAttachmentRule, env, "Anlage 1", "Liste der entschuldigten Abgeordneten")

	res, err := r.Apply(Tokens(r.Input(), LineToken("Anlage 2")))
	require.NoError(t, err)
	assert.Equal(t, []string{"Anlage 1", "Liste der entschuldigten Abgeordneten"}, res.Record.(*domain.AgendaAttachment).Content())
}

func TestSittingRule(t *testing.T) {
	env := testEnv(t)
	r := started(t, NewSittingRule, env, "230. Sitzung", "Berlin, Montag, den 5. Juni 2017", "Beginn: 13.00 Uhr")

	res, err := r.Apply(Tokens(r.Input(), EndOfSection))
	require.NoError(t, err)
	s := res.Record.(*domain.SessionHeaderRecord)
	assert.Equal(t, 230, s.Sitting())
	assert.Equal(t, "Berlin", s.Location())
	assert.Equal(t, "13:00", s.Begin())

	missing := started(t, NewSittingRule, env, "230. Sitzung", "Beginn: 13.00 Uhr")
	_, err = missing.Apply(Tokens(missing.Input(), EndOfSection))
	assert.ErrorIs(t, err, domain.ErrSchemaViolation)
}

func TestSpeechRule(t *testing.T) {
	env := testEnv(t)
	r := started(t, NewSpeechRule, env, "Volker Kauder (CDU/CSU):", "Herr Präsident!", "(Beifall bei der CDU/CSU)", "Wir beraten.")

	res, err := r.Apply(Tokens(r.Input(), EndOfSection))
	require.NoError(t, err)
	s := res.Record.(*domain.SpeechRecord)
	assert.Equal(t, "Volker Kauder", s.Speaker())
	assert.Equal(t, "CDU/CSU", s.Affiliation())
	assert.Equal(t, []string{"Herr Präsident!", "Wir beraten."}, s.Text())
	assert.Equal(t, []string{"(Beifall bei der CDU/CSU)"}, s.Interjections())
}

func TestParseSpeaker(t *testing.T) {
	tests := []struct {
		line, speaker, role, affiliation string
	}{
		{"Präsident Dr. Norbert Lammert:", "Dr. Norbert Lammert", "Präsident", ""},
		{"Vizepräsidentin Claudia Roth:", "Claudia Roth", "Vizepräsidentin", ""},
		{"Volker Kauder (CDU/CSU):", "Volker Kauder", "", "CDU/CSU"},
		{"Dr. Angela Merkel, Bundeskanzlerin:", "Dr. Angela Merkel", "Bundeskanzlerin", ""},
		{"Anonymous:", "Anonymous", "", ""},
	}
	for _, tt := range tests {
		speaker, role, affiliation := ParseSpeaker(tt.line)
		assert.Equal(t, tt.speaker, speaker, tt.line)
		assert.Equal(t, tt.role, role, tt.line)
		assert.Equal(t, tt.affiliation, affiliation, tt.line)
	}
}

func TestAttachmentRule(t *testing.T) {
	env := testEnv(t)
	r := started(t, NewAttachmentRule, env, "Anlage 2", "Erklärung nach § 31 GO", "Ich stimme dem Antrag zu.")

	res, err := r.Apply(Tokens(r.Input(), EndOfSection))
	require.NoError(t, err)
	a := res.Record.(*domain.AttachmentRecord)
	assert.Equal(t, 2, a.Number())
	assert.Equal(t, "Erklärung nach § 31 GO", a.Title())
	assert.Equal(t, []string{"Ich stimme dem Antrag zu."}, a.Content())
}

func TestLookAhead_BoundaryPolicies(t *testing.T) {
	isItem := func(l string) bool { return l == "T2" }
	tokens := []Token{LineToken("T1"), LineToken("a"), LineToken("b"), LineToken("T2"), LineToken("c")}

	tests := []struct {
		name     string
		policy   BoundaryPolicy
		lines    []string
		consumed int
	}{
		{"exclude terminator, count trigger", BoundaryPolicy{CountTrigger: true}, []string{"T1", "a", "b"}, 3},
		{"include terminator, count trigger", BoundaryPolicy{IncludeTerminator: true, CountTrigger: true}, []string{"T1", "a", "b", "T2"}, 3},
		{"exclude terminator, skip trigger", BoundaryPolicy{}, []string{"T1", "a", "b"}, 2},
		{"include terminator, skip trigger", BoundaryPolicy{IncludeTerminator: true}, []string{"T1", "a", "b", "T2"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, err := LookAhead(tokens, isItem, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.lines, span.Lines)
			assert.Equal(t, tt.consumed, span.Consumed)
		})
	}
}

func TestLookAhead_StructuredBoundaries(t *testing.T) {
	never := func(string) bool { return false }

	span, err := LookAhead([]Token{LineToken("T1"), LineToken("a"), RecordToken(domain.NewFiller("x"))}, never,
		BoundaryPolicy{IncludeTerminator: true, CountTrigger: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "a"}, span.Lines, "records never join the span")

	_, err = LookAhead([]Token{LineToken("T1"), LineToken("a")}, never, DefaultBoundary)
	assert.ErrorIs(t, err, ErrNoBoundary)

	_, err = LookAhead([]Token{EndOfSection}, never, DefaultBoundary)
	assert.Error(t, err)
	_, err = LookAhead(nil, never, DefaultBoundary)
	assert.Error(t, err)
}

func TestEnv_SectionTriggers(t *testing.T) {
	env := testEnv(t)
	scoped := env.WithSectionTriggers(func(l string) bool {
		return env.Patterns.Match(patterns.AgendaItem, l) || env.Patterns.Match(patterns.AgendaComment, l)
	})
	assert.Nil(t, env.SectionTriggers)

	r := started(t, NewAgendaItemRule, scoped, "Tagesordnungspunkt 1:", "Befragung")
	res, err := r.Apply(Tokens(r.Input(), LineToken("Glückwünsche")))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Consumed)

	format := env.AgendaFormat()
	assert.Len(t, format.SubLevels, 2)
	assert.Equal(t, "Untertagesordnungspunkt", format.SubItemType)
}

func TestNewEnv_RejectsBadDateFormat(t *testing.T) {
	cfg := config.Default()
	cfg.DateFormat = "%Q"
	_, err := NewEnv(cfg)
	assert.Error(t, err)
}
