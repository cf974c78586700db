package section_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/plenum/pkg/config"
	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/rules"
	"github.com/aretw0/plenum/pkg/section"
)

func newEnv(t *testing.T) *rules.Env {
	t.Helper()
	env, err := rules.NewEnv(config.Default())
	require.NoError(t, err)
	return env
}

func parse(t *testing.T, name string, lines []string, opts ...section.Option) (domain.Record, *section.Parser) {
	t.Helper()
	def, ok := section.Defaults()[name]
	require.True(t, ok)
	p := section.NewParser(def, newEnv(t), opts...)
	rec, err := p.Process(context.Background(), lines)
	require.NoError(t, err)
	return rec, p
}

func TestParser_Header(t *testing.T) {
	rec, p := parse(t, domain.SectionHeader, []string{
		"Deutscher Bundestag",
		"Plenarprotokoll",
		"18/230",
		"Berlin, Montag, den 5. Juni 2017",
	})
	assert.Equal(t, section.Done, p.State())

	hs, ok := rec.(*domain.HeaderSection)
	require.True(t, ok)
	assert.Equal(t, "Berlin", hs.Information().Location())
	assert.Equal(t, "18/230", hs.Information().Number())
}

func TestParser_HeaderDegrades(t *testing.T) {
	rec, p := parse(t, domain.SectionHeader, []string{
		"Deutscher Bundestag",
		"Plenarprotokoll",
		"18/230",
		"Berlin, Montag, den 5. Juni 2017",
		"Inhalt:",
	})
	assert.Equal(t, section.EmptyResult, p.State())
	assert.True(t, section.IsDegraded(rec))

	empty := rec.(*domain.EmptyRecord)
	assert.Equal(t, domain.SectionHeader, empty.Section())
	assert.ErrorIs(t, empty.Err(), domain.ErrRuleApplication)
}

func TestParser_Agenda(t *testing.T) {
	rec, _ := parse(t, domain.SectionAgendaItems, []string{
		"Inhalt:",
		"Tagesordnungspunkt 1:",
		"Befragung der Bundesregierung",
		"Tagesordnungspunkt 2:",
		"Fragestunde",
		"a)\tErste Frage",
		"b)\tZweite Frage",
		"Anlage 1",
		"Liste der entschuldigten Abgeordneten",
		"Glückwünsche zum Geburtstag",
		"der Abgeordneten Ulla Schmidt",
		"23405 A",
	})

	agenda, ok := rec.(*domain.AgendaRecord)
	require.True(t, ok)
	items := agenda.Items()
	require.Len(t, items, 4)

	kinds := make([]domain.Kind, len(items))
	for i, it := range items {
		kinds[i] = it.Kind()
	}
	assert.Equal(t, []domain.Kind{
		domain.KindAgendaItem,
		domain.KindAgendaItem,
		domain.KindAgendaAttachment,
		domain.KindAgendaComment,
	}, kinds)

	first := items[0].(*domain.AgendaItem)
	assert.Equal(t, 1, first.Number())
	assert.Equal(t, []string{"Befragung der Bundesregierung"}, first.Content())

	second := items[1].(*domain.AgendaItem)
	assert.Equal(t, []string{"Fragestunde"}, second.Content())
	require.Len(t, second.SubItems(), 2)
	assert.Equal(t, "A", second.SubItems()[0].Number())
	assert.Equal(t, "B", second.SubItems()[1].Number())

	comment := items[3].(*domain.AgendaComment)
	assert.Equal(t, "der Abgeordneten Ulla Schmidt", comment.Comment())
}

func TestParser_SessionDiscussionsAttachments(t *testing.T) {
	rec, _ := parse(t, domain.SectionSessionHeader, []string{
		"230. Sitzung",
		"Berlin, Montag, den 5. Juni 2017",
		"Beginn: 13.00 Uhr",
	})
	session := rec.(*domain.SessionHeaderRecord)
	assert.Equal(t, 230, session.Sitting())

	rec, _ = parse(t, domain.SectionDiscussions, []string{
		"Präsident Dr. Norbert Lammert:",
		"Die Sitzung ist eröffnet.",
		"Volker Kauder (CDU/CSU):",
		"Herr Präsident!",
		"(Beifall bei der CDU/CSU)",
	})
	speeches := rec.(*domain.DiscussionsRecord).Speeches()
	require.Len(t, speeches, 2)
	assert.Equal(t, "Präsident", speeches[0].Role())
	assert.Equal(t, "CDU/CSU", speeches[1].Affiliation())
	assert.Equal(t, []string{"(Beifall bei der CDU/CSU)"}, speeches[1].Interjections())

	rec, _ = parse(t, domain.SectionAttachments, []string{
		"Anlage 1",
		"Liste der entschuldigten Abgeordneten",
		"Abgeordnete(r)",
		"Anlage 2",
		"Erklärung nach § 31 GO",
	})
	atts := rec.(*domain.AttachmentsRecord).Attachments()
	require.Len(t, atts, 2)
	assert.Equal(t, 1, atts[0].Number())
	assert.Equal(t, 2, atts[1].Number())
}

func TestParser_Coherence(t *testing.T) {
	env := newEnv(t)

	p := section.NewParser(section.Definition{Name: "EMPTY"}, env)
	_, err := p.Process(context.Background(), []string{"line"})
	assert.ErrorIs(t, err, domain.ErrParserCoherence)
	assert.EqualError(t, err, "EMPTY doesn't possess any rules to utilize")

	p = section.NewParser(section.Defaults()[domain.SectionHeader], env)
	_, err = p.Process(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrParserCoherence)
	assert.EqualError(t, err, "HEADER doesn't have any input to parse")

	_, err = p.Process(context.Background(), []string{"again"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestParser_NoTriggerDegrades(t *testing.T) {
	rec, p := parse(t, domain.SectionAttachments, []string{"nothing", "to see"})
	assert.Equal(t, section.EmptyResult, p.State())
	require.True(t, section.IsDegraded(rec))
	assert.ErrorIs(t, rec.(*domain.EmptyRecord).Err(), domain.ErrParserCoherence)
}

func TestParser_RuleHooks(t *testing.T) {
	var events []*domain.RuleEvent
	hooks := domain.LifecycleHooks{
		OnRuleApplied: func(_ context.Context, e *domain.RuleEvent) { events = append(events, e) },
	}

	parse(t, domain.SectionAttachments, []string{"Anlage 1", "Titel", "Anlage 2", "Titel"},
		section.WithLifecycleHooks(hooks))

	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, domain.SectionAttachments, e.Section)
		assert.Equal(t, "AttachmentRule", e.Rule)
		assert.Equal(t, 2, e.Lines)
		assert.NoError(t, e.Err)
	}
}

func TestParser_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := section.NewParser(section.Defaults()[domain.SectionAttachments], newEnv(t))
	_, err := p.Process(ctx, []string{"Anlage 1", "Titel"})
	assert.ErrorIs(t, err, context.Canceled)
}

// shortRule claims one line less than it was given.
type shortRule struct {
	rules.Rule
}

func (r shortRule) Apply(tokens []rules.Token) (rules.Result, error) {
	res, err := r.Rule.Apply(tokens)
	res.Consumed--
	return res, err
}

func TestParser_AdvanceMismatchDegrades(t *testing.T) {
	def := section.Defaults()[domain.SectionAttachments]
	def.Rules = []rules.Factory{func(line string, env *rules.Env) rules.Rule {
		return shortRule{rules.NewAttachmentRule(line, env)}
	}}

	p := section.NewParser(def, newEnv(t))
	rec, err := p.Process(context.Background(), []string{"Anlage 1", "Titel"})
	require.NoError(t, err)
	require.True(t, section.IsDegraded(rec))
	assert.ErrorIs(t, rec.(*domain.EmptyRecord).Err(), domain.ErrParserCoherence)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "lexing", section.Lexing.String())
	assert.Equal(t, "empty_result", section.EmptyResult.String())
}
