package domain

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerRaw() map[string]any {
	line := "Berlin, Montag, den 5. Juni 2017"
	return map[string]any{
		FieldParliament:   "Deutscher Bundestag",
		FieldDocumentType: "Plenarprotokoll",
		FieldNumber:       "18/230",
		FieldLocation:     line,
		FieldDate:         line,
		FieldSource:       []string{"Deutscher Bundestag", "Plenarprotokoll", "18/230", line},
	}
}

var testFormat = AgendaFormat{
	TopLevel:    regexp.MustCompile(`^(?:(Zusatzt|T)agesordnungspunkt \d+:)`),
	SubLevels:   []*regexp.Regexp{regexp.MustCompile(`^(?:\w\)\t.+)`), regexp.MustCompile(`^(?:\w\w\)\t.+)`)},
	SubItemType: DefaultSubItemType,
}

func TestHeaderRecord_DerivesLocationAndDate(t *testing.T) {
	h, err := NewHeaderRecord(headerRaw(), nil)
	require.NoError(t, err)

	assert.Equal(t, "Berlin", h.Location())
	assert.Equal(t, time.Date(2017, time.June, 5, 0, 0, 0, 0, time.UTC), h.Date())
	assert.Equal(t, "18/230", h.Number())

	attrs := h.Attributes()
	assert.Equal(t, "2017-06-05", attrs[FieldDate])
	assert.NotContains(t, attrs, FieldSource)
}

func TestHeaderRecord_WriteProtection(t *testing.T) {
	h, err := NewHeaderRecord(headerRaw(), nil)
	require.NoError(t, err)

	for _, value := range []any{"Bundesrat", "", 42, nil} {
		err := h.Set(FieldParliament, value)
		var wv *WriteViolation
		require.ErrorAs(t, err, &wv)
		assert.Equal(t, FieldParliament, wv.Field)
		assert.ErrorIs(t, err, ErrWriteViolation)
	}
	assert.Equal(t, "Deutscher Bundestag", h.Parliament())

	for _, field := range []string{FieldDocumentType, FieldNumber, FieldLocation, FieldDate} {
		assert.ErrorIs(t, h.Set(field, "x"), ErrWriteViolation, field)
	}
}

func TestHeaderRecord_ReadProtection(t *testing.T) {
	h, err := NewHeaderRecord(headerRaw(), nil)
	require.NoError(t, err)

	_, err = h.Get(FieldSource)
	assert.ErrorIs(t, err, ErrReadViolation)

	v, err := h.Get(FieldLocation)
	require.NoError(t, err)
	assert.Equal(t, "Berlin", v)

	_, err = h.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestHeaderRecord_SchemaViolations(t *testing.T) {
	raw := headerRaw()
	delete(raw, FieldNumber)
	_, err := NewHeaderRecord(raw, nil)
	assert.ErrorIs(t, err, ErrSchemaViolation)

	raw = headerRaw()
	raw[FieldDate] = "Berlin, irgendwann"
	_, err = NewHeaderRecord(raw, nil)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldDate, fe.Field)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestHeaderRecord_InjectedDateParser(t *testing.T) {
	fixed := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	var seen string
	h, err := NewHeaderRecord(headerRaw(), func(s string) (time.Time, error) {
		seen = s
		return fixed, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Montag, den 5. Juni 2017", seen)
	assert.Equal(t, fixed, h.Date())
}

func TestAgendaItem_TopLevelNumbering(t *testing.T) {
	item, err := NewAgendaItem(map[string]any{
		FieldItemType:   "Tagesordnungspunkt 7:",
		FieldItemNumber: "Tagesordnungspunkt 7:",
		FieldSubItems:   []string{"Vereinbarte Debatte", "zur Lage"},
	}, testFormat)
	require.NoError(t, err)

	assert.Equal(t, "Tagesordnungspunkt", item.ItemType())
	assert.Equal(t, 7, item.Number())
	assert.Empty(t, item.SubItems())
	assert.Equal(t, []string{"Vereinbarte Debatte", "zur Lage"}, item.Content())

	extra, err := NewAgendaItem(map[string]any{
		FieldItemType:   "Zusatztagesordnungspunkt 12:",
		FieldItemNumber: "Zusatztagesordnungspunkt 12:",
	}, testFormat)
	require.NoError(t, err)
	assert.Equal(t, "Zusatztagesordnungspunkt", extra.ItemType())
	assert.Equal(t, 12, extra.Number())
}

func TestAgendaItem_SubItemNumbering(t *testing.T) {
	sub, err := newAgendaItem(map[string]any{
		FieldItemType:   "a)\tSome title",
		FieldItemNumber: "a)\tSome title",
	}, testFormat, 1)
	require.NoError(t, err)

	assert.Equal(t, DefaultSubItemType, sub.ItemType())
	assert.Equal(t, "A", sub.Number())
}

func TestAgendaItem_SplitsNestedSubItems(t *testing.T) {
	item, err := NewAgendaItem(map[string]any{
		FieldItemType:   "Tagesordnungspunkt 3:",
		FieldItemNumber: "Tagesordnungspunkt 3:",
		FieldSubItems: []string{
			"Beratung der Beschlussempfehlung",
			"a)\tErste Beratung",
			"Drucksache 18/1",
			"b)\tZweite Beratung",
			"aa)\tEinzelplan 01",
			"bb)\tEinzelplan 02",
		},
	}, testFormat)
	require.NoError(t, err)

	assert.Equal(t, []string{"Beratung der Beschlussempfehlung"}, item.Content())
	require.Len(t, item.SubItems(), 2)

	a := item.SubItems()[0]
	assert.Equal(t, "A", a.Number())
	assert.Equal(t, []string{"Erste Beratung", "Drucksache 18/1"}, a.Content())

	b := item.SubItems()[1]
	assert.Equal(t, "B", b.Number())
	assert.Equal(t, []string{"Zweite Beratung"}, b.Content())
	require.Len(t, b.SubItems(), 2)
	assert.Equal(t, "AA", b.SubItems()[0].Number())
	assert.Equal(t, DefaultSubItemType, b.SubItems()[1].ItemType())

	attrs := item.Attributes()
	subs := attrs[FieldSubItems].([]map[string]any)
	require.Len(t, subs, 2)
	assert.Equal(t, "agenda_item", subs[0]["kind"])
}

func TestAgendaItem_RejectsUnknownMarker(t *testing.T) {
	_, err := NewAgendaItem(map[string]any{
		FieldItemType:   "Tagesordnung",
		FieldItemNumber: "Tagesordnung",
	}, testFormat)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestAgendaRecord_AcceptsOnlyAgendaEntries(t *testing.T) {
	comment, err := NewAgendaComment(map[string]any{
		FieldIdentifier: "Glückwünsche zum Geburtstag",
		FieldComment:    "der Abgeordneten Ulla Schmidt",
	})
	require.NoError(t, err)

	agenda, err := NewAgendaRecord(map[string]any{FieldItems: []Record{comment}})
	require.NoError(t, err)
	assert.Len(t, agenda.Items(), 1)

	_, err = NewAgendaRecord(map[string]any{FieldItems: []Record{NewFiller("x")}})
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestSpeechRecord_SeparatesInterjections(t *testing.T) {
	s, err := NewSpeechRecord(map[string]any{
		FieldSpeaker:     "Volker Kauder",
		FieldAffiliation: "CDU/CSU",
		FieldText: []string{
			"Herr Präsident! Meine Damen und Herren!",
			"(Beifall bei der CDU/CSU und der SPD –",
			"Zuruf von der LINKEN)",
			"Wir beraten heute.",
			"(Heiterkeit)",
		},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Herr Präsident! Meine Damen und Herren!", "Wir beraten heute."}, s.Text())
	assert.Equal(t, []string{
		"(Beifall bei der CDU/CSU und der SPD – Zuruf von der LINKEN)",
		"(Heiterkeit)",
	}, s.Interjections())
	assert.NotContains(t, s.Attributes(), FieldRole)
}

func TestSessionHeaderRecord(t *testing.T) {
	s, err := NewSessionHeaderRecord(map[string]any{
		FieldSitting:  "230. Sitzung",
		FieldLocation: "Berlin, Montag, den 5. Juni 2017",
		FieldDate:     "Berlin, Montag, den 5. Juni 2017",
		FieldBegin:    "Beginn: 9.00 Uhr",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 230, s.Sitting())
	assert.Equal(t, "Berlin", s.Location())
	assert.Equal(t, "09:00", s.Begin())
	assert.ErrorIs(t, s.Set(FieldSitting, 1), ErrWriteViolation)
	assert.NoError(t, s.Set(FieldBegin, "Beginn: 13.30 Uhr"))
	assert.Equal(t, "13:30", s.Begin())
}

func TestAttachmentRecord(t *testing.T) {
	a, err := NewAttachmentRecord(map[string]any{
		FieldNumber:  "Anlage 2",
		FieldTitle:   "Erklärung nach § 31 GO",
		FieldContent: []string{"zur Abstimmung"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, a.Number())

	all, err := NewAttachmentsRecord(map[string]any{FieldAttachments: []Record{a}})
	require.NoError(t, err)
	assert.Len(t, all.Attachments(), 1)
}

func TestEmptyRecord(t *testing.T) {
	cause := NoRulesError("HEADER")
	e := NewEmptyRecord(SectionHeader, cause)

	assert.Equal(t, KindEmpty, e.Kind())
	assert.Same(t, cause, e.Err())
	assert.Equal(t, "HEADER doesn't possess any rules to utilize", e.Attributes()[FieldException])
	assert.ErrorIs(t, e.Set(FieldException, "other"), ErrWriteViolation)
}

func TestProtocolRecord(t *testing.T) {
	h, err := NewHeaderRecord(headerRaw(), nil)
	require.NoError(t, err)
	hs, err := NewHeaderSection(map[string]any{"header_information": h})
	require.NoError(t, err)

	p, err := NewProtocolRecord([]SectionEntry{
		{Name: SectionHeader, Record: hs},
		{Name: SectionAgendaItems, Record: NewEmptyRecord(SectionAgendaItems, errors.New("boom"))},
	})
	require.NoError(t, err)

	got, ok := p.Header()
	require.True(t, ok)
	assert.Same(t, h, got)
	assert.Equal(t, []string{SectionAgendaItems}, p.Degraded())
	assert.Equal(t, "18-230", DocumentID(p, "fallback"))

	sections := p.Attributes()["sections"].([]map[string]any)
	require.Len(t, sections, 2)
	assert.Equal(t, SectionHeader, sections[0]["section"])
	assert.Equal(t, "header_section", sections[0]["kind"])

	_, err = NewProtocolRecord([]SectionEntry{{Name: SectionHeader, Record: hs}, {Name: SectionHeader, Record: hs}})
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestNewDocument_Normalizes(t *testing.T) {
	p, err := NewProtocolRecord([]SectionEntry{{Name: SectionHeader, Record: NewEmptyRecord(SectionHeader, nil)}})
	require.NoError(t, err)

	doc, err := NewDocument("x", "x.txt", p, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	sections, ok := doc.Protocol["sections"].([]any)
	require.True(t, ok)
	assert.Len(t, sections, 1)
	assert.Equal(t, "protocol", doc.Protocol["kind"])
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(&RuleApplicationError{Rule: "HeaderRule", Reason: errors.New("x")}))
	assert.True(t, IsRecoverable(NoInputError("AGENDA_ITEMS")))
	assert.True(t, IsRecoverable(&WriteViolation{Field: "a"}))
	assert.True(t, IsRecoverable(ErrSectionMissing))
	assert.False(t, IsRecoverable(&AssignmentError{Block: 0, Sections: []string{"A", "B"}}))
	assert.False(t, IsRecoverable(errors.New("plain")))
	assert.False(t, IsRecoverable(nil))
}

func TestErrorMessages(t *testing.T) {
	err := &RuleApplicationError{Rule: "HeaderRule", Input: []string{"a", "b"}, Reason: errors.New("expected 4 lines")}
	assert.Equal(t, "rule HeaderRule couldn't be applied to the following input:\n\ta\n\tb\nthe following problem occurred: expected 4 lines", err.Error())

	aerr := &AssignmentError{Block: 0, Sections: []string{"B", "A"}}
	assert.Equal(t, "sections A, B are assigned to the same block 0", aerr.Error())
}

func TestChainHooks(t *testing.T) {
	var calls []string
	hooks := ChainHooks(
		LifecycleHooks{OnRuleApplied: func(_ context.Context, e *RuleEvent) { calls = append(calls, "a:"+e.Rule) }},
		LifecycleHooks{},
		LifecycleHooks{OnRuleApplied: func(_ context.Context, e *RuleEvent) { calls = append(calls, "b:"+e.Rule) }},
	)
	hooks.OnRuleApplied(context.Background(), &RuleEvent{Rule: "HeaderRule"})
	hooks.OnSectionStart(context.Background(), &SectionEvent{})
	assert.Equal(t, []string{"a:HeaderRule", "b:HeaderRule"}, calls)
}
