package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/plenum/pkg/config"
)

func TestFromConfig_Defaults(t *testing.T) {
	r, err := FromConfig(config.Default())
	require.NoError(t, err)

	assert.Equal(t, []string{"\r\n", "\r\n"}, r.Divider())
	assert.Contains(t, r.Names(), AgendaItem)

	tests := []struct {
		pattern string
		line    string
		match   bool
	}{
		{Header, "Deutscher Bundestag", true},
		{Header, "Der Deutsche Bundestag", false},
		{AgendaItem, "Tagesordnungspunkt 7:", true},
		{AgendaItem, "Zusatztagesordnungspunkt 2:", true},
		{AgendaItem, "siehe Tagesordnungspunkt 7:", false},
		{AgendaSubItem, "a)\tSome title", true},
		{AgendaSubItem, "a) Some title", false},
		{AgendaSubItem, "aa)\tSome title", false},
		{AgendaNestedSubItem, "aa)\tSome title", true},
		{AgendaAttachment, "Anlage 3", true},
		{AgendaAttachment, "gemäß Anlage 3", false},
		{AgendaComment, "Glückwünsche zum Geburtstag", true},
		{Sitting, "230. Sitzung", true},
		{Sitting, "230. Sitzung des Bundestages", false},
		{SessionBegin, "Beginn: 13.00 Uhr", true},
		{Speech, "Präsident Dr. Norbert Lammert:", true},
		{Speech, "Vizepräsidentin Claudia Roth:", true},
		{Speech, "Volker Kauder (CDU/CSU):", true},
		{Speech, "Dr. Angela Merkel, Bundeskanzlerin:", true},
		{Speech, "Ich sage Ihnen, meine Damen und Herren:", false},
		{Interjection, "(Beifall bei der SPD)", true},
		{Attachment, "Anlage 12", true},
		{Attachment, "Anlage 12 zum Protokoll", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.line, func(t *testing.T) {
			assert.Equal(t, tt.match, r.Match(tt.pattern, tt.line))
		})
	}
}

func TestRegistry_LiteralIsQuoted(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.RegisterLiteral("lit", "a.b (c)"))

	assert.True(t, r.Match("lit", "a.b (c) more"))
	assert.False(t, r.Match("lit", "axb (c)"))
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry(nil)
	assert.Error(t, r.Register("broken", "("))
	assert.False(t, r.Match("missing", "x"))
	assert.Panics(t, func() { r.Must("missing") })

	cfg := config.Default()
	cfg.AgendaItemPattern = "[a-"
	_, err := FromConfig(cfg)
	assert.Error(t, err)
}
