package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var crlfPair = []string{"\r\n", "\r\n"}

func TestBlockify(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		divider []string
		want    [][]string
	}{
		{
			name:    "two dividers yield three blocks",
			lines:   []string{"a  \r\n", "b\r\n", "\r\n", "\r\n", "c\r\n", "\r\n", "\r\n", "d\t \r\n"},
			divider: crlfPair,
			want:    [][]string{{"a", "b"}, {"c"}, {"d"}},
		},
		{
			name:    "no divider yields one block without blank lines",
			lines:   []string{"a\r\n", "\r\n", "   \r\n", "\tb\r\n"},
			divider: crlfPair,
			want:    [][]string{{"a", "\tb"}},
		},
		{
			name:    "only blank lines yield nothing",
			lines:   []string{"  \r\n", "\t\r\n"},
			divider: crlfPair,
			want:    nil,
		},
		{
			name:    "adjacent dividers do not produce empty blocks",
			lines:   []string{"a\r\n", "\r\n", "\r\n", "\r\n", "\r\n", "b\r\n"},
			divider: crlfPair,
			want:    [][]string{{"a"}, {"b"}},
		},
		{
			name:    "single line divider",
			lines:   []string{"a\n", "\n", "b\n"},
			divider: []string{"\n"},
			want:    [][]string{{"a"}, {"b"}},
		},
		{
			name:    "LF input never matches a CRLF divider",
			lines:   []string{"a\n", "\n", "\n", "b\n"},
			divider: crlfPair,
			want:    [][]string{{"a", "b"}},
		},
		{
			name:    "divider at the very end",
			lines:   []string{"a\r\n", "\r\n", "\r\n"},
			divider: crlfPair,
			want:    [][]string{{"a"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Blockify(tt.lines, tt.divider))
		})
	}
}
