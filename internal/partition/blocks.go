package partition

import (
	"strings"
	"unicode"
)

// Blockify splits raw lines into blocks. A block ends where the next
// len(divider) raw lines equal divider exactly. Inside a block lines are
// right-trimmed and blank lines dropped; empty blocks are skipped.
func Blockify(lines []string, divider []string) [][]string {
	var (
		blocks  [][]string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, current)
		}
		current = nil
	}

	for i := 0; i < len(lines); {
		if isDivider(lines[i:], divider) {
			flush()
			i += len(divider)
			continue
		}
		if line := strings.TrimRightFunc(lines[i], unicode.IsSpace); strings.TrimSpace(line) != "" {
			current = append(current, line)
		}
		i++
	}
	flush()
	return blocks
}

func isDivider(lines []string, divider []string) bool {
	if len(divider) == 0 || len(lines) < len(divider) {
		return false
	}
	for i, d := range divider {
		if lines[i] != d {
			return false
		}
	}
	return true
}
