package plenum

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrInvalidEncoding is returned for input that is not valid UTF-8.
var ErrInvalidEncoding = errors.New("protocol is not valid UTF-8")

const bom = "\ufeff"

// ReadLines splits r into lines, keeping each line's terminator. A leading
// byte order mark is removed.
func ReadLines(r io.Reader) ([]string, error) {
	reader := bufio.NewReader(r)
	var lines []string
	for n := 1; ; n++ {
		line, err := reader.ReadString('\n')
		if line != "" {
			if n == 1 {
				line = strings.TrimPrefix(line, bom)
			}
			if !utf8.ValidString(line) {
				return nil, fmt.Errorf("%w: line %d", ErrInvalidEncoding, n)
			}
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read protocol: %w", err)
		}
	}
}
