package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the plenum banner with the version below it.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Bundestag colours, from black over red to gold.
	lines := []struct {
		text  string
		color string
	}{
		{`        _                            `, "#6b7280"},
		{` _ __  | | ___  _ __   _   _  _ __ ___  `, "#9ca3af"},
		{`| '_ \ | |/ _ \| '_ \ | | | || '_ ` + "`" + ` _ \ `, "#dc2626"},
		{`| |_) || |  __/| | | || |_| || | | | | |`, "#ef4444"},
		{`| .__/ |_|\___||_| |_| \__,_||_| |_| |_|`, "#f59e0b"},
		{`|_|                                     `, "#facc15"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, out.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
