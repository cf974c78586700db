package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/term"

	"github.com/aretw0/plenum"
	"github.com/aretw0/plenum/internal/logging"
	"github.com/aretw0/plenum/internal/presentation/graph"
	"github.com/aretw0/plenum/internal/presentation/report"
	"github.com/aretw0/plenum/internal/presentation/tui"
	"github.com/aretw0/plenum/pkg/config"
	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/observability"
	"github.com/aretw0/plenum/pkg/persistence/middleware"
)

// Output formats of the parse command.
const (
	FormatAuto     = "auto"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatPretty   = "pretty"
	FormatMermaid  = "mermaid"
)

// ParseOptions configures RunParse.
type ParseOptions struct {
	// Input is a file path, or "-" for In.
	Input      string
	ConfigPath string
	Format     string
	// Store writes the document to the configured backend.
	Store   bool
	ID      string
	Debug   bool
	Width   int
	Out     io.Writer
	Err     io.Writer
	In      io.Reader
	IsTTY   bool
	Backend *config.StoreConfig
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ResolveFormat maps "auto" onto pretty output for terminals and JSON
// otherwise.
func ResolveFormat(format string, tty bool) (string, error) {
	switch format {
	case "", FormatAuto:
		if tty {
			return FormatPretty, nil
		}
		return FormatJSON, nil
	case FormatJSON, FormatMarkdown, FormatPretty, FormatMermaid:
		return format, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, markdown, pretty or mermaid)", format)
}

// LoadConfig reads path, or returns the defaults when path is empty.
func LoadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// NewLogger writes to w at the configured level; debug forces slog.LevelDebug.
func NewLogger(w io.Writer, cfg config.Config, debug bool) (*slog.Logger, error) {
	if debug {
		return logging.NewWithWriter(w, slog.LevelDebug), nil
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(w, level), nil
}

// RunParse parses one protocol and writes it to opts.Out.
func RunParse(ctx context.Context, opts ParseOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Backend != nil {
		cfg.Store = *opts.Backend
	}
	format, err := ResolveFormat(opts.Format, opts.IsTTY)
	if err != nil {
		return err
	}
	logger, err := NewLogger(opts.Err, cfg, opts.Debug)
	if err != nil {
		return err
	}

	parserOpts := []plenum.Option{plenum.WithConfig(cfg), plenum.WithLogger(logger)}
	if opts.Debug {
		parserOpts = append(parserOpts, plenum.WithLifecycleHooks(observability.LoggingHooks(logger)))
	}
	parser, err := plenum.New(parserOpts...)
	if err != nil {
		return err
	}

	var (
		record *domain.ProtocolRecord
		source string
	)
	if opts.Input == "" || opts.Input == "-" {
		in := opts.In
		if in == nil {
			in = os.Stdin
		}
		source = "stdin"
		record, err = parser.Parse(ctx, in)
	} else {
		source = filepath.Base(opts.Input)
		record, err = parser.ParseFile(ctx, opts.Input)
	}
	if err != nil {
		return err
	}
	for _, name := range record.Degraded() {
		logger.Warn("section degraded", "section", name)
	}

	fallback := opts.ID
	if fallback == "" {
		fallback = trimExt(source)
	}
	doc, err := domain.NewDocument(domain.DocumentID(record, fallback), source, record, time.Now())
	if err != nil {
		return err
	}

	if opts.Store {
		b, err := OpenBackend(ctx, cfg.Store, middleware.NewLoggingMiddleware(logger))
		if err != nil {
			return err
		}
		defer b.Close()
		if err := b.Store.Save(ctx, doc); err != nil {
			return fmt.Errorf("failed to store %s: %w", doc.ID, err)
		}
		logger.Info("protocol stored", "id", doc.ID, "backend", cfg.Store.Backend)
	}

	return write(opts.Out, format, opts.Width, record, doc)
}

func write(w io.Writer, format string, width int, record *domain.ProtocolRecord, doc domain.Document) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatMermaid:
		_, err := io.WriteString(w, graph.GenerateMermaid(record))
		return err
	case FormatPretty:
		render, err := tui.NewRenderer(width)
		if err != nil {
			return err
		}
		out, err := render(report.Markdown(record))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		_, err := io.WriteString(w, report.Markdown(record))
		return err
	}
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
