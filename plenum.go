package plenum

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/plenum/internal/logging"
	"github.com/aretw0/plenum/internal/partition"
	"github.com/aretw0/plenum/pkg/config"
	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/rules"
	"github.com/aretw0/plenum/pkg/section"
)

// Parser is the high-level entry point of the library. It turns protocol
// files into ProtocolRecord trees and is safe to reuse across documents.
type Parser struct {
	cfg         config.Config
	sections    map[string]int
	dates       domain.DateParser
	defs        map[string]section.Definition
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	partitioner *partition.Partitioner
}

// Option defines a functional option for configuring the Parser.
type Option func(*Parser)

// WithConfig replaces the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(p *Parser) {
		p.cfg = cfg
	}
}

// WithLogger sets a structured logger. Without it the parser is silent.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Parser) {
		p.hooks = hooks
	}
}

// WithSections overrides the section positions of the configuration.
func WithSections(positions map[string]int) Option {
	return func(p *Parser) {
		p.sections = positions
	}
}

// WithDateParser replaces the layout based German date parser.
func WithDateParser(dates domain.DateParser) Option {
	return func(p *Parser) {
		p.dates = dates
	}
}

// WithDefinitions replaces the section grammars.
func WithDefinitions(defs map[string]section.Definition) Option {
	return func(p *Parser) {
		p.defs = defs
	}
}

// New builds a Parser. The configuration is validated and its patterns
// compiled once.
func New(opts ...Option) (*Parser, error) {
	p := &Parser{cfg: config.Default()}
	for _, opt := range opts {
		opt(p)
	}

	if p.sections != nil {
		p.cfg.Sections = p.sections
	}
	if err := p.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if p.logger == nil {
		p.logger = logging.NewNop()
	}

	env, err := rules.NewEnv(p.cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if p.dates != nil {
		env.Dates = p.dates
	}

	partOpts := []partition.Option{
		partition.WithLogger(p.logger),
		partition.WithLifecycleHooks(p.hooks),
	}
	if p.defs != nil {
		partOpts = append(partOpts, partition.WithDefinitions(p.defs))
	}
	p.partitioner = partition.New(p.cfg, env, partOpts...)
	return p, nil
}

// Config returns the effective configuration.
func (p *Parser) Config() config.Config { return p.cfg }

// ParseFile reads the protocol at path once and parses it. The file is
// closed on every path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*domain.ProtocolRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open protocol: %w", err)
	}
	defer f.Close()

	p.logger.Debug("parsing protocol", "path", path)
	return p.Parse(ctx, f)
}

// Parse reads a protocol from r and parses it.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*domain.ProtocolRecord, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return p.ParseLines(ctx, lines)
}

// ParseLines parses raw lines. Lines keep their line endings: divider
// detection compares them verbatim.
func (p *Parser) ParseLines(ctx context.Context, lines []string) (*domain.ProtocolRecord, error) {
	return p.partitioner.Process(ctx, lines)
}
