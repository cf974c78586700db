// Package patterns is the registry of named, compiled patterns the rules
// trigger on, plus the block divider.
package patterns

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/aretw0/plenum/pkg/config"
)

// Pattern names.
const (
	Header              = "header"
	AgendaItem          = "agenda_item"
	AgendaSubItem       = "agenda_subitem"
	AgendaNestedSubItem = "agenda_subitem_nested"
	AgendaAttachment    = "agenda_attachment"
	AgendaComment       = "agenda_comment"
	Sitting             = "session_sitting"
	SessionBegin        = "session_begin"
	Speech              = "speech"
	Interjection        = "interjection"
	Attachment          = "attachment"
)

// Registry holds compiled patterns by name. Patterns are anchored at the
// start of the line, so a trigger only fires on lines it opens.
type Registry struct {
	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
	divider  []string
}

// NewRegistry creates an empty registry with the given block divider.
func NewRegistry(divider []string) *Registry {
	return &Registry{
		patterns: make(map[string]*regexp.Regexp),
		divider:  append([]string(nil), divider...),
	}
}

// FromConfig compiles every pattern setting of cfg.
func FromConfig(cfg config.Config) (*Registry, error) {
	r := NewRegistry(cfg.Divider())

	exprs := map[string]string{
		AgendaItem:          cfg.AgendaItemPattern,
		AgendaSubItem:       cfg.AgendaSubItemPattern,
		AgendaNestedSubItem: cfg.AgendaNestedSubItemPattern,
		AgendaAttachment:    cfg.AgendaAttachmentPattern,
		AgendaComment:       cfg.AgendaCommentTrigger,
		Sitting:             cfg.SittingPattern,
		SessionBegin:        cfg.SessionBeginPattern,
		Speech:              cfg.SpeechPattern,
		Interjection:        cfg.InterjectionPattern,
		Attachment:          cfg.AttachmentPattern,
	}
	for _, name := range sortedKeys(exprs) {
		if exprs[name] == "" {
			continue
		}
		if err := r.Register(name, exprs[name]); err != nil {
			return nil, err
		}
	}
	if cfg.HeaderTrigger != "" {
		if err := r.RegisterLiteral(Header, cfg.HeaderTrigger); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register compiles expr under name, replacing any earlier pattern.
func (r *Registry) Register(name, expr string) error {
	re, err := regexp.Compile("^(?:" + expr + ")")
	if err != nil {
		return fmt.Errorf("pattern %s: %w", name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns[name] = re
	return nil
}

// RegisterLiteral registers a pattern matching lines that start with prefix.
func (r *Registry) RegisterLiteral(name, prefix string) error {
	return r.Register(name, regexp.QuoteMeta(prefix))
}

// Get looks up a pattern by name.
func (r *Registry) Get(name string) (*regexp.Regexp, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	re, ok := r.patterns[name]
	return re, ok
}

// Must returns a pattern that the caller knows to be registered.
func (r *Registry) Must(name string) *regexp.Regexp {
	re, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("patterns: %s is not registered", name))
	}
	return re
}

// Match reports whether the named pattern matches line. Unknown names never match.
func (r *Registry) Match(name, line string) bool {
	re, ok := r.Get(name)
	return ok && re.MatchString(line)
}

// Divider returns the block divider sequence.
func (r *Registry) Divider() []string {
	return append([]string(nil), r.divider...)
}

// Names lists the registered pattern names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.patterns))
	for name := range r.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
