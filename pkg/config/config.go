// Package config holds the parser settings. Keys are the upper-case names of
// a flat key-value surface (PROTOCOL_BLOCK_DIVIDER, PROTOCOL_SECTIONS, ...),
// loaded from YAML or JSON files and decoded over Default.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/plenum/pkg/domain"
)

// CRLF is the line separator of protocol files.
const CRLF = "\r\n"

// Config is the complete parser configuration.
type Config struct {
	// BlockDivider is the sequence of raw lines that separates two blocks.
	BlockDivider []string `mapstructure:"PROTOCOL_BLOCK_DIVIDER"`
	// Sections maps section names to block positions; negative positions
	// count from the end.
	Sections   map[string]int `mapstructure:"PROTOCOL_SECTIONS"`
	DateFormat string         `mapstructure:"PROTOCOL_DATE_FORMAT"`

	AgendaItemPattern          string `mapstructure:"PROTOCOL_AGENDA_ITEM_PATTERN"`
	AgendaSubItemPattern       string `mapstructure:"PROTOCOL_AGENDA_SUBITEM_PATTERN"`
	AgendaNestedSubItemPattern string `mapstructure:"PROTOCOL_AGENDA_NESTED_SUBITEM_PATTERN"`
	AgendaSubItemType          string `mapstructure:"PROTOCOL_AGENDA_SUBITEM_ITEMTYPE"`
	AgendaAttachmentPattern    string `mapstructure:"PROTOCOL_AGENDA_ATTACHMENT_PATTERN"`
	AgendaCommentTrigger       string `mapstructure:"AGENDA_COMMENT_TRIGGER"`
	HeaderTrigger              string `mapstructure:"HEADER_RULE_TRIGGER"`
	SittingPattern             string `mapstructure:"SESSION_SITTING_PATTERN"`
	SessionBeginPattern        string `mapstructure:"SESSION_BEGIN_PATTERN"`
	SpeechPattern              string `mapstructure:"DISCUSSION_SPEECH_PATTERN"`
	InterjectionPattern        string `mapstructure:"DISCUSSION_INTERJECTION_PATTERN"`
	AttachmentPattern          string `mapstructure:"PROTOCOL_ATTACHMENT_PATTERN"`

	// LookAheadIncludeTerminator keeps the terminating trigger line in the
	// span of the preceding rule.
	LookAheadIncludeTerminator bool `mapstructure:"LOOKAHEAD_INCLUDE_TERMINATOR"`
	// LookAheadCountTrigger counts the rule's own trigger line as consumed.
	LookAheadCountTrigger bool `mapstructure:"LOOKAHEAD_COUNT_TRIGGER"`
	// TailClaimsRest lets position -1 claim every unclaimed trailing block.
	TailClaimsRest bool `mapstructure:"PROTOCOL_TAIL_CLAIMS_REST"`
	// SuppressExceptions degrades sections on any error, not only on parser errors.
	SuppressExceptions bool `mapstructure:"SUPPRESS_EXCEPTIONS"`

	LogLevel string `mapstructure:"LOG_LEVEL"`

	Store StoreConfig `mapstructure:",squash"`
}

// StoreConfig selects where parsed protocols are kept.
type StoreConfig struct {
	Backend       string        `mapstructure:"STORE_BACKEND"`
	Path          string        `mapstructure:"STORE_PATH"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	RedisPrefix   string        `mapstructure:"REDIS_PREFIX"`
	RedisTTL      time.Duration `mapstructure:"REDIS_TTL"`
}

// Default returns the reference configuration for Bundestag plenary protocols.
func Default() Config {
	return Config{
		BlockDivider: []string{CRLF, CRLF},
		Sections: map[string]int{
			domain.SectionHeader:        0,
			domain.SectionAgendaItems:   1,
			domain.SectionSessionHeader: 2,
			domain.SectionDiscussions:   3,
			domain.SectionAttachments:   -1,
		},
		DateFormat: domain.DefaultDateLayout,

		AgendaItemPattern:          `(Zusatzt|T)agesordnungspunkt \d+:`,
		AgendaSubItemPattern:       `\w\)\t.+`,
		AgendaNestedSubItemPattern: `\w\w\)\t.+`,
		AgendaSubItemType:          domain.DefaultSubItemType,
		AgendaAttachmentPattern:    `Anlage \d+`,
		AgendaCommentTrigger:       `^Glückw`,
		HeaderTrigger:              "Deutscher Bundestag",
		SittingPattern:             `\d+\. Sitzung$`,
		SessionBeginPattern:        `Beginn:`,
		SpeechPattern: `(?:(?:Alters|Vize)?[Pp]räsident(?:in)? [^:]{2,80}` +
			`|[^,():]{3,80} \([^()]{2,40}\)` +
			`|[^,():]{3,80}, (?:Bundesminister(?:in)?|Bundeskanzler(?:in)?|Parl\. Staatssekretär(?:in)?|Staatsminister(?:in)?)[^:]{0,120}):$`,
		InterjectionPattern: `\(`,
		AttachmentPattern:   `Anlage \d+$`,

		LookAheadIncludeTerminator: false,
		LookAheadCountTrigger:      true,
		TailClaimsRest:             true,
		SuppressExceptions:         false,

		LogLevel: "info",
		Store: StoreConfig{
			Backend:     "memory",
			Path:        "protocols",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "plenum:",
		},
	}
}

// Divider returns the block divider, falling back to a single CRLF when none
// is configured.
func (c Config) Divider() []string {
	if len(c.BlockDivider) == 0 {
		return []string{CRLF}
	}
	return c.BlockDivider
}

// Validate rejects settings no parser can work with.
func (c Config) Validate() error {
	if len(c.Sections) == 0 {
		return fmt.Errorf("config: PROTOCOL_SECTIONS is empty")
	}
	if strings.TrimSpace(c.DateFormat) == "" {
		return fmt.Errorf("config: PROTOCOL_DATE_FORMAT is empty")
	}
	for i, line := range c.BlockDivider {
		if line == "" {
			return fmt.Errorf("config: PROTOCOL_BLOCK_DIVIDER[%d] is empty", i)
		}
	}
	switch c.Store.Backend {
	case "", "memory", "file", "redis", "loam":
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.Store.Backend)
	}
	return nil
}

// Decode applies the upper-case keys of raw over the defaults. Other keys are
// ignored. Lists and maps replace the defaults instead of merging into them.
func Decode(raw map[string]any) (Config, error) {
	cfg := Default()

	settings := make(map[string]any, len(raw))
	for key, value := range raw {
		if isSettingKey(key) {
			settings[key] = value
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ZeroFields:       true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := decoder.Decode(settings); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads a YAML or JSON file (by extension) and decodes it.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	raw := make(map[string]any)
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}
	return Decode(raw)
}

func isSettingKey(key string) bool {
	hasLetter := false
	for _, r := range key {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
