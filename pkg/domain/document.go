package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Document is the envelope persisted by stores: the attribute view of a
// ProtocolRecord plus bookkeeping.
type Document struct {
	ID       string         `json:"id" mapstructure:"id"`
	Source   string         `json:"source,omitempty" mapstructure:"source"`
	ParsedAt time.Time      `json:"parsed_at" mapstructure:"parsed_at"`
	Protocol map[string]any `json:"protocol" mapstructure:"protocol"`
}

// NewDocument snapshots p. The protocol map is normalised through JSON so
// that every store hands back the same value shapes.
func NewDocument(id, source string, p *ProtocolRecord, parsedAt time.Time) (Document, error) {
	doc := Document{ID: id, Source: source, ParsedAt: parsedAt.UTC()}
	if p == nil {
		return doc, fmt.Errorf("document %s: no protocol", id)
	}
	protocol, err := Normalize(Snapshot(p))
	if err != nil {
		return doc, fmt.Errorf("document %s: %w", id, err)
	}
	doc.Protocol = protocol
	return doc, nil
}

// Normalize round-trips m through JSON.
func Normalize(m map[string]any) (map[string]any, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DocumentID derives a stable id from the protocol number ("18/230" -> "18-230").
// It returns fallback when the header is missing.
func DocumentID(p *ProtocolRecord, fallback string) string {
	h, ok := p.Header()
	if !ok || h.Number() == "" {
		return fallback
	}
	id := make([]rune, 0, len(h.Number()))
	for _, r := range h.Number() {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			id = append(id, r)
		default:
			id = append(id, '-')
		}
	}
	return string(id)
}
