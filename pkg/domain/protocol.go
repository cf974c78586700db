package domain

import "fmt"

// SectionEntry pairs a section name with its aggregate record.
type SectionEntry struct {
	Name   string
	Record Record
}

// ProtocolRecord is the document aggregate. Sections keep their declared order.
type ProtocolRecord struct {
	guard
	sections []SectionEntry
}

// NewProtocolRecord assembles the section aggregates.
func NewProtocolRecord(sections []SectionEntry) (*ProtocolRecord, error) {
	seen := make(map[string]bool, len(sections))
	for _, s := range sections {
		if s.Record == nil {
			return nil, &SchemaViolation{Kind: KindProtocol, Err: fmt.Errorf("section %s has no record", s.Name)}
		}
		if seen[s.Name] {
			return nil, &SchemaViolation{Kind: KindProtocol, Err: fmt.Errorf("section %s appears twice", s.Name)}
		}
		seen[s.Name] = true
	}
	p := &ProtocolRecord{
		guard:    newGuard(KindProtocol, []string{"sections"}, nil),
		sections: append([]SectionEntry(nil), sections...),
	}
	p.seal()
	return p, nil
}

func (p *ProtocolRecord) record()    {}
func (p *ProtocolRecord) Kind() Kind { return KindProtocol }

// Sections returns the section aggregates in declared order.
func (p *ProtocolRecord) Sections() []SectionEntry { return p.sections }

// Section looks up a section aggregate by name.
func (p *ProtocolRecord) Section(name string) (Record, bool) {
	for _, s := range p.sections {
		if s.Name == name {
			return s.Record, true
		}
	}
	return nil, false
}

// Header returns the parsed header, if the HEADER section succeeded.
func (p *ProtocolRecord) Header() (*HeaderRecord, bool) {
	r, ok := p.Section(SectionHeader)
	if !ok {
		return nil, false
	}
	hs, ok := r.(*HeaderSection)
	if !ok {
		return nil, false
	}
	return hs.Information(), true
}

// Agenda returns the parsed agenda, if the AGENDA_ITEMS section succeeded.
func (p *ProtocolRecord) Agenda() (*AgendaRecord, bool) {
	r, ok := p.Section(SectionAgendaItems)
	if !ok {
		return nil, false
	}
	a, ok := r.(*AgendaRecord)
	return a, ok
}

// Degraded lists the sections that were replaced by an EmptyRecord.
func (p *ProtocolRecord) Degraded() []string {
	var names []string
	for _, s := range p.sections {
		if s.Record.Kind() == KindEmpty {
			names = append(names, s.Name)
		}
	}
	return names
}

func (p *ProtocolRecord) Get(field string) (any, error) {
	if field == "sections" {
		return p.sections, nil
	}
	return nil, p.unknown(field)
}

func (p *ProtocolRecord) Set(field string, value any) error {
	if err := p.checkWrite(field); err != nil {
		return err
	}
	return p.unknown(field)
}

func (p *ProtocolRecord) Attributes() map[string]any {
	sections := make([]map[string]any, 0, len(p.sections))
	for _, s := range p.sections {
		sections = append(sections, map[string]any{
			"section": s.Name,
			"kind":    string(s.Record.Kind()),
			"data":    s.Record.Attributes(),
		})
	}
	return map[string]any{"sections": sections}
}
