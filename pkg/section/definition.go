package section

import (
	"fmt"

	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/rules"
)

// Builder folds the records of one section into the section's aggregate.
type Builder func(records []domain.Record) (domain.Record, error)

// Definition declares the grammar of one section: its rules in trigger
// priority order and the aggregate they are collected into.
type Definition struct {
	Name  string
	Rules []rules.Factory
	Build Builder
}

// Defaults returns the definitions of the five protocol sections, keyed by
// section name.
func Defaults() map[string]Definition {
	return map[string]Definition{
		domain.SectionHeader: {
			Name:  domain.SectionHeader,
			Rules: []rules.Factory{rules.NewHeaderRule},
			Build: buildHeader,
		},
		domain.SectionAgendaItems: {
			Name: domain.SectionAgendaItems,
			Rules: []rules.Factory{
				rules.NewAgendaItemRule,
				rules.NewAgendaAttachmentRule,
				rules.NewAgendaCommentRule,
			},
			Build: buildAgenda,
		},
		domain.SectionSessionHeader: {
			Name:  domain.SectionSessionHeader,
			Rules: []rules.Factory{rules.NewSittingRule},
			Build: buildSessionHeader,
		},
		domain.SectionDiscussions: {
			Name:  domain.SectionDiscussions,
			Rules: []rules.Factory{rules.NewSpeechRule},
			Build: buildDiscussions,
		},
		domain.SectionAttachments: {
			Name:  domain.SectionAttachments,
			Rules: []rules.Factory{rules.NewAttachmentRule},
			Build: buildAttachments,
		},
	}
}

func buildHeader(records []domain.Record) (domain.Record, error) {
	if len(records) != 1 {
		return nil, &domain.SchemaViolation{
			Kind: domain.KindHeaderSection,
			Err:  fmt.Errorf("expected exactly one header, got %d records", len(records)),
		}
	}
	return domain.NewHeaderSection(map[string]any{"header_information": records[0]})
}

func buildAgenda(records []domain.Record) (domain.Record, error) {
	return domain.NewAgendaRecord(map[string]any{domain.FieldItems: records})
}

// The session header has no aggregate of its own: the first sitting wins.
func buildSessionHeader(records []domain.Record) (domain.Record, error) {
	for _, r := range records {
		if r.Kind() == domain.KindSessionHeader {
			return r, nil
		}
	}
	return nil, &domain.SchemaViolation{
		Kind: domain.KindSessionHeader,
		Err:  fmt.Errorf("no session header among %d records", len(records)),
	}
}

func buildDiscussions(records []domain.Record) (domain.Record, error) {
	return domain.NewDiscussionsRecord(map[string]any{domain.FieldSpeeches: records})
}

func buildAttachments(records []domain.Record) (domain.Record, error) {
	return domain.NewAttachmentsRecord(map[string]any{domain.FieldAttachments: records})
}
