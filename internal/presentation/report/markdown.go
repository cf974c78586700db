// Package report renders parsed protocols for people.
package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/plenum/pkg/domain"
)

// Markdown renders p as a markdown document. Degraded sections show up as a
// quoted note carrying the reason.
func Markdown(p *domain.ProtocolRecord) string {
	var sb strings.Builder

	title := "Plenarprotokoll"
	if h, ok := p.Header(); ok {
		title = fmt.Sprintf("%s %s", h.DocumentType(), h.Number())
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	for _, entry := range p.Sections() {
		switch r := entry.Record.(type) {
		case *domain.EmptyRecord:
			fmt.Fprintf(&sb, "## %s\n\n> not parsed: %v\n\n", sectionTitle(entry.Name), r.Err())
		case *domain.HeaderSection:
			writeHeader(&sb, r.Information())
		case *domain.AgendaRecord:
			writeAgenda(&sb, r)
		case *domain.SessionHeaderRecord:
			writeSession(&sb, r)
		case *domain.DiscussionsRecord:
			writeDiscussions(&sb, r)
		case *domain.AttachmentsRecord:
			writeAttachments(&sb, r)
		default:
			fmt.Fprintf(&sb, "## %s\n\n", sectionTitle(entry.Name))
		}
	}
	return sb.String()
}

func sectionTitle(name string) string {
	switch name {
	case domain.SectionHeader:
		return "Kopf"
	case domain.SectionAgendaItems:
		return "Tagesordnung"
	case domain.SectionSessionHeader:
		return "Sitzungseröffnung"
	case domain.SectionDiscussions:
		return "Reden"
	case domain.SectionAttachments:
		return "Anlagen"
	}
	return name
}

func writeHeader(sb *strings.Builder, h *domain.HeaderRecord) {
	if h == nil {
		return
	}
	fmt.Fprintf(sb, "## %s\n\n", sectionTitle(domain.SectionHeader))
	fmt.Fprintf(sb, "| | |\n|---|---|\n")
	fmt.Fprintf(sb, "| Parlament | %s |\n", h.Parliament())
	fmt.Fprintf(sb, "| Nummer | %s |\n", h.Number())
	fmt.Fprintf(sb, "| Ort | %s |\n", h.Location())
	fmt.Fprintf(sb, "| Datum | %s |\n\n", h.Date().Format("02.01.2006"))
}

func writeAgenda(sb *strings.Builder, a *domain.AgendaRecord) {
	fmt.Fprintf(sb, "## %s\n\n", sectionTitle(domain.SectionAgendaItems))
	for _, raw := range a.Items() {
		switch r := raw.(type) {
		case *domain.AgendaItem:
			writeItem(sb, r, 0)
		case *domain.AgendaAttachment:
			fmt.Fprintf(sb, "- _%s_\n", strings.Join(r.Content(), " "))
		case *domain.AgendaComment:
			fmt.Fprintf(sb, "- _%s_: %s\n", r.Identifier(), r.Comment())
		}
	}
	sb.WriteString("\n")
}

func writeItem(sb *strings.Builder, item *domain.AgendaItem, depth int) {
	indent := strings.Repeat("  ", depth)
	label := fmt.Sprintf("%s %v", item.ItemType(), item.Number())
	if depth > 0 {
		label = fmt.Sprintf("%v)", item.Number())
	}
	fmt.Fprintf(sb, "%s- **%s** %s\n", indent, label, strings.Join(item.Content(), " "))
	for _, sub := range item.SubItems() {
		writeItem(sb, sub, depth+1)
	}
}

func writeSession(sb *strings.Builder, s *domain.SessionHeaderRecord) {
	fmt.Fprintf(sb, "## %s\n\n", sectionTitle(domain.SectionSessionHeader))
	fmt.Fprintf(sb, "%d. Sitzung, %s, %s", s.Sitting(), s.Location(), s.Date().Format("02.01.2006"))
	if s.Begin() != "" {
		fmt.Fprintf(sb, ", Beginn %s", s.Begin())
	}
	sb.WriteString("\n\n")
}

func writeDiscussions(sb *strings.Builder, d *domain.DiscussionsRecord) {
	fmt.Fprintf(sb, "## %s\n\n", sectionTitle(domain.SectionDiscussions))
	for _, s := range d.Speeches() {
		speaker := s.Speaker()
		switch {
		case s.Affiliation() != "":
			speaker += " (" + s.Affiliation() + ")"
		case s.Role() != "":
			speaker += ", " + s.Role()
		}
		fmt.Fprintf(sb, "### %s\n\n", speaker)
		if len(s.Text()) > 0 {
			fmt.Fprintf(sb, "%s\n\n", strings.Join(s.Text(), " "))
		}
		for _, i := range s.Interjections() {
			fmt.Fprintf(sb, "> %s\n", i)
		}
		if len(s.Interjections()) > 0 {
			sb.WriteString("\n")
		}
	}
}

func writeAttachments(sb *strings.Builder, a *domain.AttachmentsRecord) {
	fmt.Fprintf(sb, "## %s\n\n", sectionTitle(domain.SectionAttachments))
	for _, at := range a.Attachments() {
		fmt.Fprintf(sb, "### Anlage %d", at.Number())
		if at.Title() != "" {
			fmt.Fprintf(sb, ": %s", at.Title())
		}
		sb.WriteString("\n\n")
		if len(at.Content()) > 0 {
			fmt.Fprintf(sb, "%s\n\n", strings.Join(at.Content(), "\n"))
		}
	}
}
