package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/plenum/pkg/domain"
)

// GenerateMermaid renders the agenda of a protocol as a Mermaid flowchart:
// one node per agenda item, sub-items hanging off their parent.
// Attachments and comments become notes with a different shape:
// - Item: [Rectangle]
// - Sub-item: (Rounded)
// - Attachment: [/Parallelogram/]
// - Comment: >Flag]
func GenerateMermaid(p *domain.ProtocolRecord) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	root := "agenda"
	if h, ok := p.Header(); ok && h.Number() != "" {
		sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", root, escape(h.Number())))
	} else {
		sb.WriteString(fmt.Sprintf("    %s((\"Agenda\"))\n", root))
	}

	agenda, ok := p.Agenda()
	if !ok {
		return sb.String()
	}

	for i, raw := range agenda.Items() {
		id := fmt.Sprintf("n%d", i)
		switch r := raw.(type) {
		case *domain.AgendaItem:
			writeItem(&sb, root, id, r, 0)
		case *domain.AgendaAttachment:
			sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", id, escape(firstLine(r.Content(), "Anlage"))))
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", root, id))
		case *domain.AgendaComment:
			sb.WriteString(fmt.Sprintf("    %s>\"%s\"]\n", id, escape(r.Identifier())))
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", root, id))
		}
	}
	return sb.String()
}

func writeItem(sb *strings.Builder, parent, id string, item *domain.AgendaItem, depth int) {
	label := fmt.Sprintf("%s %v", item.ItemType(), item.Number())
	if title := firstLine(item.Content(), ""); title != "" {
		label += "<br/>" + title
	}
	opener, closer := "[", "]"
	if depth > 0 {
		opener, closer = "(", ")"
	}
	sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, escape(label), closer))
	sb.WriteString(fmt.Sprintf("    %s --> %s\n", parent, id))

	for j, sub := range item.SubItems() {
		writeItem(sb, id, fmt.Sprintf("%s_%d", id, j), sub, depth+1)
	}
}

func firstLine(lines []string, fallback string) string {
	for _, l := range lines {
		if s := strings.TrimSpace(l); s != "" {
			return s
		}
	}
	return fallback
}

// escape keeps labels inside their double quotes.
func escape(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.ReplaceAll(s, "\n", " ")
}
