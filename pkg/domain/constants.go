package domain

// Kind identifies a concrete record type.
type Kind string

const (
	KindHeader           Kind = "header"
	KindHeaderSection    Kind = "header_section"
	KindAgenda           Kind = "agenda"
	KindAgendaItem       Kind = "agenda_item"
	KindAgendaComment    Kind = "agenda_comment"
	KindAgendaAttachment Kind = "agenda_attachment"
	KindSessionHeader    Kind = "session_header"
	KindSpeech           Kind = "speech"
	KindDiscussions      Kind = "discussions"
	KindAttachment       Kind = "attachment"
	KindAttachments      Kind = "attachments"
	KindFiller           Kind = "filler"
	KindEmpty            Kind = "empty"
	KindProtocol         Kind = "protocol"
)

// Section names as used in the PROTOCOL_SECTIONS setting.
const (
	SectionHeader        = "HEADER"
	SectionAgendaItems   = "AGENDA_ITEMS"
	SectionSessionHeader = "SESSION_HEADER"
	SectionDiscussions   = "DISCUSSIONS"
	SectionAttachments   = "ATTACHMENTS"
)

// SectionOrder is the declared order of the five protocol sections.
var SectionOrder = []string{
	SectionHeader,
	SectionAgendaItems,
	SectionSessionHeader,
	SectionDiscussions,
	SectionAttachments,
}

// DefaultDateLayout is the layout of protocol dates, e.g. "Montag, den 5. Juni 2017".
const DefaultDateLayout = "%A, den %d. %B %Y"

// DefaultSubItemType tags agenda items found below a top-level item.
const DefaultSubItemType = "Untertagesordnungspunkt"
