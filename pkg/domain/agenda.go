package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/plenum/pkg/schema"
)

// Agenda item fields.
const (
	FieldItemType   = "item_type"
	FieldItemNumber = "item_number"
	FieldSubItems   = "subitems"
	FieldContent    = "content"
	FieldItems      = "items"
	FieldIdentifier = "identifier"
	FieldComment    = "comment"
)

// AgendaFormat carries the patterns that derive agenda item fields from
// raw lines. SubLevels[i] splits the content of an item at depth i.
type AgendaFormat struct {
	TopLevel    *regexp.Regexp
	SubLevels   []*regexp.Regexp
	SubItemType string
}

var agendaItemSchema = schema.Schema{
	FieldItemType:   schema.Required(schema.NonEmptyString()),
	FieldItemNumber: schema.Required(schema.OneOf(schema.NonEmptyString(), schema.Int())),
	FieldSubItems:   schema.Optional(schema.Lines(0)),
	FieldSource:     schema.Optional(schema.Lines(0)),
}

var (
	digitsPattern = regexp.MustCompile(`\d+`)
	markerPattern = regexp.MustCompile(`^\s*(\w+)\)`)
)

// AgendaItem is one "Tagesordnungspunkt" or one of its lettered sub-items.
// Sub-items are owned by their parent and nest to any depth the format allows.
type AgendaItem struct {
	guard
	format AgendaFormat
	depth  int

	itemType string
	number   any
	subItems []*AgendaItem
	content  []string
	source   []string
}

// NewAgendaItem builds a top-level agenda item. item_type and item_number are
// both derived from the marker line ("Tagesordnungspunkt 7:" or "a)\tTitle");
// subitems holds the following raw lines, which are split on the sub-item
// marker of the current depth.
func NewAgendaItem(raw map[string]any, format AgendaFormat) (*AgendaItem, error) {
	return newAgendaItem(raw, format, 0)
}

func newAgendaItem(raw map[string]any, format AgendaFormat, depth int) (*AgendaItem, error) {
	item := &AgendaItem{
		guard:  newGuard(KindAgendaItem, []string{FieldSource}, []string{FieldSource}),
		format: format,
		depth:  depth,
	}
	if format.SubItemType == "" {
		item.format.SubItemType = DefaultSubItemType
	}
	if err := construct(KindAgendaItem, agendaItemSchema, raw, item.assign); err != nil {
		return nil, err
	}
	item.seal()
	return item, nil
}

func (a *AgendaItem) record()    {}
func (a *AgendaItem) Kind() Kind { return KindAgendaItem }

// ItemType is the leading token of the marker, or the sub-item tag.
func (a *AgendaItem) ItemType() string { return a.itemType }

// Number is an int for top-level items and an upper-case letter for sub-items.
func (a *AgendaItem) Number() any { return a.number }

// SubItems returns the owned sub-items in document order.
func (a *AgendaItem) SubItems() []*AgendaItem { return a.subItems }

// Content returns the lines that precede the first sub-item.
func (a *AgendaItem) Content() []string { return a.content }

func (a *AgendaItem) Get(field string) (any, error) {
	if err := a.checkRead(field); err != nil {
		return nil, err
	}
	switch field {
	case FieldItemType:
		return a.itemType, nil
	case FieldItemNumber:
		return a.number, nil
	case FieldSubItems:
		return a.subItems, nil
	case FieldContent:
		return a.content, nil
	}
	return nil, a.unknown(field)
}

func (a *AgendaItem) Set(field string, value any) error {
	if err := a.checkWrite(field); err != nil {
		return err
	}
	return a.assign(field, value)
}

func (a *AgendaItem) assign(field string, value any) error {
	switch field {
	case FieldItemType:
		s, err := asString(KindAgendaItem, field, value)
		if err != nil {
			return err
		}
		t, err := a.format.itemType(s)
		if err != nil {
			return &FieldError{Kind: KindAgendaItem, Field: field, Value: value, Err: err}
		}
		a.itemType = t
		return nil
	case FieldItemNumber:
		if n, ok := value.(int); ok {
			a.number = n
			return nil
		}
		s, err := asString(KindAgendaItem, field, value)
		if err != nil {
			return err
		}
		n, err := a.format.itemNumber(s)
		if err != nil {
			return &FieldError{Kind: KindAgendaItem, Field: field, Value: value, Err: err}
		}
		a.number = n
		return nil
	case FieldSubItems:
		lines, err := asLines(KindAgendaItem, field, value)
		if err != nil {
			return err
		}
		return a.split(lines)
	case FieldSource:
		lines, err := asLines(KindAgendaItem, field, value)
		a.source = lines
		return err
	}
	return a.unknown(field)
}

// split distributes lines into own content and sub-items. Without any
// sub-item marker at this depth the lines stay unsplit.
func (a *AgendaItem) split(lines []string) error {
	a.content = nil
	a.subItems = nil

	if a.depth >= len(a.format.SubLevels) || a.format.SubLevels[a.depth] == nil {
		a.content = lines
		return nil
	}
	marker := a.format.SubLevels[a.depth]

	var segments [][]string
	for _, line := range lines {
		if marker.MatchString(line) {
			segments = append(segments, []string{line})
			continue
		}
		if len(segments) == 0 {
			a.content = append(a.content, line)
			continue
		}
		last := len(segments) - 1
		segments[last] = append(segments[last], line)
	}

	for _, seg := range segments {
		head := seg[0]
		body := append([]string{stripMarker(head)}, seg[1:]...)
		sub, err := newAgendaItem(map[string]any{
			FieldItemType:   head,
			FieldItemNumber: head,
			FieldSubItems:   body,
			FieldSource:     seg,
		}, a.format, a.depth+1)
		if err != nil {
			return err
		}
		a.subItems = append(a.subItems, sub)
	}
	return nil
}

func (f AgendaFormat) itemType(line string) (string, error) {
	if f.TopLevel != nil {
		if m := f.TopLevel.FindString(line); m != "" {
			token, _, _ := strings.Cut(strings.TrimSpace(m), " ")
			return token, nil
		}
	}
	if f.isSubItem(line) {
		return f.SubItemType, nil
	}
	return "", fmt.Errorf("%q is neither an agenda item nor a sub-item", line)
}

func (f AgendaFormat) itemNumber(line string) (any, error) {
	if f.TopLevel != nil {
		if m := f.TopLevel.FindString(line); m != "" {
			digits := digitsPattern.FindString(m)
			if digits == "" {
				return nil, fmt.Errorf("agenda item %q carries no number", line)
			}
			n, err := strconv.Atoi(digits)
			if err != nil {
				return nil, err
			}
			return n, nil
		}
	}
	if f.isSubItem(line) {
		if m := markerPattern.FindStringSubmatch(line); m != nil {
			return strings.ToUpper(m[1]), nil
		}
	}
	// Already formatted identifiers, e.g. when rebuilding from attributes.
	if s := strings.TrimSpace(line); s != "" && strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }) < 0 {
		return strings.ToUpper(s), nil
	}
	return nil, fmt.Errorf("no item number in %q", line)
}

func (f AgendaFormat) isSubItem(line string) bool {
	for _, p := range f.SubLevels {
		if p != nil && p.MatchString(line) {
			return true
		}
	}
	return false
}

func stripMarker(line string) string {
	loc := markerPattern.FindStringIndex(line)
	if loc == nil {
		return line
	}
	return strings.TrimSpace(line[loc[1]:])
}

func (a *AgendaItem) Attributes() map[string]any {
	return map[string]any{
		FieldItemType:   a.itemType,
		FieldItemNumber: a.number,
		FieldSubItems:   attributesOf(a.subItems),
		FieldContent:    append([]string{}, a.content...),
	}
}

var agendaCommentSchema = schema.Schema{
	FieldIdentifier: schema.Required(schema.NonEmptyString()),
	FieldComment:    schema.Required(schema.NonEmptyString()),
}

// AgendaComment is an agenda entry that is not an item, such as
// "Glückwünsche zum Geburtstag" followed by the honoured member.
type AgendaComment struct {
	guard
	identifier string
	comment    string
}

// NewAgendaComment builds a comment from its identifier and comment lines.
func NewAgendaComment(raw map[string]any) (*AgendaComment, error) {
	c := &AgendaComment{guard: newGuard(KindAgendaComment, nil, nil)}
	if err := construct(KindAgendaComment, agendaCommentSchema, raw, c.Set); err != nil {
		return nil, err
	}
	c.seal()
	return c, nil
}

func (c *AgendaComment) record()            {}
func (c *AgendaComment) Kind() Kind         { return KindAgendaComment }
func (c *AgendaComment) Identifier() string { return c.identifier }
func (c *AgendaComment) Comment() string    { return c.comment }

func (c *AgendaComment) Get(field string) (any, error) {
	switch field {
	case FieldIdentifier:
		return c.identifier, nil
	case FieldComment:
		return c.comment, nil
	}
	return nil, c.unknown(field)
}

func (c *AgendaComment) Set(field string, value any) error {
	switch field {
	case FieldIdentifier:
		s, err := asString(KindAgendaComment, field, value)
		c.identifier = s
		return err
	case FieldComment:
		s, err := asString(KindAgendaComment, field, value)
		c.comment = s
		return err
	}
	return c.unknown(field)
}

func (c *AgendaComment) Attributes() map[string]any {
	return map[string]any{
		FieldIdentifier: c.identifier,
		FieldComment:    c.comment,
	}
}

var agendaAttachmentSchema = schema.Schema{
	FieldContent: schema.Required(schema.Lines(1)),
}

// AgendaAttachment is an "Anlage" entry of the agenda. Its content is kept as is.
type AgendaAttachment struct {
	guard
	content []string
}

// NewAgendaAttachment builds an attachment entry from its raw lines.
func NewAgendaAttachment(raw map[string]any) (*AgendaAttachment, error) {
	a := &AgendaAttachment{guard: newGuard(KindAgendaAttachment, nil, nil)}
	if err := construct(KindAgendaAttachment, agendaAttachmentSchema, raw, a.Set); err != nil {
		return nil, err
	}
	a.seal()
	return a, nil
}

func (a *AgendaAttachment) record()           {}
func (a *AgendaAttachment) Kind() Kind        { return KindAgendaAttachment }
func (a *AgendaAttachment) Content() []string { return a.content }

func (a *AgendaAttachment) Get(field string) (any, error) {
	if field == FieldContent {
		return a.content, nil
	}
	return nil, a.unknown(field)
}

func (a *AgendaAttachment) Set(field string, value any) error {
	if field != FieldContent {
		return a.unknown(field)
	}
	lines, err := asLines(KindAgendaAttachment, field, value)
	a.content = lines
	return err
}

func (a *AgendaAttachment) Attributes() map[string]any {
	return map[string]any{FieldContent: append([]string{}, a.content...)}
}

var agendaSchema = schema.Schema{
	FieldItems: schema.Required(schema.Slice(recordOf(KindAgendaItem, KindAgendaComment, KindAgendaAttachment))),
}

// AgendaRecord is the aggregate of the AGENDA_ITEMS section.
type AgendaRecord struct {
	guard
	items []Record
}

// NewAgendaRecord collects agenda entries in document order.
func NewAgendaRecord(raw map[string]any) (*AgendaRecord, error) {
	a := &AgendaRecord{guard: newGuard(KindAgenda, nil, nil)}
	if err := construct(KindAgenda, agendaSchema, raw, a.Set); err != nil {
		return nil, err
	}
	a.seal()
	return a, nil
}

func (a *AgendaRecord) record()         {}
func (a *AgendaRecord) Kind() Kind      { return KindAgenda }
func (a *AgendaRecord) Items() []Record { return a.items }

func (a *AgendaRecord) Get(field string) (any, error) {
	if field == FieldItems {
		return a.items, nil
	}
	return nil, a.unknown(field)
}

func (a *AgendaRecord) Set(field string, value any) error {
	if field != FieldItems {
		return a.unknown(field)
	}
	items, ok := value.([]Record)
	if !ok {
		return fieldErr(KindAgenda, field, value, "expected records, got %T", value)
	}
	a.items = append([]Record(nil), items...)
	return nil
}

func (a *AgendaRecord) Attributes() map[string]any {
	return map[string]any{FieldItems: attributesOf(a.items)}
}
