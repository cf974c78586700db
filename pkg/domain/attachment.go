package domain

import (
	"strconv"

	"github.com/aretw0/plenum/pkg/schema"
)

// Attachment fields.
const (
	FieldTitle       = "title"
	FieldAttachments = "attachments"
)

var attachmentSchema = schema.Schema{
	FieldNumber:  schema.Required(schema.OneOf(schema.NonEmptyString(), schema.Int())),
	FieldTitle:   schema.Optional(schema.String()),
	FieldContent: schema.Optional(schema.Lines(0)),
}

// AttachmentRecord is one "Anlage N" appended to the protocol.
type AttachmentRecord struct {
	guard
	number  int
	title   string
	content []string
}

// NewAttachmentRecord builds an attachment; number accepts the raw "Anlage 3" line.
func NewAttachmentRecord(raw map[string]any) (*AttachmentRecord, error) {
	a := &AttachmentRecord{guard: newGuard(KindAttachment, []string{FieldNumber}, nil)}
	if err := construct(KindAttachment, attachmentSchema, raw, a.assign); err != nil {
		return nil, err
	}
	a.seal()
	return a, nil
}

func (a *AttachmentRecord) record()           {}
func (a *AttachmentRecord) Kind() Kind        { return KindAttachment }
func (a *AttachmentRecord) Number() int       { return a.number }
func (a *AttachmentRecord) Title() string     { return a.title }
func (a *AttachmentRecord) Content() []string { return a.content }

func (a *AttachmentRecord) Get(field string) (any, error) {
	switch field {
	case FieldNumber:
		return a.number, nil
	case FieldTitle:
		return a.title, nil
	case FieldContent:
		return a.content, nil
	}
	return nil, a.unknown(field)
}

func (a *AttachmentRecord) Set(field string, value any) error {
	if err := a.checkWrite(field); err != nil {
		return err
	}
	return a.assign(field, value)
}

func (a *AttachmentRecord) assign(field string, value any) error {
	switch field {
	case FieldNumber:
		if n, err := asInt(KindAttachment, field, value); err == nil {
			a.number = n
			return nil
		}
		line, err := asString(KindAttachment, field, value)
		if err != nil {
			return err
		}
		digits := digitsPattern.FindString(line)
		if digits == "" {
			return fieldErr(KindAttachment, field, value, "no attachment number in %q", line)
		}
		a.number, _ = strconv.Atoi(digits)
		return nil
	case FieldTitle:
		s, err := asString(KindAttachment, field, value)
		a.title = s
		return err
	case FieldContent:
		lines, err := asLines(KindAttachment, field, value)
		a.content = lines
		return err
	}
	return a.unknown(field)
}

func (a *AttachmentRecord) Attributes() map[string]any {
	return map[string]any{
		FieldNumber:  a.number,
		FieldTitle:   a.title,
		FieldContent: append([]string{}, a.content...),
	}
}

var attachmentsSchema = schema.Schema{
	FieldAttachments: schema.Required(schema.Slice(recordOf(KindAttachment))),
}

// AttachmentsRecord is the aggregate of the ATTACHMENTS section.
type AttachmentsRecord struct {
	guard
	attachments []*AttachmentRecord
}

// NewAttachmentsRecord collects attachments in document order.
func NewAttachmentsRecord(raw map[string]any) (*AttachmentsRecord, error) {
	a := &AttachmentsRecord{guard: newGuard(KindAttachments, nil, nil)}
	if err := construct(KindAttachments, attachmentsSchema, raw, a.Set); err != nil {
		return nil, err
	}
	a.seal()
	return a, nil
}

func (a *AttachmentsRecord) record()    {}
func (a *AttachmentsRecord) Kind() Kind { return KindAttachments }

// Attachments returns the attachments in document order.
func (a *AttachmentsRecord) Attachments() []*AttachmentRecord { return a.attachments }

func (a *AttachmentsRecord) Get(field string) (any, error) {
	if field == FieldAttachments {
		return a.attachments, nil
	}
	return nil, a.unknown(field)
}

func (a *AttachmentsRecord) Set(field string, value any) error {
	if field != FieldAttachments {
		return a.unknown(field)
	}
	records, ok := value.([]Record)
	if !ok {
		return fieldErr(KindAttachments, field, value, "expected records, got %T", value)
	}
	out := make([]*AttachmentRecord, 0, len(records))
	for _, r := range records {
		att, ok := r.(*AttachmentRecord)
		if !ok {
			return fieldErr(KindAttachments, field, value, "unexpected %s record", r.Kind())
		}
		out = append(out, att)
	}
	a.attachments = out
	return nil
}

func (a *AttachmentsRecord) Attributes() map[string]any {
	return map[string]any{FieldAttachments: attributesOf(a.attachments)}
}
