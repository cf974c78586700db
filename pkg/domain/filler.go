package domain

// Filler and empty record fields.
const (
	FieldLine      = "line"
	FieldSection   = "section"
	FieldException = "exception"
)

// FillerRecord wraps a line that triggered no rule. Fillers are folded into
// the preceding rule and never reach the output tree.
type FillerRecord struct {
	guard
	line string
}

// NewFiller wraps a raw line.
func NewFiller(line string) *FillerRecord {
	f := &FillerRecord{guard: newGuard(KindFiller, []string{FieldLine}, nil), line: line}
	f.seal()
	return f
}

func (f *FillerRecord) record()    {}
func (f *FillerRecord) Kind() Kind { return KindFiller }

// Line returns the wrapped raw line.
func (f *FillerRecord) Line() string { return f.line }

func (f *FillerRecord) Get(field string) (any, error) {
	if field == FieldLine {
		return f.line, nil
	}
	return nil, f.unknown(field)
}

func (f *FillerRecord) Set(field string, value any) error {
	if err := f.checkWrite(field); err != nil {
		return err
	}
	return f.unknown(field)
}

func (f *FillerRecord) Attributes() map[string]any {
	return map[string]any{FieldLine: f.line}
}

// EmptyRecord stands in for a section whose parsing failed. It keeps the
// error instead of raising it further.
type EmptyRecord struct {
	guard
	section string
	err     error
}

// NewEmptyRecord records that section could not be parsed because of err.
func NewEmptyRecord(section string, err error) *EmptyRecord {
	e := &EmptyRecord{
		guard:   newGuard(KindEmpty, []string{FieldSection, FieldException}, nil),
		section: section,
		err:     err,
	}
	e.seal()
	return e
}

func (e *EmptyRecord) record()         {}
func (e *EmptyRecord) Kind() Kind      { return KindEmpty }
func (e *EmptyRecord) Section() string { return e.section }

// Err returns the error that emptied the section.
func (e *EmptyRecord) Err() error { return e.err }

func (e *EmptyRecord) message() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *EmptyRecord) Get(field string) (any, error) {
	switch field {
	case FieldSection:
		return e.section, nil
	case FieldException:
		return e.message(), nil
	}
	return nil, e.unknown(field)
}

func (e *EmptyRecord) Set(field string, value any) error {
	if err := e.checkWrite(field); err != nil {
		return err
	}
	return e.unknown(field)
}

func (e *EmptyRecord) Attributes() map[string]any {
	return map[string]any{
		FieldSection:   e.section,
		FieldException: e.message(),
	}
}
