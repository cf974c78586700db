/*
Package plenum turns plenary protocols of the German Bundestag into a tree of typed records.

A protocol is a loosely structured text file. Plenum splits it into blocks on a divider sequence, assigns the blocks to the five protocol sections by position and runs each section's grammar over its lines. Every grammar is an ordered list of rules: a line matching a rule's trigger starts a new segment, lines matching nothing are folded into the segment before them, and each segment becomes one record.

# Sections

  - HEADER: parliament, document type, number, location and date.
  - AGENDA_ITEMS: agenda items with nested sub-items, attachments and comments.
  - SESSION_HEADER: sitting number, location, date and begin time.
  - DISCUSSIONS: speeches with speaker, role, party and interjections.
  - ATTACHMENTS: the numbered attachments at the end.

A section whose grammar fails is replaced by an EmptyRecord that carries the error, so one broken section never aborts the document. Only a contradictory section layout fails the whole run.

# Usage

	p, err := plenum.New(plenum.WithLogger(slog.Default()))
	if err != nil {
		log.Fatal(err)
	}

	protocol, err := p.ParseFile(ctx, "18230.txt")
	if err != nil {
		log.Fatal(err)
	}

	if header, ok := protocol.Header(); ok {
		fmt.Println(header.Location(), header.Date().Format("2006-01-02"))
	}
	for _, name := range protocol.Degraded() {
		log.Printf("section %s could not be parsed", name)
	}

Settings come from config.Load (YAML or JSON with upper-case keys) and are passed with WithConfig.
*/
package plenum
