package history

// Binding is the action attached to a UI control. StopPropagation keeps the
// event from reaching the enclosing control.
type Binding struct {
	Expr            string
	StopPropagation bool
}

// Row is one clickable history item with its delete control.
type Row struct {
	Label  string
	Select Binding
	Delete Binding
}

// Section is a bucket header with the rows under it.
type Section struct {
	Header string
	Rows   []Row
}

// Build turns a payload into sidebar sections. A bucket gets a header as
// soon as it holds any entry, but only user entries become rows.
func Build(p Payload) []Section {
	if p == nil {
		return nil
	}
	var out []Section
	for _, b := range Buckets {
		entries := p[b]
		if len(entries) == 0 {
			continue
		}
		sec := Section{Header: string(b)}
		for _, e := range entries {
			if e.Type != EntryUser {
				continue
			}
			sec.Rows = append(sec.Rows, Row{
				Label:  e.Message,
				Select: Binding{Expr: Action{Verb: VerbLoad, Arg: e.Message}.Expr()},
				Delete: Binding{Expr: Action{Verb: VerbDelete, Arg: e.Message}.Expr(), StopPropagation: true},
			})
		}
		out = append(out, sec)
	}
	return out
}
