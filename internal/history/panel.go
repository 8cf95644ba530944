package history

import (
	"context"
	"fmt"

	"github.com/comigor/jarvis-chat/internal/logger"
	"github.com/comigor/jarvis-chat/internal/loop"
)

// ClearPrompt is the question asked before wiping the whole history.
const ClearPrompt = "Clear all history?"

// Client is the subset of the backend the panel talks to.
type Client interface {
	History(ctx context.Context) (Payload, error)
	DeleteHistoryItem(ctx context.Context, message string) error
	ClearHistory(ctx context.Context) error
}

// Confirmer asks the user a yes/no question and reports the answer on the
// loop.
type Confirmer interface {
	Confirm(prompt string, answer func(ok bool))
}

// Clearer empties the transcript view.
type Clearer interface {
	Clear()
}

type Target int

const (
	TargetRow Target = iota
	TargetDelete
)

// Panel owns the sidebar state. It must only be used from the loop.
type Panel struct {
	ctx        context.Context
	client     Client
	loop       loop.Loop
	confirm    Confirmer
	transcript Clearer
	resubmit   func(text string)

	sections []Section
	subs     []func()
}

// NewPanel returns an empty panel. Call Refresh to load it.
func NewPanel(ctx context.Context, c Client, l loop.Loop, confirm Confirmer, transcript Clearer) *Panel {
	return &Panel{
		ctx:        ctx,
		client:     c,
		loop:       l,
		confirm:    confirm,
		transcript: transcript,
	}
}

// SetResubmit sets what a row click does with the row's message.
func (p *Panel) SetResubmit(fn func(text string)) {
	p.resubmit = fn
}

// OnChange registers fn to run after every rebuild of the sections.
func (p *Panel) OnChange(fn func()) {
	p.subs = append(p.subs, fn)
}

// Sections returns the current sidebar content.
func (p *Panel) Sections() []Section { return p.sections }

// Refresh fetches the whole history and rebuilds the sidebar from scratch.
// On failure the sidebar is left as it was.
func (p *Panel) Refresh() {
	p.loop.Go(func() func() {
		payload, err := p.client.History(p.ctx)
		return func() {
			if err != nil {
				logger.L.Warn("history refresh failed", "error", err)
				return
			}
			p.sections = Build(payload)
			logger.L.Debug("history refreshed", "sections", len(p.sections))
			for _, fn := range p.subs {
				fn()
			}
		}
	})
}

// DeleteEntry asks the backend to delete every entry whose text is message,
// then refreshes. The row stays visible until the refresh lands.
func (p *Panel) DeleteEntry(message string) {
	p.loop.Go(func() func() {
		err := p.client.DeleteHistoryItem(p.ctx, message)
		return func() {
			if err != nil {
				logger.L.Warn("history delete failed", "error", err)
				return
			}
			p.Refresh()
		}
	})
}

// ClearAll wipes the history after the user confirms. Once the request
// settles, whatever its outcome, the sidebar is refreshed and the
// transcript emptied.
func (p *Panel) ClearAll() {
	p.confirm.Confirm(ClearPrompt, func(ok bool) {
		if !ok {
			logger.L.Debug("history clear declined")
			return
		}
		p.loop.Go(func() func() {
			err := p.client.ClearHistory(p.ctx)
			return func() {
				if err != nil {
					logger.L.Warn("history clear failed", "error", err)
				}
				p.Refresh()
				p.transcript.Clear()
			}
		})
	})
}

// Click delivers a click on row to target and lets it bubble up to the row
// unless a binding on the way stops it.
func (p *Panel) Click(row Row, target Target) error {
	path := []Binding{row.Select}
	if target == TargetDelete {
		path = []Binding{row.Delete, row.Select}
	}
	for _, b := range path {
		if err := p.Dispatch(b.Expr); err != nil {
			return err
		}
		if b.StopPropagation {
			break
		}
	}
	return nil
}

// Dispatch decodes a binding expression and runs it.
func (p *Panel) Dispatch(expr string) error {
	a, err := ParseAction(expr)
	if err != nil {
		logger.L.Error("bad sidebar binding", "expr", expr, "error", err)
		return err
	}
	switch a.Verb {
	case VerbLoad:
		if p.resubmit == nil {
			return fmt.Errorf("no resubmit handler for %q", a.Arg)
		}
		p.resubmit(a.Arg)
	case VerbDelete:
		p.DeleteEntry(a.Arg)
	}
	return nil
}
