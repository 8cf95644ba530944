// Package chat runs one request/response cycle per user submission.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/qmuntal/stateless" // FSM library

	"github.com/comigor/jarvis-chat/internal/logger"
	"github.com/comigor/jarvis-chat/internal/loop"
	"github.com/comigor/jarvis-chat/internal/transcript"
	"github.com/comigor/jarvis-chat/internal/transport"
)

// Texts shown in the transcript. They are fixed and not localized.
const (
	PlaceholderText      = "Thinking..."
	SoftFailureText      = "Sorry, I couldn't process that."
	TransportFailureText = "Error: Server not responding."
)

// FSM States
type State string

const (
	StateIdle             State = "Idle"
	StateSubmitted        State = "Submitted"
	StateAwaitingResponse State = "AwaitingResponse"
	StateResolved         State = "Resolved" // reply shown, genuine or soft failure
	StateFailed           State = "Failed"   // transport failure shown
)

// FSM Triggers
type Trigger string

const (
	TriggerSubmit           Trigger = "Submit"
	TriggerSend             Trigger = "Send"
	TriggerReplied          Trigger = "Replied"
	TriggerSoftFailure      Trigger = "SoftFailure"
	TriggerTransportFailure Trigger = "TransportFailure"
	TriggerReset            Trigger = "Reset"
)

// Sender is the subset of the backend used to answer a query; it is easy to mock in tests.
type Sender interface {
	Send(ctx context.Context, query string) (transport.Reply, error)
}

// Refresher reloads the history sidebar.
type Refresher interface {
	Refresh()
}

// Input is the text field the user types into.
type Input interface {
	Value() string
	SetValue(s string)
}

// PendingRequest is the placeholder of one in-flight submission.
type PendingRequest struct {
	node     *transcript.Message
	resolved bool
}

// Resolved reports whether the placeholder has been taken down.
func (p *PendingRequest) Resolved() bool { return p.resolved }

func (p *PendingRequest) resolve(r *transcript.Renderer) {
	if p.resolved {
		return
	}
	p.resolved = true
	r.Remove(p.node)
}

// Controller sequences submissions. Cycles are independent: a new one may
// start while others are still waiting, each with its own placeholder.
type Controller struct {
	renderer *transcript.Renderer
	sender   Sender
	history  Refresher
	loop     loop.Loop
	input    Input

	inFlight int
}

// New creates a new controller.
func New(r *transcript.Renderer, s Sender, h Refresher, l loop.Loop, in Input) *Controller {
	return &Controller{renderer: r, sender: s, history: h, loop: l, input: in}
}

// InFlight reports how many cycles are waiting for the backend.
func (c *Controller) InFlight() int { return c.inFlight }

// Resubmit submits text exactly as given, as a history row click does. The
// input field is not read, so nothing it would normalize or cut is lost.
func (c *Controller) Resubmit(ctx context.Context, text string) bool {
	return c.submitText(ctx, text)
}

// Submit starts a cycle for the current input. It reports false, and does
// nothing, when the trimmed input is empty.
func (c *Controller) Submit(ctx context.Context) bool {
	return c.submitText(ctx, c.input.Value())
}

func (c *Controller) submitText(ctx context.Context, text string) bool {
	cy := c.newCycle(strings.TrimSpace(text))
	if err := cy.fsm.FireCtx(ctx, TriggerSubmit); err != nil {
		logger.L.Debug("submission suppressed", "cycle", cy.id, "error", err)
		return false
	}
	if err := cy.fsm.FireCtx(ctx, TriggerSend); err != nil {
		// only reachable through a misconfigured machine
		logger.L.Error("FSM fire error", "cycle", cy.id, "trigger", TriggerSend, "error", err)
		return false
	}
	return true
}

// cycle is the state of a single submission.
type cycle struct {
	id      uuid.UUID
	query   string
	pending *PendingRequest
	reply   transport.Reply
	err     error
	fsm     *stateless.StateMachine
}

func (c *Controller) newCycle(query string) *cycle {
	cy := &cycle{id: uuid.New(), query: query}
	fsm := stateless.NewStateMachine(StateIdle)
	cy.fsm = fsm

	// State: Idle
	// Transitions:
	//   - On Submit, if the query is non-empty -> StateSubmitted
	fsm.Configure(StateIdle).
		Permit(TriggerSubmit, StateSubmitted, func(_ context.Context, _ ...any) bool {
			return cy.query != ""
		}).
		OnEntryFrom(TriggerReset, func(_ context.Context, _ ...any) error {
			c.inFlight--
			logger.L.Debug("FSM: cycle finished", "cycle", cy.id, "inFlight", c.inFlight)
			return nil
		})

	// State: Submitted
	// Action: echo the user message, clear the input, show the placeholder.
	fsm.Configure(StateSubmitted).
		OnEntry(func(_ context.Context, _ ...any) error {
			logger.L.Debug("FSM: Entering StateSubmitted", "cycle", cy.id)
			c.renderer.Append(transcript.RoleUser, cy.query, false)
			c.input.SetValue("")
			cy.pending = &PendingRequest{node: c.renderer.AppendPlaceholder(PlaceholderText)}
			c.inFlight++
			return nil
		}).
		Permit(TriggerSend, StateAwaitingResponse)

	// State: AwaitingResponse
	// Action: send the query off the loop; the outcome fires the next trigger.
	fsm.Configure(StateAwaitingResponse).
		OnEntry(func(ctx context.Context, _ ...any) error {
			logger.L.Info("sending query", "cycle", cy.id)
			c.loop.Go(func() func() {
				reply, err := c.sender.Send(ctx, cy.query)
				return func() { c.settle(ctx, cy, reply, err) }
			})
			return nil
		}).
		Permit(TriggerReplied, StateResolved).
		Permit(TriggerSoftFailure, StateResolved).
		Permit(TriggerTransportFailure, StateFailed)

	// State: Resolved
	fsm.Configure(StateResolved).
		OnEntryFrom(TriggerReplied, func(_ context.Context, _ ...any) error {
			cy.pending.resolve(c.renderer)
			c.renderer.Append(transcript.RoleBot, cy.reply.Response, true)
			c.history.Refresh()
			return nil
		}).
		OnEntryFrom(TriggerSoftFailure, func(_ context.Context, _ ...any) error {
			cy.pending.resolve(c.renderer)
			c.renderer.Append(transcript.RoleBot, SoftFailureText, false)
			return nil
		}).
		Permit(TriggerReset, StateIdle)

	// State: Failed
	fsm.Configure(StateFailed).
		OnEntry(func(_ context.Context, _ ...any) error {
			cy.pending.resolve(c.renderer)
			c.renderer.Append(transcript.RoleBot, TransportFailureText, false)
			return nil
		}).
		Permit(TriggerReset, StateIdle)

	return cy
}

// settle runs on the loop once the backend call returns.
func (c *Controller) settle(ctx context.Context, cy *cycle, reply transport.Reply, err error) {
	cy.reply, cy.err = reply, err

	trigger := TriggerReplied
	switch {
	case err != nil:
		logger.L.Warn("query failed", "cycle", cy.id, "error", err)
		trigger = TriggerTransportFailure
	case reply.Response == "":
		logger.L.Warn("backend returned no response", "cycle", cy.id)
		trigger = TriggerSoftFailure
	}

	for _, t := range []Trigger{trigger, TriggerReset} {
		if fireErr := cy.fsm.FireCtx(ctx, t); fireErr != nil {
			logger.L.Error("FSM fire error", "cycle", cy.id, "trigger", t, "error", fireErr)
			return
		}
	}
}

// State reports where a cycle is; exposed for logging and tests.
func (cy *cycle) State() State {
	s, ok := cy.fsm.MustState().(State)
	if !ok {
		panic(fmt.Sprintf("unexpected FSM state %v", cy.fsm.MustState()))
	}
	return s
}
