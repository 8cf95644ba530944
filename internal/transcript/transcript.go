// Package transcript holds the append-only list of chat messages and the
// typing animation for bot replies.
package transcript

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/comigor/jarvis-chat/internal/logger"
	"github.com/comigor/jarvis-chat/internal/loop"
)

// DefaultTypingSpeed is the delay between two revealed characters.
const DefaultTypingSpeed = 20 * time.Millisecond

type Role int

const (
	RoleUser Role = iota
	RoleBot
)

func (r Role) String() string {
	if r == RoleUser {
		return "user"
	}
	return "bot"
}

// Message is one transcript entry. ID is the handle the view uses to find
// the node again.
type Message struct {
	ID   uuid.UUID
	Role Role

	text        strings.Builder
	placeholder bool
	typing      bool
}

// Text returns what is currently revealed.
func (m *Message) Text() string { return m.text.String() }

// Placeholder reports whether the message stands in for a pending reply.
func (m *Message) Placeholder() bool { return m.placeholder }

// Typing reports whether the message is still being revealed.
func (m *Message) Typing() bool { return m.typing }

type EventKind int

const (
	EventAppended EventKind = iota
	EventRevealed
	EventRemoved
	EventCleared
	EventScrolled
)

// Event describes one change to the transcript. Message is nil for
// EventCleared and EventScrolled.
type Event struct {
	Kind    EventKind
	Message *Message
}

// Renderer owns the transcript. It must only be used from the loop.
type Renderer struct {
	loop     loop.Loop
	speed    time.Duration
	messages []*Message
	subs     []func(Event)
}

// New returns an empty transcript. A non-positive speed means
// DefaultTypingSpeed.
func New(l loop.Loop, speed time.Duration) *Renderer {
	if speed <= 0 {
		speed = DefaultTypingSpeed
	}
	return &Renderer{loop: l, speed: speed}
}

// Subscribe registers fn for every transcript event.
func (r *Renderer) Subscribe(fn func(Event)) {
	r.subs = append(r.subs, fn)
}

func (r *Renderer) emit(kind EventKind, m *Message) {
	for _, fn := range r.subs {
		fn(Event{Kind: kind, Message: m})
	}
}

func (r *Renderer) scroll() { r.emit(EventScrolled, nil) }

// Append adds a message at the end of the transcript. With animate the text
// is revealed one character per tick; otherwise it is set at once.
func (r *Renderer) Append(role Role, text string, animate bool) *Message {
	m := r.insert(role, false)
	if !animate {
		m.text.WriteString(text)
		r.emit(EventRevealed, m)
		r.scroll()
		return m
	}
	r.scroll()
	r.animate(m, NewTypewriter(text))
	return m
}

// AppendPlaceholder adds a bot message that is expected to be removed once
// the reply it stands for arrives.
func (r *Renderer) AppendPlaceholder(text string) *Message {
	m := r.insert(RoleBot, true)
	m.text.WriteString(text)
	r.emit(EventRevealed, m)
	r.scroll()
	return m
}

func (r *Renderer) insert(role Role, placeholder bool) *Message {
	m := &Message{ID: uuid.New(), Role: role, placeholder: placeholder}
	r.messages = append(r.messages, m)
	r.emit(EventAppended, m)
	return m
}

// animate reveals one character and schedules the next. Animations are not
// cancellable; several may run at once, each touching only its own message.
func (r *Renderer) animate(m *Message, tw *Typewriter) {
	m.typing = true
	var step func()
	step = func() {
		ch, ok := tw.Next()
		if !ok {
			m.typing = false
			return
		}
		m.text.WriteString(ch)
		r.emit(EventRevealed, m)
		r.scroll()
		if tw.Remaining() == 0 {
			m.typing = false
			return
		}
		r.loop.After(r.speed, step)
	}
	step()
}

// Remove takes a placeholder out of the transcript. It reports false when m
// is not a placeholder or is already gone.
func (r *Renderer) Remove(m *Message) bool {
	if m == nil || !m.placeholder {
		return false
	}
	for i, cur := range r.messages {
		if cur == m {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			r.emit(EventRemoved, m)
			return true
		}
	}
	return false
}

// Clear empties the transcript. Animations still running keep writing to
// their detached messages, which are no longer shown.
func (r *Renderer) Clear() {
	r.messages = nil
	r.emit(EventCleared, nil)
	logger.L.Debug("transcript cleared")
}

// Messages returns the transcript in document order.
func (r *Renderer) Messages() []*Message {
	out := make([]*Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Len is the number of messages shown.
func (r *Renderer) Len() int { return len(r.messages) }
