package history

import (
	"errors"
	"fmt"
	"strings"
)

type Verb string

const (
	VerbLoad   Verb = "loadChat"
	VerbDelete Verb = "deleteChat"
)

// Action is a decoded row binding.
type Action struct {
	Verb Verb
	Arg  string
}

var ErrMalformedAction = errors.New("malformed action")

// EscapeArg prepares text for embedding between single quotes in a binding
// expression. Backslashes are escaped too so that a trailing backslash in a
// message cannot swallow the closing quote. Nothing else is escaped.
func EscapeArg(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// Expr encodes the action as verb('arg').
func (a Action) Expr() string {
	return string(a.Verb) + "('" + EscapeArg(a.Arg) + "')"
}

// ParseAction decodes an expression produced by Action.Expr.
func ParseAction(expr string) (Action, error) {
	open := strings.Index(expr, "('")
	if open <= 0 || !strings.HasSuffix(expr, "')") || len(expr) < open+4 {
		return Action{}, fmt.Errorf("%w: %q", ErrMalformedAction, expr)
	}
	verb := Verb(expr[:open])
	switch verb {
	case VerbLoad, VerbDelete:
	default:
		return Action{}, fmt.Errorf("%w: unknown verb %q", ErrMalformedAction, verb)
	}

	body := expr[open+2 : len(expr)-2]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch c {
		case '\\':
			if i+1 >= len(body) {
				return Action{}, fmt.Errorf("%w: dangling escape in %q", ErrMalformedAction, expr)
			}
			i++
			b.WriteByte(body[i])
		case '\'':
			return Action{}, fmt.Errorf("%w: unescaped quote in %q", ErrMalformedAction, expr)
		default:
			b.WriteByte(c)
		}
	}
	return Action{Verb: verb, Arg: b.String()}, nil
}
