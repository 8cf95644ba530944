package transcript

import "github.com/rivo/uniseg"

// Typewriter yields a text one user-perceived character (grapheme cluster)
// per step, so a flag or a skin-toned emoji is never revealed half-way.
type Typewriter struct {
	g     *uniseg.Graphemes
	total int
	done  int
}

// NewTypewriter returns a Typewriter over text.
func NewTypewriter(text string) *Typewriter {
	return &Typewriter{
		g:     uniseg.NewGraphemes(text),
		total: uniseg.GraphemeClusterCount(text),
	}
}

// Next returns the next character, or false once the text is exhausted.
func (t *Typewriter) Next() (string, bool) {
	if !t.g.Next() {
		return "", false
	}
	t.done++
	return t.g.Str(), true
}

// Len is the number of steps the whole text takes.
func (t *Typewriter) Len() int { return t.total }

// Remaining is the number of steps not yet taken.
func (t *Typewriter) Remaining() int { return t.total - t.done }
