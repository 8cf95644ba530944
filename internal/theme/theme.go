// Package theme keeps the light/dark preference.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/comigor/jarvis-chat/internal/logger"
)

// Key is the preference key the theme is stored under.
const Key = "theme"

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Store is the persistence the controller needs.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Controller holds the current theme. It is read once at startup and
// written on every toggle.
type Controller struct {
	store   Store
	current Theme
}

// Load reads the saved theme. Anything other than "dark" means light.
func Load(s Store) *Controller {
	c := &Controller{store: s, current: Light}
	if v, ok := s.Get(Key); ok && Theme(v) == Dark {
		c.current = Dark
	}
	return c
}

// Current returns the active theme.
func (c *Controller) Current() Theme { return c.current }

// Toggle switches to the other theme and persists it.
func (c *Controller) Toggle() Theme {
	if c.current == Dark {
		c.current = Light
	} else {
		c.current = Dark
	}
	if err := c.store.Set(Key, string(c.current)); err != nil {
		logger.L.Warn("failed to persist theme", "theme", c.current, "error", err)
	}
	return c.current
}

// Label names what the toggle does, i.e. the theme it switches to.
func (c *Controller) Label() string {
	if c.current == Dark {
		return "Light Mode"
	}
	return "Dark Mode"
}

// Icon goes with Label: a sun to go light, a moon to go dark.
func (c *Controller) Icon() string {
	if c.current == Dark {
		return "☀"
	}
	return "☾"
}

// Palette is the set of colors the UI draws with.
type Palette struct {
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Accent    lipgloss.Color
	UserBg    lipgloss.Color
	BotBg     lipgloss.Color
	Border    lipgloss.Color
	Selection lipgloss.Color
	Danger    lipgloss.Color
}

var palettes = map[Theme]Palette{
	Light: {
		Text:      lipgloss.Color("235"),
		Muted:     lipgloss.Color("245"),
		Accent:    lipgloss.Color("25"),
		UserBg:    lipgloss.Color("153"),
		BotBg:     lipgloss.Color("254"),
		Border:    lipgloss.Color("250"),
		Selection: lipgloss.Color("189"),
		Danger:    lipgloss.Color("160"),
	},
	Dark: {
		Text:      lipgloss.Color("252"),
		Muted:     lipgloss.Color("242"),
		Accent:    lipgloss.Color("39"),
		UserBg:    lipgloss.Color("24"),
		BotBg:     lipgloss.Color("236"),
		Border:    lipgloss.Color("238"),
		Selection: lipgloss.Color("25"),
		Danger:    lipgloss.Color("203"),
	},
}

// Palette returns the colors of the current theme.
func (c *Controller) Palette() Palette {
	return palettes[c.current]
}
