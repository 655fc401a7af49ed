package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var ErrInvalidColour = errors.New("invalid colour")

// Theme is the palette the renderer draws with. The defaults are
// Catppuccin Mocha.
type Theme struct {
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Border lipgloss.Color
	Accent lipgloss.Color
	Focus  lipgloss.Color
	Cursor lipgloss.Color
	Header lipgloss.Color
}

func DefaultTheme() Theme {
	return Theme{
		Text:   "#cdd6f4",
		Muted:  "#a6adc8",
		Border: "#6c7086",
		Accent: "#89b4fa",
		Focus:  "#a6e3a1",
		Cursor: "#313244",
		Header: "#181825",
	}
}

// Set overrides one colour by name. Values are "#rrggbb" or an ANSI 256
// colour index.
func (t *Theme) Set(name, value string) error {
	if !validColour(value) {
		return fmt.Errorf("%w: %s = %q", ErrInvalidColour, name, value)
	}

	c := lipgloss.Color(value)

	switch strings.ToLower(name) {
	case "text":
		t.Text = c
	case "muted":
		t.Muted = c
	case "border":
		t.Border = c
	case "accent":
		t.Accent = c
	case "focus":
		t.Focus = c
	case "cursor":
		t.Cursor = c
	case "header":
		t.Header = c
	default:
		return fmt.Errorf("%w: unknown theme colour %q", ErrInvalidColour, name)
	}

	return nil
}

func validColour(v string) bool {
	if hex, ok := strings.CutPrefix(v, "#"); ok {
		if len(hex) != 6 {
			return false
		}

		_, err := strconv.ParseUint(hex, 16, 32)

		return err == nil
	}

	n, err := strconv.Atoi(v)

	return err == nil && n >= 0 && n <= 255
}

type styles struct {
	text        lipgloss.Style
	muted       lipgloss.Style
	border      lipgloss.Style
	focusBorder lipgloss.Style
	title       lipgloss.Style
	focusTitle  lipgloss.Style
	cursor      lipgloss.Style
	cursorIdle  lipgloss.Style
	header      lipgloss.Style
	headerName  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		text:        lipgloss.NewStyle().Foreground(t.Text),
		muted:       lipgloss.NewStyle().Foreground(t.Muted),
		border:      lipgloss.NewStyle().Foreground(t.Border),
		focusBorder: lipgloss.NewStyle().Foreground(t.Focus),
		title:       lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		focusTitle:  lipgloss.NewStyle().Foreground(t.Focus).Bold(true),
		cursor:      lipgloss.NewStyle().Foreground(t.Accent).Background(t.Cursor).Bold(true),
		cursorIdle:  lipgloss.NewStyle().Foreground(t.Text).Background(t.Cursor),
		header:      lipgloss.NewStyle().Foreground(t.Accent).Background(t.Header).Bold(true),
		headerName:  lipgloss.NewStyle().Foreground(t.Muted).Background(t.Header),
	}
}
