package view

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownAction = errors.New("unknown action")

// Action is a single input-level command.
type Action int

const (
	None Action = iota
	Up
	Down
	PageUp
	PageDown
	Top
	Bottom
	NextPane
	PrevPane
	EnterDetail
	Back
	Select
	Quit
)

var actionNames = map[Action]string{
	None:        "none",
	Up:          "up",
	Down:        "down",
	PageUp:      "page-up",
	PageDown:    "page-down",
	Top:         "top",
	Bottom:      "bottom",
	NextPane:    "next-pane",
	PrevPane:    "prev-pane",
	EnterDetail: "enter-detail",
	Back:        "back",
	Select:      "select",
	Quit:        "quit",
}

// Actions lists every bindable action.
func Actions() []Action {
	return []Action{Up, Down, PageUp, PageDown, Top, Bottom, NextPane, PrevPane, EnterDetail, Back, Select, Quit}
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}

	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction is the inverse of Action.String. Underscores are accepted in
// place of dashes so names survive environment variables.
func ParseAction(name string) (Action, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")

	for _, a := range Actions() {
		if actionNames[a] == norm {
			return a, nil
		}
	}

	return None, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}
