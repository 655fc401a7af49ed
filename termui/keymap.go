package termui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/tcassar-diss/ebelt/view"
)

var defaultKeys = map[view.Action][]string{
	view.Up:          {"up", "k"},
	view.Down:        {"down", "j"},
	view.PageUp:      {"pgup", "ctrl+b"},
	view.PageDown:    {"pgdown", "ctrl+f", " "},
	view.Top:         {"home", "g"},
	view.Bottom:      {"end", "G"},
	view.NextPane:    {"tab"},
	view.PrevPane:    {"shift+tab"},
	view.EnterDetail: {"right", "l"},
	view.Back:        {"left", "h", "esc", "backspace"},
	view.Select:      {"enter"},
	view.Quit:        {"q", "ctrl+c"},
}

var helpText = map[view.Action]string{
	view.Up:          "up",
	view.Down:        "down",
	view.PageUp:      "page up",
	view.PageDown:    "page down",
	view.Top:         "top",
	view.Bottom:      "bottom",
	view.NextPane:    "next pane",
	view.PrevPane:    "prev pane",
	view.EnterDetail: "detail",
	view.Back:        "back",
	view.Select:      "select",
	view.Quit:        "quit",
}

// KeyMap binds key names to viewer actions. It satisfies help.KeyMap for
// the footer.
type KeyMap struct {
	bindings map[view.Action]key.Binding
}

func DefaultKeyMap() *KeyMap {
	k := &KeyMap{bindings: make(map[view.Action]key.Binding, len(defaultKeys))}

	for a, keys := range defaultKeys {
		k.bindings[a] = newBinding(a, keys)
	}

	return k
}

func newBinding(a view.Action, keys []string) key.Binding {
	shown := slices.Clone(keys[:min(len(keys), 2)])
	for i, s := range shown {
		if s == " " {
			shown[i] = "space"
		}
	}

	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(shown, "/"), helpText[a]),
	)
}

// Bind replaces the keys of a. A key taken from another action is removed
// from it, so every key triggers at most one action.
func (k *KeyMap) Bind(a view.Action, keys ...string) {
	for other, b := range k.bindings {
		if other == a {
			continue
		}

		kept := slices.DeleteFunc(slices.Clone(b.Keys()), func(s string) bool {
			return slices.Contains(keys, s)
		})

		if len(kept) == len(b.Keys()) {
			continue
		}

		if len(kept) == 0 {
			k.bindings[other] = key.NewBinding(key.WithDisabled())
			continue
		}

		k.bindings[other] = newBinding(other, kept)
	}

	if len(keys) == 0 {
		k.bindings[a] = key.NewBinding(key.WithDisabled())
		return
	}

	k.bindings[a] = newBinding(a, slices.Clone(keys))
}

// Override applies configured bindings, keyed by action name.
func (k *KeyMap) Override(overrides map[string][]string) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}

	// deterministic when two overrides claim the same key
	slices.Sort(names)

	for _, name := range names {
		a, err := view.ParseAction(name)
		if err != nil {
			return fmt.Errorf("key binding %q: %w", name, err)
		}

		k.Bind(a, overrides[name]...)
	}

	return nil
}

// Lookup returns the action bound to a key press, or view.None.
func (k *KeyMap) Lookup(msg fmt.Stringer) view.Action {
	for _, a := range view.Actions() {
		if b, ok := k.bindings[a]; ok && key.Matches(msg, b) {
			return a
		}
	}

	return view.None
}

// Binding returns the binding of a.
func (k *KeyMap) Binding(a view.Action) key.Binding {
	return k.bindings[a]
}

func (k *KeyMap) ShortHelp() []key.Binding {
	return k.list(view.Select, view.EnterDetail, view.Back, view.NextPane, view.Up, view.Down, view.Quit)
}

func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.list(view.Up, view.Down, view.PageUp, view.PageDown, view.Top, view.Bottom),
		k.list(view.NextPane, view.PrevPane, view.Select, view.EnterDetail, view.Back, view.Quit),
	}
}

func (k *KeyMap) list(actions ...view.Action) []key.Binding {
	out := make([]key.Binding, 0, len(actions))
	for _, a := range actions {
		out = append(out, k.bindings[a])
	}

	return out
}
