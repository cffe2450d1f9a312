package gui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	ZoomToFit  key.Binding
	ActualSize key.Binding
	SliderDown key.Binding
	SliderUp   key.Binding

	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	RotateRight key.Binding
	RotateLeft  key.Binding
	FlipX       key.Binding
	FlipY       key.Binding
	Reload      key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "zoom out"),
	),
	ZoomToFit: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "fit"),
	),
	ActualSize: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "100%"),
	),
	SliderDown: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "slider down"),
	),
	SliderUp: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "slider up"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "scroll"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "scroll"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", " "),
		key.WithHelp("pgdn", "page down"),
	),
	RotateRight: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rotate right"),
	),
	RotateLeft: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "rotate left"),
	),
	FlipX: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "mirror"),
	),
	FlipY: key.NewBinding(
		key.WithKeys("M"),
		key.WithHelp("M", "flip"),
	),
	Reload: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.ZoomToFit, k.ActualSize, k.RotateRight, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ZoomIn, k.ZoomOut, k.ZoomToFit, k.ActualSize, k.SliderDown, k.SliderUp},
		{k.Left, k.Right, k.Up, k.Down, k.PageUp, k.PageDown},
		{k.RotateRight, k.RotateLeft, k.FlipX, k.FlipY, k.Reload, k.Quit},
	}
}
