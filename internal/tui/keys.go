package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Tab       key.Binding
	Enter     key.Binding
	Add       key.Binding
	Edit      key.Binding
	Done      key.Binding
	Start     key.Binding
	Block     key.Binding
	Delete    key.Binding
	Project   key.Binding
	Milestone key.Binding
	Priority  key.Binding
	Grab      key.Binding
	Select    key.Binding
	Filter    key.Binding
	Sort      key.Binding
	Sidebar   key.Binding
	NextView  key.Binding
	PrevView  key.Binding
	Export    key.Binding
	Recalc    key.Binding
	Help      key.Binding
	Quit      key.Binding
	Escape    key.Binding
	Refresh   key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
	Done:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle done")),
	Start:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/pause")),
	Block:     key.NewBinding(key.WithKeys("!"), key.WithHelp("!", "toggle blocked")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Project:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "new project")),
	Milestone: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "new milestone")),
	Priority:  key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "priority low/med/high")),
	Grab:      key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "grab/drop card")),
	Select:    key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "multi-select")),
	Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Sort:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "cycle sort")),
	Sidebar:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "toggle sidebar")),
	NextView:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next view")),
	PrevView:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous view")),
	Export:    key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export template")),
	Recalc:    key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "recalculate milestones")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Refresh:   key.NewBinding(key.WithKeys("R", "r"), key.WithHelp("R", "reload")),
}
