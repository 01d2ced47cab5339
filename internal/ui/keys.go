package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit        key.Binding
	Help        key.Binding
	CycleTheme  key.Binding
	Reload      key.Binding
	ActivityLog key.Binding
	Escape      key.Binding

	// Navigation
	Up        key.Binding
	Down      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
	PageSize  key.Binding

	// Filtering and sorting
	Search      key.Binding
	CycleFilter key.Binding
	NextColumn  key.Binding
	PrevColumn  key.Binding
	ToggleSort  key.Binding

	// Rows
	Select         key.Binding
	SelectAll      key.Binding
	ClearSelection key.Binding
	Expand         key.Binding
	OpenCV         key.Binding

	// Status
	Approve     key.Binding
	Reject      key.Binding
	Reset       key.Binding
	BulkApprove key.Binding
	BulkReject  key.Binding

	// Output
	Export key.Binding
	Print  key.Binding

	// Search/input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Toggle theme"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Reload"),
		),
		ActivityLog: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Activity log"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear search / close"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "left", "pgup"),
			key.WithHelp("[", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]", "right", "pgdown"),
			key.WithHelp("]", "Next page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("{", "home"),
			key.WithHelp("{", "First page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("}", "end"),
			key.WithHelp("}", "Last page"),
		),
		PageSize: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "Cycle page size"),
		),

		// Filtering and sorting
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle status filter"),
		),
		NextColumn: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next column"),
		),
		PrevColumn: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous column"),
		),
		ToggleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Sort column"),
		),

		// Rows
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Select row"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Select all filtered"),
		),
		ClearSelection: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear selection"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Expand row"),
		),
		OpenCV: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Open CV"),
		),

		// Status
		Approve: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "Approve row"),
		),
		Reject: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Reject row"),
		),
		Reset: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "Set row pending"),
		),
		BulkApprove: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "Approve selected"),
		),
		BulkReject: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Reject selected"),
		),

		// Output
		Export: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "Export CSV"),
		),
		Print: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Print report"),
		),

		// Search/input
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped as they appear in the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage, k.FirstPage, k.LastPage, k.PageSize},
		{k.Search, k.CycleFilter, k.NextColumn, k.PrevColumn, k.ToggleSort},
		{k.Select, k.SelectAll, k.ClearSelection, k.Expand, k.OpenCV},
		{k.Approve, k.Reject, k.Reset, k.BulkApprove, k.BulkReject},
		{k.Export, k.Print, k.Reload, k.ActivityLog, k.CycleTheme, k.Help, k.Quit},
	}
}
