package models

// AppState holds the application state
type AppState struct {
	Width        int
	Height       int
	FocusedPanel PanelType
	ViewMode     ViewMode

	// Document state
	SourceName  string // File path, "stdin" or "postgres"
	Watching    bool   // Source is reloaded on change
	LastError   string // Last load or reload error, shown in the status bar
	ShowPreview bool
}

// PanelType identifies which panel is focused
type PanelType int

const (
	TreePanel PanelType = iota
	PreviewPanel
)

// ViewMode identifies the current view
type ViewMode int

const (
	NormalMode ViewMode = iota
	SearchMode
	HelpMode
	BookmarksMode
)

// NewAppState creates a new AppState with defaults
func NewAppState() AppState {
	return AppState{
		Width:        80,
		Height:       24,
		FocusedPanel: TreePanel,
		ViewMode:     NormalMode,
	}
}
