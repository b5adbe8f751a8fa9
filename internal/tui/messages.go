package tui

import "github.com/Makepad-fr/csvboard/internal/csvload"

// loadedMsg carries the result of an admin view load back to the view that
// started it. owner and gen let a view drop results it no longer wants.
type loadedMsg struct {
	owner  *adminView
	gen    int
	tables map[string]csvload.Table
	err    error
}

// sourceChangedMsg reports a local CSV source modified on disk.
type sourceChangedMsg struct {
	locator string
}

// navigateMsg asks the app to mount the view for path.
type navigateMsg struct {
	path string
}
