// Package wizards holds the modal flows rendered as bottom overlays.
package wizards

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Action tells the parent what to do after a key was handled.
type Action int

const (
	ActionContinue Action = iota // keep the wizard open
	ActionClose                  // close the wizard
)

// Wizard is the interface the overlay flows implement.
type Wizard interface {
	// Init resets the wizard for a fresh run.
	Init(repoRoot string, stagedFiles int) tea.Cmd

	// HandleKey processes keyboard input while the wizard is open.
	HandleKey(msg tea.KeyMsg) (Action, tea.Cmd)

	// Update processes async results.
	Update(msg tea.Msg) tea.Cmd

	// RenderOverlay returns the wizard UI lines.
	RenderOverlay(width int) []string

	// IsComplete reports whether the wizard finished successfully.
	IsComplete() bool

	// Error returns the current error message, if any.
	Error() string
}
