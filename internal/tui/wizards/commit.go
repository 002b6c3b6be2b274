package wizards

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/interpretive-systems/stagium/internal/gitx"
)

// CommitResultMsg is sent when the commit (and optional push) is done.
// Summary carries the new short hash and subject on success.
type CommitResultMsg struct {
	Summary string
	Err     error
}

// CommitWizard commits whatever is already staged. Staging itself is
// the main screen's job, so the flow is just message and confirm.
type CommitWizard struct {
	repoRoot    string
	stagedFiles int
	step        int // 0: message, 1: confirm
	input       textinput.Model
	pushing     bool
	running     bool
	err         string
	done        bool
}

// NewCommitWizard creates a new commit wizard.
func NewCommitWizard() *CommitWizard {
	return &CommitWizard{}
}

// Init initializes the wizard.
func (w *CommitWizard) Init(repoRoot string, stagedFiles int) tea.Cmd {
	w.repoRoot = repoRoot
	w.stagedFiles = stagedFiles
	w.step = 0
	w.pushing = false
	w.running = false
	w.err = ""
	w.done = false

	ti := textinput.New()
	ti.Placeholder = "Commit message"
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Focus()
	w.input = ti
	return textinput.Blink
}

// HandleKey processes keyboard input.
func (w *CommitWizard) HandleKey(msg tea.KeyMsg) (Action, tea.Cmd) {
	switch w.step {
	case 0:
		return w.handleMessage(msg)
	case 1:
		return w.handleConfirm(msg)
	}
	return ActionContinue, nil
}

func (w *CommitWizard) handleMessage(msg tea.KeyMsg) (Action, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return ActionClose, nil
	case "enter":
		if strings.TrimSpace(w.input.Value()) == "" {
			w.err = "empty commit message"
			return ActionContinue, nil
		}
		w.err = ""
		w.step = 1
		w.input.Blur()
		return ActionContinue, nil
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return ActionContinue, cmd
}

func (w *CommitWizard) handleConfirm(msg tea.KeyMsg) (Action, tea.Cmd) {
	if w.running {
		return ActionContinue, nil
	}
	switch msg.String() {
	case "esc":
		return ActionClose, nil
	case "b":
		w.step = 0
		w.err = ""
		w.input.Focus()
		return ActionContinue, textinput.Blink
	case "y", "enter":
		w.err = ""
		w.running = true
		w.pushing = false
		return ActionContinue, w.runCommit(false)
	case "p":
		w.err = ""
		w.running = true
		w.pushing = true
		return ActionContinue, w.runCommit(true)
	}
	return ActionContinue, nil
}

// Update processes messages.
func (w *CommitWizard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case CommitResultMsg:
		w.running = false
		if msg.Err != nil {
			w.err = msg.Err.Error()
			w.done = false
		} else {
			w.err = ""
			w.done = true
		}
	}
	return nil
}

// RenderOverlay renders the wizard UI.
func (w *CommitWizard) RenderOverlay(width int) []string {
	lines := make([]string, 0, 8)
	lines = append(lines, strings.Repeat("─", width))

	switch w.step {
	case 0:
		title := lipgloss.NewStyle().Bold(true).
			Render("Commit — Message (enter: continue, esc: cancel)")
		lines = append(lines, title)
		lines = append(lines, lipgloss.NewStyle().Faint(true).
			Render(fmt.Sprintf("Staged files: %d", w.stagedFiles)))
		lines = append(lines, w.input.View())
	case 1:
		title := lipgloss.NewStyle().Bold(true).
			Render("Commit — Confirm (y/enter: commit, p: commit & push, b: back, esc: cancel)")
		lines = append(lines, title)
		lines = append(lines, fmt.Sprintf("Staged files: %d", w.stagedFiles))
		lines = append(lines, "Message: "+w.input.Value())
		if w.running {
			verb := "Committing..."
			if w.pushing {
				verb = "Committing & pushing..."
			}
			lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Render(verb))
		}
		if w.err != "" {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).Render("Error: ")+w.err)
		}
	}

	return lines
}

// IsComplete reports whether the wizard finished successfully.
func (w *CommitWizard) IsComplete() bool {
	return w.done
}

// Error returns the current error message.
func (w *CommitWizard) Error() string {
	return w.err
}

func (w *CommitWizard) runCommit(push bool) tea.Cmd {
	root := w.repoRoot
	message := w.input.Value()
	return func() tea.Msg {
		if err := gitx.Commit(root, message); err != nil {
			return CommitResultMsg{Err: err}
		}
		if push {
			if err := gitx.Push(root); err != nil {
				return CommitResultMsg{Err: err}
			}
		}
		summary, _ := gitx.LastCommitSummary(root)
		return CommitResultMsg{Summary: summary}
	}
}
