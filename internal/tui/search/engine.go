// Package search implements the incremental search used in the diff
// pane: a text input, case-insensitive line matching, and match
// highlighting on top of already-colored content.
package search

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/interpretive-systems/stagium/internal/tui/ansi"
)

// Engine holds the search input, the content being searched and the
// current match position.
type Engine struct {
	query       string
	matches     []int // line indices with at least one match
	index       int
	input       textinput.Model
	active      bool
	highlighter *Highlighter
	content     []string
}

func New() *Engine {
	ti := textinput.New()
	ti.Placeholder = "Search diff"
	ti.Prompt = "/ "
	ti.CharLimit = 0

	return &Engine{
		highlighter: NewHighlighter(),
		input:       ti,
	}
}

// Activate opens the search input.
func (e *Engine) Activate() {
	e.active = true
	e.input.Focus()
}

// Deactivate closes search.
func (e *Engine) Deactivate() {
	e.active = false
	e.input.Blur()
}

func (e *Engine) IsActive() bool {
	return e.active
}

// HandleKey processes one key while search is active.
func (e *Engine) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "esc":
		e.Deactivate()
		return true, nil
	case "enter", "down":
		e.Next()
		return true, nil
	case "up":
		e.Previous()
		return true, nil
	}

	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	e.query = e.input.Value()
	e.recomputeMatches()

	return true, cmd
}

// SetContent replaces the lines being searched and recomputes matches
// against the current query.
func (e *Engine) SetContent(lines []string) {
	e.content = lines
	e.recomputeMatches()
}

func (e *Engine) Query() string {
	return e.query
}

func (e *Engine) recomputeMatches() {
	if e.query == "" {
		e.matches = nil
		e.index = 0
		return
	}

	lowerQuery := strings.ToLower(e.query)
	matches := make([]int, 0, len(e.content))

	for i, line := range e.content {
		plain := strings.ToLower(ansi.Strip(line))
		if strings.Contains(plain, lowerQuery) {
			matches = append(matches, i)
		}
	}

	e.matches = matches
	if len(matches) > 0 && e.index >= len(matches) {
		e.index = 0
	}
}

// Next advances to the next match, wrapping around.
func (e *Engine) Next() {
	if len(e.matches) == 0 {
		return
	}
	e.index = (e.index + 1) % len(e.matches)
}

// Previous moves to the previous match, wrapping around.
func (e *Engine) Previous() {
	if len(e.matches) == 0 {
		return
	}
	e.index = (e.index - 1 + len(e.matches)) % len(e.matches)
}

// CurrentMatchLine returns the line index of the current match, or -1
// when there are none.
func (e *Engine) CurrentMatchLine() int {
	if len(e.matches) == 0 {
		return -1
	}
	return e.matches[e.index]
}

// HighlightedContent returns the content with match highlights
// applied. The current match gets a distinct background.
func (e *Engine) HighlightedContent() []string {
	if e.query == "" || len(e.content) == 0 {
		return e.content
	}
	return e.highlighter.HighlightLines(e.content, e.query, e.matches, e.CurrentMatchLine())
}

func (e *Engine) MatchCount() int {
	return len(e.matches)
}

// CurrentMatchIndex is 1-based for display; 0 means no matches.
func (e *Engine) CurrentMatchIndex() int {
	if len(e.matches) == 0 {
		return 0
	}
	return e.index + 1
}

func (e *Engine) InputView() string {
	return e.input.View()
}
