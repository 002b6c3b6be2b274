// Package theme holds the color palettes for the UI. A repository can
// override individual colors through .stagium/theme.json at its root.
package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the customizable colors for rendering. Values are
// lipgloss color strings (ANSI 256 indexes or hex).
type Theme struct {
	AddColor       string `json:"addColor"`
	DelColor       string `json:"delColor"`
	ModColor       string `json:"modColor"`
	HunkColor      string `json:"hunkColor"`
	MetaColor      string `json:"metaColor"`
	DividerColor   string `json:"dividerColor"`
	DirColor       string `json:"dirColor"`
	UntrackedColor string `json:"untrackedColor"`
	UnmergedColor  string `json:"unmergedColor"`
	CursorBgColor  string `json:"cursorBgColor"`
	StatusColor    string `json:"statusColor"`
	ErrorColor     string `json:"errorColor"`
}

func darkTheme() Theme {
	return Theme{
		AddColor:       "34",
		DelColor:       "196",
		ModColor:       "178",
		HunkColor:      "44",
		MetaColor:      "136",
		DividerColor:   "240",
		DirColor:       "33",
		UntrackedColor: "244",
		UnmergedColor:  "203",
		CursorBgColor:  "237",
		StatusColor:    "35",
		ErrorColor:     "196",
	}
}

func lightTheme() Theme {
	return Theme{
		AddColor:       "22",
		DelColor:       "9",
		ModColor:       "130",
		HunkColor:      "30",
		MetaColor:      "94",
		DividerColor:   "244",
		DirColor:       "27",
		UntrackedColor: "245",
		UnmergedColor:  "124",
		CursorBgColor:  "254",
		StatusColor:    "28",
		ErrorColor:     "124",
	}
}

// ParseName validates a theme name from a flag or config value.
func ParseName(s string) (string, error) {
	switch s {
	case "dark", "light":
		return s, nil
	}
	return "", fmt.Errorf("unknown theme %q (want dark or light)", s)
}

// Get returns the requested base theme, defaulting to dark.
func Get(name string) Theme {
	if name == "light" {
		return lightTheme()
	}
	return darkTheme()
}

// LoadRepoTheme returns the base theme with any overrides from
// .stagium/theme.json under repoRoot merged in field by field.
func LoadRepoTheme(repoRoot, base string) Theme {
	t := Get(base)
	b, err := os.ReadFile(filepath.Join(repoRoot, ".stagium", "theme.json"))
	if err != nil {
		return t
	}
	var u Theme
	if err := json.Unmarshal(b, &u); err != nil {
		return t
	}
	if u.AddColor != "" {
		t.AddColor = u.AddColor
	}
	if u.DelColor != "" {
		t.DelColor = u.DelColor
	}
	if u.ModColor != "" {
		t.ModColor = u.ModColor
	}
	if u.HunkColor != "" {
		t.HunkColor = u.HunkColor
	}
	if u.MetaColor != "" {
		t.MetaColor = u.MetaColor
	}
	if u.DividerColor != "" {
		t.DividerColor = u.DividerColor
	}
	if u.DirColor != "" {
		t.DirColor = u.DirColor
	}
	if u.UntrackedColor != "" {
		t.UntrackedColor = u.UntrackedColor
	}
	if u.UnmergedColor != "" {
		t.UnmergedColor = u.UnmergedColor
	}
	if u.CursorBgColor != "" {
		t.CursorBgColor = u.CursorBgColor
	}
	if u.StatusColor != "" {
		t.StatusColor = u.StatusColor
	}
	if u.ErrorColor != "" {
		t.ErrorColor = u.ErrorColor
	}
	return t
}

func fg(color, s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
}

func fgBold(color, s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(s)
}

func (t Theme) AddText(s string) string       { return fg(t.AddColor, s) }
func (t Theme) AddEmphText(s string) string   { return fgBold(t.AddColor, s) }
func (t Theme) DelText(s string) string       { return fg(t.DelColor, s) }
func (t Theme) DelEmphText(s string) string   { return fgBold(t.DelColor, s) }
func (t Theme) ModText(s string) string       { return fg(t.ModColor, s) }
func (t Theme) HunkText(s string) string      { return fgBold(t.HunkColor, s) }
func (t Theme) MetaText(s string) string      { return fg(t.MetaColor, s) }
func (t Theme) DividerText(s string) string   { return fg(t.DividerColor, s) }
func (t Theme) DirText(s string) string       { return fgBold(t.DirColor, s) }
func (t Theme) UntrackedText(s string) string { return fg(t.UntrackedColor, s) }
func (t Theme) UnmergedText(s string) string  { return fgBold(t.UnmergedColor, s) }
func (t Theme) StatusText(s string) string    { return fg(t.StatusColor, s) }
func (t Theme) ErrorText(s string) string     { return fg(t.ErrorColor, s) }

// CursorRow paints the background of the row under the cursor.
func (t Theme) CursorRow(s string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(t.CursorBgColor)).Render(s)
}
