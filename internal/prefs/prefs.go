// Package prefs persists per-repository UI preferences in local git
// config under the stagium.* keys.
package prefs

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const (
	keyTool      = "stagium.tool"
	keyLeftWidth = "stagium.leftWidth"
)

// Prefs are the stored values. The Set flags distinguish absent keys
// from zero values.
type Prefs struct {
	Tool      string
	ToolSet   bool
	LeftWidth int
	LeftSet   bool
}

// Load reads the stagium.* keys from the repository's git config.
// Missing or malformed keys leave their Set flag false.
func Load(root string) Prefs {
	var p Prefs
	if v, ok := get(root, keyTool); ok {
		p.Tool = v
		p.ToolSet = true
	}
	if v, ok := get(root, keyLeftWidth); ok {
		if n, err := strconv.Atoi(v); err == nil {
			p.LeftWidth = n
			p.LeftSet = true
		}
	}
	return p
}

// SaveTool stores the preferred diff display tool.
func SaveTool(root, tool string) error {
	return set(root, keyTool, tool)
}

// SaveLeftWidth stores the tree column width.
func SaveLeftWidth(root string, width int) error {
	return set(root, keyLeftWidth, strconv.Itoa(width))
}

func get(root, key string) (string, bool) {
	cmd := exec.Command("git", "-C", root, "config", "--get", key)
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(string(out))
	return v, v != ""
}

func set(root, key, value string) error {
	cmd := exec.Command("git", "-C", root, "config", "--local", key, value)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git config %s: %w: %s", key, err, strings.TrimSpace(string(out)))
	}
	return nil
}
