// Package clipboard copies text to the system clipboard, with an
// OSC 52 escape fallback for terminals on hosts without a native
// clipboard utility.
package clipboard

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Copy places text on the system clipboard. When no clipboard utility
// is available (headless hosts, SSH sessions) it writes an OSC 52
// sequence to the controlling terminal so the terminal emulator can
// capture the text instead.
func Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return copyOSC52(text)
	}
	return nil
}

// copyOSC52 writes straight to /dev/tty rather than stdout, which the
// TUI renderer owns. OSC 52 has no visible effect so the write cannot
// disturb the screen.
func copyOSC52(text string) error {
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	defer tty.Close()

	seq := osc52.New(text)
	term := os.Getenv("TERM")
	if os.Getenv("TMUX") != "" || strings.HasPrefix(term, "tmux") || strings.HasPrefix(term, "screen") {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(tty); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	return nil
}
