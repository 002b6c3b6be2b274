package tui

import (
	"strconv"
)

// KeyHandler accumulates a numeric count prefix for movement keys,
// vim style: "12j" moves twelve rows.
type KeyHandler struct {
	buffer string
}

// NewKeyHandler creates a new key handler.
func NewKeyHandler() *KeyHandler {
	return &KeyHandler{}
}

// HandleDigit consumes a digit key into the buffer. It reports whether
// the key was a digit.
func (k *KeyHandler) HandleDigit(key string) bool {
	if len(key) != 1 || key < "0" || key > "9" {
		return false
	}
	k.buffer += key
	return true
}

// Take returns the pending count (1 when none) and clears the buffer.
// Every non-digit key takes the count, so a stale prefix never leaks
// into a later movement.
func (k *KeyHandler) Take() int {
	count := 1
	if k.buffer != "" {
		if n, err := strconv.Atoi(k.buffer); err == nil && n > 0 {
			count = n
		}
	}
	k.buffer = ""
	return count
}

// Buffer returns the pending digits for the status bar.
func (k *KeyHandler) Buffer() string {
	return k.buffer
}

// Clear discards the pending digits.
func (k *KeyHandler) Clear() {
	k.buffer = ""
}
