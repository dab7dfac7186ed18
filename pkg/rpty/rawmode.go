package rpty

import (
	"os"
	"reflect"

	"github.com/ptw-cli/ptw/pkg/logger"
	"golang.org/x/term"
)

var log = logger.NewLogger("[PTY]  ", logger.Yellow)

// ModeGuard saves and restores the line discipline of the invoking
// terminal around raw mode operation
type ModeGuard struct {
	fd    int
	saved *term.State
}

// NewModeGuard creates a guard for the given terminal file
func NewModeGuard(f *os.File) *ModeGuard {
	return &ModeGuard{fd: int(f.Fd())}
}

// Enter switches the terminal to raw mode: no canonical processing, no
// echo, no signal characters, no output post processing, reads return as
// soon as one byte is available. Returns false when the file is not a
// terminal or its settings cannot be read, in which case nothing was
// changed and Restore is a no op
func (g *ModeGuard) Enter() bool {
	if !term.IsTerminal(g.fd) {
		return false
	}
	state, err := term.MakeRaw(g.fd)
	if err != nil {
		return false
	}
	g.saved = state
	return true
}

// Restore reapplies the saved settings. Safe to call on every exit path,
// acts at most once
func (g *ModeGuard) Restore() {
	if g.saved == nil {
		return
	}
	saved := g.saved
	g.saved = nil
	if err := term.Restore(g.fd, saved); err != nil {
		log.Printf("cannot restore terminal settings: %s", err)
		return
	}
	cur, err := term.GetState(g.fd)
	if err != nil || !reflect.DeepEqual(cur, saved) {
		log.Printf("terminal settings were not fully restored")
	}
}
