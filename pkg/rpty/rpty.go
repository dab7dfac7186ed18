package rpty

import (
	"fmt"
	"os"

	"github.com/creack/pty"
)

// Pair holds the two ends of a pseudo terminal. Master stays with the
// parent for the whole program lifetime while Tty becomes the child
// stdio and is dropped by the parent right after the spawn
type Pair struct {
	Master *os.File
	Tty    *os.File

	slavePath string
}

// Open allocates a new pseudo terminal pair and applies the invoking
// terminal current size to it
func Open() (*Pair, error) {
	master, tty, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("cannot open pseudo terminal: %w", err)
	}
	// later steps assume descriptors 0-2 are the real standard streams
	if master.Fd() <= 2 || tty.Fd() <= 2 {
		master.Close()
		tty.Close()
		return nil, fmt.Errorf("stdin/stdout/stderr are not open")
	}
	p := &Pair{
		Master:    master,
		Tty:       tty,
		slavePath: tty.Name(),
	}
	p.InheritSize(os.Stdout)
	return p, nil
}

// SlavePath returns the slave pseudo terminal device path
func (p *Pair) SlavePath() string {
	return p.slavePath
}

// InheritSize queries from's current geometry and applies it to the
// pseudo terminal. Best effort: geometry propagation is a convenience,
// not correctness critical
func (p *Pair) InheritSize(from *os.File) {
	pty.InheritSize(from, p.Master)
}

// CloseTty drops the parent handle on the slave end. Called right after
// the child has been spawned, so that the master reports end of stream
// once the child exits
func (p *Pair) CloseTty() {
	if p.Tty != nil {
		p.Tty.Close()
		p.Tty = nil
	}
}

// Close releases both ends
func (p *Pair) Close() {
	p.Master.Close()
	p.CloseTty()
}
