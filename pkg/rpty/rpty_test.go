package rpty

import (
	"os"
	"reflect"
	"testing"

	"github.com/creack/pty"
	"golang.org/x/term"
)

func TestOpenPair(t *testing.T) {
	p, err := Open()
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if p.Master.Fd() <= 2 || p.Tty.Fd() <= 2 {
		t.Error("pair descriptors must not alias the standard streams")
	}
	if p.SlavePath() == "" {
		t.Error("slave device has no name")
	}
}

func TestInheritSize(t *testing.T) {
	src, err := Open()
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if err := pty.Setsize(src.Master, &pty.Winsize{Rows: 24, Cols: 80}); err != nil {
		t.Fatal(err)
	}

	dst, err := Open()
	if err != nil {
		t.Fatal(err)
	}
	defer dst.Close()

	dst.InheritSize(src.Tty)
	size, err := pty.GetsizeFull(dst.Master)
	if err != nil {
		t.Fatal(err)
	}
	if size.Rows != 24 || size.Cols != 80 {
		t.Errorf("geometry not propagated, got %dx%d", size.Rows, size.Cols)
	}
}

func TestSlavePathSurvivesCloseTty(t *testing.T) {
	p, err := Open()
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	path := p.SlavePath()
	p.CloseTty()
	if p.Tty != nil {
		t.Error("CloseTty should drop the slave handle")
	}
	if p.SlavePath() != path {
		t.Error("slave path should not depend on the open handle")
	}
}

func TestModeGuardRoundTrip(t *testing.T) {
	// the slave end of a fresh pair is a real terminal the suite can
	// always allocate
	p, err := Open()
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	fd := int(p.Tty.Fd())
	before, err := term.GetState(fd)
	if err != nil {
		t.Fatal(err)
	}

	g := NewModeGuard(p.Tty)
	if !g.Enter() {
		t.Fatal("raw mode should be possible on a pseudo terminal slave")
	}
	raw, err := term.GetState(fd)
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(raw, before) {
		t.Error("entering raw mode should change the line discipline")
	}

	g.Restore()
	after, err := term.GetState(fd)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(after, before) {
		t.Error("settings not restored to the exact prior configuration")
	}

	// a second Restore must not reapply anything
	g.Restore()
}

func TestModeGuardNonTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	g := NewModeGuard(r)
	if g.Enter() {
		t.Fatal("raw mode on a pipe should not be possible")
	}
	// must stay a no op
	g.Restore()
	g.Restore()
}
