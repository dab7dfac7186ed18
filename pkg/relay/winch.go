package relay

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"
)

// Bridge turns asynchronous window size change notifications into a
// lock free flag plus a wakeup byte readable from a descriptor. The
// wakeup descriptor is registered in every readiness wait, so a
// notification landing between a flag check and the next blocking wait
// still wakes that wait and cannot be lost
type Bridge struct {
	flag atomic.Bool
	r, w int
	ch   chan os.Signal

	scratch [16]byte
}

// InstallBridge registers the notification side of the bridge
func InstallBridge() (*Bridge, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, fmt.Errorf("cannot create wakeup pipe: %w", err)
	}
	unix.SetNonblock(fds[0], true)
	unix.SetNonblock(fds[1], true)

	b := &Bridge{
		r:  fds[0],
		w:  fds[1],
		ch: make(chan os.Signal, 1),
	}
	signal.Notify(b.ch, syscall.SIGWINCH)
	go b.relay()
	return b, nil
}

// relay is the only code that runs on notification delivery. It sets
// the flag and wakes any wait in progress, nothing else
func (b *Bridge) relay() {
	one := []byte{0}
	for range b.ch {
		b.flag.Store(true)
		// non blocking: a full pipe already guarantees a pending wakeup
		unix.Write(b.w, one)
	}
}

// Consume reports whether a resize was notified since the last call,
// clearing the flag
func (b *Bridge) Consume() bool {
	return b.flag.Swap(false)
}

// WakeupFd returns the descriptor to watch for read readiness in every
// wait
func (b *Bridge) WakeupFd() int {
	return b.r
}

// Drain empties pending wakeup bytes. Only the forwarding loop calls
// it, so the scratch buffer needs no guarding
func (b *Bridge) Drain() {
	for {
		n, err := unix.Read(b.r, b.scratch[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

// Close uninstalls the notification handler and releases the pipe
func (b *Bridge) Close() {
	signal.Stop(b.ch)
	close(b.ch)
	unix.Close(b.r)
	unix.Close(b.w)
}
