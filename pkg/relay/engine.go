package relay

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Engine shuttles bytes between the real terminal and the pseudo
// terminal master until the child output direction is exhausted. The
// whole loop runs on a single goroutine that owns both channels
type Engine struct {
	incoming *channel // terminal -> pty master
	outgoing *channel // pty master -> terminal
	bridge   *Bridge
	onResize func()
}

// NewEngine wires the two forwarding directions. bridge and onResize
// may be nil when resize notifications are not available
func NewEngine(stdin, master, stdout int, bridge *Bridge, onResize func()) *Engine {
	return &Engine{
		incoming: newChannel(stdin, master),
		outgoing: newChannel(master, stdout),
		bridge:   bridge,
		onResize: onResize,
	}
}

// Run drives both channels until the child to terminal direction
// reaches end of stream. Input from the real terminal may legitimately
// stop earlier, the loop keeps draining child output in that case so
// none of it is lost
func (e *Engine) Run() error {
	for e.outgoing.state != stateIdle {
		if e.bridge != nil && e.bridge.Consume() && e.onResize != nil {
			e.onResize()
		}

		fds := make([]unix.PollFd, 0, 3)
		wakeupIdx, inIdx, outIdx := -1, -1, -1
		if e.bridge != nil {
			wakeupIdx = len(fds)
			fds = append(fds, unix.PollFd{Fd: int32(e.bridge.WakeupFd()), Events: unix.POLLIN})
		}
		if pfd, ok := e.incoming.pollFd(); ok {
			inIdx = len(fds)
			fds = append(fds, pfd)
		}
		if pfd, ok := e.outgoing.pollFd(); ok {
			outIdx = len(fds)
			fds = append(fds, pfd)
		}

		if _, err := unix.Poll(fds, -1); err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("cannot find file descriptor to forward: %w", err)
		}

		if wakeupIdx >= 0 && fds[wakeupIdx].Revents != 0 {
			e.bridge.Drain()
		}
		if inIdx >= 0 {
			e.incoming.advance(fds[inIdx].Revents)
		}
		if outIdx >= 0 {
			e.outgoing.advance(fds[outIdx].Revents)
		}
	}
	return nil
}
