package relay

import "golang.org/x/sys/unix"

const bufSize = 8192

type chanState int

const (
	// stateIdle is terminal for a direction: it contributes no
	// descriptor to the readiness wait
	stateIdle chanState = iota
	stateReading
	stateWriting
)

// channel forwards bytes from src to dst one buffer at a time. It is
// mutated only by the forwarding loop that owns it
type channel struct {
	src, dst int
	state    chanState
	buf      [bufSize]byte
	off, n   int
}

func newChannel(src, dst int) *channel {
	return &channel{
		src:   src,
		dst:   dst,
		state: stateReading,
	}
}

// pollFd returns the descriptor and events the channel wants the next
// wait to watch. Idle channels want nothing
func (c *channel) pollFd() (unix.PollFd, bool) {
	switch c.state {
	case stateReading:
		return unix.PollFd{Fd: int32(c.src), Events: unix.POLLIN}, true
	case stateWriting:
		return unix.PollFd{Fd: int32(c.dst), Events: unix.POLLOUT}, true
	}
	return unix.PollFd{}, false
}

// advance performs the single read or write the readiness result allows
func (c *channel) advance(revents int16) {
	switch c.state {
	case stateReading:
		if revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) == 0 {
			return
		}
		n, err := unix.Read(c.src, c.buf[:])
		if err == unix.EINTR || err == unix.EAGAIN {
			return
		}
		if n <= 0 || err != nil {
			// end of this direction
			c.state = stateIdle
			return
		}
		c.off = 0
		c.n = n
		c.state = stateWriting
	case stateWriting:
		if revents&(unix.POLLOUT|unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) == 0 {
			return
		}
		n, err := unix.Write(c.dst, c.buf[c.off:c.n])
		if err == unix.EINTR || err == unix.EAGAIN {
			return
		}
		if err != nil {
			// best effort: drop what could not be written and resume
			// reading, forwarding keeps going for as long as
			// structurally possible
			c.off = 0
			c.n = 0
			c.state = stateReading
			return
		}
		c.off += n
		if c.off == c.n {
			c.state = stateReading
		}
	}
}
