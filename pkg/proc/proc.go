package proc

import (
	"fmt"
	"os/exec"
	"syscall"

	"github.com/ptw-cli/ptw/pkg/rpty"
	"golang.org/x/sys/unix"
)

const failureCode = 1

// Start spawns argv attached to the slave end of the pair, in a new
// session with the slave as controlling terminal. On return the parent
// has dropped its own slave handle and the child owns the terminal.
// The command is resolved against PATH the way an interactive shell
// would resolve it
func Start(pair *rpty.Pair, argv []string) (*exec.Cmd, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = pair.Tty
	cmd.Stdout = pair.Tty
	cmd.Stderr = pair.Tty
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%s: %w", argv[0], err)
	}
	pair.CloseTty()

	// Acquiring a controlling terminal is racy: an unrelated process
	// could have attached to the slave first. Verify the postcondition
	// before forwarding anything: the terminal foreground group must be
	// the child, which is its own session leader. A lost race shows up
	// as a live foreign group, so only that is fatal. A vanished group,
	// or a query that fails outright, means the child already ran to
	// completion owning the terminal and both are deliberately let
	// through: treating them as lost would misreport fast exiting
	// children like `true`
	pgrp, err := unix.IoctlGetInt(int(pair.Master.Fd()), unix.TIOCGPGRP)
	if err == nil && pgrp > 0 && pgrp != cmd.Process.Pid {
		cmd.Process.Kill()
		cmd.Wait()
		return nil, fmt.Errorf("cannot make %s the controlling process of the slave pseudo terminal", argv[0])
	}
	return cmd, nil
}

// WaitExitCode reaps the child and translates its termination into the
// exit code the wrapper should report: a normal exit maps to the child
// own code, death by signal s maps to s|0x80, anything else maps to the
// generic failure code. A wait failure proper is returned as an error
func WaitExitCode(cmd *exec.Cmd) (int, error) {
	err := cmd.Wait()
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return failureCode, fmt.Errorf("cannot await child process: %w", err)
		}
	}
	ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus)
	if !ok {
		return failureCode, nil
	}
	switch {
	case ws.Exited():
		return ws.ExitStatus(), nil
	case ws.Signaled():
		return int(ws.Signal()) | 0x80, nil
	}
	return failureCode, nil
}
