package wrap

import (
	"os"

	"github.com/ptw-cli/ptw/pkg/logger"
	"github.com/ptw-cli/ptw/pkg/proc"
	"github.com/ptw-cli/ptw/pkg/relay"
	"github.com/ptw-cli/ptw/pkg/rpty"
)

var log = logger.NewLogger("[PTW]  ", logger.Blue)

// FailureCode is the exit code used for usage errors and any internal
// failure of the wrapper itself
const FailureCode = 1

// Wrapper runs a command under a fresh pseudo terminal, relaying all
// traffic with the given terminal files
type Wrapper struct {
	Stdin  *os.File
	Stdout *os.File
}

// Run wraps argv between the real standard streams and returns the
// exit code the process should terminate with
func Run(argv []string) int {
	w := &Wrapper{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}
	return w.Run(argv)
}

// Run allocates the pseudo terminal, spawns the child on its slave end
// and forwards bytes until the child output is fully drained, then
// reaps the child and translates its exit status
func (w *Wrapper) Run(argv []string) int {
	bridge, err := relay.InstallBridge()
	if err != nil {
		log.Printf("%s", err)
		return FailureCode
	}
	defer bridge.Close()

	pair, err := rpty.Open()
	if err != nil {
		log.Printf("%s", err)
		return FailureCode
	}
	defer pair.Close()
	pair.InheritSize(w.Stdout)

	cmd, err := proc.Start(pair, argv)
	if err != nil {
		log.Printf("%s", err)
		return FailureCode
	}

	guard := rpty.NewModeGuard(w.Stdin)
	// the deferred Restore covers every exit path below, so the
	// invoking terminal is never left in raw mode. Restore acts at most
	// once: the explicit calls before logging on the fatal paths make
	// the defer a no op
	defer guard.Restore()
	guard.Enter()

	engine := relay.NewEngine(
		int(w.Stdin.Fd()),
		int(pair.Master.Fd()),
		int(w.Stdout.Fd()),
		bridge,
		func() { pair.InheritSize(w.Stdout) },
	)
	if err := engine.Run(); err != nil {
		guard.Restore()
		log.Printf("%s", err)
		return FailureCode
	}

	code, err := proc.WaitExitCode(cmd)
	if err != nil {
		guard.Restore()
		log.Printf("%s", err)
		return FailureCode
	}
	return code
}
