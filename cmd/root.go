package cmd

import (
	"github.com/ptw-cli/ptw/pkg/logger"
	"github.com/ptw-cli/ptw/pkg/wrap"
	"github.com/spf13/cobra"
)

// Version is the actual ptw version. This value
// is set during the build process using -ldflags="-X 'github.com/ptw-cli/ptw/cmd.Version=
var Version = "development"

var exitCode int

func init() {
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "if set disable all logs")
	// the command operand and everything after it belong to the child,
	// verbatim and in order
	rootCmd.Flags().SetInterspersed(false)
}

var rootCmd = &cobra.Command{
	Use:     "ptw [--] command [args...]",
	Long:    "Runs a command attached to a freshly allocated pseudo terminal.",
	Version: Version,
	Args:    cobra.MinimumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			logger.DisableLoggers()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		exitCode = wrap.Run(args)
	},
}

// Execute runs the root command and returns the code the process
// should exit with
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return wrap.FailureCode
	}
	return exitCode
}
