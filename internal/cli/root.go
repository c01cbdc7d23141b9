package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/selfreview/internal/review"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitRuntimeError = 4
	ExitNotFound     = 5
)

// Global flags
var (
	flagDB      string
	flagFormat  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "selfreview",
	Short:         "Review your own changes before anyone else does",
	Long:          "selfreview snapshots staged changes, a branch, or a set of commits into a stored review you can browse, comment on and export.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Run executes the root command and returns an exit code.
func Run() int {
	return run(nil)
}

func run(args []string) int {
	exitCode = ExitSuccess
	if args != nil {
		rootCmd.SetArgs(args)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return ExitUsageError
	}
	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// fail reports err on stderr and picks the exit code for it.
func fail(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	exitCode = exitCodeFor(err)
}

func exitCodeFor(err error) int {
	code, ok := review.CodeOf(err)
	if !ok {
		return ExitRuntimeError
	}
	switch code {
	case review.CodeNotFound:
		return ExitNotFound
	case review.CodeInvalidSource, review.CodeInvalidStatus, review.CodeInvalidComment:
		return ExitUsageError
	default:
		return ExitRuntimeError
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print selfreview version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "selfreview version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Review database path")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(hunksCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}
