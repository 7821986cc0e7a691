package panscan

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagJSON            bool
	flagSARIF           bool
	flagThreads         int
	flagFailOn          string
	flagNoColor         bool
	flagDryRun          bool
	flagDefaultExcludes bool
	flagLogLevel        string

	version = "0.1.0"
)

// errGateTripped is returned by scan when --fail-on matched; Execute maps it
// to exit status 1.
var errGateTripped = errors.New("fail-on threshold reached")

// rootCmd is the base Cobra command for the panscan CLI.
var rootCmd = &cobra.Command{
	Use:           "panscan",
	Short:         "Find payment card numbers in files",
	Long:          "panscan walks files and directories, reports Luhn-valid card numbers by brand and rolls them up into a risk summary.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the panscan CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errGateTripped) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().StringVar(&flagFailOn, "fail-on", "", "exit 1 when a file reaches this tier: low|medium|high|none (default medium)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "list what would be scanned without opening files")
	rootCmd.PersistentFlags().BoolVar(&flagDefaultExcludes, "default-excludes", true, "apply built-in exclude list (VCS dirs, node_modules, images, archives, etc.)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level: trace|debug|info|warn|error|off")
}
