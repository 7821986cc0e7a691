package panscan

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// buildRevision returns the VCS revision stamped by the Go toolchain, if any.
func buildRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the panscan version",
		Run: func(cmd *cobra.Command, _ []string) {
			if rev := buildRevision(); rev != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "panscan v%s (%s)\n", version, rev)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "panscan v%s\n", version)
		},
	})
}
