package panscan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/panscan/panscan/internal/ignore"
)

var ignoreRoot string

func init() {
	ignoreCmd := &cobra.Command{
		Use:   "ignore <pattern>...",
		Short: "Add patterns to " + ignore.FileName,
		Example: `  panscan ignore 'fixtures/' '*.pem'
  panscan ignore --root ./data 'archive/**'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, p := range args {
				changed, err := ignore.Append(ignoreRoot, p)
				if err != nil {
					return err
				}
				if changed {
					fmt.Fprintf(out, "added %s\n", p)
				} else {
					fmt.Fprintf(out, "%s already ignored\n", p)
				}
			}
			return nil
		},
	}
	ignoreCmd.Flags().StringVar(&ignoreRoot, "root", ".", "scan root holding the ignore file")
	rootCmd.AddCommand(ignoreCmd)
}
