package panscan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/panscan/panscan/internal/detectors"
)

func init() {
	cmd := &cobra.Command{
		Use:   "brands",
		Short: "List brand rules in match order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("BRAND", "PREFIXES", "LENGTHS")
			for _, r := range detectors.Rules {
				var prefixes, lengths []string
				for _, p := range r.Prefixes {
					if p.Lo == p.Hi {
						prefixes = append(prefixes, p.Lo)
					} else {
						prefixes = append(prefixes, fmt.Sprintf("%s-%s", p.Lo, p.Hi))
					}
				}
				for _, n := range r.Lengths {
					lengths = append(lengths, strconv.Itoa(n))
				}
				if err := table.Append([]string{string(r.Brand), strings.Join(prefixes, ", "), strings.Join(lengths, ", ")}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
	rootCmd.AddCommand(cmd)
}
