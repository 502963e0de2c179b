package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/baton/internal/domain/role"
)

func newStreamCmd(flags *globalFlags) *cobra.Command {
	var (
		asJSON bool
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Show records per year and role category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := flags.query(cmd)
			if err != nil {
				return err
			}
			svc, err := flags.start(cmd)
			if err != nil {
				return err
			}
			defer svc.Stop()

			layout, err := svc.Stream(cmd.Context(), q)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), layout)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprint(tw, "YEAR\t")
			for _, c := range role.Categories {
				fmt.Fprintf(tw, "%s\t", c.Label())
			}
			fmt.Fprintln(tw, "Total\t")
			for _, b := range layout.Buckets {
				if !all && b.Total() == 0 {
					continue
				}
				fmt.Fprintf(tw, "%d\t", b.Year)
				for _, n := range b.Counts {
					fmt.Fprintf(tw, "%d\t", n)
				}
				fmt.Fprintf(tw, "%d\t\n", b.Total())
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full stream layout as JSON")
	cmd.Flags().BoolVar(&all, "all", false, "Include years without records")
	return cmd
}
