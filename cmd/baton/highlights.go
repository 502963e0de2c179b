package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHighlightsCmd(flags *globalFlags) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "highlights",
		Short: "Show the conductors with the most records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := flags.start(cmd)
			if err != nil {
				return err
			}
			defer svc.Stop()

			hs, err := svc.Highlights(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), hs)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tCONDUCTOR\tRECORDS\tROLE\tFIRST\tINSIGHT")
			for _, h := range hs {
				first := "Unknown"
				if h.First.Valid {
					first = h.First.Time.Format("2006-01-02")
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", h.Rank, h.Name, humanize.Comma(int64(h.Count)), h.Role, first, h.Insight.Kind)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of conductors (default from service)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
