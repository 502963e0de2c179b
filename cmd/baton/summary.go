package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newSummaryCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize the filtered records",
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

			view, err := svc.Summary(cmd.Context(), q)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), view)
			}

			s := view.Summary
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Records\t%s\n", humanize.Comma(int64(s.TotalRecords)))
			fmt.Fprintf(tw, "Conductors\t%s\n", humanize.Comma(int64(s.UniqueConductors)))
			fmt.Fprintf(tw, "Productions\t%s\n", humanize.Comma(int64(s.UniqueShows)))
			fmt.Fprintf(tw, "Decades\t%d\n", s.Decades)
			if s.FirstShow != nil {
				fmt.Fprintf(tw, "First show\t%s (%s)\n", s.FirstShow.ShowOrUnknown(), s.FirstShow.OpeningRaw)
			}

			fmt.Fprintln(tw, "\nDECADE\tRECORDS")
			for _, d := range view.ByDecade {
				fmt.Fprintf(tw, "%s\t%d\n", d.Label, d.Count)
			}

			fmt.Fprintln(tw, "\nROLE\tRECORDS")
			for _, r := range view.ByRole {
				fmt.Fprintf(tw, "%s\t%d\n", r.Label, r.Count)
			}

			fmt.Fprintln(tw, "\nDECADE\tLEAD %\tSUPPORT %")
			for _, l := range view.Leadership {
				fmt.Fprintf(tw, "%ds\t%d\t%d\n", l.Decade, l.LeadPct, l.SupportPct)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
