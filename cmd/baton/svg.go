package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/baton/internal/adapters/http/site"
)

func newSVGCmd(flags *globalFlags) *cobra.Command {
	var (
		output string
		layout string
	)

	cmd := &cobra.Command{
		Use:   "svg",
		Short: "Render the spiral and stream page to an HTML file",
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

			r, err := site.NewRenderer(svc)
			if err != nil {
				return err
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := r.Render(cmd.Context(), f, q, layout); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "baton.html", "Output file")
	cmd.Flags().StringVar(&layout, "layout", "desktop", "Spiral layout: desktop or compact")
	return cmd
}
