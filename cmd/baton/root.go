package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	service "github.com/okian/baton/internal/app"
	"github.com/okian/baton/internal/domain/filter"
	"github.com/okian/baton/pkg/logger"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	dataset   string
	logLevel  string
	search    string
	role      string
	decade    int
	conductor string
	category  string
}

// query turns the filter flags into a filter.Query the same way the HTTP
// API reads its query string. Decade 0 is a real value, so the decade
// filter applies whenever the flag was given.
func (f *globalFlags) query(cmd *cobra.Command) (filter.Query, error) {
	v := url.Values{}
	v.Set(filter.KeySearch, f.search)
	v.Set(filter.KeyRole, f.role)
	v.Set(filter.KeyConductor, f.conductor)
	v.Set(filter.KeyCategory, f.category)
	if cmd.Flags().Changed("decade") {
		v.Set(filter.KeyDecade, strconv.Itoa(f.decade))
	}
	return filter.FromValues(v)
}

// start loads the archive for one command invocation.
func (f *globalFlags) start(cmd *cobra.Command) (*service.Service, error) {
	if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(f.logLevel); err != nil {
		return nil, err
	}
	svc := service.New(
		service.WithDatasetPath(f.dataset),
		service.WithLogger(logger.Named("cli")),
	)
	if err := svc.Start(cmd.Context()); err != nil {
		return nil, err
	}
	return svc, nil
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "baton",
		Short:         "Explore the Broadway conductor archive",
		Long:          `Query, summarize and export the Broadway conductor archive. Without --dataset the embedded sample is used.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetContext(context.Background())

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.dataset, "dataset", "d", "", "JSON dataset file (default: embedded sample)")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVarP(&flags.search, "search", "s", "", "Case-insensitive substring of conductor or production")
	pf.StringVar(&flags.role, "role", "", "Exact raw role")
	pf.IntVar(&flags.decade, "decade", 0, "Decade, e.g. 1950")
	pf.StringVar(&flags.conductor, "conductor", "", "Exact conductor name")
	pf.StringVar(&flags.category, "category", "", "Role category: conductor, music_director, music_supervisor, other_leadership")

	root.AddCommand(
		newExportCmd(flags),
		newHighlightsCmd(flags),
		newStreamCmd(flags),
		newSummaryCmd(flags),
		newSVGCmd(flags),
	)
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
