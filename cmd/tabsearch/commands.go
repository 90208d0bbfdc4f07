package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/pisearch/internal/core"
	"github.com/JonMunkholm/pisearch/internal/logging"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	mode     string
	rules    string
	logLevel string
}

type searchOptions struct {
	query  core.Query
	export string
	limit  int
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "tabsearch",
		Short:         "Search and consolidate CSV, spreadsheet and PDF tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(slog.New(logging.NewHandler(cmd.ErrOrStderr(), opts.logLevel, "text")))
		},
	}
	root.PersistentFlags().StringVar(&opts.mode, "mode", "auto", "processing mode: auto, single or multi")
	root.PersistentFlags().StringVar(&opts.rules, "rules", "", "YAML file with column classification rules")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newColumnsCmd(opts), newSearchCmd(opts))
	return root
}

func newColumnsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "columns FILE...",
		Short: "Show detected columns, roles and filter options",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := load(cmd.Context(), cmd.ErrOrStderr(), opts, args)
			if err != nil {
				return err
			}
			printWorkspace(cmd.OutOrStdout(), ws)
			return nil
		},
	}
}

func newSearchCmd(opts *globalOptions) *cobra.Command {
	sopts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search FILE...",
		Short: "Filter the consolidated table and optionally export the matches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := load(cmd.Context(), cmd.ErrOrStderr(), opts, args)
			if err != nil {
				return err
			}
			return runSearch(cmd.OutOrStdout(), ws, sopts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&sopts.query.Origin, "origin", "", "only rows from this source file")
	f.StringVar(&sopts.query.Category, "category", "", "exact value of the category column")
	f.StringVar(&sopts.query.Interest, "interest", "", "text to find in the interest column")
	f.StringVarP(&sopts.query.General, "query", "q", "", "text to find in any column")
	f.StringVarP(&sopts.export, "export", "o", "", "write matches to this xlsx file")
	f.IntVar(&sopts.limit, "limit", 50, "rows to print; 0 prints all")
	return cmd
}

// load reads every path and ingests them. Skipped sources are reported on
// errOut; the command fails only when nothing could be loaded.
func load(ctx context.Context, errOut io.Writer, opts *globalOptions, paths []string) (*core.Workspace, error) {
	classifier := core.NewClassifier(nil)
	if opts.rules != "" {
		rules, err := core.LoadRules(opts.rules)
		if err != nil {
			return nil, err
		}
		classifier = core.NewClassifier(rules)
	}
	for _, rule := range classifier.Rules() {
		slog.Debug("classifier rule", "role", rule.Role, "keywords", rule.Keywords)
	}

	mode := core.ParseMode(opts.mode)
	if string(mode) != strings.ToLower(strings.TrimSpace(opts.mode)) {
		return nil, fmt.Errorf("unknown mode %q", opts.mode)
	}

	sources := make([]core.Source, 0, len(paths))
	var unreadable []core.SourceFailure
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			unreadable = append(unreadable, core.SourceFailure{Name: filepath.Base(p), Stage: core.StageRead, Error: err.Error()})
			continue
		}
		sources = append(sources, core.Source{Name: filepath.Base(p), Data: data})
	}

	red := color.New(color.FgRed)
	for _, f := range unreadable {
		red.Fprintln(errOut, core.FormatFailure(f))
	}
	if mode == core.ModeSingle && len(unreadable) > 0 {
		return nil, core.ErrNothingLoaded
	}
	if len(sources) == 0 {
		return nil, core.ErrNothingLoaded
	}

	ws, err := core.Ingest(ctx, sources, mode, classifier)
	if err != nil {
		return nil, err
	}
	for _, f := range ws.Failures {
		red.Fprintln(errOut, core.FormatFailure(f))
	}
	if len(ws.Sources) == 0 {
		return nil, core.ErrNothingLoaded
	}
	return ws, nil
}

func printWorkspace(w io.Writer, ws *core.Workspace) {
	bold := color.New(color.Bold)

	bold.Fprintf(w, "Loaded %d rows from %d source(s) in %s mode\n", ws.Table.Len(), len(ws.Sources), ws.Mode)
	for _, s := range ws.Sources {
		fmt.Fprintf(w, "  %s (%s, %d rows, %d columns)\n", s.Name, s.Format, s.Rows, s.Columns)
	}

	bold.Fprintln(w, "Columns:")
	for _, c := range ws.Table.Columns {
		var tags []string
		if c == ws.Roles.Category {
			tags = append(tags, string(core.RoleCategory))
		}
		if c == ws.Roles.Interest {
			tags = append(tags, string(core.RoleInterest))
		}
		if len(tags) > 0 {
			fmt.Fprintf(w, "  %s [%s]\n", c, strings.Join(tags, ", "))
		} else {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}

	bold.Fprintln(w, "Categories:")
	for _, o := range ws.CategoryOptions() {
		fmt.Fprintf(w, "  %s\n", o)
	}
	if ws.Mode == core.ModeMulti {
		bold.Fprintln(w, "Databases:")
		for _, o := range ws.OriginOptions() {
			fmt.Fprintf(w, "  %s\n", o)
		}
	}
}

func runSearch(w io.Writer, ws *core.Workspace, opts *searchOptions) error {
	rs := ws.Query(opts.query)
	color.New(color.Bold).Fprintf(w, "%d match(es)\n", rs.Len())
	printTable(w, rs, opts.limit)

	if opts.export == "" {
		return nil
	}

	basket := core.NewBasket()
	basket.Add(rs)
	art, err := core.Export(basket.Contents(), ws.Mode)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.export, art.Data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	color.New(color.FgGreen).Fprintf(w, "Wrote %d row(s) to %s\n", basket.Size(), opts.export)
	return nil
}

func printTable(w io.Writer, t core.Table, limit int) {
	if t.Len() == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))

	records := t.Records()
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	for _, rec := range records {
		fmt.Fprintln(tw, strings.Join(rec, "\t"))
	}
	tw.Flush()

	if len(records) < t.Len() {
		fmt.Fprintf(w, "... %d more row(s)\n", t.Len()-len(records))
	}
}
