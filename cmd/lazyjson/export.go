package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rebeliceyang/lazyjson/internal/app"
	"github.com/rebeliceyang/lazyjson/internal/config"
	"github.com/rebeliceyang/lazyjson/internal/export"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/source"
	"github.com/rebeliceyang/lazyjson/internal/ui/components"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type exportOptions struct {
	format string
	query  string
	output string
	all    bool
}

func newExportCmd(v *viper.Viper, root *rootOptions) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the tree as CSV or the document as JSON",
		Long: `Export renders the document without starting the viewer.

csv writes one row per visible tree line (path, level, key, type, value).
A --query keeps only matching lines, using the same syntax as the / prompt.
json writes the whole document, pretty-printed with its key order kept.`,
		Example: `  lazyjson export data.json --format csv --all
  lazyjson export data.json --query "v:error" -o errors.csv
  cat data.json | lazyjson export --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, v, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "csv", "output format (csv, json)")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "only export lines matching this search")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "expand every node before exporting")
	return cmd
}

func runExport(cmd *cobra.Command, v *viper.Viper, root *rootOptions, opts *exportOptions, args []string) error {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, v, root)
	if err != nil {
		return err
	}

	src, err := resolveSource(root, args, source.StdinIsPiped())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), app.LoadTimeout)
	defer cancel()

	doc, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", src.Name(), err)
	}

	var write func(io.Writer) error
	switch format {
	case export.FormatJSON:
		write = func(w io.Writer) error { return export.WriteJSON(w, doc) }
	default:
		write = func(w io.Writer) error {
			nav := exportNavigator(cfg, doc, opts)
			return export.WriteLinesCSV(w, nav.Tree(), nav.Lines())
		}
	}

	if opts.output == "" {
		return write(cmd.OutOrStdout())
	}
	if err := export.ToFile(opts.output, write); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", src.Name(), opts.output)
	return nil
}

// exportNavigator lays the document out the way the viewer would on first
// load, with a query always acting as a filter
func exportNavigator(cfg *config.Config, doc jsondoc.Value, opts *exportOptions) models.Navigator {
	tree := models.Build(doc, models.BuildOptions{ExpandLevel: cfg.Tree.ExpandLevel})
	if opts.all {
		tree = models.ExpandAll(tree)
	}

	navOpts := app.NavigatorOptions(cfg)
	navOpts.FilterMatches = true
	// No truncation in exported rows
	navOpts.Render.MaxValueLength = 0

	nav := models.NewNavigator(tree, navOpts, 1)
	if opts.query == "" {
		return nav
	}

	q := components.ParseSearchQuery(opts.query, navOpts.Search)
	navOpts.Search = q.Options
	return nav.SetOptions(navOpts).SetQuery(q.Pattern)
}
