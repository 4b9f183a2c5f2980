package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/rebeliceyang/lazyjson/internal/app"
	"github.com/rebeliceyang/lazyjson/internal/bookmarks"
	"github.com/rebeliceyang/lazyjson/internal/config"
	"github.com/rebeliceyang/lazyjson/internal/history"
	"github.com/rebeliceyang/lazyjson/internal/logging"
	"github.com/rebeliceyang/lazyjson/internal/source"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var log = logging.NewLogger("cli")

// rootOptions holds flags that are not configuration keys
type rootOptions struct {
	configFile string
	pgDSN      string
	pgQuery    string
	ascii      bool
	watch      bool
	noColor    bool
	noMouse    bool
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(config.New(), &rootOptions{})
}

func buildRootCmd(v *viper.Viper, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lazyjson [file]",
		Short: "Browse JSON documents as a collapsible tree",
		Long: `lazyjson shows a JSON document as a collapsible tree in the terminal.

The document is read from a file, from stdin when it is piped, or from the
first column of the first row of a PostgreSQL query.`,
		Example: `  lazyjson data.json
  curl -s https://api.github.com/repos/golang/go | lazyjson
  lazyjson --watch build/report.json
  lazyjson --pg-dsn postgres://localhost/app --pg-query "select payload from events limit 1"`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(cmd, v, opts, args)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default is <user config dir>/lazyjson/config.yaml)")
	flags.StringVar(&opts.pgDSN, "pg-dsn", "", "PostgreSQL connection string (default: PG* environment variables and .pgpass)")
	flags.StringVar(&opts.pgQuery, "pg-query", "", "query whose first column (json, jsonb or text) is the document")
	flags.BoolVar(&opts.ascii, "ascii", false, "draw the tree with ASCII glyphs")
	flags.Int("expand-level", 2, "depth up to which nodes start expanded")
	flags.Int("max-value-length", 80, "truncate values longer than this many columns (0 disables)")
	flags.Bool("types", false, "show the JSON type of every node")
	flags.Bool("hide-indices", false, "hide array indices")
	flags.Bool("case-sensitive", false, "match search queries case sensitively")

	bindFlags(v, flags, map[string]string{
		"tree.expand_level":      "expand-level",
		"tree.max_value_length":  "max-value-length",
		"tree.show_schema_types": "types",
		"search.case_sensitive":  "case-sensitive",
	})

	local := cmd.Flags()
	local.BoolVarP(&opts.watch, "watch", "w", false, "reload the file when it changes")
	local.BoolVar(&opts.noColor, "no-color", false, "disable colors")
	local.BoolVar(&opts.noMouse, "no-mouse", false, "disable mouse support")
	local.String("theme", "default", "color theme (default, catppuccin)")
	local.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	bindFlags(v, local, map[string]string{
		"ui.theme":      "theme",
		"logging.level": "log-level",
	})

	cmd.AddCommand(newExportCmd(v, opts))
	return cmd
}

// bindFlags binds config keys to flags so a set flag overrides the file
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

// loadConfig reads configuration and applies flags that have no config key
func loadConfig(cmd *cobra.Command, v *viper.Viper, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadFrom(v, opts.configFile)
	if err != nil {
		if opts.configFile != "" {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v (using defaults)\n", err)
		cfg = config.GetDefaults()
	}

	if opts.ascii {
		cfg.Tree.UseUnicodeTree = false
	}
	if opts.noMouse {
		cfg.UI.MouseEnabled = false
	}
	if hide, err := cmd.Flags().GetBool("hide-indices"); err == nil && hide {
		cfg.Tree.ShowArrayIndices = false
	}
	return cfg, nil
}

// resolveSource picks the document source from flags, arguments and stdin
func resolveSource(opts *rootOptions, args []string, stdinPiped bool) (source.Source, error) {
	switch {
	case opts.pgDSN != "" || opts.pgQuery != "":
		if len(args) > 0 {
			return nil, fmt.Errorf("a file argument cannot be combined with a PostgreSQL source")
		}
		if opts.pgQuery == "" {
			return nil, fmt.Errorf("--pg-dsn requires --pg-query")
		}
		return source.NewPostgresSource(opts.pgDSN, opts.pgQuery), nil
	case len(args) == 1 && args[0] != "-":
		return source.NewFileSource(args[0]), nil
	case stdinPiped:
		return source.NewReaderSource("stdin", os.Stdin), nil
	default:
		return nil, fmt.Errorf("no input: pass a file, pipe JSON on stdin, or use --pg-dsn")
	}
}

func runViewer(cmd *cobra.Command, v *viper.Viper, opts *rootOptions, args []string) error {
	cfg, err := loadConfig(cmd, v, opts)
	if err != nil {
		return err
	}

	if err := logging.Setup(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open log file: %v\n", err)
	}
	defer logging.Close()

	if opts.noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	stdinPiped := source.StdinIsPiped()
	src, err := resolveSource(opts, args, stdinPiped)
	if err != nil {
		return err
	}
	log.WithField("source", src.Name()).Info("Starting lazyjson")

	appOpts := app.Options{Config: cfg, Source: src}

	if opts.watch {
		file, ok := src.(*source.FileSource)
		if !ok {
			return fmt.Errorf("--watch needs a file argument")
		}
		watcher, err := source.NewWatcher(file.Path, source.DefaultDebounce)
		if err != nil {
			return err
		}
		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Stop()
		appOpts.Watcher = watcher
	}

	if cfg.History.Enabled {
		if store := openHistory(cfg); store != nil {
			defer store.Close()
			appOpts.History = store
		}
	}

	if dir, err := config.GetConfigPath(); err == nil {
		manager, err := bookmarks.NewManager(dir)
		if err != nil {
			log.WithError(err).Warn("Bookmarks disabled")
		} else {
			appOpts.Bookmarks = manager
		}
	}

	zone.NewGlobal()

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}
	if _, piped := src.(*source.ReaderSource); piped {
		// stdin carries the document, so keys come from the terminal
		programOpts = append(programOpts, tea.WithInputTTY())
	}

	p := tea.NewProgram(app.New(appOpts), programOpts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func openHistory(cfg *config.Config) *history.Store {
	path, err := config.DataFile("history.db")
	if err != nil {
		log.WithError(err).Warn("Search history disabled")
		return nil
	}
	store, err := history.NewStore(path, cfg.History.MaxEntries)
	if err != nil {
		log.WithError(err).Warn("Search history disabled")
		return nil
	}
	return store
}
