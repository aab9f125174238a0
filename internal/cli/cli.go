package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gordoncheme/ctx-theatre-browser/internal/config"
	"github.com/gordoncheme/ctx-theatre-browser/internal/filter"
	"github.com/gordoncheme/ctx-theatre-browser/internal/ingest"
	"github.com/gordoncheme/ctx-theatre-browser/internal/logger"
	"github.com/gordoncheme/ctx-theatre-browser/internal/production"
	"github.com/gordoncheme/ctx-theatre-browser/internal/scraper"
	"github.com/gordoncheme/ctx-theatre-browser/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// rootOptions holds the persistent flags
type rootOptions struct {
	configPath string
	storePath  string
	feedURL    string
	format     string
	sort       string
	verbose    bool
	syncOnly   bool
}

// app is the state shared by every command once PersistentPreRunE has run
type app struct {
	opts rootOptions

	cfg    config.Config
	log    *logger.Logger
	store  *storage.Store
	format OutputFormat
	order  filter.SortOrder

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// overridable in tests
	today     func() production.Date
	fetcher   ingest.Fetcher
	lookupEnv func(string) (string, bool)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{today: production.Today})
}

func newRootCmd(a *app) *cobra.Command {
	if a.today == nil {
		a.today = production.Today
	}

	cmd := &cobra.Command{
		Use:   "ctx-theatre",
		Short: "Browse Central Texas theatre productions",
		Long: `A CLI tool to sync, browse and search CTX Live Theatre productions.
Productions are read from the site's RSS feed, enriched from each detail page
and kept in a local JSON store. Without a subcommand an interactive menu starts.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.opts.syncOnly {
				return a.runSync(cmd.Context())
			}
			return a.runMenu(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "Config file (default "+config.DefaultPath+")")
	flags.StringVar(&a.opts.storePath, "store", "", "Store file (default "+storage.DefaultPath+")")
	flags.StringVar(&a.opts.feedURL, "feed-url", "", "RSS feed URL (default "+scraper.DefaultFeedURL+")")
	flags.StringVar(&a.opts.format, "format", string(FormatText), "Output format: text or json")
	flags.StringVar(&a.opts.sort, "sort", string(filter.SortByDate), "Sort order: date, title or key")
	flags.BoolVar(&a.opts.verbose, "verbose", false, "Enable verbose logging")

	cmd.Flags().BoolVar(&a.opts.syncOnly, "sync-only", false, "Sync from the feed and exit (same as 'sync')")

	cmd.AddCommand(
		newMenuCmd(a),
		newSyncCmd(a),
		newListCmd(a),
		newFutureCmd(a),
		newSearchCmd(a),
		newAddCmd(a),
		newExportCmd(a),
	)
	return cmd
}

// setup loads configuration, applies flag overrides and opens the store
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.in = cmd.InOrStdin()
	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()

	format := OutputFormat(strings.ToLower(a.opts.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", a.opts.format)
	}
	a.format = format

	order, err := filter.ParseSortOrder(a.opts.sort)
	if err != nil {
		return err
	}
	a.order = order

	cfg, err := config.Load(config.Options{ConfigPath: a.opts.configPath, LookupEnv: a.lookupEnv})
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.StorePath = a.opts.storePath
	}
	if flags.Changed("feed-url") {
		cfg.FeedURL = a.opts.feedURL
	}
	if a.opts.verbose {
		cfg.LogLevel = string(logger.LevelDebug)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.log = logger.New(level, a.errOut)
	logger.SetDefault(a.log)

	store, err := storage.New(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	if err := store.Load(); err != nil {
		if errors.Is(err, storage.ErrCorrupt) {
			return fmt.Errorf("%w (fix or move the file and run again)", err)
		}
		return fmt.Errorf("loading store: %w", err)
	}
	a.store = store
	logger.SetGauge("store.records", float64(store.Len()))

	a.log.Debug("Store loaded", logger.Fields{"path": store.Path(), "records": store.Len()})
	return nil
}

func (a *app) save() error {
	if err := a.store.Save(); err != nil {
		return fmt.Errorf("saving store: %w", err)
	}
	logger.SetGauge("store.records", float64(a.store.Len()))
	return nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
