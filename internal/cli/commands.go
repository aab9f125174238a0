package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gordoncheme/ctx-theatre-browser/internal/calendar"
	"github.com/gordoncheme/ctx-theatre-browser/internal/filter"
	"github.com/gordoncheme/ctx-theatre-browser/internal/ingest"
	"github.com/gordoncheme/ctx-theatre-browser/internal/logger"
	"github.com/gordoncheme/ctx-theatre-browser/internal/manual"
	"github.com/gordoncheme/ctx-theatre-browser/internal/production"
	"github.com/gordoncheme/ctx-theatre-browser/internal/scraper"
)

// suggestions is how many "did you mean" titles an empty search offers
const suggestions = 3

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMenu(cmd.Context())
		},
	}
}

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch the feed and update the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSync(cmd.Context())
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var f filter.Filter
	var during string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored productions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if during != "" {
				from, to, err := filter.ParseWindow(during, a.today())
				if err != nil {
					return err
				}
				f.From, f.To = from, to
			}
			a.log.Debug("Listing productions", logger.Fields{"filter": f.String()})

			if f.IsEmpty() {
				return a.printRecords(filter.ListAll(a.store.All()))
			}
			return a.printRecords(f.Apply(a.store.All()))
		},
	}

	cmd.Flags().StringVar(&f.Keyword, "title", "", "Only titles containing this text")
	cmd.Flags().StringVar(&f.Venue, "venue", "", "Only venues containing this text")
	cmd.Flags().StringVar(&f.Category, "category", "", "Only this category (e.g. Productions, Manual)")
	cmd.Flags().StringVar(&during, "during", "", "Only productions running in a window: 'Mar 1-15', 'March 20 - April 5' or 'March'")
	return cmd
}

func newFutureCmd(a *app) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "future",
		Short: "List productions that have not ended yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := a.asOfDate(asOf)
			if err != nil {
				return err
			}
			return a.printRecords(filter.Future(a.store.All(), date))
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "Reference date (default today)")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search production titles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(strings.Join(args, " "))
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var in manual.Input
	var start, end string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a production by hand",
		Long: `Add a production by hand. Without --title the details are
prompted for interactively. With --url the key is taken from the URL, and an
existing production under that key is only replaced with --overwrite.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("title") {
				return a.runAddInteractive(newPrompter(a.in, a.out))
			}

			var err error
			if in.StartDate, err = manual.ParseDate(start); err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			if in.EndDate, err = manual.ParseDate(end); err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			if err := a.addRecord(in); err != nil {
				if errors.Is(err, manual.ErrExists) {
					return fmt.Errorf("%w (use --overwrite to replace it)", err)
				}
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&in.Title, "title", "", "Title (required)")
	flags.StringVar(&in.URL, "url", "", "Detail page URL")
	flags.StringVar(&start, "start", "", "Start date, e.g. 2026-03-01")
	flags.StringVar(&end, "end", "", "End date, e.g. 2026-03-15")
	flags.StringVar(&in.DaysOfWeek, "days", "", "Performance days, e.g. Fridays-Saturdays")
	flags.StringVar(&in.VenueName, "venue", "", "Venue name")
	flags.StringVar(&in.VenueAddress, "address", "", "Venue address")
	flags.StringVar(&in.SynopsisText, "synopsis", "", "Short description")
	flags.BoolVar(&in.Overwrite, "overwrite", false, "Replace an existing production with the same URL")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var out, asOf string
	var futureOnly bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export productions to an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records := filter.ListAll(a.store.All())
			if futureOnly {
				date, err := a.asOfDate(asOf)
				if err != nil {
					return err
				}
				records = filter.Future(records, date)
			}

			if err := os.WriteFile(out, []byte(calendar.GenerateICS(records)), 0644); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}

			n := calendar.Exportable(records)
			a.log.Info("Calendar exported", logger.Fields{"path": out, "events": n})
			fmt.Fprintf(a.out, "Exported %d productions to %s\n", n, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output .ics file (required)")
	cmd.Flags().BoolVar(&futureOnly, "future", false, "Only productions that have not ended")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Reference date for --future (default today)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) asOfDate(s string) (production.Date, error) {
	if strings.TrimSpace(s) == "" {
		return a.today(), nil
	}
	date, err := manual.ParseDate(s)
	if err != nil {
		return production.Date{}, fmt.Errorf("--as-of: %w", err)
	}
	return date, nil
}

func (a *app) runSync(ctx context.Context) error {
	fetcher := a.fetcher
	if fetcher == nil {
		fetcher = scraper.NewClient(a.cfg.ScraperOptions())
	}

	ing := ingest.New(fetcher, a.cfg.FeedURL, a.cfg.Category, ingest.WithLogger(a.log))
	report, err := ing.Sync(ctx, a.store)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if err := a.save(); err != nil {
		return err
	}

	a.log.Debug("Metrics", logger.Fields{"metrics": logger.GetMetricsSnapshot()})
	return writeReport(a.out, report, a.format)
}

func (a *app) runSearch(keyword string) error {
	if strings.TrimSpace(keyword) == "" {
		return fmt.Errorf("search keyword cannot be empty")
	}

	all := a.store.All()
	records := filter.Search(all, keyword)
	if len(records) == 0 && a.format == FormatText {
		fmt.Fprintf(a.out, "No productions match %q.\n", keyword)
		if titles := filter.Suggest(all, keyword, suggestions); len(titles) > 0 {
			fmt.Fprintf(a.out, "Did you mean: %s?\n", strings.Join(titles, ", "))
		}
		return nil
	}
	return a.printRecords(records)
}

func (a *app) addRecord(in manual.Input) error {
	rec, err := manual.NewBuilder(a.store).Add(in)
	if err != nil {
		return err
	}
	if err := a.save(); err != nil {
		return err
	}

	a.log.Info("Manual production added", logger.Fields{"key": rec.Key})
	if a.format == FormatJSON {
		return writeRecordsJSON(a.out, []*production.Record{rec})
	}
	fmt.Fprintf(a.out, "Added manual production with key '%s'.\n", rec.Key)
	return nil
}

func (a *app) printRecords(records []*production.Record) error {
	if a.order != filter.SortByDate {
		filter.Sort(records, a.order)
	}
	return writeRecords(a.out, records, a.format)
}
