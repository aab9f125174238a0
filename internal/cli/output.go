package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/gordoncheme/ctx-theatre-browser/internal/ingest"
	"github.com/gordoncheme/ctx-theatre-browser/internal/production"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// SyncResult is the JSON form of a sync report
type SyncResult struct {
	RunID    string   `json:"run_id"`
	Items    int      `json:"items"`
	Inserted int      `json:"inserted"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings"`
	Duration string   `json:"duration"`
}

// writeRecords writes productions in the specified format
func writeRecords(w io.Writer, records []*production.Record, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeRecordsJSON(w, records)
	case FormatText:
		return writeRecordsText(w, records)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeRecordsJSON outputs records as a JSON array, never null
func writeRecordsJSON(w io.Writer, records []*production.Record) error {
	if records == nil {
		records = []*production.Record{}
	}
	return writeJSON(w, records)
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeRecordsText outputs records as a table
func writeRecordsText(w io.Writer, records []*production.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No productions found.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Dates", "Title", "Days", "Venue", "Key"})
	for _, rec := range records {
		t.AppendRow(table.Row{formatDates(rec), rec.Title, rec.DaysOfWeek, rec.VenueName, rec.Key})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d", len(records))})
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

// formatDates renders the run of a production for the table
func formatDates(rec *production.Record) string {
	start, end := rec.StartDate, rec.EndDate
	switch {
	case !start.IsZero() && (end.IsZero() || start.Equal(end)):
		return start.String()
	case !start.IsZero():
		return start.String() + " to " + end.String()
	case !end.IsZero():
		return "until " + end.String()
	case rec.DateText != "":
		return rec.DateText
	}
	return "TBA"
}

// writeReport writes a sync report in the specified format
func writeReport(w io.Writer, report *ingest.Report, format OutputFormat) error {
	warnings := make([]string, 0, len(report.Warnings))
	for _, warning := range report.Warnings {
		warnings = append(warnings, warning.String())
	}

	if format == FormatJSON {
		return writeJSON(w, SyncResult{
			RunID:    report.RunID,
			Items:    report.Items,
			Inserted: report.Inserted,
			Updated:  report.Updated,
			Skipped:  report.Skipped,
			Warnings: warnings,
			Duration: report.Duration.String(),
		})
	}

	fmt.Fprintf(w, "Sync complete: %d new, %d updated, %d skipped (%d feed items).\n",
		report.Inserted, report.Updated, report.Skipped, report.Items)
	if len(warnings) > 0 {
		fmt.Fprintf(w, "%d item(s) could not be stored:\n", len(warnings))
		for _, warning := range warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}
	return nil
}
