package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/perktap/perktap/internal/config"
	"github.com/perktap/perktap/internal/history"
)

func runHistory(args []string) error {
	var limit int
	var format, output string

	fs := flag.NewFlagSet("history", flag.ExitOnError)
	fs.IntVar(&limit, "limit", 20, "Max entries to show")
	fs.StringVar(&format, "format", "table", "Output format: table or csv")
	fs.StringVar(&output, "output", "", "Write CSV to file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: perktap history [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  perktap history\n")
		fmt.Fprintf(os.Stderr, "  perktap history -limit 50 -format csv -output searches.csv\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if format != "table" && format != "csv" {
		return fmt.Errorf("unsupported format: %s", format)
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	store, err := history.Open(filepath.Join(cfg.DataDir(), "history.db"))
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	entries, err := store.Recent(limit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No searches yet")
		return nil
	}

	if format == "csv" || output != "" {
		return writeHistoryCSV(entries, output)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tMODE\tSEARCH\tRESULTS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			e.SearchedAt.Local().Format("2006-01-02 15:04"), e.Mode, e.Summary, e.ResultCount)
	}
	return w.Flush()
}

func writeHistoryCSV(entries []history.Entry, path string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	defer w.Flush()

	w.Write([]string{"searched_at", "mode", "summary", "result_count"})
	for _, e := range entries {
		w.Write([]string{
			e.SearchedAt.Format(time.RFC3339),
			e.Mode,
			e.Summary,
			fmt.Sprintf("%d", e.ResultCount),
		})
	}

	if path != "" {
		fmt.Fprintf(os.Stderr, "Exported %d entries to %s\n", len(entries), path)
	}
	return nil
}
