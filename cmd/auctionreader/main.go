package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/iafilius/AuctionAnalysis/src/analysis"
	"github.com/iafilius/AuctionAnalysis/src/auction"
	"github.com/iafilius/AuctionAnalysis/src/config"
)

func main() {
	var file, search, export, jsonOut string
	flag.StringVar(&file, "file", "", "Path to the auction CSV")
	flag.StringVar(&search, "search", "", "Optional player name to look up")
	flag.StringVar(&export, "export", "", "Write per-team spending CSV to this path")
	flag.StringVar(&jsonOut, "json", "", "Write a JSON report to this path (- for stdout)")
	flag.Parse()

	if err := run(os.Stdout, os.Stderr, file, search, export, jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run prints the summary to out. With -json - the report owns out and the summary goes to errOut;
// lookup and export still run.
func run(out, errOut io.Writer, file, search, export, jsonOut string) error {
	if file == "" {
		return errors.New("-file is required")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	auction.SetLogLevel(cfg.LogLevel)
	ds, err := auction.LoadFile(file, cfg.Columns())
	if err != nil {
		return err
	}

	report := out
	if jsonOut == "-" {
		out = errOut
	}

	fmt.Fprintf(out, "Source: %s (%d rows)\n", ds.Source, ds.Len())
	fmt.Fprintln(out, analysis.ComputeStats(ds.Prices()).Text())
	printGroups(out, fmt.Sprintf("Top %d players", cfg.TopN), analysis.TopPlayers(ds, cfg.TopN))
	printGroups(out, "Team spending", analysis.TeamSpending(ds))
	printGroups(out, "Average price by team", analysis.AverageTeamSpending(ds))
	printGroups(out, "Spending by role", analysis.RoleSpending(ds))

	if search != "" {
		res, err := analysis.FindPlayer(ds, search)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, res.Text())
		if !res.Found {
			fmt.Fprintln(out)
		}
	}
	if export != "" {
		if err := analysis.SaveTeamSpendingCSV(export, ds); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nTeam spending written to %s\n", export)
	}
	switch jsonOut {
	case "":
	case "-":
		return analysis.WriteReportJSON(report, analysis.BuildReport(ds, cfg.TopN))
	default:
		f, err := os.Create(jsonOut)
		if err != nil {
			return errors.Wrap(err, "create json report")
		}
		if err := analysis.WriteReportJSON(f, analysis.BuildReport(ds, cfg.TopN)); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return errors.Wrap(err, "close json report")
		}
		fmt.Fprintf(out, "Report written to %s\n", jsonOut)
	}
	return nil
}

func printGroups(out io.Writer, title string, groups []analysis.Group) {
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, g := range groups {
		fmt.Fprintf(out, "  %-28s %10s\n", g.Key, analysis.FormatNumber(g.Value))
	}
}
