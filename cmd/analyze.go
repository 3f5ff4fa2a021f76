package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/bookkeep"
	"github.com/google/subcommands"
)

type analyzeCmd struct {
	report string
	start  string
	date   string
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "report aggregate views over the operation ledger" }
func (*analyzeCmd) Usage() string {
	return `bkp analyze [-report <balance|categories|average|daily>] [-s <start_date>] [-d <end_date>]

  Computes an aggregate report over the operations of the ledger, optionally
  restricted to a date range.

Usage Examples:
# Income, expense, and net over march.
$ bkp analyze -report balance -s 2025-03-01 -d 2025-03-31

# Spending per category, all time.
$ bkp analyze -report categories

`
}

func (p *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.report, "report", "balance", "Report to compute (balance, categories, average, daily).")
	f.StringVar(&p.start, "s", "", "Start date of the range (inclusive).")
	f.StringVar(&p.date, "d", "", "End date of the range (inclusive).")
}

func (p *analyzeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var from, to bookkeep.Date
	var err error
	if p.start != "" {
		if from, err = bookkeep.ParseDate(p.start); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if p.date != "" {
		if to, err = bookkeep.ParseDate(p.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	book, err := LoadBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	analytics := book.Analytics()

	var md string
	switch p.report {
	case "balance":
		report := analytics.BalanceDifference(from, to)
		md = "# Balance\n\n" + markdownTable(
			[]string{"Income", "Expense", "Net"},
			[][]string{{report.Income.String(), report.Expense.String(), report.Difference.SignedString()}},
		)
	case "categories":
		groups := analytics.GroupByCategory(from, to)
		rows := make([][]string, 0, len(groups))
		for _, g := range groups {
			rows = append(rows, []string{
				g.CategoryName, g.Income.String(), g.Expense.String(),
				g.Total.SignedString(), fmt.Sprintf("%d", g.OperationCount),
			})
		}
		md = "# Categories\n\n" + markdownTable([]string{"Category", "Income", "Expense", "Total", "Operations"}, rows)
	case "average":
		report := analytics.AverageAmounts(from, to)
		md = "# Averages\n\n" + markdownTable(
			[]string{"Average Income", "Income Count", "Average Expense", "Expense Count"},
			[][]string{{
				report.AverageIncome.String(), fmt.Sprintf("%d", report.IncomeCount),
				report.AverageExpense.String(), fmt.Sprintf("%d", report.ExpenseCount),
			}},
		)
	case "daily":
		points := analytics.DailyTrend(from, to)
		rows := make([][]string, 0, len(points))
		for _, pt := range points {
			rows = append(rows, []string{
				pt.Date.String(), pt.Income.String(), pt.Expense.String(),
				pt.Net.SignedString(), fmt.Sprintf("%d", pt.OperationCount),
			})
		}
		md = "# Daily Trend\n\n" + markdownTable([]string{"Date", "Income", "Expense", "Net", "Operations"}, rows)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown report %q, want balance, categories, average, or daily.\n", p.report)
		return subcommands.ExitUsageError
	}

	if p.start != "" || p.date != "" {
		md += fmt.Sprintf("\nRange: %s to %s\n", orOpen(p.start), orOpen(p.date))
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

func orOpen(date string) string {
	if strings.TrimSpace(date) == "" {
		return "open"
	}
	return date
}
