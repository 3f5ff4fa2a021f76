package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/bookkeep"
	"github.com/google/subcommands"
)

type importCmd struct {
	format string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import operations from a csv, json, or yaml file" }
func (*importCmd) Usage() string {
	return `bkp import [-format <csv|json|yaml>] <file>

  Reads operation records from the given file and merges them into the book.
  Accounts and categories referenced by the file are created on first use.
  Records that cannot be processed are reported and skipped; the remaining
  records are imported anyway.

Usage Examples:
$ bkp import -format csv march.csv

`
}

func (p *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.format, "format", "csv", "Format of the import file (csv, json, yaml).")
}

func (p *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import takes exactly one file to read.")
		return subcommands.ExitUsageError
	}
	importer, status := importerFor(p.format)
	if status != subcommands.ExitSuccess {
		return status
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening import file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	book, err := LoadBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	result, err := book.Import(importer, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := SaveBook(book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "skipped %s\n", e)
	}
	fmt.Printf("Successfully imported %d operations (%d skipped) from %s\n", result.SuccessCount, len(result.Errors), f.Arg(0))
	return subcommands.ExitSuccess
}

// importerFor maps a -format value to its importer.
func importerFor(format string) (*bookkeep.Importer, subcommands.ExitStatus) {
	switch format {
	case "csv":
		return bookkeep.NewCSVImporter(), subcommands.ExitSuccess
	case "json":
		return bookkeep.NewJSONImporter(), subcommands.ExitSuccess
	case "yaml":
		return bookkeep.NewYAMLImporter(), subcommands.ExitSuccess
	}
	fmt.Fprintf(os.Stderr, "Error: unknown format %q, want csv, json, or yaml.\n", format)
	return nil, subcommands.ExitUsageError
}
