package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/bookkeep"
	"github.com/google/subcommands"
)

type exportCmd struct {
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the book to csv, json, or yaml" }
func (*exportCmd) Usage() string {
	return `bkp export [-format <csv|json|yaml>] [-o <file>]

  Writes the accounts, categories, and operations of the book in the given
  format, to stdout or to the -o file.

Usage Examples:
$ bkp export -format json -o book-export.json

`
}

func (p *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.format, "format", "csv", "Format of the export (csv, json, yaml).")
	f.StringVar(&p.output, "o", "", "File to write to. Writes to stdout by default.")
}

func (p *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var visitor bookkeep.ExportVisitor
	switch p.format {
	case "csv":
		visitor = bookkeep.NewCSVExportVisitor()
	case "json":
		visitor = bookkeep.NewJSONExportVisitor()
	case "yaml":
		visitor = bookkeep.NewYAMLExportVisitor()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q, want csv, json, or yaml.\n", p.format)
		return subcommands.ExitUsageError
	}

	book, err := LoadBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	exporter := book.Exporter()

	if p.output != "" {
		if err := exporter.ExportToFile(p.output, visitor); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Successfully exported the book to %s\n", p.output)
		return subcommands.ExitSuccess
	}

	content, err := exporter.Export(visitor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Print(content)
	return subcommands.ExitSuccess
}
