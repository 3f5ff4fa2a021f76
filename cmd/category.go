package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/bookkeep"
	"github.com/google/subcommands"
)

type addCategoryCmd struct {
	kind string
}

func (*addCategoryCmd) Name() string     { return "add-category" }
func (*addCategoryCmd) Synopsis() string { return "create a new operation category in the book" }
func (*addCategoryCmd) Usage() string {
	return `bkp add-category [-kind <income|expense>] <name>

  Creates a new category. Operations recorded under a category must carry
  the same kind as the category.

Usage Examples:
$ bkp add-category -kind income Salary
$ bkp add-category -kind expense Groceries

`
}

func (p *addCategoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.kind, "kind", "expense", "Kind of the category (income or expense).")
}

func (p *addCategoryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: add-category takes exactly one category name.")
		return subcommands.ExitUsageError
	}
	kind, err := bookkeep.ParseKind(p.kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	book, err := LoadBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	category, err := book.AddCategory(f.Arg(0), kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating category: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := SaveBook(book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully created %s category %q\n", category.Kind(), category.Name())
	return subcommands.ExitSuccess
}

type categoriesCmd struct{}

func (*categoriesCmd) Name() string           { return "categories" }
func (*categoriesCmd) Synopsis() string       { return "list the categories of the book" }
func (*categoriesCmd) SetFlags(*flag.FlagSet) {}
func (*categoriesCmd) Usage() string {
	return `bkp categories

  Lists all categories and their kinds.
`
}

func (p *categoriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := LoadBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var rows [][]string
	for category := range book.Categories() {
		rows = append(rows, []string{category.Name(), category.Kind().String()})
	}
	printMarkdown("# Categories\n\n" + markdownTable([]string{"Category", "Kind"}, rows))
	return subcommands.ExitSuccess
}
