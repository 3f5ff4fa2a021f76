package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/bookkeep"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type addAccountCmd struct {
	balance  string
	currency string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "create a new bank account in the book" }
func (*addAccountCmd) Usage() string {
	return `bkp add-account [-balance <amount>] [-c <currency>] <name>

  Creates a new bank account with the given display name and initial balance.

Usage Examples:
# Create a checking account starting at 1500.
$ bkp add-account -balance 1500 -c EUR Checking

`
}

func (p *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.balance, "balance", "0", "Initial stored balance of the account.")
	f.StringVar(&p.currency, "c", "", "Currency code of the account balance.")
}

func (p *addAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: add-account takes exactly one account name.")
		return subcommands.ExitUsageError
	}
	value, err := decimal.NewFromString(p.balance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid balance %q: %v\n", p.balance, err)
		return subcommands.ExitUsageError
	}

	book, err := LoadBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	account, err := book.AddAccount(f.Arg(0), bookkeep.M(value, p.currency))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating account: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := SaveBook(book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully created account %q with balance %s\n", account.Name(), account.Balance())
	return subcommands.ExitSuccess
}

type accountsCmd struct{}

func (*accountsCmd) Name() string           { return "accounts" }
func (*accountsCmd) Synopsis() string       { return "list the accounts of the book" }
func (*accountsCmd) SetFlags(*flag.FlagSet) {}
func (*accountsCmd) Usage() string {
	return `bkp accounts

  Lists all accounts and their stored balances.
`
}

func (p *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := LoadBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var rows [][]string
	for account := range book.Accounts() {
		rows = append(rows, []string{account.Name(), account.Balance().String()})
	}
	printMarkdown("# Accounts\n\n" + markdownTable([]string{"Account", "Balance"}, rows))
	return subcommands.ExitSuccess
}
