package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type checkCmd struct {
	account string
}

func (*checkCmd) Name() string { return "check" }
func (*checkCmd) Synopsis() string {
	return "audit stored balances against the ledger without changing them"
}
func (*checkCmd) Usage() string {
	return `bkp check [-a <account>]

  Runs the validating reconciliation on one account (or all accounts) and
  reports duplicates, kind mismatches, invalid amounts, and balance
  differences. Stored balances are never modified.
`
}

func (p *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "a", "", "Account to audit. Audits all by default.")
}

func (p *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := LoadBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	accounts, status := selectAccounts(book, p.account)
	if status != subcommands.ExitSuccess {
		return status
	}

	facade := book.Reconciler()
	var md strings.Builder
	md.WriteString("# Audit\n")
	clean := true
	for _, account := range accounts {
		result, err := facade.ValidateAndRecalculate(account)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error auditing %q: %v\n", account.Name(), err)
			return subcommands.ExitFailure
		}
		writeResultMarkdown(&md, account.Name(), result)
		if !result.IsConsistent {
			clean = false
		}
	}
	printMarkdown(md.String())

	if !clean {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
