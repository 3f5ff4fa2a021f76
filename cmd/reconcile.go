package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/etnz/bookkeep"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// facadeCommand adapts a facade call to the command surface so the runner
// can time and log it.
type facadeCommand struct {
	name string
	run  func() error
}

func (c facadeCommand) Describe() string { return c.name }
func (c facadeCommand) Execute() error   { return c.run() }

type reconcileCmd struct {
	account string
	mode    string
	target  string
}

func (*reconcileCmd) Name() string { return "reconcile" }
func (*reconcileCmd) Synopsis() string {
	return "recalculate account balances from the operation ledger"
}
func (*reconcileCmd) Usage() string {
	return `bkp reconcile [-a <account>] [-mode <auto|manual|validate>] [-target <amount>]

  Recalculates the stored balance of one account (or all accounts) from the
  operation ledger.

  In auto mode the recomputed balance is committed when the run is error
  free. In manual mode the -target balance is committed unconditionally and
  checked against the ledger. In validate mode the full audit runs and
  nothing is committed.

Usage Examples:
# Reconcile every account from the ledger.
$ bkp reconcile

# Force the Checking balance to match the latest bank statement.
$ bkp reconcile -a Checking -mode manual -target 1234.56

`
}

func (p *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "a", "", "Account to reconcile. Reconciles all by default.")
	f.StringVar(&p.mode, "mode", "auto", "Reconciliation mode (auto, manual, validate).")
	f.StringVar(&p.target, "target", "", "Target balance for manual mode.")
}

func (p *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.mode == "manual" && p.account == "" {
		fmt.Fprintln(os.Stderr, "Error: manual mode requires a single account (-a).")
		return subcommands.ExitUsageError
	}
	if p.mode == "manual" && p.target == "" {
		fmt.Fprintln(os.Stderr, "Error: manual mode requires a -target balance.")
		return subcommands.ExitUsageError
	}

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
	runner := bookkeep.NewCommandRunner(logger())

	var md strings.Builder
	md.WriteString("# Reconciliation\n")
	failed := false
	for _, account := range accounts {
		var result bookkeep.ReconciliationResult
		var runErr error

		command := facadeCommand{name: p.mode + " reconciliation of " + account.Name(), run: func() error {
			switch p.mode {
			case "auto":
				result, runErr = facade.AutomaticRecalculate(account)
			case "manual":
				value, err := decimal.NewFromString(p.target)
				if err != nil {
					return fmt.Errorf("invalid target balance %q: %w", p.target, err)
				}
				result, runErr = facade.ManualRecalculate(account, bookkeep.M(value, account.Balance().Currency()))
			case "validate":
				result, runErr = facade.ValidateAndRecalculate(account)
			default:
				return fmt.Errorf("unknown mode %q, want auto, manual, or validate", p.mode)
			}
			return nil
		}}
		if err := runner.ExecuteTimedAndLogged(command, func(elapsed time.Duration) {
			if *verbose {
				fmt.Fprintf(os.Stderr, "%s took %s\n", command.Describe(), elapsed)
			}
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}

		writeResultMarkdown(&md, account.Name(), result)
		if runErr != nil {
			md.WriteString(fmt.Sprintf("\n**commit failed**: %v\n", runErr))
			failed = true
		}
	}
	printMarkdown(md.String())

	// validate mode never touches the stored balances, nothing to save.
	if p.mode != "validate" {
		if err := SaveBook(book); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	if failed {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// selectAccounts resolves the -a flag into the accounts to work on.
func selectAccounts(book *bookkeep.Book, name string) ([]*bookkeep.BankAccount, subcommands.ExitStatus) {
	if name == "" {
		var accounts []*bookkeep.BankAccount
		for account := range book.Accounts() {
			accounts = append(accounts, account)
		}
		if len(accounts) == 0 {
			fmt.Fprintln(os.Stderr, "Warning: the book has no accounts.")
		}
		return accounts, subcommands.ExitSuccess
	}
	account, ok := book.AccountByName(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: account %q does not exist.\n", name)
		return nil, subcommands.ExitFailure
	}
	return []*bookkeep.BankAccount{account}, subcommands.ExitSuccess
}

// writeResultMarkdown appends one account's reconciliation outcome to the report.
func writeResultMarkdown(md *strings.Builder, accountName string, result bookkeep.ReconciliationResult) {
	md.WriteString(fmt.Sprintf("\n## %s\n\n", accountName))
	state := "consistent"
	if !result.IsConsistent {
		state = "inconsistent"
	}
	md.WriteString(markdownTable(
		[]string{"Old Balance", "New Balance", "Difference", "Operations", "State"},
		[][]string{{
			result.OldBalance.String(),
			result.NewBalance.String(),
			result.Difference.SignedString(),
			fmt.Sprintf("%d", result.OperationsProcessed),
			state,
		}},
	))
	if len(result.Errors) > 0 {
		md.WriteString("\n")
		for _, e := range result.Errors {
			md.WriteString("- " + e + "\n")
		}
	}
}
