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

type addOpCmd struct {
	account     string
	category    string
	kind        string
	amount      string
	date        string
	description string
}

func (*addOpCmd) Name() string     { return "add" }
func (*addOpCmd) Synopsis() string { return "record an operation in the ledger" }
func (*addOpCmd) Usage() string {
	return `bkp add -a <account> -c <category> -amount <amount> [-kind <income|expense>] [-d <date>] [-desc <text>]

  Records an operation against an existing account. The category is created
  on first use with the operation's kind.

Usage Examples:
# Record the march salary.
$ bkp add -a Checking -c Salary -kind income -amount 2500 -d 2025-03-01

`
}

func (p *addOpCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "a", "", "Account the operation belongs to.")
	f.StringVar(&p.category, "c", "", "Category of the operation.")
	f.StringVar(&p.kind, "kind", "expense", "Kind of the operation (income or expense).")
	f.StringVar(&p.amount, "amount", "", "Amount of the operation.")
	f.StringVar(&p.date, "d", "", "Date of the operation (defaults to today).")
	f.StringVar(&p.description, "desc", "", "Free text description.")
}

func (p *addOpCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.account == "" || p.category == "" || p.amount == "" {
		fmt.Fprintln(os.Stderr, "Error: -a, -c and -amount flags are required.")
		return subcommands.ExitUsageError
	}
	kind, err := bookkeep.ParseKind(p.kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	value, err := decimal.NewFromString(p.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid amount %q: %v\n", p.amount, err)
		return subcommands.ExitUsageError
	}
	on := bookkeep.Today()
	if p.date != "" {
		on, err = bookkeep.ParseDate(p.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	book, err := LoadBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	account, ok := book.AccountByName(p.account)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: account %q does not exist, create it with add-account first.\n", p.account)
		return subcommands.ExitFailure
	}
	category, err := book.GetOrCreateCategory(p.category, kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving category: %v\n", err)
		return subcommands.ExitFailure
	}
	op, err := bookkeep.NewOperation(kind, account, category, bookkeep.M(value, account.Balance().Currency()), on, p.description)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording operation: %v\n", err)
		return subcommands.ExitFailure
	}
	book.Append(op)
	if err := SaveBook(book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully recorded %s of %s on %s\n", op.Kind(), op.Amount(), op.When())
	return subcommands.ExitSuccess
}

type opsCmd struct {
	account string
	head    int
	tail    int
}

func (*opsCmd) Name() string     { return "ops" }
func (*opsCmd) Synopsis() string { return "list the operations of the ledger" }
func (*opsCmd) Usage() string {
	return `bkp ops [-a <account>] [-head <n>] [-tail <n>]

  Lists the operations of the ledger in chronological order, with options
  for filtering and limiting the output.
`
}

func (p *opsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "a", "", "Show only operations of this account.")
	f.IntVar(&p.head, "head", 0, "Show only the first N operations.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N operations.")
}

func (p *opsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	book, err := LoadBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	ops := book.Operations()
	if p.account != "" {
		account, ok := book.AccountByName(p.account)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: account %q does not exist.\n", p.account)
			return subcommands.ExitFailure
		}
		filtered := ops[:0]
		for _, op := range ops {
			if op.AccountID() == account.ID() {
				filtered = append(filtered, op)
			}
		}
		ops = filtered
	}
	if p.head > 0 && p.head < len(ops) {
		ops = ops[:p.head]
	}
	if p.tail > 0 && p.tail < len(ops) {
		ops = ops[len(ops)-p.tail:]
	}

	rows := make([][]string, 0, len(ops))
	for _, op := range ops {
		accountName, categoryName := "?", "?"
		if account, err := book.Account(op.AccountID()); err == nil {
			accountName = account.Name()
		}
		if category, err := book.Category(op.CategoryID()); err == nil {
			categoryName = category.Name()
		}
		amount := op.Amount()
		if op.Kind() == bookkeep.Expense {
			amount = amount.Neg()
		}
		rows = append(rows, []string{
			op.When().String(), op.Kind().String(), accountName, categoryName,
			amount.SignedString(), op.Description(),
		})
	}
	printMarkdown("# Operations\n\n" + markdownTable([]string{"Date", "Kind", "Account", "Category", "Amount", "Description"}, rows))
	return subcommands.ExitSuccess
}
