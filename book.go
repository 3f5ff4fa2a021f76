package bookkeep

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ErrCategoryNotFound is returned when a category identifier cannot be
// resolved.
var ErrCategoryNotFound = errors.New("category not found")

// ErrAccountNotFound is returned when an account identifier or name cannot
// be resolved.
var ErrAccountNotFound = errors.New("account not found")

// Book is the in-memory record of all bookkeeping data: accounts,
// categories, and the full operation ledger across all accounts.
//
// In a Book operations are always in chronological order. The Book supplies
// the accessor functions the reconciliation and analytics facades consume;
// it performs no locking, callers must not mutate it during a
// reconciliation call.
type Book struct {
	accounts   map[uuid.UUID]*BankAccount
	categories map[uuid.UUID]Category
	operations []Operation
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{
		accounts:   make(map[uuid.UUID]*BankAccount),
		categories: make(map[uuid.UUID]Category),
		operations: make([]Operation, 0),
	}
}

// AddAccount creates a new account and registers it in the book. Account
// names are unique within a book.
func (b *Book) AddAccount(name string, initial Money) (*BankAccount, error) {
	if _, ok := b.AccountByName(name); ok {
		return nil, fmt.Errorf("account %q already exists", name)
	}
	account, err := NewBankAccount(name, initial)
	if err != nil {
		return nil, err
	}
	b.accounts[account.ID()] = account
	return account, nil
}

// AddCategory creates a new category and registers it in the book. Category
// names are unique within a book.
func (b *Book) AddCategory(name string, kind Kind) (Category, error) {
	if _, ok := b.CategoryByName(name); ok {
		return Category{}, fmt.Errorf("category %q already exists", name)
	}
	category, err := NewCategory(name, kind)
	if err != nil {
		return Category{}, err
	}
	b.categories[category.ID()] = category
	return category, nil
}

// Append appends operations to the ledger and maintains the chronological
// order of operations.
func (b *Book) Append(ops ...Operation) {
	b.operations = append(b.operations, ops...)
	b.stableSort()
}

// stableSort sorts the ledger by operation date. The sort is stable, meaning
// operations on the same day maintain their original relative order.
func (b *Book) stableSort() {
	sort.SliceStable(b.operations, func(i, j int) bool {
		return b.operations[i].When().Before(b.operations[j].When())
	})
}

// Operations returns a copy of the full operation ledger across all
// accounts, in chronological order.
func (b *Book) Operations() []Operation {
	return slices.Clone(b.operations)
}

// Category resolves a category by identifier.
func (b *Book) Category(id uuid.UUID) (Category, error) {
	category, ok := b.categories[id]
	if !ok {
		return Category{}, fmt.Errorf("category %s: %w", id, ErrCategoryNotFound)
	}
	return category, nil
}

// Account resolves an account by identifier.
func (b *Book) Account(id uuid.UUID) (*BankAccount, error) {
	account, ok := b.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, ErrAccountNotFound)
	}
	return account, nil
}

// AccountByName returns the account with the given display name.
func (b *Book) AccountByName(name string) (*BankAccount, bool) {
	for _, account := range b.accounts {
		if account.Name() == name {
			return account, true
		}
	}
	return nil, false
}

// CategoryByName returns the category with the given display name.
func (b *Book) CategoryByName(name string) (Category, bool) {
	for _, category := range b.categories {
		if category.Name() == name {
			return category, true
		}
	}
	return Category{}, false
}

// GetOrCreateAccount returns the account with the given name, creating it
// with a zero balance when it does not exist yet. Importers use it to
// resolve account references by name.
func (b *Book) GetOrCreateAccount(name string) (*BankAccount, error) {
	if account, ok := b.AccountByName(name); ok {
		return account, nil
	}
	return b.AddAccount(name, Money{})
}

// GetOrCreateCategory returns the category with the given name, creating it
// with the given kind when it does not exist yet.
func (b *Book) GetOrCreateCategory(name string, kind Kind) (Category, error) {
	if category, ok := b.CategoryByName(name); ok {
		return category, nil
	}
	return b.AddCategory(name, kind)
}

// Accounts iterates over the accounts of the book, sorted by name.
func (b *Book) Accounts() iter.Seq[*BankAccount] {
	return func(yield func(*BankAccount) bool) {
		ids := slices.Collect(maps.Keys(b.accounts))
		slices.SortFunc(ids, func(x, y uuid.UUID) int {
			return strings.Compare(b.accounts[x].Name(), b.accounts[y].Name())
		})
		for _, id := range ids {
			if !yield(b.accounts[id]) {
				return
			}
		}
	}
}

// Categories iterates over the categories of the book, sorted by name.
func (b *Book) Categories() iter.Seq[Category] {
	return func(yield func(Category) bool) {
		ids := slices.Collect(maps.Keys(b.categories))
		slices.SortFunc(ids, func(x, y uuid.UUID) int {
			return strings.Compare(b.categories[x].Name(), b.categories[y].Name())
		})
		for _, id := range ids {
			if !yield(b.categories[id]) {
				return
			}
		}
	}
}

// AccountOperations iterates over the operations belonging to the given
// account, in chronological order.
func (b *Book) AccountOperations(accountID uuid.UUID) iter.Seq[Operation] {
	return func(yield func(Operation) bool) {
		for _, op := range b.operations {
			if op.AccountID() != accountID {
				continue
			}
			if !yield(op) {
				return
			}
		}
	}
}
