package bookkeep

import (
	"testing"
)

// newTestBook builds a book with one account and one income and one expense
// category, the fixture most reconciliation tests start from.
func newTestBook(t *testing.T, accountName string, balance float64) (*Book, *BankAccount, Category, Category) {
	t.Helper()

	book := NewBook()
	account, err := book.AddAccount(accountName, M(balance, "EUR"))
	if err != nil {
		t.Fatalf("AddAccount(%q) failed: %v", accountName, err)
	}
	salary, err := book.AddCategory("Salary", Income)
	if err != nil {
		t.Fatalf("AddCategory(Salary) failed: %v", err)
	}
	groceries, err := book.AddCategory("Groceries", Expense)
	if err != nil {
		t.Fatalf("AddCategory(Groceries) failed: %v", err)
	}
	return book, account, salary, groceries
}

// record appends an operation to the book and returns it.
func record(t *testing.T, book *Book, kind Kind, account *BankAccount, category Category, amount float64, day string) Operation {
	t.Helper()

	op, err := NewOperation(kind, account, category, M(amount, "EUR"), MustParse(day), "")
	if err != nil {
		t.Fatalf("NewOperation failed: %v", err)
	}
	book.Append(op)
	return op
}
