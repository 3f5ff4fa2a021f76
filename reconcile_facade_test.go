package bookkeep

import (
	"strings"
	"testing"
)

func TestFacade_AutomaticRecalculateCommits(t *testing.T) {
	book, account, salary, _ := newTestBook(t, "Main", 100)
	record(t, book, Income, account, salary, 250, "2025-03-01")

	result, err := book.Reconciler().AutomaticRecalculate(account)
	if err != nil {
		t.Fatalf("AutomaticRecalculate failed: %v", err)
	}
	if result.IsConsistent {
		t.Errorf("IsConsistent = true, want false (stored 100 vs computed 250)")
	}
	// Error-free, so the recomputed balance is committed even though the
	// stored balance was off.
	if !account.Balance().Equal(M(250, "EUR")) {
		t.Errorf("stored balance = %s, want committed 250", account.Balance())
	}
}

func TestFacade_AutomaticRecalculateSkipsCommitOnErrors(t *testing.T) {
	// Inconsistent AND with errors: the commit is withheld.
	book, account, _, groceries := newTestBook(t, "Main", 100)
	record(t, book, Income, account, groceries, 500, "2025-03-01") // mismatch

	result, err := book.Reconciler().AutomaticRecalculate(account)
	if err != nil {
		t.Fatalf("AutomaticRecalculate failed: %v", err)
	}
	if result.IsConsistent || len(result.Errors) == 0 {
		t.Fatalf("want an inconsistent result with errors, got consistent=%v errors=%v", result.IsConsistent, result.Errors)
	}
	if !account.Balance().Equal(M(100, "EUR")) {
		t.Errorf("stored balance = %s, want untouched 100", account.Balance())
	}
}

func TestFacade_AutomaticRecalculateRejectsNegativeCommit(t *testing.T) {
	// An error-free ledger implying a negative balance: the commit is
	// attempted and rejected by the account's validated mutator.
	book, account, salary, groceries := newTestBook(t, "Main", 100)
	record(t, book, Income, account, salary, 50, "2025-03-01")
	record(t, book, Expense, account, groceries, 200, "2025-03-02")

	result, err := book.Reconciler().AutomaticRecalculate(account)
	if err == nil {
		t.Fatalf("AutomaticRecalculate = nil error, want a commit failure")
	}
	if !strings.Contains(err.Error(), "negative") {
		t.Errorf("error = %v, want the negative balance rejection", err)
	}
	if !result.NewBalance.Equal(M(-150, "EUR")) {
		t.Errorf("NewBalance = %s, want -150 reported despite the failed commit", result.NewBalance)
	}
	if !account.Balance().Equal(M(100, "EUR")) {
		t.Errorf("stored balance = %s, want untouched 100", account.Balance())
	}
}

func TestFacade_ManualRecalculateAlwaysCommits(t *testing.T) {
	book, account, salary, _ := newTestBook(t, "Main", 100)
	record(t, book, Income, account, salary, 999, "2025-03-01")

	result, err := book.Reconciler().ManualRecalculate(account, M(42, "EUR"))
	if err != nil {
		t.Fatalf("ManualRecalculate failed: %v", err)
	}
	if result.IsConsistent {
		t.Errorf("IsConsistent = true, want false (target 42 vs stored 100)")
	}
	if len(result.Errors) == 0 {
		t.Errorf("Errors = none, want the ledger cross-check warning")
	}
	// Inconsistent and with warnings, yet the manual override wins.
	if !account.Balance().Equal(M(42, "EUR")) {
		t.Errorf("stored balance = %s, want committed 42", account.Balance())
	}
}

func TestFacade_ValidateAndRecalculateNeverCommits(t *testing.T) {
	book, account, salary, _ := newTestBook(t, "Main", 100)
	record(t, book, Income, account, salary, 250, "2025-03-01")

	result, err := book.Reconciler().ValidateAndRecalculate(account)
	if err != nil {
		t.Fatalf("ValidateAndRecalculate failed: %v", err)
	}
	if !result.NewBalance.Equal(M(250, "EUR")) {
		t.Errorf("NewBalance = %s, want 250", result.NewBalance)
	}
	if !account.Balance().Equal(M(100, "EUR")) {
		t.Errorf("stored balance = %s, want untouched 100 (read-only audit)", account.Balance())
	}
}

func TestFacade_RecalculateWithStrategyNeverCommits(t *testing.T) {
	book, account, salary, _ := newTestBook(t, "Main", 100)
	record(t, book, Income, account, salary, 250, "2025-03-01")

	result, err := book.Reconciler().RecalculateWithStrategy(account, AutomaticStrategy{})
	if err != nil {
		t.Fatalf("RecalculateWithStrategy failed: %v", err)
	}
	if !result.NewBalance.Equal(M(250, "EUR")) {
		t.Errorf("NewBalance = %s, want 250", result.NewBalance)
	}
	if !account.Balance().Equal(M(100, "EUR")) {
		t.Errorf("stored balance = %s, want untouched 100", account.Balance())
	}
}

func TestFacade_CustomCommitter(t *testing.T) {
	book, account, salary, _ := newTestBook(t, "Main", 0)
	record(t, book, Income, account, salary, 70, "2025-03-01")

	var committed []Money
	facade, err := NewReconciliationFacade(book.Operations, book.Category, func(a *BankAccount, newBalance Money) error {
		committed = append(committed, newBalance)
		return nil
	})
	if err != nil {
		t.Fatalf("NewReconciliationFacade failed: %v", err)
	}

	if _, err := facade.AutomaticRecalculate(account); err != nil {
		t.Fatalf("AutomaticRecalculate failed: %v", err)
	}
	if len(committed) != 1 || !committed[0].Equal(M(70, "EUR")) {
		t.Errorf("committed = %v, want a single commit of 70", committed)
	}
	// The injected committer replaced the account mutator entirely.
	if !account.Balance().IsZero() {
		t.Errorf("stored balance = %s, want untouched 0", account.Balance())
	}
}

func TestFacade_RequiresCollaborators(t *testing.T) {
	book := NewBook()
	testCases := []struct {
		name          string
		getOperations func() []Operation
		resolve       CategoryResolver
	}{
		{"nil operation accessor", nil, book.Category},
		{"nil category resolver", book.Operations, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewReconciliationFacade(tc.getOperations, tc.resolve, nil); err == nil {
				t.Errorf("NewReconciliationFacade = nil error, want a structural error")
			}
		})
	}
}

func TestFacade_CheckConsistency(t *testing.T) {
	book, account, salary, _ := newTestBook(t, "Main", 150)
	record(t, book, Income, account, salary, 150, "2025-03-01")

	consistent, err := book.Reconciler().CheckConsistency(account)
	if err != nil {
		t.Fatalf("CheckConsistency failed: %v", err)
	}
	if !consistent {
		t.Errorf("CheckConsistency = false, want true")
	}
}

func TestFacade_GetBalanceDifference(t *testing.T) {
	book, account, salary, _ := newTestBook(t, "Main", 100)
	record(t, book, Income, account, salary, 175, "2025-03-01")

	diff, err := book.Reconciler().GetBalanceDifference(account)
	if err != nil {
		t.Fatalf("GetBalanceDifference failed: %v", err)
	}
	if !diff.Equal(M(75, "EUR")) {
		t.Errorf("difference = %s, want 75", diff)
	}
	// Unlike CheckConsistency this path never commits.
	if !account.Balance().Equal(M(100, "EUR")) {
		t.Errorf("stored balance = %s, want untouched 100", account.Balance())
	}
}

func TestFacade_AutomaticRecalculateIsIdempotent(t *testing.T) {
	book, account, salary, groceries := newTestBook(t, "Main", 0)
	record(t, book, Income, account, salary, 900, "2025-03-01")
	record(t, book, Expense, account, groceries, 400, "2025-03-03")

	facade := book.Reconciler()
	first, err := facade.AutomaticRecalculate(account)
	if err != nil {
		t.Fatalf("first AutomaticRecalculate failed: %v", err)
	}
	second, err := facade.AutomaticRecalculate(account)
	if err != nil {
		t.Fatalf("second AutomaticRecalculate failed: %v", err)
	}

	if !second.NewBalance.Equal(first.NewBalance) {
		t.Errorf("second NewBalance = %s, want %s", second.NewBalance, first.NewBalance)
	}
	if !second.IsConsistent {
		t.Errorf("second IsConsistent = false, want true after the first commit")
	}
	if !account.Balance().Equal(M(500, "EUR")) {
		t.Errorf("stored balance = %s, want 500", account.Balance())
	}
}
