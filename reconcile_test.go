package bookkeep

import (
	"strings"
	"testing"
)

func TestAutomaticStrategy_Recalculate(t *testing.T) {
	book, account, salary, groceries := newTestBook(t, "Main", 1200)
	record(t, book, Income, account, salary, 2000, "2025-03-01")
	record(t, book, Expense, account, groceries, 800, "2025-03-05")

	// Operations of another account must never leak into the computation.
	other, err := book.AddAccount("Savings", M(0, "EUR"))
	if err != nil {
		t.Fatalf("AddAccount(Savings) failed: %v", err)
	}
	record(t, book, Income, other, salary, 9999, "2025-03-02")

	result := AutomaticStrategy{}.Recalculate(account, book.Operations(), book.Category)

	if !result.OldBalance.Equal(M(1200, "EUR")) {
		t.Errorf("OldBalance = %s, want 1200", result.OldBalance)
	}
	if !result.NewBalance.Equal(M(1200, "EUR")) {
		t.Errorf("NewBalance = %s, want 1200", result.NewBalance)
	}
	if !result.Difference.IsZero() {
		t.Errorf("Difference = %s, want 0", result.Difference)
	}
	if !result.IsConsistent {
		t.Errorf("IsConsistent = false, want true")
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want none", result.Errors)
	}
	if result.OperationsProcessed != 2 {
		t.Errorf("OperationsProcessed = %d, want 2", result.OperationsProcessed)
	}
}

func TestAutomaticStrategy_KindMismatch(t *testing.T) {
	// A single income operation classified under an expense category: the
	// operation is reported and excluded from the sum.
	book, account, _, groceries := newTestBook(t, "Main", 0)
	record(t, book, Income, account, groceries, 500, "2025-03-01")

	result := AutomaticStrategy{}.Recalculate(account, book.Operations(), book.Category)

	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "kind mismatch") {
		t.Errorf("Errors[0] = %q, want a kind mismatch message", result.Errors[0])
	}
	if !result.NewBalance.IsZero() {
		t.Errorf("NewBalance = %s, want 0", result.NewBalance)
	}
	if result.OperationsProcessed != 0 {
		t.Errorf("OperationsProcessed = %d, want 0", result.OperationsProcessed)
	}
}

func TestAutomaticStrategy_UnresolvableCategory(t *testing.T) {
	// A failing category lookup is absorbed as a per-operation error; the
	// remaining operations are still processed.
	book, account, salary, _ := newTestBook(t, "Main", 0)
	good := record(t, book, Income, account, salary, 100, "2025-03-01")

	orphanCat, err := NewCategory("Unregistered", Income)
	if err != nil {
		t.Fatalf("NewCategory failed: %v", err)
	}
	orphan, err := NewOperation(Income, account, orphanCat, M(50, "EUR"), MustParse("2025-03-02"), "")
	if err != nil {
		t.Fatalf("NewOperation failed: %v", err)
	}
	book.Append(orphan)

	result := AutomaticStrategy{}.Recalculate(account, book.Operations(), book.Category)

	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", result.Errors)
	}
	if !strings.Contains(result.Errors[0], orphan.ID().String()) {
		t.Errorf("Errors[0] = %q, want it to identify operation %s", result.Errors[0], orphan.ID())
	}
	if !result.NewBalance.Equal(good.Amount()) {
		t.Errorf("NewBalance = %s, want %s", result.NewBalance, good.Amount())
	}
	if result.OperationsProcessed != 1 {
		t.Errorf("OperationsProcessed = %d, want 1", result.OperationsProcessed)
	}
}

func TestAutomaticStrategy_EmptyLedger(t *testing.T) {
	book, account, _, _ := newTestBook(t, "Main", 0)

	result := AutomaticStrategy{}.Recalculate(account, book.Operations(), book.Category)

	if !result.NewBalance.IsZero() || !result.OldBalance.IsZero() || !result.Difference.IsZero() {
		t.Errorf("balances = old %s new %s diff %s, want all zero", result.OldBalance, result.NewBalance, result.Difference)
	}
	if !result.IsConsistent {
		t.Errorf("IsConsistent = false, want true")
	}
	if len(result.Errors) != 0 || result.OperationsProcessed != 0 {
		t.Errorf("Errors = %v, OperationsProcessed = %d, want none and 0", result.Errors, result.OperationsProcessed)
	}
}

func TestAutomaticStrategy_Tolerance(t *testing.T) {
	testCases := []struct {
		name           string
		stored         float64
		wantConsistent bool
	}{
		{"exact match", 100, true},
		{"under tolerance", 100.009, true},
		{"at tolerance", 100.01, false},
		{"over tolerance", 101, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			book, account, salary, _ := newTestBook(t, "Main", tc.stored)
			record(t, book, Income, account, salary, 100, "2025-03-01")

			result := AutomaticStrategy{}.Recalculate(account, book.Operations(), book.Category)
			if result.IsConsistent != tc.wantConsistent {
				t.Errorf("IsConsistent = %v, want %v (difference %s)", result.IsConsistent, tc.wantConsistent, result.Difference)
			}
		})
	}
}

func TestManualStrategy_Recalculate(t *testing.T) {
	book, account, salary, groceries := newTestBook(t, "Main", 300)
	record(t, book, Income, account, salary, 1000, "2025-03-01")
	record(t, book, Expense, account, groceries, 700, "2025-03-02")

	result := NewManualStrategy(M(300, "EUR")).Recalculate(account, book.Operations(), book.Category)

	if !result.NewBalance.Equal(M(300, "EUR")) {
		t.Errorf("NewBalance = %s, want the supplied target 300", result.NewBalance)
	}
	if !result.IsConsistent {
		t.Errorf("IsConsistent = false, want true (target equals stored balance)")
	}
	if result.OperationsProcessed != 2 {
		t.Errorf("OperationsProcessed = %d, want 2", result.OperationsProcessed)
	}
	// Ledger sum is 300 too, so no cross-check warning.
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want none", result.Errors)
	}
}

func TestManualStrategy_CrossCheckWarning(t *testing.T) {
	book, account, salary, _ := newTestBook(t, "Main", 100)
	record(t, book, Income, account, salary, 1000, "2025-03-01")

	result := NewManualStrategy(M(50, "EUR")).Recalculate(account, book.Operations(), book.Category)

	if !result.NewBalance.Equal(M(50, "EUR")) {
		t.Errorf("NewBalance = %s, want the supplied target 50", result.NewBalance)
	}
	if result.IsConsistent {
		t.Errorf("IsConsistent = true, want false (target 50 vs stored 100)")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "does not match") {
		t.Errorf("Errors = %v, want a single cross-check warning", result.Errors)
	}
}

func TestManualStrategy_CountsMismatchedOperations(t *testing.T) {
	// The manual scan counts and sums every operation of the account, even
	// the ones it flags as mismatched.
	book, account, _, groceries := newTestBook(t, "Main", 0)
	record(t, book, Income, account, groceries, 500, "2025-03-01")

	result := NewManualStrategy(M(500, "EUR")).Recalculate(account, book.Operations(), book.Category)

	if result.OperationsProcessed != 1 {
		t.Errorf("OperationsProcessed = %d, want 1", result.OperationsProcessed)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "kind mismatch") {
		t.Errorf("Errors = %v, want a single kind mismatch", result.Errors)
	}
}

func TestValidatingStrategy_DuplicateOperations(t *testing.T) {
	book, account, salary, _ := newTestBook(t, "Main", 0)
	op := record(t, book, Income, account, salary, 100, "2025-03-01")
	// The same operation recorded twice more: each extra occurrence is one
	// error and is excluded from the sum.
	book.Append(op, op)

	result := ValidatingStrategy{}.Recalculate(account, book.Operations(), book.Category)

	duplicates := 0
	for _, msg := range result.Errors {
		if strings.Contains(msg, "duplicate") {
			duplicates++
		}
	}
	if duplicates != 2 {
		t.Errorf("duplicate errors = %d, want 2 (one per extra occurrence)", duplicates)
	}
	if !result.NewBalance.Equal(M(100, "EUR")) {
		t.Errorf("NewBalance = %s, want 100 (duplicates excluded)", result.NewBalance)
	}
	if result.OperationsProcessed != 1 {
		t.Errorf("OperationsProcessed = %d, want 1", result.OperationsProcessed)
	}
}

func TestValidatingStrategy_NonPositiveAmount(t *testing.T) {
	book, account, salary, _ := newTestBook(t, "Main", 0)
	record(t, book, Income, account, salary, 0, "2025-03-01")
	record(t, book, Income, account, salary, -5, "2025-03-02")
	record(t, book, Income, account, salary, 100, "2025-03-03")

	result := ValidatingStrategy{}.Recalculate(account, book.Operations(), book.Category)

	nonPositive := 0
	for _, msg := range result.Errors {
		if strings.Contains(msg, "non-positive") {
			nonPositive++
		}
	}
	if nonPositive != 2 {
		t.Errorf("non-positive errors = %d, want 2", nonPositive)
	}
	if !result.NewBalance.Equal(M(100, "EUR")) {
		t.Errorf("NewBalance = %s, want 100", result.NewBalance)
	}
	if result.OperationsProcessed != 1 {
		t.Errorf("OperationsProcessed = %d, want 1", result.OperationsProcessed)
	}
}

func TestValidatingStrategy_NegativeBalanceTransition(t *testing.T) {
	book, account, salary, groceries := newTestBook(t, "Main", 1000)
	record(t, book, Income, account, salary, 500, "2025-03-01")
	record(t, book, Expense, account, groceries, 2000, "2025-03-02")

	result := ValidatingStrategy{}.Recalculate(account, book.Operations(), book.Category)

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "negative") {
		t.Fatalf("Errors = %v, want a single negative-balance message", result.Errors)
	}
	// The subtraction is not rolled back: the result reflects the dip.
	if !result.NewBalance.Equal(M(-1500, "EUR")) {
		t.Errorf("NewBalance = %s, want -1500", result.NewBalance)
	}
	if result.IsConsistent {
		t.Errorf("IsConsistent = true, want false")
	}
	if result.OperationsProcessed != 2 {
		t.Errorf("OperationsProcessed = %d, want 2", result.OperationsProcessed)
	}
}

func TestValidatingStrategy_ConsistencyRequiresNoErrors(t *testing.T) {
	// Stored balance matches the ledger sum, but a mismatched operation is
	// present: the validating criterion is stricter than the automatic one.
	book, account, salary, groceries := newTestBook(t, "Main", 100)
	record(t, book, Income, account, salary, 100, "2025-03-01")
	record(t, book, Income, account, groceries, 40, "2025-03-02") // mismatch, excluded

	result := ValidatingStrategy{}.Recalculate(account, book.Operations(), book.Category)

	if !result.Difference.IsZero() {
		t.Fatalf("Difference = %s, want 0", result.Difference)
	}
	if result.IsConsistent {
		t.Errorf("IsConsistent = true, want false despite zero difference")
	}
}

func TestStrategies_ProcessInDateOrder(t *testing.T) {
	// Appended out of order on the same ledger: the validating strategy
	// must dip below zero only if the expense comes chronologically first.
	book, account, salary, groceries := newTestBook(t, "Main", 0)

	spend, err := NewOperation(Expense, account, groceries, M(100, "EUR"), MustParse("2025-03-01"), "")
	if err != nil {
		t.Fatalf("NewOperation failed: %v", err)
	}
	earn, err := NewOperation(Income, account, salary, M(100, "EUR"), MustParse("2025-03-05"), "")
	if err != nil {
		t.Fatalf("NewOperation failed: %v", err)
	}

	// Enumeration order: income first. Date order: expense first.
	ops := []Operation{earn, spend}
	result := ValidatingStrategy{}.Recalculate(account, ops, book.Category)

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "negative") {
		t.Errorf("Errors = %v, want the negative transition of the chronologically first expense", result.Errors)
	}
	if !result.NewBalance.IsZero() {
		t.Errorf("NewBalance = %s, want 0", result.NewBalance)
	}
}
