package bookkeep

import (
	"errors"
	"fmt"
)

// BalanceCommitter writes a recomputed balance back to an account. The
// default committer is the account's own validated mutator, which rejects
// negative balances.
type BalanceCommitter func(account *BankAccount, newBalance Money) error

// ReconciliationFacade orchestrates balance reconciliation: it pulls the
// live operation set from the ledger accessor, runs a strategy through a
// command, and conditionally commits the recomputed balance back to the
// account.
//
// Every public method fetches operations fresh at call time, so results
// always reflect the current ledger.
type ReconciliationFacade struct {
	getOperations func() []Operation
	resolve       CategoryResolver
	commit        BalanceCommitter
}

// NewReconciliationFacade creates a facade over the given ledger accessors.
// getOperations and resolve are required; a nil commit defaults to the
// account's validated UpdateBalance.
func NewReconciliationFacade(getOperations func() []Operation, resolve CategoryResolver, commit BalanceCommitter) (*ReconciliationFacade, error) {
	if getOperations == nil {
		return nil, errors.New("reconciliation facade requires an operation accessor")
	}
	if resolve == nil {
		return nil, errors.New("reconciliation facade requires a category resolver")
	}
	if commit == nil {
		commit = func(account *BankAccount, newBalance Money) error {
			return account.UpdateBalance(newBalance)
		}
	}
	return &ReconciliationFacade{getOperations: getOperations, resolve: resolve, commit: commit}, nil
}

// Reconciler returns a reconciliation facade wired to this book's ledger,
// with the default balance committer.
func (b *Book) Reconciler() *ReconciliationFacade {
	f, _ := NewReconciliationFacade(b.Operations, b.Category, nil)
	return f
}

// run executes the strategy against the live operation set and returns its
// result.
func (f *ReconciliationFacade) run(account *BankAccount, strategy ReconciliationStrategy) (ReconciliationResult, error) {
	command, err := NewRecalculateCommand(account, f.getOperations(), f.resolve, strategy)
	if err != nil {
		return ReconciliationResult{}, err
	}
	if err := command.Execute(); err != nil {
		return ReconciliationResult{}, err
	}
	return *command.Result(), nil
}

// AutomaticRecalculate recomputes the balance with the automatic strategy
// and commits the new balance when the result is consistent or error-free.
// The result is returned whether or not a commit happened; a failed commit
// (e.g. a negative recomputed balance) is reported as the returned error.
func (f *ReconciliationFacade) AutomaticRecalculate(account *BankAccount) (ReconciliationResult, error) {
	result, err := f.run(account, AutomaticStrategy{})
	if err != nil {
		return result, err
	}
	if result.IsConsistent || len(result.Errors) == 0 {
		if err := f.commit(account, result.NewBalance); err != nil {
			return result, fmt.Errorf("could not commit recalculated balance: %w", err)
		}
	}
	return result, nil
}

// ManualRecalculate sets the balance to the supplied target. The commit is
// unconditional: a manual override always wins, regardless of consistency
// or recorded errors.
func (f *ReconciliationFacade) ManualRecalculate(account *BankAccount, target Money) (ReconciliationResult, error) {
	result, err := f.run(account, NewManualStrategy(target))
	if err != nil {
		return result, err
	}
	if err := f.commit(account, result.NewBalance); err != nil {
		return result, fmt.Errorf("could not commit manual balance: %w", err)
	}
	return result, nil
}

// ValidateAndRecalculate audits the account with the validating strategy.
// It never commits: this is a read-only check.
func (f *ReconciliationFacade) ValidateAndRecalculate(account *BankAccount) (ReconciliationResult, error) {
	return f.run(account, ValidatingStrategy{})
}

// RecalculateWithStrategy runs an arbitrary strategy against the live
// operation set. It never commits; the caller decides what to do with the
// result.
func (f *ReconciliationFacade) RecalculateWithStrategy(account *BankAccount, strategy ReconciliationStrategy) (ReconciliationResult, error) {
	return f.run(account, strategy)
}

// CheckConsistency runs an automatic recalculation and returns only its
// consistency flag. Like AutomaticRecalculate, it commits the new balance
// when the result allows it.
func (f *ReconciliationFacade) CheckConsistency(account *BankAccount) (bool, error) {
	result, err := f.AutomaticRecalculate(account)
	if err != nil {
		return false, err
	}
	return result.IsConsistent, nil
}

// GetBalanceDifference runs an automatic recalculation without committing
// and returns only the difference between the computed and stored balances.
func (f *ReconciliationFacade) GetBalanceDifference(account *BankAccount) (Money, error) {
	result, err := f.run(account, AutomaticStrategy{})
	if err != nil {
		return Money{}, err
	}
	return result.Difference, nil
}
