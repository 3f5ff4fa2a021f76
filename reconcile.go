package bookkeep

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryResolver maps a category identifier to its current definition. It
// fails when the identifier is unknown; strategies absorb that failure as a
// per-operation error.
type CategoryResolver func(uuid.UUID) (Category, error)

// tolerance is the threshold below which a balance difference is treated as
// rounding noise, not a real inconsistency.
var tolerance = M(decimal.New(1, -2), "") // 0.01 currency units

// ReconciliationResult reports the outcome of recomputing an account balance
// from its operation history.
//
// Errors holds human-readable messages in the order in which the offending
// operations were processed. A reconciliation never fails as a whole: the
// result always comes back, and inconsistencies are reported through
// IsConsistent and Errors.
type ReconciliationResult struct {
	OldBalance          Money    // stored balance, read before any mutation
	NewBalance          Money    // strategy-computed balance
	Difference          Money    // NewBalance - OldBalance
	IsConsistent        bool     // per-strategy consistency criterion
	Errors              []string // soft errors, in processing order
	OperationsProcessed int
}

// ReconciliationStrategy is a policy that recomputes an account's balance
// from the full operation ledger.
//
// Implementations must filter the ledger down to the given account's
// operations, absorb per-operation failures into the result's error list,
// and always return a result.
type ReconciliationStrategy interface {
	// Name returns a short human-readable description of the policy.
	Name() string
	// Recalculate computes the reconciliation result for one account.
	Recalculate(account *BankAccount, operations []Operation, resolve CategoryResolver) ReconciliationResult
}

// accountOperations filters the ledger down to the operations of one
// account, sorted by ascending date. The sort is stable so same-day
// operations keep the enumeration order.
func accountOperations(operations []Operation, accountID uuid.UUID) []Operation {
	ops := make([]Operation, 0, len(operations))
	for _, op := range operations {
		if op.AccountID() == accountID {
			ops = append(ops, op)
		}
	}
	sort.SliceStable(ops, func(i, j int) bool {
		return ops[i].When().Before(ops[j].When())
	})
	return ops
}

// kindMismatch reports whether the operation's kind disagrees with its
// category's kind (an income operation against an expense category, or the
// other way around).
func kindMismatch(op Operation, category Category) bool {
	return op.Kind() != category.Kind()
}

// withinTolerance reports whether a difference is small enough to be
// rounding noise.
func withinTolerance(diff Money) bool {
	return diff.Abs().LessThan(tolerance)
}

// AutomaticStrategy recomputes the balance purely from the valid operations
// of the account: income adds, expense subtracts, kind mismatches are
// reported and excluded from the sum.
type AutomaticStrategy struct{}

func (AutomaticStrategy) Name() string { return "automatic recalculation" }

func (AutomaticStrategy) Recalculate(account *BankAccount, operations []Operation, resolve CategoryResolver) ReconciliationResult {
	result := ReconciliationResult{OldBalance: account.Balance()}

	computed := M(decimal.Zero, account.Balance().Currency())
	for _, op := range accountOperations(operations, account.ID()) {
		category, err := resolve(op.CategoryID())
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error processing operation %s: %v", op.ID(), err))
			continue
		}
		if kindMismatch(op, category) {
			result.Errors = append(result.Errors, fmt.Sprintf("kind mismatch between operation %s and category %s", op.ID(), category.ID()))
			continue
		}

		if op.Kind() == Income {
			computed = computed.Add(op.Amount())
		} else {
			computed = computed.Sub(op.Amount())
		}
		result.OperationsProcessed++
	}

	result.NewBalance = computed
	result.Difference = computed.Sub(result.OldBalance)
	result.IsConsistent = withinTolerance(result.Difference)
	return result
}

// ManualStrategy sets the balance to an externally supplied target instead
// of the ledger-derived sum. The ledger is still scanned for kind mismatches
// and a ledger-derived sum is accumulated as an advisory cross-check.
type ManualStrategy struct {
	target Money
}

// NewManualStrategy creates a manual strategy for the given target balance.
func NewManualStrategy(target Money) ManualStrategy {
	return ManualStrategy{target: target}
}

func (ManualStrategy) Name() string { return "manual recalculation" }

func (s ManualStrategy) Recalculate(account *BankAccount, operations []Operation, resolve CategoryResolver) ReconciliationResult {
	old := account.Balance()
	result := ReconciliationResult{
		OldBalance:   old,
		NewBalance:   s.target,
		Difference:   s.target.Sub(old),
		IsConsistent: withinTolerance(s.target.Sub(old)),
	}

	// The scan below deliberately keeps the raw enumeration order and counts
	// every operation of the account, valid or not. Mismatched operations
	// are reported but still summed: the cross-check sum reflects the ledger
	// as recorded.
	computed := M(decimal.Zero, old.Currency())
	for _, op := range operations {
		if op.AccountID() != account.ID() {
			continue
		}
		result.OperationsProcessed++

		category, err := resolve(op.CategoryID())
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error processing operation %s: %v", op.ID(), err))
			continue
		}
		if kindMismatch(op, category) {
			result.Errors = append(result.Errors, fmt.Sprintf("kind mismatch between operation %s and category %s", op.ID(), category.ID()))
		}

		if op.Kind() == Income {
			computed = computed.Add(op.Amount())
		} else {
			computed = computed.Sub(op.Amount())
		}
	}

	if computed.Sub(s.target).Abs().GreaterThan(tolerance) {
		result.Errors = append(result.Errors, fmt.Sprintf("warning: manual balance (%s) does not match the calculated one (%s)", s.target, computed))
	}

	return result
}

// ValidatingStrategy recomputes the balance like AutomaticStrategy and
// additionally audits the ledger: duplicate operation identifiers,
// non-positive amounts, and balance-goes-negative transitions are reported.
// Duplicates, mismatches and non-positive amounts are excluded from the sum;
// a negative-balance transition keeps the already-applied subtraction.
type ValidatingStrategy struct{}

func (ValidatingStrategy) Name() string { return "recalculation with validation" }

func (ValidatingStrategy) Recalculate(account *BankAccount, operations []Operation, resolve CategoryResolver) ReconciliationResult {
	result := ReconciliationResult{OldBalance: account.Balance()}

	computed := M(decimal.Zero, account.Balance().Currency())
	seen := make(map[uuid.UUID]struct{})

	for _, op := range accountOperations(operations, account.ID()) {
		if _, dup := seen[op.ID()]; dup {
			result.Errors = append(result.Errors, fmt.Sprintf("duplicate operation %s", op.ID()))
			continue
		}
		seen[op.ID()] = struct{}{}

		category, err := resolve(op.CategoryID())
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error processing operation %s: %v", op.ID(), err))
			continue
		}
		if kindMismatch(op, category) {
			result.Errors = append(result.Errors, fmt.Sprintf("kind mismatch between operation %s and category %s", op.ID(), category.ID()))
			continue
		}
		if !op.Amount().IsPositive() {
			result.Errors = append(result.Errors, fmt.Sprintf("operation %s has a non-positive amount", op.ID()))
			continue
		}

		if op.Kind() == Income {
			computed = computed.Add(op.Amount())
		} else {
			computed = computed.Sub(op.Amount())
			if computed.IsNegative() {
				// Reported but not rolled back: the result reflects the dip.
				result.Errors = append(result.Errors, fmt.Sprintf("after operation %s the balance becomes negative: %s", op.ID(), computed))
			}
		}
		result.OperationsProcessed++
	}

	result.NewBalance = computed
	result.Difference = computed.Sub(result.OldBalance)
	result.IsConsistent = withinTolerance(result.Difference) && len(result.Errors) == 0
	return result
}
