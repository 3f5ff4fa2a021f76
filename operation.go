package bookkeep

import (
	"errors"

	"github.com/google/uuid"
)

// Operation records a single income or expense against an account.
//
// An operation references its account and category by identifier only; both
// are resolved through caller-supplied lookups when needed. Operations are
// immutable once created.
type Operation struct {
	id          uuid.UUID
	kind        Kind
	accountID   uuid.UUID
	categoryID  uuid.UUID
	amount      Money
	date        Date
	description string
}

// NewOperation records an operation of the given kind against an account and
// category. The amount's sign is not validated here: a non-positive amount is
// a reconcilable defect reported by the validating strategy, not a
// construction error.
func NewOperation(kind Kind, account *BankAccount, category Category, amount Money, on Date, description string) (Operation, error) {
	if account == nil {
		return Operation{}, errors.New("operation requires an account")
	}
	if category.ID() == (uuid.UUID{}) {
		return Operation{}, errors.New("operation requires a category")
	}
	return Operation{
		id:          uuid.New(),
		kind:        kind,
		accountID:   account.ID(),
		categoryID:  category.ID(),
		amount:      amount,
		date:        on,
		description: description,
	}, nil
}

// ID returns the operation's unique identifier.
func (o Operation) ID() uuid.UUID { return o.id }

// Kind returns whether the operation is an income or an expense.
func (o Operation) Kind() Kind { return o.kind }

// AccountID returns the identifier of the owning account.
func (o Operation) AccountID() uuid.UUID { return o.accountID }

// CategoryID returns the identifier of the classifying category.
func (o Operation) CategoryID() uuid.UUID { return o.categoryID }

// Amount returns the monetary amount of the operation.
func (o Operation) Amount() Money { return o.amount }

// When returns the date on which the operation occurred.
func (o Operation) When() Date { return o.date }

// Description returns the optional free-text description.
func (o Operation) Description() string { return o.description }
