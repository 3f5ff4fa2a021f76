package bookkeep

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNegativeBalance is returned when a balance update would leave an
// account with a negative stored balance.
var ErrNegativeBalance = errors.New("balance cannot be negative")

// BankAccount is a named account holding a stored balance.
//
// The stored balance is mutated only through UpdateBalance, which rejects
// negative values. The reconciliation engine compares this stored balance
// against the balance implied by the operation ledger.
type BankAccount struct {
	id      uuid.UUID
	name    string
	balance Money
}

// NewBankAccount creates an account with the given display name and initial
// balance. The name must not be blank and the initial balance must not be
// negative.
func NewBankAccount(name string, initial Money) (*BankAccount, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("bank account name cannot be empty")
	}
	if initial.IsNegative() {
		return nil, fmt.Errorf("initial balance %s: %w", initial, ErrNegativeBalance)
	}
	return &BankAccount{id: uuid.New(), name: name, balance: initial}, nil
}

// ID returns the account's unique identifier.
func (a *BankAccount) ID() uuid.UUID { return a.id }

// Name returns the account's display name.
func (a *BankAccount) Name() string { return a.name }

// Balance returns the stored balance.
func (a *BankAccount) Balance() Money { return a.balance }

// UpdateBalance overwrites the stored balance. It rejects negative values.
func (a *BankAccount) UpdateBalance(newBalance Money) error {
	if newBalance.IsNegative() {
		return fmt.Errorf("update balance of %q to %s: %w", a.name, newBalance, ErrNegativeBalance)
	}
	a.balance = newBalance
	return nil
}
