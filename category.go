package bookkeep

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind tells whether an operation or a category is about income or expenses.
//
// Both operations and categories carry a Kind. The pair is expected to
// agree; a disagreement is detected by the reconciliation engine, not
// rejected at construction time.
type Kind int

const (
	// Income marks operations that increase a balance and the categories
	// that classify them.
	Income Kind = iota
	// Expense marks operations that decrease a balance and the categories
	// that classify them.
	Expense
)

func (k Kind) String() string {
	switch k {
	case Income:
		return "income"
	case Expense:
		return "expense"
	default:
		return "unknown"
	}
}

// ParseKind parses a string into a Kind. It is case-insensitive to accept
// both the lowercase forms used in data files and capitalized forms found in
// older exports.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	default:
		return 0, fmt.Errorf("unknown kind: %q", s)
	}
}

// Category classifies operations. Its kind is fixed at creation.
type Category struct {
	id   uuid.UUID
	name string
	kind Kind
}

// NewCategory creates a category with the given display name and kind.
func NewCategory(name string, kind Kind) (Category, error) {
	if strings.TrimSpace(name) == "" {
		return Category{}, errors.New("category name cannot be empty")
	}
	return Category{id: uuid.New(), name: name, kind: kind}, nil
}

// ID returns the category's unique identifier.
func (c Category) ID() uuid.UUID { return c.id }

// Name returns the category's display name.
func (c Category) Name() string { return c.name }

// Kind returns whether the category classifies income or expenses.
func (c Category) Kind() Kind { return c.kind }
