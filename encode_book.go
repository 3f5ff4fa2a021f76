package bookkeep

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// this file handles the book file format used by the bkp tool: a single
// human-readable JSON document holding accounts, categories, and operations.
// Entities are referenced by name; identifiers are rebuilt on load.

type jsonAccount struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

type jsonCategory struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type jsonOperation struct {
	Kind        string          `json:"kind"`
	Account     string          `json:"account"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        Date            `json:"date"`
	Description string          `json:"description,omitempty"`
}

type jsonBook struct {
	Accounts   []jsonAccount   `json:"accounts"`
	Categories []jsonCategory  `json:"categories"`
	Operations []jsonOperation `json:"operations"`
}

// DecodeBook reads a book from its JSON file representation.
func DecodeBook(r io.Reader) (*Book, error) {
	var jb jsonBook
	if err := json.NewDecoder(r).Decode(&jb); err != nil {
		return nil, fmt.Errorf("cannot parse book file: %w", err)
	}

	book := NewBook()
	for _, ja := range jb.Accounts {
		if _, err := book.AddAccount(ja.Name, M(ja.Balance, "")); err != nil {
			return nil, fmt.Errorf("invalid account %q in book file: %w", ja.Name, err)
		}
	}
	for _, jc := range jb.Categories {
		kind, err := ParseKind(jc.Kind)
		if err != nil {
			return nil, fmt.Errorf("invalid category %q in book file: %w", jc.Name, err)
		}
		if _, err := book.AddCategory(jc.Name, kind); err != nil {
			return nil, fmt.Errorf("invalid category %q in book file: %w", jc.Name, err)
		}
	}
	for i, jo := range jb.Operations {
		kind, err := ParseKind(jo.Kind)
		if err != nil {
			return nil, fmt.Errorf("invalid operation %d in book file: %w", i, err)
		}
		account, ok := book.AccountByName(jo.Account)
		if !ok {
			return nil, fmt.Errorf("operation %d in book file references unknown account %q", i, jo.Account)
		}
		category, ok := book.CategoryByName(jo.Category)
		if !ok {
			return nil, fmt.Errorf("operation %d in book file references unknown category %q", i, jo.Category)
		}
		op, err := NewOperation(kind, account, category, M(jo.Amount, ""), jo.Date, jo.Description)
		if err != nil {
			return nil, fmt.Errorf("invalid operation %d in book file: %w", i, err)
		}
		book.Append(op)
	}
	return book, nil
}

// EncodeBook writes the book to 'w' in its JSON file representation, with
// accounts and categories sorted by name and operations in chronological
// order.
func EncodeBook(w io.Writer, b *Book) error {
	jb := jsonBook{
		Accounts:   []jsonAccount{},
		Categories: []jsonCategory{},
		Operations: []jsonOperation{},
	}

	names := make(map[string]string) // entity id to name, for operation references
	for account := range b.Accounts() {
		names[account.ID().String()] = account.Name()
		jb.Accounts = append(jb.Accounts, jsonAccount{Name: account.Name(), Balance: account.Balance().Value()})
	}
	for category := range b.Categories() {
		names[category.ID().String()] = category.Name()
		jb.Categories = append(jb.Categories, jsonCategory{Name: category.Name(), Kind: category.Kind().String()})
	}
	for _, op := range b.Operations() {
		jb.Operations = append(jb.Operations, jsonOperation{
			Kind:        op.Kind().String(),
			Account:     names[op.AccountID().String()],
			Category:    names[op.CategoryID().String()],
			Amount:      op.Amount().Value(),
			Date:        op.When(),
			Description: op.Description(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jb); err != nil {
		return fmt.Errorf("cannot write book file: %w", err)
	}
	return nil
}
