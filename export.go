package bookkeep

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExportVisitor builds a textual rendition of the book, one entity at a
// time. Operations are visited with their account and category names
// already resolved so visitors stay free of lookups.
type ExportVisitor interface {
	VisitAccount(account *BankAccount)
	VisitCategory(category Category)
	VisitOperation(op Operation, accountName, categoryName string)
	// Build returns the accumulated export text.
	Build() (string, error)
}

// ExportFacade walks the book's accounts, categories, and operations
// through an export visitor.
type ExportFacade struct {
	getAccounts   func() []*BankAccount
	getCategories func() []Category
	getOperations func() []Operation
}

// NewExportFacade creates a facade over the given enumerators. All three
// are required.
func NewExportFacade(getAccounts func() []*BankAccount, getCategories func() []Category, getOperations func() []Operation) (*ExportFacade, error) {
	if getAccounts == nil {
		return nil, errors.New("export facade requires an account enumerator")
	}
	if getCategories == nil {
		return nil, errors.New("export facade requires a category enumerator")
	}
	if getOperations == nil {
		return nil, errors.New("export facade requires an operation enumerator")
	}
	return &ExportFacade{getAccounts: getAccounts, getCategories: getCategories, getOperations: getOperations}, nil
}

// Exporter returns an export facade wired to this book.
func (b *Book) Exporter() *ExportFacade {
	f, _ := NewExportFacade(
		func() []*BankAccount { return slices.Collect(b.Accounts()) },
		func() []Category { return slices.Collect(b.Categories()) },
		b.Operations,
	)
	return f
}

// Export walks accounts, then categories, then operations through the
// visitor and returns the built text.
func (f *ExportFacade) Export(visitor ExportVisitor) (string, error) {
	accounts := f.getAccounts()
	categories := f.getCategories()

	accountNames := make(map[string]string, len(accounts))
	for _, account := range accounts {
		accountNames[account.ID().String()] = account.Name()
		visitor.VisitAccount(account)
	}
	categoryNames := make(map[string]string, len(categories))
	for _, category := range categories {
		categoryNames[category.ID().String()] = category.Name()
		visitor.VisitCategory(category)
	}
	for _, op := range f.getOperations() {
		visitor.VisitOperation(op, accountNames[op.AccountID().String()], categoryNames[op.CategoryID().String()])
	}
	return visitor.Build()
}

// ExportToFile writes the export text to the given file path.
func (f *ExportFacade) ExportToFile(path string, visitor ExportVisitor) error {
	content, err := f.Export(visitor)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("cannot write export file %q: %w", path, err)
	}
	return nil
}

// CSVExportVisitor renders the book as CSV, one section per entity kind,
// each with its own header line.
type CSVExportVisitor struct {
	accounts   [][]string
	categories [][]string
	operations [][]string
}

// NewCSVExportVisitor creates an empty CSV export visitor.
func NewCSVExportVisitor() *CSVExportVisitor { return &CSVExportVisitor{} }

func (v *CSVExportVisitor) VisitAccount(account *BankAccount) {
	v.accounts = append(v.accounts, []string{
		"account", account.ID().String(), account.Name(), account.Balance().Value().String(),
	})
}

func (v *CSVExportVisitor) VisitCategory(category Category) {
	v.categories = append(v.categories, []string{
		"category", category.ID().String(), category.Name(), category.Kind().String(),
	})
}

func (v *CSVExportVisitor) VisitOperation(op Operation, accountName, categoryName string) {
	v.operations = append(v.operations, []string{
		"operation", op.ID().String(), op.Kind().String(),
		op.AccountID().String(), accountName,
		op.CategoryID().String(), categoryName,
		op.Amount().Value().String(), op.When().String(), op.Description(),
	})
}

func (v *CSVExportVisitor) Build() (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	sections := []struct {
		header []string
		rows   [][]string
	}{
		{[]string{"type", "id", "name", "balance"}, v.accounts},
		{[]string{"type", "id", "name", "category_type"}, v.categories},
		{[]string{"type", "id", "operation_type", "account_id", "account_name", "category_id", "category_name", "amount", "date", "description"}, v.operations},
	}
	for _, section := range sections {
		if len(section.rows) == 0 {
			continue
		}
		if err := w.Write(section.header); err != nil {
			return "", err
		}
		if err := w.WriteAll(section.rows); err != nil {
			return "", err
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}

// JSONExportVisitor renders the book as a JSON array of typed entries.
type JSONExportVisitor struct {
	entries []json.RawMessage
	err     error
}

// NewJSONExportVisitor creates an empty JSON export visitor.
func NewJSONExportVisitor() *JSONExportVisitor { return &JSONExportVisitor{} }

func (v *JSONExportVisitor) append(w *jsonObjectWriter) {
	entry, err := w.MarshalJSON()
	if err != nil && v.err == nil {
		v.err = err
		return
	}
	v.entries = append(v.entries, entry)
}

func (v *JSONExportVisitor) VisitAccount(account *BankAccount) {
	var w jsonObjectWriter
	w.Append("type", "account")
	w.Append("id", account.ID().String())
	w.Append("name", account.Name())
	w.Append("balance", account.Balance().Value())
	v.append(&w)
}

func (v *JSONExportVisitor) VisitCategory(category Category) {
	var w jsonObjectWriter
	w.Append("type", "category")
	w.Append("id", category.ID().String())
	w.Append("name", category.Name())
	w.Append("category_type", category.Kind().String())
	v.append(&w)
}

func (v *JSONExportVisitor) VisitOperation(op Operation, accountName, categoryName string) {
	var w jsonObjectWriter
	w.Append("type", "operation")
	w.Append("id", op.ID().String())
	w.Append("operation_type", op.Kind().String())
	w.Append("account_id", op.AccountID().String())
	w.Append("account_name", accountName)
	w.Append("category_id", op.CategoryID().String())
	w.Append("category_name", categoryName)
	w.Append("amount", op.Amount().Value())
	w.Append("date", op.When())
	w.Optional("description", op.Description())
	v.append(&w)
}

func (v *JSONExportVisitor) Build() (string, error) {
	if v.err != nil {
		return "", v.err
	}
	content, err := json.MarshalIndent(v.entries, "", "  ")
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// yamlExportEntry is one entity in the YAML export. Unused fields are
// omitted per entity kind.
type yamlExportEntry struct {
	Type          string  `yaml:"type"`
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name,omitempty"`
	Balance       float64 `yaml:"balance,omitempty"`
	CategoryKind  string  `yaml:"category_type,omitempty"`
	OperationKind string  `yaml:"operation_type,omitempty"`
	AccountID     string  `yaml:"account_id,omitempty"`
	AccountName   string  `yaml:"account_name,omitempty"`
	CategoryID    string  `yaml:"category_id,omitempty"`
	CategoryName  string  `yaml:"category_name,omitempty"`
	Amount        float64 `yaml:"amount,omitempty"`
	Date          string  `yaml:"date,omitempty"`
	Description   string  `yaml:"description,omitempty"`
}

// YAMLExportVisitor renders the book as a YAML sequence of typed entries.
type YAMLExportVisitor struct {
	entries []yamlExportEntry
}

// NewYAMLExportVisitor creates an empty YAML export visitor.
func NewYAMLExportVisitor() *YAMLExportVisitor { return &YAMLExportVisitor{} }

func (v *YAMLExportVisitor) VisitAccount(account *BankAccount) {
	v.entries = append(v.entries, yamlExportEntry{
		Type:    "account",
		ID:      account.ID().String(),
		Name:    account.Name(),
		Balance: account.Balance().Value().InexactFloat64(),
	})
}

func (v *YAMLExportVisitor) VisitCategory(category Category) {
	v.entries = append(v.entries, yamlExportEntry{
		Type:         "category",
		ID:           category.ID().String(),
		Name:         category.Name(),
		CategoryKind: category.Kind().String(),
	})
}

func (v *YAMLExportVisitor) VisitOperation(op Operation, accountName, categoryName string) {
	v.entries = append(v.entries, yamlExportEntry{
		Type:          "operation",
		ID:            op.ID().String(),
		OperationKind: op.Kind().String(),
		AccountID:     op.AccountID().String(),
		AccountName:   accountName,
		CategoryID:    op.CategoryID().String(),
		CategoryName:  categoryName,
		Amount:        op.Amount().Value().InexactFloat64(),
		Date:          op.When().String(),
		Description:   op.Description(),
	})
}

func (v *YAMLExportVisitor) Build() (string, error) {
	content, err := yaml.Marshal(v.entries)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
