package bookkeep

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ImportRecord is one flat operation record parsed from an import file,
// with account and category referenced by name.
type ImportRecord struct {
	AccountName   string
	CategoryName  string
	CategoryKind  Kind
	OperationKind Kind
	Amount        Money
	Date          Date
	Description   string
}

// ImportResult reports the outcome of an import: the operations built from
// the file, the records that could not be processed, and the success count.
// An import is a partial-failure affair: one bad record does not invalidate
// the others.
type ImportResult struct {
	Operations   []Operation
	Errors       []string
	SuccessCount int
}

// AccountProvider resolves an account by display name, typically creating
// it on first use.
type AccountProvider func(name string) (*BankAccount, error)

// CategoryProvider resolves a category by display name and kind, typically
// creating it on first use.
type CategoryProvider func(name string, kind Kind) (Category, error)

// Importer reads operation records from one file format. All formats share
// the same processing loop; only the parsing step differs.
type Importer struct {
	format string
	parse  func(content []byte) (records []ImportRecord, errs []string, err error)
}

// Format returns the name of the file format this importer reads.
func (im *Importer) Format() string { return im.format }

// Import parses the content of 'r' and builds one operation per valid
// record, resolving accounts and categories by name through the providers.
// Per-record failures are collected in the result; only an unreadable or
// structurally malformed file fails the import as a whole.
func (im *Importer) Import(r io.Reader, accounts AccountProvider, categories CategoryProvider) (*ImportResult, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s import data: %w", im.format, err)
	}
	records, errs, err := im.parse(content)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s import data: %w", im.format, err)
	}

	result := &ImportResult{Errors: errs}
	for _, record := range records {
		account, err := accounts(record.AccountName)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record for account %q: %v", record.AccountName, err))
			continue
		}
		category, err := categories(record.CategoryName, record.CategoryKind)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record for category %q: %v", record.CategoryName, err))
			continue
		}
		op, err := NewOperation(record.OperationKind, account, category, record.Amount, record.Date, record.Description)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record for account %q: %v", record.AccountName, err))
			continue
		}
		result.Operations = append(result.Operations, op)
		result.SuccessCount++
	}
	return result, nil
}

// Import merges the operations parsed from 'r' into the book, creating
// referenced accounts and categories on first use.
func (b *Book) Import(importer *Importer, r io.Reader) (*ImportResult, error) {
	result, err := importer.Import(r, b.GetOrCreateAccount, b.GetOrCreateCategory)
	if err != nil {
		return nil, err
	}
	b.Append(result.Operations...)
	return result, nil
}

// NewCSVImporter reads records from CSV lines of the form
//
//	account_name,category_name,category_type,operation_type,amount,date[,description]
//
// An optional header line naming the columns is skipped.
func NewCSVImporter() *Importer {
	return &Importer{format: "csv", parse: parseCSV}
}

func parseCSV(content []byte) ([]ImportRecord, []string, error) {
	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1 // lines carry 6 or 7 fields
	reader.TrimLeadingSpace = true

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	var records []ImportRecord
	var errs []string
	for i, parts := range lines {
		if i == 0 && len(parts) > 0 && strings.EqualFold(strings.TrimSpace(parts[0]), "account_name") {
			continue // header line
		}
		if len(parts) < 6 {
			errs = append(errs, fmt.Sprintf("line %d: want at least 6 fields, got %d", i+1, len(parts)))
			continue
		}
		record, err := newImportRecord(parts[0], parts[1], parts[2], parts[3], parts[4], parts[5], strings.Join(parts[6:], ","))
		if err != nil {
			errs = append(errs, fmt.Sprintf("line %d: %v", i+1, err))
			continue
		}
		records = append(records, record)
	}
	return records, errs, nil
}

// newImportRecord converts the raw string fields shared by all formats into
// a typed record.
func newImportRecord(account, category, categoryKind, operationKind, amount, date, description string) (ImportRecord, error) {
	ck, err := ParseKind(categoryKind)
	if err != nil {
		return ImportRecord{}, fmt.Errorf("category kind: %w", err)
	}
	opk, err := ParseKind(operationKind)
	if err != nil {
		return ImportRecord{}, fmt.Errorf("operation kind: %w", err)
	}
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return ImportRecord{}, fmt.Errorf("amount: %w", err)
	}
	on, err := ParseDate(date)
	if err != nil {
		return ImportRecord{}, err
	}
	return ImportRecord{
		AccountName:   strings.TrimSpace(account),
		CategoryName:  strings.TrimSpace(category),
		CategoryKind:  ck,
		OperationKind: opk,
		Amount:        M(value, ""),
		Date:          on,
		Description:   strings.TrimSpace(description),
	}, nil
}

// jsonOperationRecord mirrors the JSON import format.
type jsonOperationRecord struct {
	AccountName   string          `json:"account_name"`
	CategoryName  string          `json:"category_name"`
	CategoryKind  string          `json:"category_type"`
	OperationKind string          `json:"operation_type"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Description   string          `json:"description,omitempty"`
}

// NewJSONImporter reads records from a JSON array of objects with the
// fields account_name, category_name, category_type, operation_type,
// amount, date, and an optional description.
func NewJSONImporter() *Importer {
	return &Importer{format: "json", parse: parseJSON}
}

func parseJSON(content []byte) ([]ImportRecord, []string, error) {
	var items []jsonOperationRecord
	if err := json.Unmarshal(content, &items); err != nil {
		return nil, nil, err
	}

	var records []ImportRecord
	var errs []string
	for i, item := range items {
		record, err := newImportRecord(item.AccountName, item.CategoryName, item.CategoryKind, item.OperationKind, item.Amount.String(), item.Date, item.Description)
		if err != nil {
			errs = append(errs, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		records = append(records, record)
	}
	return records, errs, nil
}

// yamlOperationRecord mirrors the YAML import format.
type yamlOperationRecord struct {
	AccountName   string  `yaml:"account_name"`
	CategoryName  string  `yaml:"category_name"`
	CategoryKind  string  `yaml:"category_type"`
	OperationKind string  `yaml:"operation_type"`
	Amount        float64 `yaml:"amount"`
	Date          string  `yaml:"date"`
	Description   string  `yaml:"description,omitempty"`
}

// NewYAMLImporter reads records from a YAML sequence of mappings carrying
// the same fields as the JSON format.
func NewYAMLImporter() *Importer {
	return &Importer{format: "yaml", parse: parseYAML}
}

func parseYAML(content []byte) ([]ImportRecord, []string, error) {
	var items []yamlOperationRecord
	if err := yaml.Unmarshal(content, &items); err != nil {
		return nil, nil, err
	}

	var records []ImportRecord
	var errs []string
	for i, item := range items {
		amount := decimal.NewFromFloat(item.Amount)
		record, err := newImportRecord(item.AccountName, item.CategoryName, item.CategoryKind, item.OperationKind, amount.String(), item.Date, item.Description)
		if err != nil {
			errs = append(errs, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		records = append(records, record)
	}
	return records, errs, nil
}
