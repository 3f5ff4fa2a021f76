package bookkeep

import (
	"strings"
	"testing"
)

func TestEncodeDecodeBook(t *testing.T) {
	book, account, salary, groceries := newTestBook(t, "Main", 500)
	record(t, book, Income, account, salary, 2000, "2025-03-01")
	record(t, book, Expense, account, groceries, 150.75, "2025-03-02")

	var sb strings.Builder
	if err := EncodeBook(&sb, book); err != nil {
		t.Fatalf("EncodeBook failed: %v", err)
	}

	loaded, err := DecodeBook(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("DecodeBook failed: %v", err)
	}

	reloaded, ok := loaded.AccountByName("Main")
	if !ok {
		t.Fatal("account Main missing after reload")
	}
	if !reloaded.Balance().Equal(M(500, "")) {
		t.Errorf("balance = %s, want 500", reloaded.Balance())
	}

	category, ok := loaded.CategoryByName("Groceries")
	if !ok {
		t.Fatal("category Groceries missing after reload")
	}
	if category.Kind() != Expense {
		t.Errorf("Groceries kind = %s, want expense", category.Kind())
	}

	ops := loaded.Operations()
	if len(ops) != 2 {
		t.Fatalf("got %d operations, want 2", len(ops))
	}
	if ops[0].When() != MustParse("2025-03-01") || !ops[0].Amount().Equal(M(2000, "")) {
		t.Errorf("first operation = %s %s, want 2000 on 2025-03-01", ops[0].Amount(), ops[0].When())
	}
	if ops[1].AccountID() != reloaded.ID() {
		t.Errorf("operation references account %s, want the reloaded Main", ops[1].AccountID())
	}
	if ops[1].CategoryID() != category.ID() {
		t.Errorf("operation references category %s, want the reloaded Groceries", ops[1].CategoryID())
	}
}

func TestEncodeBook_Format(t *testing.T) {
	book, account, salary, _ := newTestBook(t, "Main", 100)
	record(t, book, Income, account, salary, 10, "2025-03-01")

	var sb strings.Builder
	if err := EncodeBook(&sb, book); err != nil {
		t.Fatalf("EncodeBook failed: %v", err)
	}
	content := sb.String()

	// Entities are referenced by name and amounts are plain numbers.
	for _, want := range []string{
		`"name": "Main"`,
		`"balance": 100`,
		`"kind": "income"`,
		`"account": "Main"`,
		`"category": "Salary"`,
		`"amount": 10`,
		`"date": "2025-03-01"`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("book file missing %q:\n%s", want, content)
		}
	}
}

func TestDecodeBook_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"malformed json", `{`},
		{"unknown kind", `{"accounts":[],"categories":[{"name":"X","kind":"weird"}],"operations":[]}`},
		{"unknown account reference", `{"accounts":[],"categories":[{"name":"Salary","kind":"income"}],
			"operations":[{"kind":"income","account":"Ghost","category":"Salary","amount":1,"date":"2025-03-01"}]}`},
		{"unknown category reference", `{"accounts":[{"name":"Main","balance":0}],"categories":[],
			"operations":[{"kind":"income","account":"Main","category":"Ghost","amount":1,"date":"2025-03-01"}]}`},
		{"invalid date", `{"accounts":[{"name":"Main","balance":0}],"categories":[{"name":"Salary","kind":"income"}],
			"operations":[{"kind":"income","account":"Main","category":"Salary","amount":1,"date":"yesterday"}]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeBook(strings.NewReader(tc.content)); err == nil {
				t.Errorf("DecodeBook = nil error, want a failure")
			}
		})
	}
}
