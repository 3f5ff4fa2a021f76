package cmd

import (
	"strings"
	"testing"

	"github.com/etnz/bookkeep"
)

func TestMarkdownTable(t *testing.T) {
	got := markdownTable([]string{"A", "B"}, [][]string{{"1", "2"}, {"3", "4"}})
	want := "| A | B |\n|---|---|\n| 1 | 2 |\n| 3 | 4 |\n"
	if got != want {
		t.Errorf("markdownTable =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteResultMarkdown(t *testing.T) {
	result := bookkeep.ReconciliationResult{
		OldBalance:          bookkeep.M(100, "EUR"),
		NewBalance:          bookkeep.M(250, "EUR"),
		Difference:          bookkeep.M(150, "EUR"),
		IsConsistent:        false,
		Errors:              []string{"something went wrong"},
		OperationsProcessed: 3,
	}

	var md strings.Builder
	writeResultMarkdown(&md, "Checking", result)
	out := md.String()

	for _, want := range []string{"## Checking", "inconsistent", "- something went wrong", "| 3 |"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
