package bookkeep

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// AnalyticsFacade computes aggregate views over the operation ledger. Like
// the reconciliation facade it pulls the live operation set fresh at call
// time, optionally restricted to a date range.
type AnalyticsFacade struct {
	getOperations func() []Operation
	resolve       CategoryResolver
}

// NewAnalyticsFacade creates a facade over the given ledger accessors.
func NewAnalyticsFacade(getOperations func() []Operation, resolve CategoryResolver) (*AnalyticsFacade, error) {
	if getOperations == nil {
		return nil, errors.New("analytics facade requires an operation accessor")
	}
	if resolve == nil {
		return nil, errors.New("analytics facade requires a category resolver")
	}
	return &AnalyticsFacade{getOperations: getOperations, resolve: resolve}, nil
}

// Analytics returns an analytics facade wired to this book's ledger.
func (b *Book) Analytics() *AnalyticsFacade {
	f, _ := NewAnalyticsFacade(b.Operations, b.Category)
	return f
}

// filtered returns the live operations restricted to the given range. A zero
// 'from' or 'to' leaves that side unbounded.
func (f *AnalyticsFacade) filtered(from, to Date) []Operation {
	var ops []Operation
	for _, op := range f.getOperations() {
		if !from.IsZero() && op.When().Before(from) {
			continue
		}
		if !to.IsZero() && op.When().After(to) {
			continue
		}
		ops = append(ops, op)
	}
	return ops
}

// BalanceDifferenceReport totals income and expense amounts over a range.
type BalanceDifferenceReport struct {
	Income     Money
	Expense    Money
	Difference Money // Income - Expense
}

// BalanceDifference totals all income and expense amounts in the range and
// their difference.
func (f *AnalyticsFacade) BalanceDifference(from, to Date) BalanceDifferenceReport {
	var report BalanceDifferenceReport
	for _, op := range f.filtered(from, to) {
		if op.Kind() == Income {
			report.Income = report.Income.Add(op.Amount())
		} else {
			report.Expense = report.Expense.Add(op.Amount())
		}
	}
	report.Difference = report.Income.Sub(report.Expense)
	return report
}

// CategoryGroup aggregates the operations of one category.
type CategoryGroup struct {
	CategoryName   string
	Income         Money
	Expense        Money
	Total          Money // Income - Expense
	OperationCount int
}

// GroupByCategory aggregates operations per category, sorted by category
// name. Operations whose category cannot be resolved are grouped under a
// placeholder name carrying the unresolved identifier.
func (f *AnalyticsFacade) GroupByCategory(from, to Date) []CategoryGroup {
	groups := make(map[string]*CategoryGroup)
	for _, op := range f.filtered(from, to) {
		name := ""
		if category, err := f.resolve(op.CategoryID()); err != nil {
			name = fmt.Sprintf("unknown (%s)", op.CategoryID())
		} else {
			name = category.Name()
		}

		group, ok := groups[name]
		if !ok {
			group = &CategoryGroup{CategoryName: name}
			groups[name] = group
		}
		if op.Kind() == Income {
			group.Income = group.Income.Add(op.Amount())
		} else {
			group.Expense = group.Expense.Add(op.Amount())
		}
		group.OperationCount++
	}

	result := make([]CategoryGroup, 0, len(groups))
	for _, group := range groups {
		group.Total = group.Income.Sub(group.Expense)
		result = append(result, *group)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CategoryName < result[j].CategoryName
	})
	return result
}

// AverageAmountReport holds the mean income and expense amounts over a range.
type AverageAmountReport struct {
	AverageIncome  Money
	AverageExpense Money
	IncomeCount    int
	ExpenseCount   int
}

// AverageAmounts computes the mean income and expense amounts in the range.
// An empty side averages to zero.
func (f *AnalyticsFacade) AverageAmounts(from, to Date) AverageAmountReport {
	var report AverageAmountReport
	var income, expense Money
	for _, op := range f.filtered(from, to) {
		if op.Kind() == Income {
			income = income.Add(op.Amount())
			report.IncomeCount++
		} else {
			expense = expense.Add(op.Amount())
			report.ExpenseCount++
		}
	}
	if report.IncomeCount > 0 {
		report.AverageIncome = M(income.Value().Div(decimal.NewFromInt(int64(report.IncomeCount))), income.Currency())
	}
	if report.ExpenseCount > 0 {
		report.AverageExpense = M(expense.Value().Div(decimal.NewFromInt(int64(report.ExpenseCount))), expense.Currency())
	}
	return report
}

// DailyTrendPoint aggregates the operations of one day.
type DailyTrendPoint struct {
	Date           Date
	Income         Money
	Expense        Money
	Net            Money // Income - Expense
	OperationCount int
}

// DailyTrend aggregates operations per day, sorted by ascending date.
func (f *AnalyticsFacade) DailyTrend(from, to Date) []DailyTrendPoint {
	points := make(map[Date]*DailyTrendPoint)
	for _, op := range f.filtered(from, to) {
		point, ok := points[op.When()]
		if !ok {
			point = &DailyTrendPoint{Date: op.When()}
			points[op.When()] = point
		}
		if op.Kind() == Income {
			point.Income = point.Income.Add(op.Amount())
		} else {
			point.Expense = point.Expense.Add(op.Amount())
		}
		point.OperationCount++
	}

	result := make([]DailyTrendPoint, 0, len(points))
	for _, point := range points {
		point.Net = point.Income.Sub(point.Expense)
		result = append(result, *point)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}
