package finance

import (
	"github.com/lachiem1/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Snapshot is the set of dashboard figures for one month. It is never
// stored; Store.Snapshot recomputes it on every call.
type Snapshot struct {
	Month model.MonthKey
	// Stale is set when the current-month view still holds an earlier
	// month; every figure is then reported as empty.
	Stale bool

	TotalIncome     decimal.Decimal
	TotalExpense    decimal.Decimal
	Balance         decimal.Decimal
	Budget          decimal.Decimal
	BudgetUsedPct   float64
	BudgetRemaining decimal.Decimal

	ExpenseByCategory map[string]decimal.Decimal
	DailyExpenses     map[int]decimal.Decimal
	IncomeCount       int
	ExpenseCount      int
}

func computeSnapshot(month model.MonthKey, txns []model.Transaction, budget decimal.Decimal) Snapshot {
	snap := Snapshot{
		Month:             month,
		Budget:            budget,
		ExpenseByCategory: make(map[string]decimal.Decimal),
		DailyExpenses:     make(map[int]decimal.Decimal),
	}

	for _, t := range txns {
		switch t.Kind {
		case model.KindIncome:
			snap.TotalIncome = snap.TotalIncome.Add(t.Amount)
			snap.IncomeCount++
		case model.KindExpense:
			snap.TotalExpense = snap.TotalExpense.Add(t.Amount)
			snap.ExpenseCount++
			snap.ExpenseByCategory[t.CategoryID] = snap.ExpenseByCategory[t.CategoryID].Add(t.Amount)
			if day := model.DayOfMonth(t.Date); day > 0 {
				snap.DailyExpenses[day] = snap.DailyExpenses[day].Add(t.Amount)
			}
		}
	}

	snap.Balance = snap.TotalIncome.Sub(snap.TotalExpense)
	if budget.IsPositive() {
		snap.BudgetUsedPct = clampPct(percentOf(snap.TotalExpense, budget))
	}
	snap.BudgetRemaining = decimal.Max(budget.Sub(snap.TotalExpense), decimal.Zero)
	return snap
}

// percentOf returns part/whole*100, or 0 when whole is not positive.
func percentOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}

func clampPct(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
