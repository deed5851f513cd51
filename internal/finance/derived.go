package finance

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/lachiem1/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

type CategoryStat struct {
	Category model.Category
	Total    decimal.Decimal
	// SharePct is this category's part of the month's total expense.
	SharePct float64
	Limit    decimal.Decimal
	HasLimit bool
	// LimitPct is spending against the limit, capped at 100.
	LimitPct float64
}

// CategoryStats breaks the month's expense down per category, largest
// first. Expense booked against unknown categories is left out.
func CategoryStats(snap Snapshot, categories []model.Category, limits map[string]decimal.Decimal) []CategoryStat {
	byID := indexCategories(categories)
	out := make([]CategoryStat, 0, len(snap.ExpenseByCategory))
	for id, total := range snap.ExpenseByCategory {
		cat, ok := byID[id]
		if !ok {
			continue
		}
		stat := CategoryStat{
			Category: cat,
			Total:    total,
			SharePct: percentOf(total, snap.TotalExpense),
		}
		if limit, ok := limits[id]; ok && limit.IsPositive() {
			stat.Limit = limit
			stat.HasLimit = true
			stat.LimitPct = clampPct(percentOf(total, limit))
		}
		out = append(out, stat)
	}

	slices.SortFunc(out, func(a, b CategoryStat) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Category.Name, b.Category.Name)
	})
	return out
}

type DailyBar struct {
	Day   int
	Total decimal.Decimal
	// Pct is relative to the month's largest day.
	Pct   float64
	Today bool
}

// DailyBars returns one bar per day for the last span days of the month up
// to and including today.
func DailyBars(snap Snapshot, today time.Time, span int) []DailyBar {
	if span <= 0 {
		return []DailyBar{}
	}
	day := today.Day()
	start := max(1, day-span+1)

	peak := decimal.NewFromInt(1)
	for _, v := range snap.DailyExpenses {
		peak = decimal.Max(peak, v)
	}

	out := make([]DailyBar, 0, day-start+1)
	for d := start; d <= day; d++ {
		total := snap.DailyExpenses[d]
		out = append(out, DailyBar{
			Day:   d,
			Total: total,
			Pct:   percentOf(total, peak),
			Today: d == day,
		})
	}
	return out
}

// HasDailyData reports whether any day of the month has expense.
func HasDailyData(snap Snapshot) bool {
	for _, v := range snap.DailyExpenses {
		if v.IsPositive() {
			return true
		}
	}
	return false
}

// RecentTransactions returns the n newest transactions by date. Records on
// the same date keep their view order.
func RecentTransactions(txns []model.Transaction, n int) []model.Transaction {
	out := sortedByDateDesc(txns)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

type CategoryLimitUsage struct {
	Category model.Category
	Spent    decimal.Decimal
	Limit    decimal.Decimal
	HasLimit bool
	Pct      float64
}

// LimitUsage reports spending against limits for every category that can
// hold expense, in category order.
func LimitUsage(txns []model.Transaction, categories []model.Category, limits map[string]decimal.Decimal) []CategoryLimitUsage {
	spent := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if t.Kind == model.KindExpense {
			spent[t.CategoryID] = spent[t.CategoryID].Add(t.Amount)
		}
	}

	out := make([]CategoryLimitUsage, 0, len(categories))
	for _, c := range categories {
		if !c.Accepts(model.KindExpense) {
			continue
		}
		usage := CategoryLimitUsage{Category: c, Spent: spent[c.ID]}
		if limit, ok := limits[c.ID]; ok && limit.IsPositive() {
			usage.Limit = limit
			usage.HasLimit = true
			usage.Pct = clampPct(percentOf(usage.Spent, limit))
		}
		out = append(out, usage)
	}
	return out
}

type CategoryCard struct {
	Category model.Category
	Count    int
	// Net counts expense as positive and income as negative.
	Net       decimal.Decimal
	Deletable bool
}

// CategoryCards summarises the page view per category.
func CategoryCards(txns []model.Transaction, categories []model.Category) []CategoryCard {
	out := make([]CategoryCard, 0, len(categories))
	for _, c := range categories {
		card := CategoryCard{Category: c, Deletable: !model.IsDefaultCategory(c.ID)}
		for _, t := range txns {
			if t.CategoryID != c.ID {
				continue
			}
			card.Count++
			if t.Kind == model.KindExpense {
				card.Net = card.Net.Add(t.Amount)
			} else {
				card.Net = card.Net.Sub(t.Amount)
			}
		}
		out = append(out, card)
	}
	return out
}

// TxnFilter narrows a transaction list. Zero fields match everything.
type TxnFilter struct {
	Kind       model.Kind
	CategoryID string
	Search     string
}

// Filter applies f and sorts the result newest first.
func Filter(txns []model.Transaction, f TxnFilter) []model.Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if f.Kind != "" && t.Kind != f.Kind {
			continue
		}
		if f.CategoryID != "" && t.CategoryID != f.CategoryID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		out = append(out, t)
	}
	return sortedByDateDesc(out)
}

func sortedByDateDesc(txns []model.Transaction) []model.Transaction {
	out := slices.Clone(txns)
	if out == nil {
		out = []model.Transaction{}
	}
	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		return cmp.Compare(b.Date, a.Date)
	})
	return out
}

func indexCategories(categories []model.Category) map[string]model.Category {
	byID := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return byID
}
