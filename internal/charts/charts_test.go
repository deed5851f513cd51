package charts

import (
	"bytes"
	"errors"
	"testing"

	"github.com/lachiem1/fintrack/internal/finance"
	"github.com/lachiem1/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestDailyExpensesRendersPNG(t *testing.T) {
	bars := []finance.DailyBar{
		{Day: 12, Total: decimal.NewFromInt(20000)},
		{Day: 13, Total: decimal.Zero},
		{Day: 14, Total: decimal.NewFromInt(45000), Today: true},
	}

	var buf bytes.Buffer
	if err := DailyExpenses(&buf, model.MonthKey("2026-10"), bars); err != nil {
		t.Fatalf("DailyExpenses() unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngSignature) {
		t.Fatal("DailyExpenses() output is not a PNG")
	}
}

func TestDailyExpensesNoData(t *testing.T) {
	bars := []finance.DailyBar{{Day: 1, Total: decimal.Zero, Today: true}}
	var buf bytes.Buffer
	if err := DailyExpenses(&buf, model.MonthKey("2026-10"), bars); !errors.Is(err, ErrNoData) {
		t.Fatalf("DailyExpenses() error = %v, want ErrNoData", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("DailyExpenses() wrote %d bytes, want 0", buf.Len())
	}
}

func TestCategoryShareRendersPNG(t *testing.T) {
	stats := []finance.CategoryStat{
		{Category: model.Category{ID: "c1", Name: "Food", Color: "#f97316"}, Total: decimal.NewFromInt(60000), SharePct: 60},
		{Category: model.Category{ID: "c2", Name: "Transport", Color: "#3b82f6"}, Total: decimal.NewFromInt(39500), SharePct: 39.5},
		{Category: model.Category{ID: "c3", Name: "Tiny"}, Total: decimal.NewFromInt(500), SharePct: 0.5},
	}

	var buf bytes.Buffer
	if err := CategoryShare(&buf, model.MonthKey("2026-10"), stats); err != nil {
		t.Fatalf("CategoryShare() unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngSignature) {
		t.Fatal("CategoryShare() output is not a PNG")
	}
}

func TestCategoryShareNoData(t *testing.T) {
	stats := []finance.CategoryStat{
		{Category: model.Category{ID: "c3", Name: "Tiny"}, Total: decimal.NewFromInt(1), SharePct: 0.2},
	}
	if err := CategoryShare(&bytes.Buffer{}, model.MonthKey("2026-10"), stats); !errors.Is(err, ErrNoData) {
		t.Fatalf("CategoryShare() error = %v, want ErrNoData", err)
	}
}
