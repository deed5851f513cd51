// Package charts renders dashboard figures as PNG images.
package charts

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lachiem1/fintrack/internal/finance"
	"github.com/lachiem1/fintrack/internal/model"
	"github.com/lachiem1/fintrack/internal/money"
	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to chart")

const (
	barWidth   = 40
	barSpacing = 16
	minShare   = 1.0
)

var (
	expenseColor = drawing.ColorFromHex("ef4444")
	todayColor   = drawing.ColorFromHex("b91c1c")
)

// DailyExpenses draws one bar per day with today's bar highlighted.
func DailyExpenses(w io.Writer, month model.MonthKey, bars []finance.DailyBar) error {
	values := make([]chart.Value, 0, len(bars))
	peak := decimal.Zero
	for _, bar := range bars {
		peak = decimal.Max(peak, bar.Total)
		fill := expenseColor
		if bar.Today {
			fill = todayColor
		}
		values = append(values, chart.Value{
			Label: strconv.Itoa(bar.Day),
			Value: bar.Total.InexactFloat64(),
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: fill,
			},
		})
	}
	if !peak.IsPositive() {
		return ErrNoData
	}

	graph := chart.BarChart{
		Title:      "Daily expenses " + month.Label(),
		TitleStyle: chart.Style{FontSize: 14, FontColor: chart.ColorBlack},
		Width:      120 + len(values)*(barWidth+barSpacing),
		Height:     480,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding:   chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: peak.InexactFloat64()},
			ValueFormatter: func(v any) string {
				f, _ := v.(float64)
				return money.FormatCOP(decimal.NewFromFloat(f).Round(0))
			},
			Style: chart.Style{FontSize: 10, FontColor: chart.ColorBlack},
		},
		Bars: values,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render daily chart: %w", err)
	}
	return nil
}

// CategoryShare draws the month's expense split as a pie. Slices under one
// percent are left out so their labels do not overlap.
func CategoryShare(w io.Writer, month model.MonthKey, stats []finance.CategoryStat) error {
	values := make([]chart.Value, 0, len(stats))
	for _, stat := range stats {
		if stat.SharePct < minShare || !stat.Total.IsPositive() {
			continue
		}
		v := chart.Value{
			Label: fmt.Sprintf("%s: %s (%.1f%%)", stat.Category.Name, money.FormatCOP(stat.Total), stat.SharePct),
			Value: stat.Total.InexactFloat64(),
			Style: chart.Style{FontSize: 11, FontColor: chart.ColorBlack},
		}
		if hex := strings.TrimPrefix(stat.Category.Color, "#"); len(hex) == 6 {
			v.Style.FillColor = drawing.ColorFromHex(hex)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Title:  "Expenses by category " + month.Label(),
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding:   chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
			FillColor: chart.ColorWhite,
		},
	}

	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render category chart: %w", err)
	}
	return nil
}
