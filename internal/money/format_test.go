package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatCOP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "$0"},
		{in: "999", want: "$999"},
		{in: "1000", want: "$1.000"},
		{in: "1234567", want: "$1.234.567"},
		{in: "-45000", want: "$45.000"},
		{in: "1500.5", want: "$1.500,5"},
		{in: "12.34567", want: "$12,346"},
		{in: "100.10", want: "$100,1"},
	}

	for _, tt := range tests {
		got := FormatCOP(decimal.RequireFromString(tt.in))
		if got != tt.want {
			t.Fatalf("FormatCOP(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSigned(t *testing.T) {
	if got := FormatSigned(decimal.NewFromInt(-2500)); got != "-$2.500" {
		t.Fatalf("FormatSigned(-2500) = %q, want -$2.500", got)
	}
	if got := FormatSigned(decimal.NewFromInt(2500)); got != "$2.500" {
		t.Fatalf("FormatSigned(2500) = %q, want $2.500", got)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "$ 45000", want: "45000"},
		{in: "1_000.25", want: "1000.25"},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseAmount(%q) error = nil, want non-nil", tt.in)
			}
			continue
		}
		if err != nil || !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("ParseAmount(%q) = %s, %v, want %s", tt.in, got, err, tt.want)
		}
	}
}

func TestFormatPct(t *testing.T) {
	if got := FormatPct(42.4); got != "42%" {
		t.Fatalf("FormatPct(42.4) = %q, want 42%%", got)
	}
}
