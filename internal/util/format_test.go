package util

import "testing"

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{10000, "$10,000.00"},
		{0, "$0.00"},
		{999.999, "$1,000.00"},
		{1234567.89, "$1,234,567.89"},
		{123, "$123.00"},
		{-1234.5, "-$1,234.50"},
	}

	for _, tt := range tests {
		if got := FormatUSD(tt.value); got != tt.want {
			t.Errorf("FormatUSD(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatSignedPercent(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{2.5, "+2.50%"},
		{0, "+0.00%"},
		{-1.234, "-1.23%"},
		{100, "+100.00%"},
	}

	for _, tt := range tests {
		if got := FormatSignedPercent(tt.value); got != tt.want {
			t.Errorf("FormatSignedPercent(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
