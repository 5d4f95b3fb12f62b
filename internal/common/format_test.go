package common

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in       string
		places   int32
		expected string
	}{
		{"0", 2, "0.00"},
		{"999", 2, "999.00"},
		{"1000", 2, "1,000.00"},
		{"10500000", 2, "10,500,000.00"},
		{"25000000.01", 2, "25,000,000.01"},
		{"3750000.0015", 2, "3,750,000.0015"},
		{"-1234.5", 2, "-1,234.50"},
		{"123456", 0, "123,456"},
	}

	for _, tt := range tests {
		got := FormatAmount(decimal.RequireFromString(tt.in), tt.places)
		if got != tt.expected {
			t.Errorf("FormatAmount(%s, %d) = %s, expected %s", tt.in, tt.places, got, tt.expected)
		}
	}
}

func TestShortId(t *testing.T) {
	if got := ShortId(""); got != "none" {
		t.Errorf("Expected none, got %s", got)
	}
	if got := ShortId("abc"); got != "abc" {
		t.Errorf("Expected abc, got %s", got)
	}
	if got := ShortId("0123456789"); got != "01234567..." {
		t.Errorf("Expected truncated id, got %s", got)
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := FormatTimestamp(time.Time{}); got != "-" {
		t.Errorf("Expected -, got %s", got)
	}
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := FormatTimestamp(ts); got != "2025-01-02 03:04:05" {
		t.Errorf("Unexpected timestamp %s", got)
	}
}
