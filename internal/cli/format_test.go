package cli

import (
	"testing"
	"time"

	"github.com/subwatchdev/subwatch/internal/model"
)

func TestFormatMoneyTiers(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{4.5, "$4.50"},
		{9.99, "$9.99"},
		{15.99, "$16.0"},
		{54.99, "$55.0"},
		{120, "$120"},
		{999.4, "$999"},
		{1234.56, "$1,235"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.amount); got != tt.want {
			t.Fatalf("FormatMoney(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}

	if got := FormatExactMoney(15.9); got != "$15.90" {
		t.Fatalf("FormatExactMoney(15.9) = %q, want $15.90", got)
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(25.98, 20.00); got != "+$5.98" {
		t.Fatalf("FormatDelta(25.98, 20) = %q, want +$5.98", got)
	}
	if got := FormatDelta(20.00, 25.98); got != "-$5.98" {
		t.Fatalf("FormatDelta(20, 25.98) = %q, want -$5.98", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{123, "123"},
		{1234, "1,234"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Fatalf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatRelativeDays(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{-2, "2 days ago"},
		{0, "today"},
		{1, "tomorrow"},
		{5, "in 5 days"},
	}
	for _, tt := range tests {
		if got := FormatRelativeDays(tt.days); got != tt.want {
			t.Fatalf("FormatRelativeDays(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestCycleSuffix(t *testing.T) {
	tests := []struct {
		cycle string
		want  string
	}{
		{model.CycleMonthly, "/mo"},
		{model.CycleWeekly, "/wk"},
		{model.CycleAnnual, "/yr"},
		{"one_time", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CycleSuffix(tt.cycle); got != tt.want {
			t.Fatalf("CycleSuffix(%q) = %q, want %q", tt.cycle, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "Mar 9, 2025" {
		t.Fatalf("FormatDate = %q, want Mar 9, 2025", got)
	}
	if got := FormatDate(time.Time{}); got != "-" {
		t.Fatalf("FormatDate(zero) = %q, want -", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "0s"},
		{45, "45s"},
		{125, "2m"},
		{3725, "1h 2m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.secs); got != tt.want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline(nil); got != "" {
		t.Fatalf("RenderSparkline(nil) = %q, want empty", got)
	}
	if got := RenderSparkline([]float64{0, 1, 2, 4}); got != "▁▂▄█" {
		t.Fatalf("RenderSparkline = %q, want ▁▂▄█", got)
	}
}

func TestRenderBar(t *testing.T) {
	if got := RenderBar(5, 10, 10); got != "█████" {
		t.Fatalf("RenderBar(5, 10, 10) = %q, want 5 blocks", got)
	}
	if got := RenderBar(0, 10, 10); got != "" {
		t.Fatalf("RenderBar(0, 10, 10) = %q, want empty", got)
	}
	if got := RenderBar(0.01, 100, 10); got != "█" {
		t.Fatalf("RenderBar(tiny) = %q, want single block", got)
	}
}
