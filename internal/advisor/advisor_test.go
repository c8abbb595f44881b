package advisor

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/subwatchdev/subwatch/internal/config"
	"github.com/subwatchdev/subwatch/internal/model"
)

func TestNilAdvisorIsDisabled(t *testing.T) {
	var a *Advisor
	if a.Enabled() {
		t.Fatal("nil advisor reports enabled")
	}
	if _, err := a.Advise(context.Background(), "anything"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("err = %v, want ErrDisabled", err)
	}
	a.Close()
}

func TestNewWithoutKeyReturnsNil(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	cfg := config.DefaultConfig()
	cfg.Advisor.APIKey = ""

	if New(cfg) != nil {
		t.Fatal("want nil advisor without an api key")
	}
}

func TestExtractLines(t *testing.T) {
	msg := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: "1. Cancel Hulu\n\n- Switch Spotify to annual billing\n2) Share the Netflix plan"},
		},
	}

	got := extractLines(msg)
	want := []string{
		"Cancel Hulu",
		"Switch Spotify to annual billing",
		"Share the Netflix plan",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("extractLines = %q, want %q", got, want)
	}
}

func TestTrimListNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1. Foo", "Foo"},
		{"12) Bar", "Bar"},
		{"Plain line", "Plain line"},
		{"2024 was expensive", "2024 was expensive"},
		{"3.", "3."},
	}
	for _, tt := range tests {
		if got := trimListNumber(tt.in); got != tt.want {
			t.Errorf("trimListNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildDigestDeterministic(t *testing.T) {
	budget := 50.0
	summary := model.SummaryStats{
		TotalSubscriptions:  3,
		ActiveSubscriptions: 2,
		MonthlyTotal:        25.98,
		AnnualTotal:         311.76,
		TopName:             "Netflix",
		TopMonthly:          15.99,
		Categories: []model.CategoryStats{
			{Category: model.CategoryEntertainment, Count: 2, MonthlyTotal: 25.98, SharePercent: 100},
		},
	}
	stats := model.BudgetStats{MonthlyBudget: &budget, ProjectedMonthly: 25.98, BudgetUsedPercent: 52}
	savings := []model.SavingsOpportunity{
		{Type: model.SavingsSwitchToAnnual, Name: "Spotify", PotentialMonthlySavings: 1.75, Detail: "annual plan is cheaper"},
	}

	first := BuildDigest(summary, stats, savings)
	second := BuildDigest(summary, stats, savings)
	if first != second {
		t.Fatal("digest not deterministic for identical input")
	}
	for _, fragment := range []string{"Netflix", "Spotify", "$25.98", "Budget: $50.00"} {
		if !strings.Contains(first, fragment) {
			t.Errorf("digest missing %q:\n%s", fragment, first)
		}
	}

	if cacheKey(first) == cacheKey(first+"x") {
		t.Error("cache keys collide for different digests")
	}
	if len(cacheKey(first)) != 64 {
		t.Errorf("cache key length = %d, want 64 hex chars", len(cacheKey(first)))
	}
}
