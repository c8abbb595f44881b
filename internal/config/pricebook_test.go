package config

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestLookupAnnualPlanAt_UsesEffectiveDate(t *testing.T) {
	provider := "test-provider-windowed"
	orig, had := defaultPlanHistory[provider]
	if had {
		defer func() { defaultPlanHistory[provider] = orig }()
	} else {
		defer delete(defaultPlanHistory, provider)
	}

	defaultPlanHistory[provider] = []annualPlanVersion{
		{
			EffectiveFrom: mustDate(t, "2024-01-01"),
			Plan:          AnnualPlan{AnnualUSD: 100.0},
		},
		{
			EffectiveFrom: mustDate(t, "2024-07-01"),
			Plan:          AnnualPlan{AnnualUSD: 120.0},
		},
	}

	aprPlan, ok := LookupAnnualPlanAt(provider, mustDate(t, "2024-04-15"))
	if !ok {
		t.Fatal("LookupAnnualPlanAt returned !ok for known provider")
	}
	if aprPlan.AnnualUSD != 100.0 {
		t.Fatalf("April price AnnualUSD = %.2f, want 100.0", aprPlan.AnnualUSD)
	}

	augPlan, ok := LookupAnnualPlanAt(provider, mustDate(t, "2024-08-15"))
	if !ok {
		t.Fatal("LookupAnnualPlanAt returned !ok for known provider in later window")
	}
	if augPlan.AnnualUSD != 120.0 {
		t.Fatalf("August price AnnualUSD = %.2f, want 120.0", augPlan.AnnualUSD)
	}
}

func TestLookupAnnualPlanAt_UsesLatestWhenTimeZero(t *testing.T) {
	provider := "test-provider-latest"
	orig, had := defaultPlanHistory[provider]
	if had {
		defer func() { defaultPlanHistory[provider] = orig }()
	} else {
		defer delete(defaultPlanHistory, provider)
	}

	defaultPlanHistory[provider] = []annualPlanVersion{
		{
			EffectiveFrom: mustDate(t, "2024-01-01"),
			Plan:          AnnualPlan{AnnualUSD: 100.0},
		},
		{
			EffectiveFrom: mustDate(t, "2024-09-01"),
			Plan:          AnnualPlan{AnnualUSD: 130.0},
		},
	}

	plan, ok := LookupAnnualPlanAt(provider, time.Time{})
	if !ok {
		t.Fatal("LookupAnnualPlanAt returned !ok for provider with history")
	}
	if plan.AnnualUSD != 130.0 {
		t.Fatalf("zero-time lookup AnnualUSD = %.2f, want 130.0", plan.AnnualUSD)
	}
}

func TestNormalizeProviderName(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Spotify", "spotify"},
		{"  Spotify   Premium ", "spotify"},
		{"GitHub Pro", "github pro"},
		{"Adobe Creative Cloud Subscription", "adobe creative cloud"},
		{"Unknown Service", "unknown service"},
	}
	for _, tc := range cases {
		if got := NormalizeProviderName(tc.raw); got != tc.want {
			t.Errorf("NormalizeProviderName(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestPriceBookOverrideWins(t *testing.T) {
	ninety := 90.0
	cfg := DefaultConfig()
	cfg.Prices.Overrides = map[string]AnnualPriceOverride{
		"Spotify": {AnnualUSD: &ninety},
	}

	book := NewPriceBook(cfg)
	price, ok := book.AnnualPrice("spotify")
	if !ok {
		t.Fatal("AnnualPrice returned !ok for overridden provider")
	}
	if price != 90.0 {
		t.Fatalf("overridden price = %.2f, want 90.0", price)
	}
}

func TestPriceBookNilFallsThrough(t *testing.T) {
	var book *PriceBook
	price, ok := book.AnnualPrice("spotify")
	if !ok {
		t.Fatal("nil book AnnualPrice returned !ok for known provider")
	}
	if price != DefaultAnnualPlans["spotify"].AnnualUSD {
		t.Fatalf("nil book price = %.2f, want %.2f", price, DefaultAnnualPlans["spotify"].AnnualUSD)
	}
}

func TestPriceBookUnknownProvider(t *testing.T) {
	book := NewPriceBook(DefaultConfig())
	if _, ok := book.AnnualPrice("some never seen service"); ok {
		t.Fatal("AnnualPrice returned ok for unknown provider")
	}
}
