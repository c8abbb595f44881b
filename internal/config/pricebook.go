package config

import (
	"strings"
	"time"
)

// AnnualPlan holds the known yearly price for a provider's annual billing
// option.
type AnnualPlan struct {
	AnnualUSD float64
}

type annualPlanVersion struct {
	EffectiveFrom time.Time
	Plan          AnnualPlan
}

// DefaultAnnualPlans maps normalized provider names to their current annual
// plan price. Providers without an annual option are simply absent.
var DefaultAnnualPlans = map[string]AnnualPlan{
	"spotify":              {AnnualUSD: 99.00},
	"disney+":              {AnnualUSD: 79.99},
	"adobe creative cloud": {AnnualUSD: 599.88},
	"github pro":           {AnnualUSD: 44.00},
	"youtube premium":      {AnnualUSD: 139.99},
	"headspace":            {AnnualUSD: 69.99},
	"dropbox":              {AnnualUSD: 119.88},
	"notion":               {AnnualUSD: 81.60},
	"peloton":              {AnnualUSD: 479.00},
	"linkedin premium":     {AnnualUSD: 239.88},
}

// defaultPlanHistory stores effective-dated annual prices for each provider.
// Entries must be sorted by EffectiveFrom ascending.
var defaultPlanHistory = makeDefaultPlanHistory(DefaultAnnualPlans)

func makeDefaultPlanHistory(base map[string]AnnualPlan) map[string][]annualPlanVersion {
	history := make(map[string][]annualPlanVersion, len(base))
	for provider, plan := range base {
		history[provider] = []annualPlanVersion{
			{Plan: plan},
		}
	}
	// YouTube raised its annual price in late 2024.
	history["youtube premium"] = []annualPlanVersion{
		{Plan: AnnualPlan{AnnualUSD: 119.99}},
		{EffectiveFrom: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), Plan: AnnualPlan{AnnualUSD: 139.99}},
	}
	return history
}

func hasProvider(name string) bool {
	if _, ok := defaultPlanHistory[name]; ok {
		return true
	}
	_, ok := DefaultAnnualPlans[name]
	return ok
}

// NormalizeProviderName canonicalizes a subscription name for price lookup.
// e.g., "  Spotify Premium " -> "spotify" when only the shorter form is known.
func NormalizeProviderName(raw string) string {
	name := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if hasProvider(name) {
		return name
	}

	// Strip trailing qualifier words and re-probe the table.
	parts := strings.Fields(name)
	for len(parts) > 1 {
		parts = parts[:len(parts)-1]
		candidate := strings.Join(parts, " ")
		if hasProvider(candidate) {
			return candidate
		}
	}

	return name
}

// LookupAnnualPlan returns the current annual plan for a provider, normalizing
// the name first. Returns false if no annual option is known.
func LookupAnnualPlan(name string) (AnnualPlan, bool) {
	return LookupAnnualPlanAt(name, time.Now())
}

// LookupAnnualPlanAt returns the annual plan priced as of the given time.
// If at is zero, the latest known entry is used.
func LookupAnnualPlanAt(name string, at time.Time) (AnnualPlan, bool) {
	normalized := NormalizeProviderName(name)
	versions, ok := defaultPlanHistory[normalized]
	if !ok || len(versions) == 0 {
		p, fallback := DefaultAnnualPlans[normalized]
		return p, fallback
	}

	if at.IsZero() {
		return versions[len(versions)-1].Plan, true
	}

	at = at.UTC()
	selected := versions[0].Plan
	for _, v := range versions {
		if v.EffectiveFrom.IsZero() || !at.Before(v.EffectiveFrom.UTC()) {
			selected = v.Plan
			continue
		}
		break
	}
	return selected, true
}

// PriceBook resolves annual plan prices, applying per-user overrides from
// config on top of the built-in table.
type PriceBook struct {
	overrides map[string]float64
}

// NewPriceBook builds a PriceBook from config overrides.
func NewPriceBook(cfg Config) *PriceBook {
	book := &PriceBook{overrides: make(map[string]float64)}
	for name, ov := range cfg.Prices.Overrides {
		if ov.AnnualUSD != nil {
			book.overrides[strings.ToLower(strings.Join(strings.Fields(name), " "))] = *ov.AnnualUSD
		}
	}
	return book
}

// AnnualPrice returns the annual price for a provider, override first, then
// the built-in table. A nil book falls through to the table.
func (b *PriceBook) AnnualPrice(name string) (float64, bool) {
	return b.AnnualPriceAt(name, time.Now())
}

// AnnualPriceAt returns the annual price as of the given time.
func (b *PriceBook) AnnualPriceAt(name string, at time.Time) (float64, bool) {
	if b != nil {
		key := strings.ToLower(strings.Join(strings.Fields(name), " "))
		if price, ok := b.overrides[key]; ok {
			return price, true
		}
	}
	plan, ok := LookupAnnualPlanAt(name, at)
	if !ok {
		return 0, false
	}
	return plan.AnnualUSD, true
}
