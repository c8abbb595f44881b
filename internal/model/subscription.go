// Package model defines domain types for subwatch subscriptions and alerts.
package model

import (
	"strings"
	"time"
)

// Billing cycle values understood by the projection engine. Anything else is
// treated as a one-off charge anchored at AnchorDate.
const (
	CycleMonthly = "monthly"
	CycleWeekly  = "weekly"
	CycleAnnual  = "annual"
)

// Subscription categories form a closed set; unknown values normalize to Other.
const (
	CategoryEntertainment = "Entertainment"
	CategoryProductivity  = "Productivity"
	CategoryUtilities     = "Utilities"
	CategorySocial        = "Social"
	CategoryHealth        = "Health"
	CategoryOther         = "Other"
)

// AllCategories lists the closed category set in display order.
var AllCategories = []string{
	CategoryEntertainment,
	CategoryProductivity,
	CategoryUtilities,
	CategorySocial,
	CategoryHealth,
	CategoryOther,
}

// Subscription is one tracked recurring charge. Cost is the amount billed once
// per cycle, not a monthly equivalent. AnchorDate stays a raw YYYY-MM-DD
// string so a malformed date can be skipped per record instead of failing the
// whole load.
type Subscription struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Cost       float64   `json:"cost"`
	Cycle      string    `json:"billing_cycle"`
	Category   string    `json:"category"`
	AnchorDate string    `json:"anchor_date"`
	Active     bool      `json:"active"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ParseAnchor parses AnchorDate as a calendar date.
func (s *Subscription) ParseAnchor() (time.Time, error) {
	return time.Parse("2006-01-02", s.AnchorDate)
}

// AnnualCost normalizes Cost to a yearly figure. One-off cycles contribute
// nothing to recurring totals.
func (s *Subscription) AnnualCost() float64 {
	switch s.Cycle {
	case CycleMonthly:
		return s.Cost * 12
	case CycleAnnual:
		return s.Cost
	case CycleWeekly:
		return s.Cost * 365 / 7
	default:
		return 0
	}
}

// MonthlyEquivalent normalizes Cost to a monthly figure.
func (s *Subscription) MonthlyEquivalent() float64 {
	return s.AnnualCost() / 12
}

// NormalizeCategory maps arbitrary category input onto the closed set.
func NormalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	for _, known := range AllCategories {
		if strings.EqualFold(c, known) {
			return known
		}
	}
	return CategoryOther
}

// categoryKeywords maps well-known service-name fragments to a category, used
// when an imported record arrives without one.
var categoryKeywords = []struct {
	fragment string
	category string
}{
	{"netflix", CategoryEntertainment},
	{"spotify", CategoryEntertainment},
	{"disney", CategoryEntertainment},
	{"hulu", CategoryEntertainment},
	{"hbo", CategoryEntertainment},
	{"youtube", CategoryEntertainment},
	{"twitch", CategoryEntertainment},
	{"adobe", CategoryProductivity},
	{"notion", CategoryProductivity},
	{"github", CategoryProductivity},
	{"chatgpt", CategoryProductivity},
	{"openai", CategoryProductivity},
	{"slack", CategoryProductivity},
	{"figma", CategoryProductivity},
	{"aws", CategoryUtilities},
	{"dropbox", CategoryUtilities},
	{"icloud", CategoryUtilities},
	{"google one", CategoryUtilities},
	{"vpn", CategoryUtilities},
	{"linkedin", CategorySocial},
	{"discord", CategorySocial},
	{"gym", CategoryHealth},
	{"fitness", CategoryHealth},
	{"peloton", CategoryHealth},
	{"headspace", CategoryHealth},
	{"calm", CategoryHealth},
}

// GuessCategory infers a category from the subscription name, falling back to
// Other when nothing matches.
func GuessCategory(name string) string {
	lower := strings.ToLower(name)
	for _, kw := range categoryKeywords {
		if strings.Contains(lower, kw.fragment) {
			return kw.category
		}
	}
	return CategoryOther
}
