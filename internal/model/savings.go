package model

// Savings opportunity classes.
const (
	SavingsSwitchToAnnual    = "switch_to_annual"
	SavingsDuplicateCategory = "duplicate_category"
	SavingsHighCost          = "high_cost"
)

// SavingsOpportunity is one detected way to spend less. CurrentMonthly is the
// subject's monthly-equivalent cost (or the group total for category-level
// opportunities); PotentialMonthlySavings never exceeds it.
type SavingsOpportunity struct {
	Type                    string  `json:"type"`
	SubscriptionID          string  `json:"subscription_id,omitempty"`
	Name                    string  `json:"name"`
	Category                string  `json:"category,omitempty"`
	CurrentMonthly          float64 `json:"current_monthly"`
	PotentialMonthlySavings float64 `json:"potential_monthly_savings"`
	Detail                  string  `json:"detail"`
}
