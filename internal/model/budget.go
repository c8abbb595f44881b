package model

// BudgetStats holds budget tracking and forecast data for the current month.
type BudgetStats struct {
	MonthlyBudget     *float64 `json:"monthly_budget,omitempty"`
	CurrentSpend      float64  `json:"current_spend"`
	ProjectedMonthly  float64  `json:"projected_monthly"`
	RemainingBudget   float64  `json:"remaining_budget"`
	BudgetUsedPercent float64  `json:"budget_used_percent"`
	OverBudget        bool     `json:"over_budget"`
}
