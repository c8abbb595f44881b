package model

import "time"

// SummaryStats holds the top-level aggregate across all subscriptions.
type SummaryStats struct {
	TotalSubscriptions  int `json:"total_subscriptions"`
	ActiveSubscriptions int `json:"active_subscriptions"`
	InactiveCount       int `json:"inactive_count"`

	MonthlyTotal float64 `json:"monthly_total"`
	AnnualTotal  float64 `json:"annual_total"`
	AverageCost  float64 `json:"average_cost"`

	TopName    string  `json:"top_name,omitempty"`
	TopMonthly float64 `json:"top_monthly"`

	Categories []CategoryStats `json:"categories,omitempty"`
}

// CategoryStats holds per-category spend, keyed by name rather than position.
type CategoryStats struct {
	Category     string  `json:"category"`
	Count        int     `json:"count"`
	MonthlyTotal float64 `json:"monthly_total"`
	SharePercent float64 `json:"share_percent"`
}

// UpcomingPayment is one predicted charge inside a lookahead window.
type UpcomingPayment struct {
	Date         time.Time    `json:"date"`
	Subscription Subscription `json:"subscription"`
	DaysAway     int          `json:"days_away"`
}
