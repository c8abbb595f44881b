package model

import "time"

// Alert types produced by the generator.
const (
	AlertUpcomingPayment    = "upcoming_payment"
	AlertUnusedSubscription = "unused_subscription"
	AlertCostSpike          = "cost_spike"
	AlertSavingsOpportunity = "savings_opportunity"
)

// Alert priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Alert is one entry in the alert feed. ID is deterministic for the
// underlying condition (type plus subject), so regeneration yields the same
// id and read state can survive a refresh.
type Alert struct {
	ID             string    `json:"alert_id"`
	Type           string    `json:"type"`
	SubscriptionID string    `json:"subscription_id,omitempty"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Priority       string    `json:"priority"`
	CreatedAt      time.Time `json:"created_at"`
	IsRead         bool      `json:"is_read"`
}

// AlertMeta describes fixed presentation attributes for an alert type.
type AlertMeta struct {
	Icon     string
	Priority string
}

var alertMeta = map[string]AlertMeta{
	AlertUpcomingPayment:    {Icon: "⏰", Priority: PriorityMedium},
	AlertUnusedSubscription: {Icon: "💤", Priority: PriorityHigh},
	AlertCostSpike:          {Icon: "📈", Priority: PriorityHigh},
	AlertSavingsOpportunity: {Icon: "💡", Priority: PriorityLow},
}

// MetaFor returns the presentation attributes for an alert type. Unknown
// types get a neutral icon at low priority.
func MetaFor(alertType string) AlertMeta {
	if m, ok := alertMeta[alertType]; ok {
		return m
	}
	return AlertMeta{Icon: "•", Priority: PriorityLow}
}

// AlertID derives the stable id for an alert condition from its type and
// subject (subscription id or category).
func AlertID(alertType, subject string) string {
	return alertType + ":" + subject
}
