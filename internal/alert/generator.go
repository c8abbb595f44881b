package alert

import (
	"fmt"
	"time"

	"github.com/subwatchdev/subwatch/internal/config"
	"github.com/subwatchdev/subwatch/internal/model"
	"github.com/subwatchdev/subwatch/internal/pipeline"
)

// Generator defaults. Savings suggestions below the minimum are noise and do
// not become alerts.
const (
	defaultUpcomingDays   = 3
	defaultMinimumSavings = 1.00
)

// GeneratorOptions tunes alert generation.
type GeneratorOptions struct {
	UpcomingDays   int
	MinimumSavings float64
	Savings        pipeline.SavingsOptions
}

// DefaultGeneratorOptions returns the standard generation knobs.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		UpcomingDays:   defaultUpcomingDays,
		MinimumSavings: defaultMinimumSavings,
		Savings:        pipeline.DefaultSavingsOptions(),
	}
}

// Generate derives the fresh alert set from the subscription snapshot. Ids
// are deterministic per condition (type plus subject), so regenerating from
// the same state yields the same ids and the reconciler can carry read state
// across refreshes.
func Generate(subs []model.Subscription, book *config.PriceBook, opts GeneratorOptions, now time.Time) []model.Alert {
	if opts.UpcomingDays <= 0 {
		opts.UpcomingDays = defaultUpcomingDays
	}
	if opts.MinimumSavings <= 0 {
		opts.MinimumSavings = defaultMinimumSavings
	}

	var alerts []model.Alert
	add := func(alertType, subject, subID, title, message string) {
		alerts = append(alerts, model.Alert{
			ID:             model.AlertID(alertType, subject),
			Type:           alertType,
			SubscriptionID: subID,
			Title:          title,
			Message:        message,
			Priority:       model.MetaFor(alertType).Priority,
			CreatedAt:      now,
		})
	}

	// One upcoming-payment alert per subscription, keyed to its next charge.
	seen := make(map[string]struct{})
	for _, p := range pipeline.UpcomingPayments(subs, now, opts.UpcomingDays) {
		s := p.Subscription
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		when := "today"
		switch {
		case p.DaysAway == 1:
			when = "tomorrow"
		case p.DaysAway > 1:
			when = fmt.Sprintf("in %d days", p.DaysAway)
		}
		add(model.AlertUpcomingPayment, s.ID, s.ID,
			"Upcoming payment",
			fmt.Sprintf("%s renews %s ($%.2f)", s.Name, when, s.Cost))
	}

	for _, s := range subs {
		if !s.Active {
			add(model.AlertUnusedSubscription, s.ID, s.ID,
				"Inactive subscription",
				fmt.Sprintf("%s is inactive but still tracked. Remove it or reactivate it.", s.Name))
		}
	}

	for _, s := range pipeline.CostAnomalies(subs) {
		add(model.AlertCostSpike, s.ID, s.ID,
			"Cost outlier",
			fmt.Sprintf("%s costs $%.2f/mo, far above the rest of your subscriptions", s.Name, s.MonthlyEquivalent()))
	}

	for _, op := range pipeline.DetectSavings(subs, book, opts.Savings) {
		if op.PotentialMonthlySavings < opts.MinimumSavings {
			continue
		}
		subject := op.SubscriptionID
		if subject == "" {
			subject = op.Category
		}
		add(model.AlertSavingsOpportunity, op.Type+":"+subject, op.SubscriptionID,
			"Savings opportunity",
			fmt.Sprintf("%s: save up to $%.2f/mo. %s", op.Name, op.PotentialMonthlySavings, op.Detail))
	}

	return alerts
}
