// Package alert generates the alert feed and reconciles it with
// session-local read and dismiss state.
package alert

import (
	"sync"

	"github.com/subwatchdev/subwatch/internal/model"
)

// Reconciler owns a session's alert set. All mutation funnels through its
// methods; presentation code never touches the slice directly. The mutex
// serializes Refresh against user actions, so a refresh diffs the state
// current at the moment it executes and cannot wipe out a mark-read that
// happened while its fresh data was in flight.
//
// Dismissal is remembered for the lifetime of the session: a dismissed id
// stays suppressed even when a later refresh re-emits it. Read state lives
// only on the held alerts, so an alert that resolves and later reappears
// comes back unread.
type Reconciler struct {
	mu        sync.Mutex
	alerts    []model.Alert
	dismissed map[string]struct{}
}

// NewReconciler returns an empty reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{dismissed: make(map[string]struct{})}
}

// Refresh replaces the held set with fresh alerts. A fresh alert whose id
// matches a currently held alert with IsRead set comes out read regardless of
// its incoming flag; held alerts absent from fresh are dropped as resolved;
// dismissed ids are filtered out.
func (r *Reconciler) Refresh(fresh []model.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()

	readNow := make(map[string]struct{}, len(r.alerts))
	for _, a := range r.alerts {
		if a.IsRead {
			readNow[a.ID] = struct{}{}
		}
	}

	merged := make([]model.Alert, 0, len(fresh))
	for _, a := range fresh {
		if _, gone := r.dismissed[a.ID]; gone {
			continue
		}
		if _, wasRead := readNow[a.ID]; wasRead {
			a.IsRead = true
		}
		merged = append(merged, a)
	}
	r.alerts = merged
}

// MarkAsRead sets the read flag on one alert. Unknown ids are a silent no-op;
// ids are eventually consistent with the generator and races are expected.
func (r *Reconciler) MarkAsRead(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.alerts {
		if r.alerts[i].ID == id {
			r.alerts[i].IsRead = true
			return
		}
	}
}

// MarkAllRead sets the read flag on every held alert.
func (r *Reconciler) MarkAllRead() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.alerts {
		r.alerts[i].IsRead = true
	}
}

// Dismiss removes an alert immediately and suppresses its id for the rest of
// the session. Unknown ids are a silent no-op.
func (r *Reconciler) Dismiss(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.alerts {
		if r.alerts[i].ID == id {
			r.alerts = append(r.alerts[:i], r.alerts[i+1:]...)
			r.dismissed[id] = struct{}{}
			return
		}
	}
}

// Alerts returns a snapshot copy of the held alerts.
func (r *Reconciler) Alerts() []model.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Alert, len(r.alerts))
	copy(out, r.alerts)
	return out
}

// UnreadCount counts held alerts without the read flag. It is always derived
// from the alerts themselves, never stored, so it cannot drift.
func (r *Reconciler) UnreadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.alerts {
		if !a.IsRead {
			n++
		}
	}
	return n
}
