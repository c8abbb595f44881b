// Package daemon provides the long-running background subscription monitor
// service. It keeps the store in sync with the export files, recomputes the
// spending state on a ticker, and serves it over a local HTTP API with a
// websocket event stream.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/robfig/cron/v3"

	"github.com/subwatchdev/subwatch/internal/alert"
	"github.com/subwatchdev/subwatch/internal/config"
	"github.com/subwatchdev/subwatch/internal/feed"
	"github.com/subwatchdev/subwatch/internal/logger"
	"github.com/subwatchdev/subwatch/internal/model"
	"github.com/subwatchdev/subwatch/internal/pipeline"
	"github.com/subwatchdev/subwatch/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DataDir       string
	Addr          string
	Interval      time.Duration
	RefreshCron   string
	EventsBuffer  int
	UpcomingDays  int
	MonthlyBudget *float64
	Book          *config.PriceBook
}

// Snapshot is a compact spending state for status/event payloads.
type Snapshot struct {
	At                      time.Time `json:"at"`
	Subscriptions           int       `json:"subscriptions"`
	ActiveSubscriptions     int       `json:"active_subscriptions"`
	MonthlyTotal            float64   `json:"monthly_total"`
	AnnualTotal             float64   `json:"annual_total"`
	MonthProjected          float64   `json:"month_projected"`
	PotentialMonthlySavings float64   `json:"potential_monthly_savings"`
	UnreadAlerts            int       `json:"unread_alerts"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Subscriptions       int     `json:"subscriptions"`
	ActiveSubscriptions int     `json:"active_subscriptions"`
	MonthlyTotal        float64 `json:"monthly_total"`
	UnreadAlerts        int     `json:"unread_alerts"`
}

func (d Delta) isZero() bool {
	return d.Subscriptions == 0 &&
		d.ActiveSubscriptions == 0 &&
		d.MonthlyTotal == 0 &&
		d.UnreadAlerts == 0
}

// Event is emitted whenever the tracked state changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastSyncAt      time.Time `json:"last_sync_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DataDir         string    `json:"data_dir"`
	RefreshCron     string    `json:"refresh_cron,omitempty"`
	ExportFiles     int       `json:"export_files"`
	Sources         int       `json:"sources"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	WatcherCount    int       `json:"watcher_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config

	st         store.Store
	reconciler *alert.Reconciler
	upgrader   websocket.Upgrader

	mu          sync.RWMutex
	startedAt   time.Time
	lastSyncAt  time.Time
	pollCount   int64
	lastError   string
	lastFiles   int
	lastSources int
	hasSnapshot bool
	snapshot    Snapshot
	current     []model.Subscription
	summary     model.SummaryStats
	savings     []model.SavingsOpportunity
	insights    []feed.Item
	nextEventID int64
	events      []Event

	nextWatcherID int
	watchers      map[int]chan Event
}

// New returns a new daemon service over the given store.
func New(cfg Config, st store.Store) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:7600"
	}
	if cfg.UpcomingDays <= 0 {
		cfg.UpcomingDays = 7
	}

	return &Service{
		cfg:        cfg,
		st:         st,
		reconciler: alert.NewReconciler(),
		startedAt:  time.Now(),
		watchers:   make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled. The cron
// schedule forces a refresh on top of the ticker so date-sensitive alerts
// roll over every morning even with a long poll interval.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/summary", s.handleSummary)
	mux.HandleFunc("/v1/calendar", s.handleCalendar)
	mux.HandleFunc("/v1/savings", s.handleSavings)
	mux.HandleFunc("/v1/alerts", s.handleAlerts)
	mux.HandleFunc("/v1/alerts/read", s.handleAlertRead)
	mux.HandleFunc("/v1/alerts/read-all", s.handleAlertReadAll)
	mux.HandleFunc("/v1/alerts/dismiss", s.handleAlertDismiss)
	mux.HandleFunc("/v1/insights", s.handleInsights)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	scheduler := cron.New(cron.WithLocation(time.Local))
	if s.cfg.RefreshCron != "" {
		if _, err := scheduler.AddFunc(s.cfg.RefreshCron, s.pollOnce); err != nil {
			logger.Log.WithField("cron", s.cfg.RefreshCron).
				Warnf("ignoring invalid refresh schedule: %v", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	now := time.Now()

	res, err := pipeline.Sync(s.cfg.DataDir, s.st, nil)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastSyncAt = now
		s.pollCount++
		s.mu.Unlock()
		logger.Log.Errorf("sync failed: %v", err)
		return
	}

	subs := res.Subscriptions
	summary := pipeline.Summarize(subs)
	proj := pipeline.Project(subs, now.Year(), now.Month())
	savings := pipeline.DetectSavings(subs, s.cfg.Book, pipeline.DefaultSavingsOptions())
	budget := pipeline.ComputeBudget(proj, now, s.cfg.MonthlyBudget)
	insights := pipeline.BuildInsights(subs, summary, budget, savings)

	s.reconciler.Refresh(alert.Generate(subs, s.cfg.Book, alert.DefaultGeneratorOptions(), now))

	snap := Snapshot{
		At:                      now,
		Subscriptions:           summary.TotalSubscriptions,
		ActiveSubscriptions:     summary.ActiveSubscriptions,
		MonthlyTotal:            summary.MonthlyTotal,
		AnnualTotal:             summary.AnnualTotal,
		MonthProjected:          proj.MonthTotal,
		PotentialMonthlySavings: pipeline.TotalPotentialSavings(savings),
		UnreadAlerts:            s.reconciler.UnreadCount(),
	}

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.current = subs
	s.summary = summary
	s.savings = savings
	s.insights = insights
	s.lastSyncAt = now
	s.pollCount++
	s.lastError = ""
	s.lastFiles = res.TotalFiles
	s.lastSources = res.SourceCount

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
			Delta:     Delta{},
		}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      "change",
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

// noteAlertChange folds a user-driven read-state change into the snapshot
// between polls, so watchers see the unread count move immediately.
func (s *Service) noteAlertChange() {
	unread := s.reconciler.UnreadCount()

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	if s.hasSnapshot && s.snapshot.UnreadAlerts != unread {
		prev := s.snapshot
		s.snapshot.UnreadAlerts = unread
		s.snapshot.At = time.Now()
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "change",
			Timestamp: s.snapshot.At,
			Snapshot:  s.snapshot,
			Delta:     diffSnapshots(prev, s.snapshot),
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Subscriptions:       curr.Subscriptions - prev.Subscriptions,
		ActiveSubscriptions: curr.ActiveSubscriptions - prev.ActiveSubscriptions,
		MonthlyTotal:        curr.MonthlyTotal - prev.MonthlyTotal,
		UnreadAlerts:        curr.UnreadAlerts - prev.UnreadAlerts,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.watchers {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastSyncAt:      s.lastSyncAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DataDir:         s.cfg.DataDir,
		RefreshCron:     s.cfg.RefreshCron,
		ExportFiles:     s.lastFiles,
		Sources:         s.lastSources,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		WatcherCount:    len(s.watchers),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshotStatus())
}

type summaryResponse struct {
	Summary  model.SummaryStats      `json:"summary"`
	Budget   model.BudgetStats       `json:"budget"`
	Upcoming []model.UpcomingPayment `json:"upcoming"`
}

func (s *Service) handleSummary(w http.ResponseWriter, _ *http.Request) {
	now := time.Now()

	s.mu.RLock()
	summary := s.summary
	subs := s.current
	s.mu.RUnlock()

	proj := pipeline.Project(subs, now.Year(), now.Month())
	writeJSON(w, summaryResponse{
		Summary:  summary,
		Budget:   pipeline.ComputeBudget(proj, now, s.cfg.MonthlyBudget),
		Upcoming: pipeline.UpcomingPayments(subs, now, s.cfg.UpcomingDays),
	})
}

type calendarCharge struct {
	SubscriptionID string  `json:"subscription_id"`
	Name           string  `json:"name"`
	Cost           float64 `json:"cost"`
}

type calendarDay struct {
	Day     int              `json:"day"`
	Date    string           `json:"date"`
	Total   float64          `json:"total"`
	Charges []calendarCharge `json:"charges"`
}

type calendarResponse struct {
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	Days       int           `json:"days"`
	MonthTotal float64       `json:"month_total"`
	DueDays    []calendarDay `json:"due_days"`
}

func (s *Service) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseMonth(r.URL.Query().Get("month"), time.Now())
	if err != nil {
		http.Error(w, "bad month, want YYYY-MM", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	subs := s.current
	s.mu.RUnlock()

	proj := pipeline.Project(subs, year, month)
	resp := calendarResponse{
		Year:       proj.Year,
		Month:      int(proj.Month),
		Days:       proj.Days,
		MonthTotal: proj.MonthTotal,
	}
	for _, day := range proj.DueDays() {
		cd := calendarDay{
			Day:   day,
			Date:  proj.Date(day).Format("2006-01-02"),
			Total: proj.DayTotals[day],
		}
		for _, sub := range proj.Entries[day] {
			cd.Charges = append(cd.Charges, calendarCharge{
				SubscriptionID: sub.ID,
				Name:           sub.Name,
				Cost:           sub.Cost,
			})
		}
		resp.DueDays = append(resp.DueDays, cd)
	}
	writeJSON(w, resp)
}

// parseMonth resolves an optional YYYY-MM query value, defaulting to the
// month of now.
func parseMonth(q string, now time.Time) (int, time.Month, error) {
	if q == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", q)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}

type savingsResponse struct {
	Opportunities         []model.SavingsOpportunity `json:"opportunities"`
	TotalMonthlyPotential float64                    `json:"total_monthly_potential"`
}

func (s *Service) handleSavings(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	ops := make([]model.SavingsOpportunity, len(s.savings))
	copy(ops, s.savings)
	s.mu.RUnlock()

	writeJSON(w, savingsResponse{
		Opportunities:         ops,
		TotalMonthlyPotential: pipeline.TotalPotentialSavings(ops),
	})
}

type alertsResponse struct {
	Alerts      []model.Alert `json:"alerts"`
	UnreadCount int           `json:"unread_count"`
}

func (s *Service) handleAlerts(w http.ResponseWriter, _ *http.Request) {
	alerts := s.reconciler.Alerts()
	unread := 0
	for _, a := range alerts {
		if !a.IsRead {
			unread++
		}
	}
	writeJSON(w, alertsResponse{Alerts: alerts, UnreadCount: unread})
}

type alertActionRequest struct {
	AlertID string `json:"alert_id"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

func (s *Service) handleAlertRead(w http.ResponseWriter, r *http.Request) {
	id, ok := decodeAlertID(w, r)
	if !ok {
		return
	}
	s.reconciler.MarkAsRead(id)
	s.noteAlertChange()
	writeJSON(w, okResponse{OK: true})
}

func (s *Service) handleAlertReadAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.reconciler.MarkAllRead()
	s.noteAlertChange()
	writeJSON(w, okResponse{OK: true})
}

func (s *Service) handleAlertDismiss(w http.ResponseWriter, r *http.Request) {
	id, ok := decodeAlertID(w, r)
	if !ok {
		return
	}
	s.reconciler.Dismiss(id)
	s.noteAlertChange()
	writeJSON(w, okResponse{OK: true})
}

func decodeAlertID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	var req alertActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AlertID == "" {
		http.Error(w, "missing alert_id", http.StatusBadRequest)
		return "", false
	}
	return req.AlertID, true
}

type insightsResponse struct {
	Insights []feed.Item `json:"insights"`
}

func (s *Service) handleInsights(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	items := make([]feed.Item, len(s.insights))
	copy(items, s.insights)
	s.mu.RUnlock()

	writeJSON(w, insightsResponse{Insights: items})
}

func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	since, _ := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)

	s.mu.RLock()
	events := make([]Event, 0, len(s.events))
	for _, ev := range s.events {
		if ev.ID > since {
			events = append(events, ev)
		}
	}
	s.mu.RUnlock()

	writeJSON(w, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Debugf("stream upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch := make(chan Event, 16)
	id := s.addWatcher(ch)
	defer s.removeWatcher(id)

	// Send the current snapshot immediately.
	s.mu.RLock()
	current := Event{Type: "snapshot", Timestamp: time.Now(), Snapshot: s.snapshot}
	s.mu.RUnlock()
	if err := conn.WriteJSON(current); err != nil {
		return
	}

	// Drain client frames so closes are noticed; the stream is one-way.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Log.Debugf("stream closed: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case ev := <-ch:
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) addWatcher(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextWatcherID++
	id := s.nextWatcherID
	s.watchers[id] = ch
	return id
}

func (s *Service) removeWatcher(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watchers, id)
}
