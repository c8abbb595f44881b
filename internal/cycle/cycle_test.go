package cycle

import (
	"testing"
	"time"

	"github.com/subwatchdev/subwatch/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestNextOccurrence(t *testing.T) {
	cases := []struct {
		name      string
		anchor    string
		cycle     string
		onOrAfter string
		want      string
		wantOK    bool
	}{
		{"weekly steps seven days", "2024-03-01", model.CycleWeekly, "2024-03-02", "2024-03-08", true},
		{"weekly inclusive bound", "2024-03-01", model.CycleWeekly, "2024-03-08", "2024-03-08", true},
		{"weekly before anchor", "2024-03-01", model.CycleWeekly, "2024-02-01", "2024-03-01", true},
		{"weekly long stride", "2024-01-05", model.CycleWeekly, "2024-06-12", "2024-06-14", true},
		{"monthly same day", "2024-01-15", model.CycleMonthly, "2024-03-01", "2024-03-15", true},
		{"monthly clamps to feb", "2024-01-31", model.CycleMonthly, "2024-02-01", "2024-02-29", true},
		{"monthly clamps non leap", "2023-01-31", model.CycleMonthly, "2023-02-01", "2023-02-28", true},
		{"monthly clamp thirty days", "2024-01-31", model.CycleMonthly, "2024-04-01", "2024-04-30", true},
		{"monthly no rollover", "2024-03-31", model.CycleMonthly, "2024-04-01", "2024-04-30", true},
		{"monthly inclusive bound", "2024-01-15", model.CycleMonthly, "2024-02-15", "2024-02-15", true},
		{"monthly day after occurrence", "2024-01-15", model.CycleMonthly, "2024-02-16", "2024-03-15", true},
		{"monthly across year end", "2024-11-30", model.CycleMonthly, "2025-02-01", "2025-02-28", true},
		{"annual same date", "2023-06-10", model.CycleAnnual, "2024-01-01", "2024-06-10", true},
		{"annual feb29 clamps", "2024-02-29", model.CycleAnnual, "2025-01-01", "2025-02-28", true},
		{"annual feb29 restored on leap", "2024-02-29", model.CycleAnnual, "2027-03-01", "2028-02-29", true},
		{"annual inclusive bound", "2023-06-10", model.CycleAnnual, "2024-06-10", "2024-06-10", true},
		{"annual just missed", "2023-06-10", model.CycleAnnual, "2024-06-11", "2025-06-10", true},
		{"unknown cycle future anchor", "2024-05-01", "custom", "2024-04-01", "2024-05-01", true},
		{"unknown cycle exact anchor", "2024-05-01", "custom", "2024-05-01", "2024-05-01", true},
		{"unknown cycle past anchor", "2024-05-01", "custom", "2024-05-02", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NextOccurrence(mustDate(t, tc.anchor), tc.cycle, mustDate(t, tc.onOrAfter))
			if ok != tc.wantOK {
				t.Fatalf("NextOccurrence ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if got.Format("2006-01-02") != tc.want {
				t.Fatalf("NextOccurrence = %s, want %s", got.Format("2006-01-02"), tc.want)
			}
		})
	}
}

func TestNextOccurrenceMonthlyBeforeAnchor(t *testing.T) {
	got, ok := NextOccurrence(mustDate(t, "2024-06-15"), model.CycleMonthly, mustDate(t, "2024-01-01"))
	if !ok {
		t.Fatal("NextOccurrence returned !ok for monthly cycle")
	}
	if got.Format("2006-01-02") != "2024-06-15" {
		t.Fatalf("occurrence before anchor = %s, want anchor 2024-06-15", got.Format("2006-01-02"))
	}
}

func TestOccurrencesInMonthWeekly(t *testing.T) {
	// March 2024 has 31 days, so a weekly cycle anchored on the 1st bills
	// five times.
	got := OccurrencesInMonth(mustDate(t, "2024-03-01"), model.CycleWeekly, 2024, time.March)
	want := []string{"2024-03-01", "2024-03-08", "2024-03-15", "2024-03-22", "2024-03-29"}
	if len(got) != len(want) {
		t.Fatalf("occurrences = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Format("2006-01-02") != w {
			t.Fatalf("occurrence[%d] = %s, want %s", i, got[i].Format("2006-01-02"), w)
		}
	}
}

func TestOccurrencesInMonthWeeklyFourInFebruary(t *testing.T) {
	got := OccurrencesInMonth(mustDate(t, "2023-02-07"), model.CycleWeekly, 2023, time.February)
	if len(got) != 4 {
		t.Fatalf("February occurrences = %d, want 4", len(got))
	}
}

func TestOccurrencesInMonthMonthlyClamped(t *testing.T) {
	got := OccurrencesInMonth(mustDate(t, "2024-01-31"), model.CycleMonthly, 2024, time.February)
	if len(got) != 1 {
		t.Fatalf("occurrences = %d, want 1", len(got))
	}
	if got[0].Format("2006-01-02") != "2024-02-29" {
		t.Fatalf("clamped occurrence = %s, want 2024-02-29", got[0].Format("2006-01-02"))
	}
}

func TestOccurrencesInMonthAnnualOffMonth(t *testing.T) {
	got := OccurrencesInMonth(mustDate(t, "2023-06-10"), model.CycleAnnual, 2024, time.March)
	if len(got) != 0 {
		t.Fatalf("off-month annual occurrences = %d, want 0", len(got))
	}
}

func TestOccurrencesInMonthOneOff(t *testing.T) {
	anchor := mustDate(t, "2024-03-12")
	got := OccurrencesInMonth(anchor, "custom", 2024, time.March)
	if len(got) != 1 || !got[0].Equal(anchor) {
		t.Fatalf("one-off occurrences = %v, want [%s]", got, anchor.Format("2006-01-02"))
	}
	if n := len(OccurrencesInMonth(anchor, "custom", 2024, time.April)); n != 0 {
		t.Fatalf("one-off in later month = %d occurrences, want 0", n)
	}
}
