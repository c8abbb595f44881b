package tui

import (
	"testing"

	"github.com/subwatchdev/subwatch/internal/tui/components"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := 0; active < len(components.Tabs); active++ {
		a := App{activeTab: active}
		pos := 1 // leading space in the tab bar

		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < len(components.Tabs)-1 {
				pos += 2 // separator
			}
		}
	}
}

func TestTabAtXOutsideBar(t *testing.T) {
	a := App{activeTab: 0}
	if got := a.tabAtX(0); got != -1 {
		t.Fatalf("x=0 -> tab=%d, want -1", got)
	}
	if got := a.tabAtX(500); got != -1 {
		t.Fatalf("x=500 -> tab=%d, want -1", got)
	}
}
