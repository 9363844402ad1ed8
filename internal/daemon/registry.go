package daemon

import (
	"context"
	"fmt"
	"sync"

	"github.com/runnerr0/dwell/internal/tracker"
)

// TabRegistry is the daemon's view of the browser's open tabs, fed by
// snapshot and update messages. It backs the tracker's tab lookups; a tab
// missing from the registry is the "tab vanished before lookup" case.
//
// The socket reader writes and the tracker goroutine reads, hence the lock.
type TabRegistry struct {
	mu   sync.RWMutex
	tabs map[int]tracker.TabInfo
}

// NewTabRegistry returns an empty registry.
func NewTabRegistry() *TabRegistry {
	return &TabRegistry{tabs: make(map[int]tracker.TabInfo)}
}

// GetTab implements tracker.TabLookup.
func (r *TabRegistry) GetTab(_ context.Context, tabID int) (tracker.TabInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.tabs[tabID]
	if !ok {
		return tracker.TabInfo{}, fmt.Errorf("no tab with id %d", tabID)
	}
	return info, nil
}

// Put records or refreshes one tab.
func (r *TabRegistry) Put(tabID int, info tracker.TabInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tabs[tabID] = info
}

// Remove forgets one tab.
func (r *TabRegistry) Remove(tabID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tabs, tabID)
}

// ReplaceAll swaps in a full snapshot of open tabs.
func (r *TabRegistry) ReplaceAll(tabs []TabSnapshot) {
	next := make(map[int]tracker.TabInfo, len(tabs))
	for _, tab := range tabs {
		next[tab.TabID] = tracker.TabInfo{URL: tab.URL, Active: tab.Active}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tabs = next
}

// Len reports how many tabs the registry currently holds.
func (r *TabRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tabs)
}
