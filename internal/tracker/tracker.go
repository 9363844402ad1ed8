// Package tracker converts browser tab and window lifecycle events into
// bounded, non-overlapping visit records. It attributes browsing time to
// exactly the tab that is both the active tab of its window and in a window
// holding OS focus, and hands each closed interval to the visit store.
package tracker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/runnerr0/dwell/internal/storage"
)

// DefaultMinVisit is the floor below which a closed session is treated as
// ephemeral noise (rapid tab flicker) and discarded.
const DefaultMinVisit = 1000 * time.Millisecond

// TabInfo is the host's view of a tab at lookup time.
type TabInfo struct {
	URL    string
	Active bool
}

// TabLookup resolves a tab ID to its current URL and active flag. Lookups
// fail when the tab no longer exists; the tracker logs and moves on.
type TabLookup interface {
	GetTab(ctx context.Context, tabID int) (TabInfo, error)
}

// session is one open attribution interval for a single tab.
type session struct {
	tabID     int
	startTime time.Time
	url       string
	domain    string
}

// Tracker owns all session state: the open-session map, the active tab, and
// the window focus flag. It has a single writer; events must be delivered
// from one goroutine, normally via Run.
type Tracker struct {
	store    storage.VisitStore
	tabs     TabLookup
	log      *logrus.Entry
	now      func() time.Time
	minVisit time.Duration

	sessions      map[int]*session
	activeTabID   int
	hasActive     bool
	windowFocused bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithMinVisit overrides the minimum persisted visit duration.
func WithMinVisit(d time.Duration) Option {
	return func(t *Tracker) { t.minVisit = d }
}

// New creates a Tracker writing completed visits to store and resolving tab
// metadata through tabs.
func New(store storage.VisitStore, tabs TabLookup, log *logrus.Entry, opts ...Option) *Tracker {
	t := &Tracker{
		store:         store,
		tabs:          tabs,
		log:           log,
		now:           time.Now,
		minVisit:      DefaultMinVisit,
		sessions:      make(map[int]*session),
		windowFocused: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run consumes events until the channel closes or ctx is cancelled, then
// closes all open sessions so in-flight time is flushed (best effort).
// Cancellation IS the shutdown signal, so the flush must not inherit it:
// store writes made with the cancelled context would all fail.
func (t *Tracker) Run(ctx context.Context, events <-chan Event) {
	defer t.Shutdown(context.WithoutCancel(ctx))
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			t.Handle(ctx, ev)
		}
	}
}

// Handle dispatches a single lifecycle event. Not safe for concurrent use;
// callers serialize delivery (Run does).
func (t *Tracker) Handle(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventTabActivated:
		t.tabActivated(ctx, ev.TabID)
	case EventTabUpdated:
		t.tabUpdated(ctx, ev.TabID, ev.URL, ev.Active)
	case EventTabRemoved:
		t.tabRemoved(ctx, ev.TabID)
	case EventWindowFocus:
		t.windowFocusChanged(ctx, ev.WindowID)
	case EventSuspend:
		t.Shutdown(ctx)
	default:
		t.log.WithField("type", ev.Type).Warn("unknown event type")
	}
}

// tabActivated handles a tab becoming the foreground tab of its window. The
// previously tracked tab's session ends first; the new tab gets a session
// only when its URL is a web page.
func (t *Tracker) tabActivated(ctx context.Context, tabID int) {
	if t.hasActive && t.activeTabID != tabID {
		t.closeSession(ctx, t.activeTabID)
	}
	t.activeTabID = tabID
	t.hasActive = true

	info, err := t.tabs.GetTab(ctx, tabID)
	if err != nil {
		// Tab vanished between event and lookup; no session is opened.
		t.log.WithField("tab", tabID).WithError(err).Warn("tab lookup failed")
		return
	}
	if !isWebURL(info.URL) {
		return
	}
	t.openSession(ctx, tabID, info.URL)
}

// tabUpdated handles an in-place navigation. A navigation always ends the
// current visit for that tab, whether or not the tab is active.
func (t *Tracker) tabUpdated(ctx context.Context, tabID int, newURL string, active bool) {
	if _, open := t.sessions[tabID]; open {
		t.closeSession(ctx, tabID)
	}
	if active && isWebURL(newURL) {
		t.activeTabID = tabID
		t.hasActive = true
		t.openSession(ctx, tabID, newURL)
	}
}

// windowFocusChanged stops the clock when every browser window loses OS
// focus. Regaining focus does not by itself reopen a session; the next
// tab-activation does. A brief focus flicker therefore never double-counts,
// at the cost of not resuming until the host re-activates the tab.
func (t *Tracker) windowFocusChanged(ctx context.Context, windowID int) {
	t.windowFocused = windowID != WindowNone
	if !t.windowFocused && t.hasActive {
		t.closeSession(ctx, t.activeTabID)
	}
}

// tabRemoved closes any open session for the tab and forgets it as the
// active tab.
func (t *Tracker) tabRemoved(ctx context.Context, tabID int) {
	t.closeSession(ctx, tabID)
	if t.hasActive && t.activeTabID == tabID {
		t.hasActive = false
	}
}

// Shutdown closes every open session. Best effort: the host may kill the
// process before the store writes land, in which case that time is lost.
func (t *Tracker) Shutdown(ctx context.Context) {
	for tabID := range t.sessions {
		t.closeSession(ctx, tabID)
	}
}

// openSession starts a session for tabID at the current instant. An already
// open session for the same tab is closed first so its elapsed time is not
// silently discarded.
func (t *Tracker) openSession(ctx context.Context, tabID int, url string) {
	if _, open := t.sessions[tabID]; open {
		t.closeSession(ctx, tabID)
	}
	t.sessions[tabID] = &session{
		tabID:     tabID,
		startTime: t.now(),
		url:       url,
		domain:    extractDomain(url),
	}
}

// closeSession ends the session for tabID, persisting a visit when its
// duration clears the minimum. The map entry is removed even when the store
// write fails: at-most-once, time is lost rather than retried.
func (t *Tracker) closeSession(ctx context.Context, tabID int) {
	s, ok := t.sessions[tabID]
	if !ok {
		return
	}
	delete(t.sessions, tabID)

	end := t.now()
	duration := end.Sub(s.startTime)
	if duration <= t.minVisit {
		return
	}

	visit := &storage.Visit{
		URL:       s.url,
		Domain:    s.domain,
		StartTime: s.startTime,
		EndTime:   end,
		Duration:  duration,
	}
	if err := t.store.AddVisit(ctx, visit); err != nil {
		t.log.WithFields(logrus.Fields{
			"tab":    tabID,
			"domain": s.domain,
		}).WithError(err).Error("visit write failed, time lost")
		return
	}

	t.log.WithFields(logrus.Fields{
		"tab":      tabID,
		"domain":   s.domain,
		"duration": duration,
	}).Debug("visit recorded")
}

// OpenSessions reports how many sessions are currently open. Single-writer
// rule applies: call only from the event goroutine.
func (t *Tracker) OpenSessions() int {
	return len(t.sessions)
}
