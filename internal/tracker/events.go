package tracker

// WindowNone is the sentinel window ID meaning no browser window holds
// OS-level focus (mirrors chrome.windows.WINDOW_ID_NONE).
const WindowNone = -1

// EventType identifies a browser lifecycle transition.
type EventType string

const (
	EventTabActivated EventType = "tab_activated"
	EventTabUpdated   EventType = "tab_updated"
	EventTabRemoved   EventType = "tab_removed"
	EventWindowFocus  EventType = "window_focus"

	// EventSuspend is the best-effort shutdown hook: the extension is being
	// suspended or its connection is gone, so every open session closes.
	EventSuspend EventType = "suspend"
)

// Event is one browser lifecycle transition delivered to the tracker.
// Fields beyond Type are populated per event kind: TabID for tab events,
// URL and Active for tab_updated, WindowID for window_focus.
type Event struct {
	Type     EventType
	TabID    int
	URL      string
	Active   bool
	WindowID int
}
