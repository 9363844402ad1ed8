package daemon

// Message is one JSON text frame from the browser extension on /events.
// Type selects which of the remaining fields are meaningful.
type Message struct {
	Type     string        `json:"type"`
	TabID    int           `json:"tabId,omitempty"`
	URL      string        `json:"url,omitempty"`
	Active   bool          `json:"active,omitempty"`
	WindowID int           `json:"windowId,omitempty"`
	Tabs     []TabSnapshot `json:"tabs,omitempty"`
}

// TabSnapshot is one entry of a tab_snapshot message, the extension's full
// view of open tabs sent when the socket connects.
type TabSnapshot struct {
	TabID  int    `json:"tabId"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}
