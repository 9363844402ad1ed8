package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"plain host", "https://example.com/path", "example.com"},
		{"strips leading www", "https://www.example.com/path", "example.com"},
		{"strips only at host start", "https://sub.www.example.com/", "sub.www.example.com"},
		{"no path", "http://blog.test.org", "blog.test.org"},
		{"port dropped", "https://example.com:8080/x", "example.com"},
		{"query ignored", "https://news.ycombinator.com/item?id=1", "news.ycombinator.com"},
		{"parse failure falls back to raw", "http://exa mple.com/", "http://exa mple.com/"},
		{"no host falls back to raw", "not-a-url", "not-a-url"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractDomain(tc.url))
		})
	}
}

func TestIsWebURL(t *testing.T) {
	assert.True(t, isWebURL("https://example.com/"))
	assert.True(t, isWebURL("http://example.com/"))
	assert.False(t, isWebURL("chrome://extensions"))
	assert.False(t, isWebURL("about:blank"))
	assert.False(t, isWebURL("chrome-extension://abc/popup.html"))
	assert.False(t, isWebURL(""))
}
