// Package testutil provides an in-process Aula and emoji dataset server for
// tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/Sternrassler/aula-engage/pkg/aula"
)

// Paths served by MockAula.
const (
	FeedPath      = "/posts/feed"
	ReactionsPath = "/reactions"
	EmojiPath     = "/emoji.json"
)

// FeedRequest is one recorded feed call.
type FeedRequest struct {
	Space string
	Until string
	Token string
}

// FeedPost is one scripted feed entry.
type FeedPost struct {
	ID        string
	CreatedAt time.Time
}

// MockAula serves scripted feed pages, an emoji dataset and a reactions
// endpoint, recording every request it receives.
type MockAula struct {
	server   *httptest.Server
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc

	pages      [][]FeedPost
	emoji      []string
	failAt     int
	failStatus int

	// Tracking
	feedRequests []FeedRequest
	reactions    []aula.ReactionTarget
	emojiTokens  []string
	calls        int
}

// NewMockAula creates and starts a mock server.
func NewMockAula() *MockAula {
	mock := &MockAula{
		handlers:   make(map[string]http.HandlerFunc),
		failStatus: http.StatusInternalServerError,
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		switch r.URL.Path {
		case FeedPath:
			mock.feedHandler(w, r)
		case ReactionsPath:
			mock.reactionsHandler(w, r)
		case EmojiPath:
			mock.emojiHandler(w, r)
		default:
			http.NotFound(w, r)
		}
	}))

	return mock
}

// URL returns the API base URL.
func (m *MockAula) URL() string {
	return m.server.URL
}

// EmojiURL returns the emoji dataset URL.
func (m *MockAula) EmojiURL() string {
	return m.server.URL + EmojiPath
}

// Close shuts down the mock server.
func (m *MockAula) Close() {
	m.server.Close()
}

// SetHandler overrides the handler for path.
func (m *MockAula) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetFeedPages scripts the non-empty feed pages. Once they are served every
// further feed request gets an empty page.
func (m *MockAula) SetFeedPages(pages ...[]FeedPost) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = pages
}

// SetEmoji sets the short names served by the emoji dataset.
func (m *MockAula) SetEmoji(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emoji = names
}

// FailReactionAt makes the n-th reaction call (1-based) answer with status.
func (m *MockAula) FailReactionAt(n, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAt = n
	m.failStatus = status
}

// ReactionCalls returns the number of reaction requests received, including
// rejected ones.
func (m *MockAula) ReactionCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// RecordedReactions returns a copy of the accepted reactions in order.
func (m *MockAula) RecordedReactions() []aula.ReactionTarget {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]aula.ReactionTarget(nil), m.reactions...)
}

// FeedRequests returns a copy of the feed calls received in order.
func (m *MockAula) FeedRequests() []FeedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FeedRequest(nil), m.feedRequests...)
}

// RecordedUntils returns the until cursors received in order.
func (m *MockAula) RecordedUntils() []string {
	requests := m.FeedRequests()
	untils := make([]string, 0, len(requests))
	for _, r := range requests {
		untils = append(untils, r.Until)
	}
	return untils
}

// EmojiTokens returns the session token header of every emoji dataset call,
// empty when none was sent.
func (m *MockAula) EmojiTokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.emojiTokens...)
}

func (m *MockAula) feedHandler(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.feedRequests = append(m.feedRequests, FeedRequest{
		Space: r.URL.Query().Get("space"),
		Until: r.URL.Query().Get("until"),
		Token: r.Header.Get(aula.SessionTokenHeader),
	})

	var page []FeedPost
	if len(m.pages) > 0 {
		page = m.pages[0]
		m.pages = m.pages[1:]
	}
	m.mu.Unlock()

	posts := make([]map[string]any, 0, len(page))
	for _, p := range page {
		posts = append(posts, map[string]any{
			"objectId":  p.ID,
			"createdAt": p.CreatedAt.Format(time.RFC3339Nano),
			"content":   fmt.Sprintf("post %s", p.ID),
			"author":    map[string]any{"name": "Class Tutor", "roles": []string{"staff"}},
			"likes":     3,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts":   posts,
		"hasMore": len(page) > 0,
		"meta":    map[string]any{"space": r.URL.Query().Get("space")},
	})
}

func (m *MockAula) reactionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body aula.Reaction
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.calls++
	if m.failAt > 0 && m.calls == m.failAt {
		status := m.failStatus
		m.mu.Unlock()
		http.Error(w, `{"error":"rejected"}`, status)
		return
	}
	m.reactions = append(m.reactions, body.Reaction)
	n := len(m.reactions)
	m.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"objectId": fmt.Sprintf("reaction-%d", n)})
}

func (m *MockAula) emojiHandler(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.emojiTokens = append(m.emojiTokens, r.Header.Get(aula.SessionTokenHeader))
	names := append([]string(nil), m.emoji...)
	m.mu.Unlock()

	entries := make([]map[string]any, 0, len(names))
	for i, name := range names {
		entries = append(entries, map[string]any{
			"name":          fmt.Sprintf("EMOJI %d", i),
			"unified":       fmt.Sprintf("1F6%02X", i),
			"short_name":    name,
			"short_names":   []string{name},
			"has_img_apple": true,
		})
	}

	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
