// Package testutil provides testing utilities for the package version resolver.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/Sternrassler/package-version-ids/pkg/registry"
)

// PageKey addresses one page of the mock registry by its two cursors.
type PageKey struct {
	Outer registry.Cursor
	Inner registry.Cursor
}

// MockResponse is a canned raw HTTP response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// Call records one GraphQL request received by the mock.
type Call struct {
	Outer         registry.Cursor
	Inner         registry.Cursor
	Owner         string
	Repo          string
	PackagesFirst int
	VersionsFirst int
	Authorization string
	Query         string
}

// MockRegistry is a GraphQL endpoint serving package pages keyed by cursor pair.
type MockRegistry struct {
	server *httptest.Server

	mu        sync.Mutex
	pages     map[PageKey]*registry.Page
	responses map[PageKey]MockResponse
	calls     []Call
	failOn    int
}

type graphqlRequest struct {
	Query     string `json:"query"`
	Variables struct {
		Owner          string  `json:"owner"`
		Repo           string  `json:"repo"`
		CursorPackages *string `json:"cursor_packages"`
		CursorVersions *string `json:"cursor_versions"`
		PackagesFirst  int     `json:"packages_first"`
		VersionsFirst  int     `json:"versions_first"`
	} `json:"variables"`
}

// NewMockRegistry starts a mock registry server.
func NewMockRegistry() *MockRegistry {
	mock := &MockRegistry{
		pages:     make(map[PageKey]*registry.Page),
		responses: make(map[PageKey]MockResponse),
	}
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// URL returns the GraphQL endpoint URL of the mock.
func (m *MockRegistry) URL() string {
	return m.server.URL + "/graphql"
}

// Close shuts down the mock server.
func (m *MockRegistry) Close() {
	m.server.Close()
}

// SetPage serves page for the given cursor pair.
func (m *MockRegistry) SetPage(outer, inner registry.Cursor, page *registry.Page) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[PageKey{Outer: outer, Inner: inner}] = page
}

// SetResponse serves a raw response for the given cursor pair, taking
// precedence over SetPage.
func (m *MockRegistry) SetResponse(outer, inner registry.Cursor, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[PageKey{Outer: outer, Inner: inner}] = resp
}

// FailOnRequest makes the n-th request (1-based) answer 500.
func (m *MockRegistry) FailOnRequest(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn = n
}

// Calls returns a copy of all recorded requests.
func (m *MockRegistry) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// RequestCount returns the number of requests served.
func (m *MockRegistry) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *MockRegistry) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/graphql" {
		http.NotFound(w, r)
		return
	}

	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, fmt.Sprintf(`{"message":%q}`, err.Error()))
		return
	}

	call := Call{
		Outer:         cursorOf(req.Variables.CursorPackages),
		Inner:         cursorOf(req.Variables.CursorVersions),
		Owner:         req.Variables.Owner,
		Repo:          req.Variables.Repo,
		PackagesFirst: req.Variables.PackagesFirst,
		VersionsFirst: req.Variables.VersionsFirst,
		Authorization: r.Header.Get("Authorization"),
		Query:         req.Query,
	}
	key := PageKey{Outer: call.Outer, Inner: call.Inner}

	m.mu.Lock()
	m.calls = append(m.calls, call)
	failing := m.failOn > 0 && len(m.calls) == m.failOn
	resp, hasResp := m.responses[key]
	page, hasPage := m.pages[key]
	m.mu.Unlock()

	switch {
	case failing:
		writeJSON(w, http.StatusInternalServerError, `{"message":"Internal server error"}`)
	case hasResp:
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		writeJSON(w, resp.StatusCode, resp.Body)
	case hasPage:
		writeJSON(w, http.StatusOK, PageBody(page))
	default:
		writeJSON(w, http.StatusOK, ErrorBody(fmt.Sprintf("no page for cursors (%q, %q)", key.Outer, key.Inner)))
	}
}

// PageBody renders page as a successful versions query response.
func PageBody(page *registry.Page) string {
	body := map[string]any{
		"data": map[string]any{
			"repository": map[string]any{
				"packages": page.Packages,
			},
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// ErrorBody renders a GraphQL error response.
func ErrorBody(message string) string {
	return fmt.Sprintf(`{"data":null,"errors":[{"type":"NOT_FOUND","message":%q}]}`, message)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func cursorOf(s *string) registry.Cursor {
	if s == nil {
		return registry.Start
	}
	return registry.Cursor(*s)
}
