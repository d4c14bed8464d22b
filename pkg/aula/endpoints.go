package aula

import (
	"fmt"
	"strings"
	"time"
)

// SessionTokenHeader carries the session token on authenticated calls.
const SessionTokenHeader = "x-session-token"

// Endpoints resolves Aula API URLs for one deployment.
type Endpoints struct {
	// BaseURL is the API root, without trailing slash
	BaseURL string
}

// NewEndpoints returns the production endpoints for a university subdomain.
func NewEndpoints(university string) Endpoints {
	return Endpoints{BaseURL: fmt.Sprintf("https://apiv2.%s.aula.education", university)}
}

// WithBaseURL returns endpoints rooted at baseURL (for tests and staging).
func WithBaseURL(baseURL string) Endpoints {
	return Endpoints{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Feed returns the paginated feed URL.
func (e Endpoints) Feed() string {
	return e.BaseURL + "/posts/feed"
}

// Reactions returns the reaction creation URL.
func (e Endpoints) Reactions() string {
	return e.BaseURL + "/reactions"
}

// FormatCursor renders an until cursor in the feed's wire format. Sub-second
// precision is kept so that a page minimum is never rounded away.
func FormatCursor(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
