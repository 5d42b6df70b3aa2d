package scraper

import (
	"net/http"
	"sync"
)

// Session owns the authentication state for one RDMS installation: base URL,
// credentials, the cookie set, and the authenticated flag. It belongs to a
// single Service instance; independent sessions are independent values, never
// shared package state.
type Session struct {
	mu sync.Mutex

	baseURL  string
	username string
	password string

	cookies       map[string]string
	authenticated bool
}

// NewSession creates an empty, unauthenticated session. Credentials from
// configuration may be attached immediately via Configure; login happens
// lazily on first use.
func NewSession() *Session {
	return &Session{cookies: make(map[string]string)}
}

// Configure records the target installation and credentials for auto-login.
func (s *Session) Configure(baseURL, username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = baseURL
	s.username = username
	s.password = password
}

// BaseURL returns the configured installation root.
func (s *Session) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseURL
}

// Credentials returns the stored login credentials.
func (s *Session) Credentials() (username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username, s.password
}

// HasCredentials reports whether auto-login is possible.
func (s *Session) HasCredentials() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseURL != "" && s.username != "" && s.password != ""
}

// IsAuthenticated reports the current login state.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// MarkAuthenticated flips the session to logged-in.
func (s *Session) MarkAuthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
}

// Invalidate clears the authenticated flag, e.g. after expiry detection. The
// cookie set is kept; the next login overwrites it by name.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
}

// AbsorbCookies merges response cookies into the session set, overwriting by
// name. Every response may rotate the session cookie, so this runs on each
// fetch.
func (s *Session) AbsorbCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		s.cookies[c.Name] = c.Value
	}
}

// CookieMap returns a copy of the cookie set for the transport client.
func (s *Session) CookieMap() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.cookies))
	for name, value := range s.cookies {
		out[name] = value
	}
	return out
}
