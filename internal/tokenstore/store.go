// Package tokenstore persists the session token between runs. Entries are
// scoped to an API origin the way browser local storage is scoped to a page
// origin, so tokens for different servers never mix.
package tokenstore

import (
	"fmt"
	"net/url"
	"strings"
)

// TokenKey is the fixed key the session token is stored under.
const TokenKey = "token"

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store is durable key-value storage bound to a single origin.
type Store interface {
	// Get returns the value for key, or false if it was never set.
	Get(key string) (string, bool, error)
	// Set creates or replaces the value for key.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	Close() error
}

// Origin reduces an API base URL to scheme://host[:port], lowercased.
func Origin(apiURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(apiURL))
	if err != nil {
		return "", fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("api url %q must include scheme and host", apiURL)
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), nil
}

// Open returns the named backend rooted at dir and bound to origin.
func Open(backend, dir, origin string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return OpenFile(dir, origin)
	case BackendSQLite:
		return OpenSQLite(dir, origin)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (use file, sqlite, or memory)", backend)
	}
}
