// Package session holds the process-wide authenticated session: a durable
// key/value store mirroring the browser app's localStorage layout, and a
// mutex-guarded manager that is the single source of truth for credentials.
package session

import (
	"encoding/json"
	"strings"
)

// Storage keys, one per persisted session field. The lw_ prefix matches the
// layout written by earlier releases so existing sessions survive upgrades.
const (
	KeyToken      = "lw_token"
	KeyTokenExp   = "lw_token_expires"
	KeyRefresh    = "lw_refresh"
	KeyRefreshExp = "lw_refresh_expires"
	KeyProfile    = "lw_profile"
)

// Keys lists every persisted session field.
var Keys = []string{KeyToken, KeyTokenExp, KeyRefresh, KeyRefreshExp, KeyProfile}

// Store is durable key/value storage for session fields. Implementations
// never fail: if the medium is unavailable they degrade to no-ops and the
// in-memory Manager stays authoritative for the rest of the process.
type Store interface {
	Write(key, value string)
	Read(key string) (string, bool)
	Remove(key string)
	Clear()
}

// Normalize maps malformed persisted content to absent. Earlier releases
// occasionally wrote the literal strings "undefined"/"null" or a
// JSON-quoted token; those must never round-trip as credentials.
func Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "undefined" || s == "null" {
		return "", false
	}
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		var v string
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return Normalize(v)
		}
		return Normalize(s[1 : len(s)-1])
	}
	return s, true
}
