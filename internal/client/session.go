// Package client is a Go library for the blogging API. It mirrors the browser
// client's responsibilities: a persistent session cache for the bearer token,
// a typed HTTP client for every endpoint, and an editor state machine with a
// debounced local draft backup.
package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"inkwell/internal/token"
)

// File names under the session directory. The token and the local draft
// backup live under distinct fixed keys and never share a file.
const (
	tokenFileName = "token"
	draftFileName = "blog-draft.json"
)

// Identity is the decoded, UNVERIFIED identity behind the cached token. It is
// display-only: the server re-verifies the token on every request, and this
// value must never gate access to anything.
type Identity struct {
	UserID    uint
	Email     string
	Anonymous bool
}

// DraftBackup is the local-only autosave shape. It is independent of server
// drafts; losing it loses nothing the server already has.
type DraftBackup struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// Session persists the bearer token and the draft backup in a directory,
// surviving process restarts the way browser-local storage survives reloads.
type Session struct {
	dir string
}

// NewSession opens (creating if needed) a session directory.
func NewSession(dir string) (*Session, error) {
	if dir == "" {
		return nil, errors.New("client: session directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Session{dir: dir}, nil
}

// SaveToken stores the bearer token, replacing any previous one.
func (s *Session) SaveToken(tok string) error {
	return os.WriteFile(filepath.Join(s.dir, tokenFileName), []byte(tok), 0o600)
}

// Token returns the cached bearer token, or "" when logged out.
func (s *Session) Token() string {
	b, err := os.ReadFile(filepath.Join(s.dir, tokenFileName))
	if err != nil {
		return ""
	}
	return string(b)
}

// Clear forgets the cached token. The draft backup is kept; it belongs to the
// machine, not the account.
func (s *Session) Clear() error {
	err := os.Remove(filepath.Join(s.dir, tokenFileName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DisplayIdentity decodes the cached token without verifying it. A missing or
// malformed token silently yields the anonymous identity; it never errors.
func (s *Session) DisplayIdentity() Identity {
	tok := s.Token()
	if tok == "" {
		return Identity{Anonymous: true}
	}
	claims, err := token.Decode(tok)
	if err != nil {
		return Identity{Anonymous: true}
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}
}

// SaveDraftBackup writes the local draft backup.
func (s *Session) SaveDraftBackup(d DraftBackup) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, draftFileName), b, 0o600)
}

// DraftBackup returns the stored backup, or (zero, false) when none exists or
// it cannot be decoded.
func (s *Session) DraftBackup() (DraftBackup, bool) {
	b, err := os.ReadFile(filepath.Join(s.dir, draftFileName))
	if err != nil {
		return DraftBackup{}, false
	}
	var d DraftBackup
	if err := json.Unmarshal(b, &d); err != nil {
		return DraftBackup{}, false
	}
	return d, true
}

// ClearDraftBackup removes the local backup, typically after a successful
// server save.
func (s *Session) ClearDraftBackup() error {
	err := os.Remove(filepath.Join(s.dir, draftFileName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
