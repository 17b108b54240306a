package client

import (
	"context"
	"sync"
	"time"

	"inkwell/internal/models"
)

// EditorState is the editor's lifecycle state.
type EditorState int

const (
	StateEmpty EditorState = iota
	StateEditing
	StateSaving
	StateSaved
	StateError
)

func (s EditorState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// DefaultAutosaveDelay matches the original editor's debounce interval.
const DefaultAutosaveDelay = 2 * time.Second

// Editor manages an in-progress post. Two save paths coexist and are never
// conflated: a debounced local-only backup into the session directory, and
// explicit server saves via SaveDraft/Publish. The backup timer resets on
// every edit and is cancelled on Close, so a stale write can never fire after
// teardown.
type Editor struct {
	api     *Client
	session *Session
	delay   time.Duration

	mu        sync.Mutex
	state     EditorState
	err       error
	draft     PostInput
	lastLocal DraftBackup
	timer     *time.Timer
	closed    bool
}

// NewEditor creates an editor backed by api and session. A zero delay uses
// DefaultAutosaveDelay.
func NewEditor(api *Client, session *Session, delay time.Duration) *Editor {
	if delay == 0 {
		delay = DefaultAutosaveDelay
	}
	return &Editor{
		api:     api,
		session: session,
		delay:   delay,
		state:   StateEmpty,
	}
}

// Load populates the editor from an existing post (e.g. a picked draft).
func (e *Editor) Load(blog *models.Blog) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = PostInput{
		ID:      blog.ID,
		Title:   blog.Title,
		Content: blog.Content,
		Tags:    blog.Tags,
	}
	e.lastLocal = DraftBackup{}
	e.state = StateEditing
}

// LoadBlank resets the editor to a fresh, unsaved post. If a local backup
// exists it is restored, mirroring the original editor's crash recovery.
func (e *Editor) LoadBlank() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = PostInput{}
	e.lastLocal = DraftBackup{}
	e.state = StateEmpty
	if backup, ok := e.session.DraftBackup(); ok {
		e.draft = PostInput{Title: backup.Title, Content: backup.Content, Tags: backup.Tags}
		e.lastLocal = backup
		e.state = StateEditing
	}
}

// SetTitle records an edit and re-arms the autosave timer.
func (e *Editor) SetTitle(title string) {
	e.edit(func() { e.draft.Title = title })
}

// SetContent records an edit and re-arms the autosave timer.
func (e *Editor) SetContent(content string) {
	e.edit(func() { e.draft.Content = content })
}

// SetTags records an edit and re-arms the autosave timer.
func (e *Editor) SetTags(tags []string) {
	e.edit(func() { e.draft.Tags = tags })
}

func (e *Editor) edit(apply func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	apply()
	e.state = StateEditing
	e.armBackupLocked()
}

// armBackupLocked resets the debounce timer. Callers hold e.mu.
func (e *Editor) armBackupLocked() {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.delay, e.fireBackup)
}

// fireBackup writes the local backup when the draft still differs from the
// last one written. It runs on the timer goroutine.
func (e *Editor) fireBackup() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	current := DraftBackup{Title: e.draft.Title, Content: e.draft.Content, Tags: e.draft.Tags}
	if backupsEqual(current, e.lastLocal) {
		return
	}
	if err := e.session.SaveDraftBackup(current); err != nil {
		// Local backup is best-effort; server saves are unaffected.
		return
	}
	e.lastLocal = current
}

func backupsEqual(a, b DraftBackup) bool {
	if a.Title != b.Title || a.Content != b.Content || len(a.Tags) != len(b.Tags) {
		return false
	}
	for i := range a.Tags {
		if a.Tags[i] != b.Tags[i] {
			return false
		}
	}
	return true
}

// SaveDraft persists the draft to the server, keeping status draft.
func (e *Editor) SaveDraft(ctx context.Context) error {
	return e.save(ctx, e.api.SaveDraft)
}

// Publish persists the draft to the server with published status.
func (e *Editor) Publish(ctx context.Context) error {
	return e.save(ctx, e.api.Publish)
}

func (e *Editor) save(ctx context.Context, op func(context.Context, PostInput) (*models.Blog, error)) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.state = StateSaving
	in := e.draft
	e.mu.Unlock()

	created, err := op(ctx, in)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = StateError
		e.err = err
		return err
	}
	if created != nil {
		// First server save assigns the id; later saves update in place.
		e.draft.ID = created.ID
	}
	e.state = StateSaved
	e.err = nil
	// The server now owns this content; the local backup has served its
	// purpose.
	_ = e.session.ClearDraftBackup()
	e.lastLocal = DraftBackup{Title: in.Title, Content: in.Content, Tags: in.Tags}
	return nil
}

// State returns the current lifecycle state.
func (e *Editor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the error behind a StateError, or nil.
func (e *Editor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Draft returns a snapshot of the in-memory draft.
func (e *Editor) Draft() PostInput {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Close cancels any pending autosave. The editor accepts no edits afterwards.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
