// Package upload implements the avatar replacement workflow: choose a file,
// preview it locally, confirm, submit.
//
//	Idle -> Selected -> Confirming -> Submitting -> Idle
//	                                            \-> Failed -> Submitting ...
//
// Cancel returns any session to Idle. The preview allocated for a session
// is released exactly once whichever way the session ends.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/agentdesk/internal/client/cache"
	"github.com/dmitrijs2005/agentdesk/internal/logging"
)

var (
	ErrInvalidTransition = errors.New("invalid upload transition")
	ErrCanceled          = errors.New("upload canceled")
	ErrClosed            = errors.New("upload workflow closed")
)

type State int

const (
	StateIdle State = iota
	StateSelected
	StateConfirming
	StateSubmitting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelected:
		return "selected"
	case StateConfirming:
		return "confirming"
	case StateSubmitting:
		return "submitting"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Uploader sends the avatar. client.Client satisfies it.
type Uploader interface {
	UploadAvatar(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// Invalidator marks cached data stale. *cache.Cache satisfies it.
type Invalidator interface {
	Invalidate(keys ...cache.Key)
}

// Session is a read-only view of the workflow.
type Session struct {
	State       State
	FileName    string
	Size        int64
	ContentType string
	Preview     *Preview
	Err         error
}

type Workflow struct {
	uploader Uploader
	inv      Invalidator
	alloc    PreviewAllocator
	log      logging.Logger

	mu          sync.Mutex
	state       State
	file        File
	contentType string
	preview     *handle
	err         error
	seq         uint64
	cancel      context.CancelFunc
	closed      bool
}

func New(uploader Uploader, inv Invalidator, alloc PreviewAllocator, log logging.Logger) *Workflow {
	if log == nil {
		log = logging.Nop()
	}
	return &Workflow{
		uploader: uploader,
		inv:      inv,
		alloc:    alloc,
		log:      log.With("component", "upload"),
	}
}

// Session reports the current state.
func (w *Workflow) Session() Session {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Session{State: w.state, Err: w.err}
	if w.state != StateIdle {
		s.FileName = w.file.Name
		s.Size = w.file.Size
		s.ContentType = w.contentType
	}
	if w.preview != nil {
		p := w.preview.preview
		s.Preview = &p
	}
	return s
}

// Select starts a session for f, ending any active one. A file that fails
// validation leaves the workflow Idle with the validation error recorded;
// no preview is allocated for it.
func (w *Workflow) Select(f File) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.state != StateIdle {
		w.log.Debug(context.Background(), "replacing active upload session", "state", w.state.String())
		w.resetLocked()
	}

	ct, err := validate(f)
	if err != nil {
		w.err = err
		return err
	}

	w.state = StateSelected
	w.file = f
	w.contentType = ct
	w.err = nil
	return nil
}

// Preview allocates the local preview of the selected file.
func (w *Workflow) Preview(ctx context.Context) (Preview, error) {
	w.mu.Lock()
	if w.state != StateSelected {
		st := w.state
		w.mu.Unlock()
		return Preview{}, fmt.Errorf("%w: preview from %s", ErrInvalidTransition, st)
	}
	f := w.file
	seq := w.seq
	w.mu.Unlock()

	p, err := w.alloc.Allocate(ctx, f)
	if err != nil {
		return Preview{}, fmt.Errorf("allocate preview: %w", err)
	}
	h := &handle{preview: p, alloc: w.alloc}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seq != seq || w.state != StateSelected {
		// The session ended while the preview was being made.
		w.releaseHandle(h)
		return Preview{}, ErrCanceled
	}
	w.preview = h
	w.state = StateConfirming
	return p, nil
}

// Confirm submits the selected file. On success the preview is released,
// the current user is invalidated and the uploaded avatar URL is returned.
// On failure the session is Failed and may be confirmed again.
func (w *Workflow) Confirm(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.state != StateConfirming && w.state != StateFailed {
		st := w.state
		w.mu.Unlock()
		return "", fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, st)
	}
	ctx, cancel := context.WithCancel(ctx)
	w.state = StateSubmitting
	w.err = nil
	w.cancel = cancel
	seq := w.seq
	f, ct := w.file, w.contentType
	w.mu.Unlock()
	defer cancel()

	url, err := w.submit(ctx, f, ct)

	if err == nil && w.inv != nil {
		// The server has the new avatar even if the session was canceled.
		w.inv.Invalidate(cache.CurrentUserKey)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seq != seq {
		if err != nil {
			return "", ErrCanceled
		}
		return url, nil
	}
	w.cancel = nil

	if err != nil {
		w.state = StateFailed
		w.err = err
		w.log.Warn(ctx, "avatar upload failed", "file", f.Name, "error", err)
		return "", err
	}

	w.resetLocked()
	w.log.Info(ctx, "avatar uploaded", "file", f.Name, "size", f.Size)
	return url, nil
}

// Cancel ends the session, releasing its preview and aborting a running
// submission. Canceling an idle workflow does nothing.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
	w.err = nil
}

// Close is Cancel for a workflow that will not be used again.
func (w *Workflow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
	w.closed = true
	return nil
}

func (w *Workflow) submit(ctx context.Context, f File, ct string) (string, error) {
	if f.Open == nil {
		return "", errors.New("file cannot be opened")
	}
	r, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer r.Close()
	return w.uploader.UploadAvatar(ctx, f.Name, ct, r)
}

// resetLocked ends the current session, if any.
func (w *Workflow) resetLocked() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.preview != nil {
		w.releaseHandle(w.preview)
		w.preview = nil
	}
	w.state = StateIdle
	w.file = File{}
	w.contentType = ""
	w.seq++
}

func (w *Workflow) releaseHandle(h *handle) {
	if err := h.release(); err != nil {
		w.log.Warn(context.Background(), "preview release failed", "preview", h.preview.ID, "error", err)
	}
}
