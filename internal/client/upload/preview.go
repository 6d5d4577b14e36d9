package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/agentdesk/internal/filex"
	"github.com/google/uuid"
)

// Preview is a local copy of the selected bytes, shown before upload.
type Preview struct {
	ID       string
	Location string
}

// PreviewAllocator creates and frees previews.
type PreviewAllocator interface {
	Allocate(ctx context.Context, f File) (Preview, error)
	Release(p Preview) error
}

// TempAllocator keeps previews as files in Dir.
type TempAllocator struct {
	Dir string
}

func NewTempAllocator(dir string) (*TempAllocator, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "agentdesk-previews")
	}
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &TempAllocator{Dir: abs}, nil
}

func (a *TempAllocator) Allocate(ctx context.Context, f File) (Preview, error) {
	if err := ctx.Err(); err != nil {
		return Preview{}, err
	}
	if f.Open == nil {
		return Preview{}, errors.New("file cannot be opened")
	}
	r, err := f.Open()
	if err != nil {
		return Preview{}, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer r.Close()

	id := uuid.NewString()
	path, err := filex.WriteTemp(a.Dir, "preview-"+id+"-*"+filepath.Ext(f.Name), r)
	if err != nil {
		return Preview{}, err
	}
	return Preview{ID: id, Location: path}, nil
}

func (a *TempAllocator) Release(p Preview) error {
	if err := os.Remove(p.Location); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove preview %s: %w", p.ID, err)
	}
	return nil
}

// handle owns one allocated preview and frees it at most once.
type handle struct {
	preview Preview
	alloc   PreviewAllocator
	once    sync.Once
	err     error
}

func (h *handle) release() error {
	h.once.Do(func() { h.err = h.alloc.Release(h.preview) })
	return h.err
}
