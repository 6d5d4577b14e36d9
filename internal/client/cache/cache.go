// Package cache is the client's keyed store of fetched data.
//
// Reads of a key that is not fresh start one fetch; every concurrent reader
// of that key waits on the same fetch. Invalidation only marks entries
// stale, the next read fetches again. Callers of mutations name the keys to
// invalidate themselves; the cache tracks no dependencies.
//
// Per key, only the most recently issued fetch may change the entry.
// A response from a fetch that was superseded, by a later Refetch, an
// Invalidate or a Reset, is handed to the readers that waited on it and is
// otherwise discarded.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/agentdesk/internal/logging"
)

// ErrNoFetcher is returned when a key has to be fetched but no fetch
// function was ever supplied for it.
var ErrNoFetcher = errors.New("no fetcher for key")

// Fetcher loads the value of one key.
type Fetcher func(ctx context.Context) (any, error)

type call struct {
	seq   uint64
	done  chan struct{}
	value any
	err   error
}

type entry struct {
	status     Status
	value      any
	hasValue   bool
	err        error
	generation uint64
	issued     uint64
	flight     *call
	fetch      Fetcher
	updatedAt  time.Time
}

type subscriber struct {
	ch   chan Snapshot
	once sync.Once
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	keys    map[string]Key
	subs    map[string]map[*subscriber]struct{}

	timeout time.Duration
	now     func() time.Time
	log     logging.Logger
}

type Option func(*Cache)

// WithFetchTimeout bounds every fetch. Zero means no bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) { c.timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Cache) { c.log = l }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		keys:    make(map[string]Key),
		subs:    make(map[string]map[*subscriber]struct{}),
		now:     time.Now,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "cache")
	return c
}

// Get returns the value of key, fetching it with fetch unless the entry is
// fresh. A non-nil fetch replaces the one remembered for the key.
//
// ctx only bounds the wait: the fetch itself keeps running for the other
// readers if ctx is cancelled.
func (c *Cache) Get(ctx context.Context, key Key, fetch Fetcher) (any, error) {
	c.mu.Lock()
	e := c.entryLocked(key)
	if fetch != nil {
		e.fetch = fetch
	}
	if e.status == StatusFresh {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	if e.fetch == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNoFetcher, key)
	}
	fl := e.flight
	if fl == nil {
		fl = c.issueLocked(ctx, key, e)
	}
	c.mu.Unlock()

	return wait(ctx, fl)
}

// Refetch issues a new fetch for key even if one is already in flight; the
// older one is superseded. It uses the fetch function remembered from Get.
func (c *Cache) Refetch(ctx context.Context, key Key) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key.String()]
	if !ok || e.fetch == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNoFetcher, key)
	}
	fl := c.issueLocked(ctx, key, e)
	c.mu.Unlock()

	return wait(ctx, fl)
}

// Invalidate marks the given keys stale without fetching them. Keys never
// read are ignored.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		if e, ok := c.entries[key.String()]; ok {
			c.invalidateLocked(key, e)
		}
	}
}

// InvalidateName marks stale every key created with the given name,
// whatever its params.
func (c *Cache) InvalidateName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, key := range c.keys {
		if key.Name() == name {
			c.invalidateLocked(key, c.entries[id])
		}
	}
}

// Peek reports the state of key without fetching.
func (c *Cache) Peek(key Key) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return Snapshot{Key: key, Status: StatusIdle}
	}
	return snapshot(key, e)
}

// Subscribe delivers the state of key now and after every change. Slow
// subscribers only see the latest snapshot. The returned func unsubscribes
// and closes the channel.
func (c *Cache) Subscribe(key Key) (<-chan Snapshot, func()) {
	s := &subscriber{ch: make(chan Snapshot, 1)}

	c.mu.Lock()
	set, ok := c.subs[key.String()]
	if !ok {
		set = make(map[*subscriber]struct{})
		c.subs[key.String()] = set
	}
	set[s] = struct{}{}
	snap := Snapshot{Key: key, Status: StatusIdle}
	if e, ok := c.entries[key.String()]; ok {
		snap = snapshot(key, e)
	}
	s.send(snap)
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		s.once.Do(func() {
			delete(c.subs[key.String()], s)
			if len(c.subs[key.String()]) == 0 {
				delete(c.subs, key.String())
			}
			close(s.ch)
		})
	}
	return s.ch, cancel
}

// Reset drops every entry, e.g. on sign-out. In-flight fetches are
// discarded when they complete; subscribers see their key go idle.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, key := range c.keys {
		gen := c.entries[id].generation + 1
		c.publishLocked(key, Snapshot{Key: key, Status: StatusIdle, Generation: gen})
	}
	c.entries = make(map[string]*entry)
	c.keys = make(map[string]Key)
	c.log.Debug(context.Background(), "cache reset")
}

func (c *Cache) entryLocked(key Key) *entry {
	e, ok := c.entries[key.String()]
	if !ok {
		e = &entry{}
		c.entries[key.String()] = e
		c.keys[key.String()] = key
	}
	return e
}

func (c *Cache) invalidateLocked(key Key, e *entry) {
	e.generation++
	e.flight = nil
	e.status = StatusStale
	c.log.Debug(context.Background(), "invalidated", "key", key.String(), "generation", e.generation)
	c.publishLocked(key, snapshot(key, e))
}

func (c *Cache) issueLocked(ctx context.Context, key Key, e *entry) *call {
	e.issued++
	fl := &call{seq: e.issued, done: make(chan struct{})}
	e.flight = fl
	e.status = StatusLoading
	c.publishLocked(key, snapshot(key, e))

	fetch := e.fetch
	fctx := context.WithoutCancel(ctx)
	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		fctx, cancel = context.WithTimeout(fctx, c.timeout)
	}
	c.log.Debug(ctx, "fetch issued", "key", key.String(), "seq", fl.seq)

	go func() {
		defer cancel()
		v, err := run(fctx, fetch)
		c.complete(fctx, key, e, fl, v, err)
	}()
	return fl
}

func run(ctx context.Context, fetch Fetcher) (v any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("fetch panicked: %v", p)
		}
	}()
	return fetch(ctx)
}

func (c *Cache) complete(ctx context.Context, key Key, e *entry, fl *call, v any, err error) {
	fl.value, fl.err = v, err

	c.mu.Lock()
	current, ok := c.entries[key.String()]
	switch {
	case !ok || current != e || e.flight != fl:
		c.log.Debug(ctx, "superseded response discarded", "key", key.String(), "seq", fl.seq)
	case err != nil:
		e.flight = nil
		e.status = StatusError
		e.err = err
		c.log.Warn(ctx, "fetch failed", "key", key.String(), "seq", fl.seq, "error", err)
		c.publishLocked(key, snapshot(key, e))
	default:
		e.flight = nil
		e.status = StatusFresh
		e.value, e.hasValue = v, true
		e.err = nil
		e.updatedAt = c.now()
		c.publishLocked(key, snapshot(key, e))
	}
	c.mu.Unlock()

	close(fl.done)
}

func (c *Cache) publishLocked(key Key, snap Snapshot) {
	for s := range c.subs[key.String()] {
		s.send(snap)
	}
}

// send keeps only the newest snapshot in the buffer. Callers hold c.mu, so
// there is a single sender at a time.
func (s *subscriber) send(snap Snapshot) {
	select {
	case s.ch <- snap:
	default:
		select {
		case <-s.ch:
		default:
		}
		s.ch <- snap
	}
}

func snapshot(key Key, e *entry) Snapshot {
	return Snapshot{
		Key:        key,
		Status:     e.status,
		Value:      e.value,
		HasValue:   e.hasValue,
		Err:        e.err,
		Generation: e.generation,
		UpdatedAt:  e.updatedAt,
	}
}

func wait(ctx context.Context, fl *call) (any, error) {
	select {
	case <-fl.done:
		return fl.value, fl.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
