// Package guard decides which views the client may show. A view is either
// public or protected; protected views need a credential. The decision is
// taken from the token store on every navigation and never remembered.
package guard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/agentdesk/internal/client/session"
	"github.com/dmitrijs2005/agentdesk/internal/logging"
	"github.com/go-chi/chi/v5"
)

// ErrNotFound is returned for paths that match no route.
var ErrNotFound = errors.New("route not found")

const (
	PathLogin       = "/login"
	PathRegister    = "/register"
	PathHome        = "/"
	PathRoom        = "/room/{roomId}"
	PathRoomAudio   = "/room/{roomId}/audio"
	PathProfile     = "/profile"
	PathProjects    = "/projects"
	PathProjectsNew = "/projects/new"
)

type Access int

const (
	Public Access = iota
	Protected
)

type State int

const (
	Locked State = iota
	Unlocked
)

func (s State) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

// Route is one entry of the navigation table.
type Route struct {
	Pattern string
	Access  Access
}

// Routes is the application's navigation table.
var Routes = []Route{
	{PathLogin, Public},
	{PathRegister, Public},
	{PathHome, Protected},
	{PathRoom, Protected},
	{PathRoomAudio, Protected},
	{PathProfile, Protected},
	{PathProjects, Protected},
	{PathProjectsNew, Protected},
}

// Decision is the outcome of a navigation. A non-empty Redirect means the
// requested view was not shown.
type Decision struct {
	Path     string
	Pattern  string
	Params   map[string]string
	State    State
	Redirect string
}

func (d Decision) Allowed() bool { return d.Redirect == "" }

// Param returns a URL parameter of the matched route, e.g. "roomId".
func (d Decision) Param(name string) string { return d.Params[name] }

// MountFunc shows the view of an allowed decision.
type MountFunc func(ctx context.Context, d Decision) error

type Guard struct {
	mux    *chi.Mux
	access map[string]Access
	tokens session.TokenSource
	log    logging.Logger

	mu    sync.RWMutex
	views map[string]MountFunc
}

// New builds a guard over Routes.
func New(tokens session.TokenSource, log logging.Logger) *Guard {
	return NewWithRoutes(tokens, log, Routes)
}

func NewWithRoutes(tokens session.TokenSource, log logging.Logger, routes []Route) *Guard {
	if log == nil {
		log = logging.Nop()
	}
	g := &Guard{
		mux:    chi.NewRouter(),
		access: make(map[string]Access, len(routes)),
		tokens: tokens,
		log:    log.With("component", "guard"),
		views:  make(map[string]MountFunc),
	}
	// The mux is only a matcher; handlers are never served.
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	for _, r := range routes {
		g.mux.Get(r.Pattern, noop)
		g.access[r.Pattern] = r.Access
	}
	return g
}

// Handle attaches the view shown for pattern.
func (g *Guard) Handle(pattern string, mount MountFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.views[pattern] = mount
}

// State reports whether a credential is present right now.
func (g *Guard) State(ctx context.Context) State {
	if g.tokens == nil {
		return Locked
	}
	if _, ok := g.tokens.Get(ctx); ok {
		return Unlocked
	}
	return Locked
}

// Resolve matches path and applies the access rule without mounting.
func (g *Guard) Resolve(ctx context.Context, path string) (Decision, error) {
	p, err := normalize(path)
	if err != nil {
		return Decision{}, err
	}

	rctx := chi.NewRouteContext()
	if !g.mux.Match(rctx, http.MethodGet, p) {
		return Decision{Path: p}, fmt.Errorf("%w: %s", ErrNotFound, p)
	}

	pattern := rctx.RoutePattern()
	d := Decision{
		Path:    p,
		Pattern: pattern,
		Params:  make(map[string]string, len(rctx.URLParams.Keys)),
		State:   g.State(ctx),
	}
	for i, k := range rctx.URLParams.Keys {
		d.Params[k] = rctx.URLParams.Values[i]
	}

	if g.access[pattern] == Protected && d.State == Locked {
		d.Redirect = PathLogin
	}
	return d, nil
}

// Navigate resolves path and, when allowed, mounts its view. A locked
// navigation to a protected view returns a redirect to the sign-in view and
// never invokes the view's mount function.
func (g *Guard) Navigate(ctx context.Context, path string) (Decision, error) {
	d, err := g.Resolve(ctx, path)
	if err != nil {
		return d, err
	}
	if !d.Allowed() {
		g.log.Debug(ctx, "navigation redirected", "path", d.Path, "to", d.Redirect)
		return d, nil
	}

	g.mu.RLock()
	mount := g.views[d.Pattern]
	g.mu.RUnlock()
	if mount == nil {
		return d, nil
	}
	return d, mount(ctx, d)
}

func normalize(path string) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return p, nil
}
