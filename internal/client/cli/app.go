package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/agentdesk/internal/client/cache"
	"github.com/dmitrijs2005/agentdesk/internal/client/client"
	"github.com/dmitrijs2005/agentdesk/internal/client/config"
	"github.com/dmitrijs2005/agentdesk/internal/client/guard"
	"github.com/dmitrijs2005/agentdesk/internal/client/models"
	"github.com/dmitrijs2005/agentdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/agentdesk/internal/client/services"
	"github.com/dmitrijs2005/agentdesk/internal/client/session"
	"github.com/dmitrijs2005/agentdesk/internal/client/upload"
	"github.com/dmitrijs2005/agentdesk/internal/logging"
)

// App is the composition root of the CLI: one token store, one cache and
// the services built on them.
type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	tokens *session.Store
	cache  *cache.Cache
	guard  *guard.Guard
	avatar *upload.Workflow

	authService services.AuthService
	roomService services.RoomService

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	a := &App{
		config: c,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	var storage session.Storage
	if c.DBPath != "" {
		db, err := client.InitDatabase(ctx, c.DBPath)
		if err != nil {
			log.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
			return nil, err
		}
		a.db = db
		storage = metadata.NewSQLiteRepository(db)
	} else {
		log.Warn(ctx, "no database configured, credentials cannot be stored")
	}

	a.tokens = session.NewStore(storage, log)
	a.cache = cache.New(cache.WithFetchTimeout(c.RequestTimeout), cache.WithLogger(log))

	opts := []client.Option{
		client.WithHTTPClient(&http.Client{Timeout: c.RequestTimeout}),
		client.WithLogger(log),
	}
	if c.SignOutOnUnauthorized {
		opts = append(opts, client.WithUnauthorizedHook(a.dropSession))
	}
	apiClient, err := client.NewHTTPClient(c.APIBaseURL, a.tokens, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}

	alloc, err := upload.NewTempAllocator(c.PreviewDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("preview dir: %w", err)
	}

	a.authService = services.NewAuthService(apiClient, a.tokens, a.cache, log)
	a.roomService = services.NewRoomService(apiClient, a.cache, log)
	a.avatar = upload.New(apiClient, a.cache, alloc, log)
	a.guard = guard.New(a.tokens, log)
	a.registerViews()

	return a, nil
}

// dropSession forgets a credential the server no longer accepts.
func (a *App) dropSession(ctx context.Context) {
	if err := a.tokens.Clear(ctx); err != nil {
		a.log.Warn(ctx, "could not clear rejected credential", "error", err)
	}
	a.cache.Reset()
	a.log.Info(ctx, "session ended by server")
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to agentdesk (type 'help' for commands)")
	runREPL(ctx, a, a.promptStatus, a.reader)
}

// Close releases the preview of an unfinished upload and the database.
func (a *App) Close() error {
	if a.avatar != nil {
		_ = a.avatar.Close()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.guard.State(ctx) == guard.Unlocked
}

// promptStatus names the signed-in user once their profile is cached.
func (a *App) promptStatus(ctx context.Context) string {
	if !a.isLoggedIn(ctx) {
		return "signed out"
	}
	snap := a.cache.Peek(cache.CurrentUserKey)
	if u, ok := snap.Value.(*models.User); ok && snap.HasValue {
		return u.Name
	}
	return "signed in"
}
