// Package services contains application services for the agentdesk client.
// They combine the API client with the token store and the resource cache,
// and are what the CLI talks to.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/agentdesk/internal/client/cache"
	"github.com/dmitrijs2005/agentdesk/internal/client/client"
	"github.com/dmitrijs2005/agentdesk/internal/client/models"
	"github.com/dmitrijs2005/agentdesk/internal/client/session"
	"github.com/dmitrijs2005/agentdesk/internal/logging"
)

// TokenStore is the subset of session.Store the services use.
type TokenStore interface {
	Save(ctx context.Context, token string) error
	Get(ctx context.Context) (string, bool)
	Clear(ctx context.Context) error
	Persistent() bool
}

// AuthStatus describes the local session.
type AuthStatus struct {
	SignedIn   bool
	Persistent bool
	Token      session.Info
	Decoded    bool
}

// AuthService defines account operations for the CLI.
//
// Contract:
//   - SignIn: authenticate, persist the returned token.
//   - SignUp: create an account; does not sign in.
//   - SignOut: forget the token and every cached resource.
//   - ChangePassword: change the password of the signed-in user.
//   - CurrentUser: the signed-in profile, cached under "current-user".
//   - Status: what the local session looks like, without a network call.
//
// Forms are validated before any request is made; a validation failure
// matches models.ErrValidation.
type AuthService interface {
	SignIn(ctx context.Context, req models.SignInRequest) error
	SignUp(ctx context.Context, req models.SignUpRequest) error
	SignOut(ctx context.Context) error
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (string, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	Status(ctx context.Context) AuthStatus
}

type authService struct {
	client client.Client
	tokens TokenStore
	cache  *cache.Cache
	log    logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client,
// token store and cache.
func NewAuthService(c client.Client, tokens TokenStore, rc *cache.Cache, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: c, tokens: tokens, cache: rc, log: log.With("service", "auth")}
}

// SignIn exchanges credentials for a token and saves it. API errors are
// returned unchanged so their message reaches the user as sent.
func (a *authService) SignIn(ctx context.Context, req models.SignInRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	token, err := a.client.SignIn(ctx, req)
	if err != nil {
		return err
	}

	// A previous user's data must not leak into the new session.
	a.cache.Reset()
	if err := a.tokens.Save(ctx, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	a.log.Info(ctx, "signed in", "persistent", a.tokens.Persistent())
	return nil
}

func (a *authService) SignUp(ctx context.Context, req models.SignUpRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return a.client.SignUp(ctx, req)
}

// SignOut clears the token and drops all cached data.
func (a *authService) SignOut(ctx context.Context) error {
	err := a.tokens.Clear(ctx)
	a.cache.Reset()
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	a.log.Info(ctx, "signed out")
	return nil
}

func (a *authService) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return a.client.ChangePassword(ctx, req)
}

func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	return cache.Query(ctx, a.cache, cache.CurrentUserKey, a.client.CurrentUser)
}

func (a *authService) Status(ctx context.Context) AuthStatus {
	st := AuthStatus{Persistent: a.tokens.Persistent()}
	token, ok := a.tokens.Get(ctx)
	if !ok {
		return st
	}
	st.SignedIn = true
	st.Token, st.Decoded = session.Inspect(token)
	return st
}
