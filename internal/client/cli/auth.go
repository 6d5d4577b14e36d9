package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/agentdesk/internal/client/guard"
	"github.com/dmitrijs2005/agentdesk/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errPasswordMismatch = errors.New("passwords do not match")

// Register prompts for name, email and password and creates an account.
// It does not sign in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	req := models.SignUpRequest{Name: name, Email: email, Password: string(password)}
	if err := a.authService.SignUp(ctx, req); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account created. Sign in with 'login'.")
	return nil
}

// Login prompts for credentials and signs in. On success the current user
// is fetched so the prompt can show their name.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.authService.SignIn(ctx, models.SignInRequest{Email: email, Password: string(password)}); err != nil {
		return err
	}

	if err := a.roomService.Prefetch(ctx); err != nil {
		a.log.Warn(ctx, "could not load profile after sign-in", "error", err)
	}
	fmt.Fprintln(a.out, "Signed in.")
	return nil
}

// Logout ends the session: the credential, cached data and any unfinished
// avatar upload are dropped.
func (a *App) Logout(ctx context.Context) error {
	a.avatar.Cancel()
	if err := a.authService.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// Status prints the local session without contacting the server.
func (a *App) Status(ctx context.Context) error {
	st := a.authService.Status(ctx)

	storage := "persistent"
	if !st.Persistent {
		storage = "none"
	}

	if !st.SignedIn {
		fmt.Fprintf(a.out, "Signed out (session storage: %s)\n", storage)
		return nil
	}
	fmt.Fprintf(a.out, "Signed in (session storage: %s)\n", storage)
	if st.Decoded {
		if st.Token.Subject != "" {
			fmt.Fprintf(a.out, "  subject: %s\n", st.Token.Subject)
		}
		if !st.Token.ExpiresAt.IsZero() {
			note := ""
			if st.Token.Expired(time.Now()) {
				note = " (expired)"
			}
			fmt.Fprintf(a.out, "  expires: %s%s\n", st.Token.ExpiresAt.Format(time.RFC3339), note)
		}
	}
	return nil
}

// Password changes the account password. It belongs to the profile view and
// is only available when that view is.
func (a *App) Password(ctx context.Context) error {
	if ok, err := a.allowed(ctx, guard.PathProfile); !ok || err != nil {
		return err
	}

	current, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer wipe(current)
	next, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer wipe(next)
	again, err := getPassword("Repeat new password", a.out)
	if err != nil {
		return err
	}
	defer wipe(again)

	if string(next) != string(again) {
		return errPasswordMismatch
	}

	msg, err := a.authService.ChangePassword(ctx, models.ChangePasswordRequest{
		CurrentPassword: string(current),
		NewPassword:     string(next),
	})
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Password changed."
	}
	fmt.Fprintln(a.out, msg)
	return nil
}
