package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/agentdesk/internal/client/cache"
	"github.com/dmitrijs2005/agentdesk/internal/client/guard"
	"github.com/dmitrijs2005/agentdesk/internal/client/models"
)

func (a *App) registerViews() {
	a.guard.Handle(guard.PathLogin, func(ctx context.Context, _ guard.Decision) error { return a.Login(ctx) })
	a.guard.Handle(guard.PathRegister, func(ctx context.Context, _ guard.Decision) error { return a.Register(ctx) })
	a.guard.Handle(guard.PathHome, a.roomsView)
	a.guard.Handle(guard.PathProjects, a.roomsView)
	a.guard.Handle(guard.PathProjectsNew, a.createRoomView)
	a.guard.Handle(guard.PathRoom, a.questionsView)
	a.guard.Handle(guard.PathRoomAudio, a.audioView)
	a.guard.Handle(guard.PathProfile, a.profileView)
}

// Open navigates to path, e.g. "/room/42".
func (a *App) Open(ctx context.Context, path string) error {
	d, err := a.guard.Navigate(ctx, path)
	if err != nil {
		if errors.Is(err, guard.ErrNotFound) {
			return fmt.Errorf("no such page: %s", path)
		}
		return err
	}
	if !d.Allowed() {
		a.redirected(d)
	}
	return nil
}

func (a *App) Profile(ctx context.Context) error { return a.Open(ctx, guard.PathProfile) }

func (a *App) Rooms(ctx context.Context) error { return a.Open(ctx, guard.PathProjects) }

func (a *App) CreateRoom(ctx context.Context) error { return a.Open(ctx, guard.PathProjectsNew) }

func (a *App) Questions(ctx context.Context, roomID string) error {
	return a.Open(ctx, "/room/"+url.PathEscape(roomID))
}

// allowed reports whether the view at path may be shown now, telling the
// user where they were sent otherwise.
func (a *App) allowed(ctx context.Context, path string) (bool, error) {
	d, err := a.guard.Resolve(ctx, path)
	if err != nil {
		return false, err
	}
	if !d.Allowed() {
		a.redirected(d)
		return false, nil
	}
	return true, nil
}

func (a *App) redirected(d guard.Decision) {
	fmt.Fprintf(a.out, "Sign in required (%s -> %s). Use 'login' or 'register'.\n", d.Path, d.Redirect)
}

func (a *App) roomsView(ctx context.Context, _ guard.Decision) error {
	rooms, err := a.roomService.ListRooms(ctx)
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		fmt.Fprintln(a.out, "No rooms yet. Create one with 'createroom'.")
		return nil
	}
	for _, r := range rooms {
		fmt.Fprintf(a.out, "%s  %s  (%d questions, created %s)\n",
			r.ID, r.Name, r.QuestionsCount, r.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func (a *App) createRoomView(ctx context.Context, _ guard.Decision) error {
	name, err := getSimpleText(a.reader, "Room name", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}

	id, err := a.roomService.CreateRoom(ctx, models.CreateRoomRequest{Name: name, Description: description})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Room created: %s\n", id)
	return nil
}

func (a *App) questionsView(ctx context.Context, d guard.Decision) error {
	roomID, err := url.PathUnescape(d.Param("roomId"))
	if err != nil {
		return err
	}
	questions, err := a.roomService.Questions(ctx, roomID)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		fmt.Fprintln(a.out, "No questions in this room yet.")
		return nil
	}
	for i, q := range questions {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, q.Question)
		if q.Answer != "" {
			fmt.Fprintf(a.out, "   %s\n", q.Answer)
		} else {
			fmt.Fprintln(a.out, "   (waiting for an answer)")
		}
	}
	return nil
}

func (a *App) audioView(_ context.Context, d guard.Decision) error {
	fmt.Fprintf(a.out, "Recording questions for room %s is not available in the terminal.\n", d.Param("roomId"))
	return nil
}

// profileView shows the current user. When a refresh fails, the last loaded
// profile is shown along with the error.
func (a *App) profileView(ctx context.Context, _ guard.Decision) error {
	u, err := a.authService.CurrentUser(ctx)
	if err != nil {
		snap := a.cache.Peek(cache.CurrentUserKey)
		stale, ok := snap.Value.(*models.User)
		if !ok || !snap.HasValue {
			return err
		}
		a.printUser(stale)
		fmt.Fprintf(a.out, "(could not refresh: %s)\n", err)
		return nil
	}
	a.printUser(u)
	return nil
}

func (a *App) printUser(u *models.User) {
	fmt.Fprintf(a.out, "Name:   %s\n", u.Name)
	fmt.Fprintf(a.out, "Email:  %s\n", u.Email)
	avatar := u.AvatarURL
	if avatar == "" {
		avatar = "(none)"
	}
	fmt.Fprintf(a.out, "Avatar: %s\n", avatar)
}
