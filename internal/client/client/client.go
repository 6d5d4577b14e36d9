package client

import (
	"context"
	"io"
	"net/http"

	"github.com/dmitrijs2005/agentdesk/internal/client/models"
)

// Client is the remote agent API as the client core consumes it.
type Client interface {
	SignIn(ctx context.Context, req models.SignInRequest) (string, error)
	SignUp(ctx context.Context, req models.SignUpRequest) error
	CurrentUser(ctx context.Context) (*models.User, error)
	UploadAvatar(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (string, error)
	CreateRoom(ctx context.Context, req models.CreateRoomRequest) (*models.CreateRoomResponse, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	RoomQuestions(ctx context.Context, roomID string) ([]models.Question, error)
}

// HeaderSource supplies the credential headers of outgoing requests.
// session.Store implements it.
type HeaderSource interface {
	AuthHeader(ctx context.Context) http.Header
}
