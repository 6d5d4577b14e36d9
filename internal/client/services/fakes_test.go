package services

import (
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/agentdesk/internal/client/models"
)

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	mu sync.Mutex

	SignInToken string
	SignInErr   error
	SignUpErr   error

	User           *models.User
	CurrentUserErr error

	ChangePasswordMsg string
	ChangePasswordErr error

	CreateRoomID  string
	CreateRoomErr error

	Rooms        []models.Room
	ListRoomsErr error

	Questions    map[string][]models.Question
	QuestionsErr error

	calls map[string]int
}

func (f *fakeClient) hit(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[op]++
}

func (f *fakeClient) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeClient) SignIn(ctx context.Context, req models.SignInRequest) (string, error) {
	f.hit("SignIn")
	return f.SignInToken, f.SignInErr
}

func (f *fakeClient) SignUp(ctx context.Context, req models.SignUpRequest) error {
	f.hit("SignUp")
	return f.SignUpErr
}

func (f *fakeClient) CurrentUser(ctx context.Context) (*models.User, error) {
	f.hit("CurrentUser")
	if f.CurrentUserErr != nil {
		return nil, f.CurrentUserErr
	}
	u := *f.User
	return &u, nil
}

func (f *fakeClient) UploadAvatar(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	f.hit("UploadAvatar")
	return "", nil
}

func (f *fakeClient) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (string, error) {
	f.hit("ChangePassword")
	return f.ChangePasswordMsg, f.ChangePasswordErr
}

func (f *fakeClient) CreateRoom(ctx context.Context, req models.CreateRoomRequest) (*models.CreateRoomResponse, error) {
	f.hit("CreateRoom")
	if f.CreateRoomErr != nil {
		return nil, f.CreateRoomErr
	}
	return &models.CreateRoomResponse{RoomID: f.CreateRoomID}, nil
}

func (f *fakeClient) ListRooms(ctx context.Context) ([]models.Room, error) {
	f.hit("ListRooms")
	return f.Rooms, f.ListRoomsErr
}

func (f *fakeClient) RoomQuestions(ctx context.Context, roomID string) ([]models.Question, error) {
	f.hit("RoomQuestions")
	if f.QuestionsErr != nil {
		return nil, f.QuestionsErr
	}
	return f.Questions[roomID], nil
}

// memTokens is an in-memory TokenStore.
type memTokens struct {
	mu       sync.Mutex
	token    string
	clearErr error
}

func (m *memTokens) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memTokens) Get(context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *memTokens) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return m.clearErr
}

func (m *memTokens) Persistent() bool { return true }
