package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/agentdesk/internal/client/models"
)

const (
	testEmail    = "ann@example.com"
	testPassword = "Secret#123"
)

// fakeAPI is an in-process agent API with one account.
type fakeAPI struct {
	mu        sync.Mutex
	tokens    map[string]bool
	user      models.User
	password  string
	rooms     []models.Room
	questions map[string][]models.Question
	calls     map[string]int
	issued    int
	avatar    []byte
	uploadErr string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{
		tokens:    map[string]bool{},
		user:      models.User{ID: "u1", Name: "Ann", Email: testEmail},
		password:  testPassword,
		questions: map[string][]models.Question{},
		calls:     map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", api.signIn)
	mux.HandleFunc("POST /users", api.signUp)
	mux.HandleFunc("GET /me", api.authed(api.me))
	mux.HandleFunc("POST /users/avatar", api.authed(api.uploadAvatar))
	mux.HandleFunc("POST /users/password", api.authed(api.changePassword))
	mux.HandleFunc("GET /rooms", api.authed(api.listRooms))
	mux.HandleFunc("POST /rooms", api.authed(api.createRoom))
	mux.HandleFunc("GET /rooms/{roomId}/questions", api.authed(api.roomQuestions))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api, srv
}

func (f *fakeAPI) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAPI) revokeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = map[string]bool{}
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[r.Method+" "+r.URL.Path]++
		ok := f.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
		f.mu.Unlock()
		if !ok {
			reply(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
			return
		}
		h(w, r)
	}
}

func (f *fakeAPI) signIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["POST /sessions"]++
	if req.Email != f.user.Email || req.Password != f.password {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"invalid credentials"}`)
		return
	}
	f.issued++
	tok := fmt.Sprintf("tok-%d", f.issued)
	f.tokens[tok] = true
	reply(w, http.StatusCreated, models.SignInResponse{Token: tok})
}

func (f *fakeAPI) signUp(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls["POST /users"]++
	f.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
}

func (f *fakeAPI) me(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reply(w, http.StatusOK, models.CurrentUserResponse{User: f.user})
}

func (f *fakeAPI) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	file, hdr, err := r.FormFile("avatar")
	if err != nil {
		reply(w, http.StatusBadRequest, map[string]string{"message": "avatar missing"})
		return
	}
	defer file.Close()
	b, _ := io.ReadAll(file)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != "" {
		msg := f.uploadErr
		f.uploadErr = ""
		reply(w, http.StatusBadRequest, map[string]string{"message": msg})
		return
	}
	f.avatar = b
	f.user.AvatarURL = "https://cdn.example/" + hdr.Filename
	reply(w, http.StatusOK, models.AvatarResponse{AvatarURL: f.user.AvatarURL})
}

func (f *fakeAPI) changePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if req.CurrentPassword != f.password {
		reply(w, http.StatusBadRequest, map[string]string{"message": "current password is wrong"})
		return
	}
	f.password = req.NewPassword
	reply(w, http.StatusOK, models.MessageResponse{Message: "Password updated."})
}

func (f *fakeAPI) listRooms(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rooms := f.rooms
	if rooms == nil {
		rooms = []models.Room{}
	}
	reply(w, http.StatusOK, rooms)
}

func (f *fakeAPI) createRoom(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("room-%d", len(f.rooms)+1)
	f.rooms = append(f.rooms, models.Room{ID: id, Name: req.Name, Description: req.Description, CreatedAt: time.Now()})
	reply(w, http.StatusCreated, models.CreateRoomResponse{RoomID: id})
}

func (f *fakeAPI) roomQuestions(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	qs := f.questions[r.PathValue("roomId")]
	if qs == nil {
		qs = []models.Question{}
	}
	reply(w, http.StatusOK, qs)
}
