package client

import "net/http"

// operation describes one endpoint of the fixed API contract.
type operation struct {
	name     string
	method   string
	auth     bool
	fallback string
}

var (
	opSignIn         = operation{"SignIn", http.MethodPost, false, "sign-in failed"}
	opSignUp         = operation{"SignUp", http.MethodPost, false, "sign-up failed"}
	opCurrentUser    = operation{"CurrentUser", http.MethodGet, true, "could not load user"}
	opUploadAvatar   = operation{"UploadAvatar", http.MethodPost, true, "avatar upload failed"}
	opChangePassword = operation{"ChangePassword", http.MethodPost, true, "password change failed"}
	opCreateRoom     = operation{"CreateRoom", http.MethodPost, true, "room creation failed"}
	opListRooms      = operation{"ListRooms", http.MethodGet, true, "could not load rooms"}
	opRoomQuestions  = operation{"RoomQuestions", http.MethodGet, true, "could not load questions"}
)
