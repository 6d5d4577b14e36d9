// Package client contains the client-side building blocks for the agent API.
//
// # Overview
//
// The package provides:
//  1. The API contract the client core consumes (see the Client interface):
//     SignIn, SignUp, CurrentUser, UploadAvatar, ChangePassword, CreateRoom,
//     ListRooms and RoomQuestions.
//  2. An HTTP/JSON implementation (see HTTPClient) that attaches the
//     credential headers of a HeaderSource to auth-required calls, tags every
//     request with an X-Request-Id and maps failures to *APIError.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations),
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Every failed call returns *APIError whose Error() is the message meant for
// the user. Conditions can be matched with errors.Is: ErrUnauthorized (401,
// 403) and ErrUnavailable (no response or a gateway failure).
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and deadlines.
package client
