package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Open(ctx context.Context, path string) error
	Profile(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
	Password(ctx context.Context) error
	Rooms(ctx context.Context) error
	CreateRoom(ctx context.Context) error
	Questions(ctx context.Context, roomID string) error
}

// runREPL starts a simple read–eval–print loop for the agentdesk CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Signed out:
//	  - help               show available commands
//	  - register           create an account
//	  - login              sign in
//	  - status             show the local session
//	  - open <path>        navigate to a page
//	  - exit | quit        leave the program
//
//	Signed in, additionally:
//	  - profile            show the current user
//	  - avatar <file>      replace the avatar
//	  - password           change the password
//	  - rooms              list rooms
//	  - createroom         create a room
//	  - questions <id>     list the questions of a room
//	  - logout             sign out
//
// Errors returned by command handlers are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func(context.Context) string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("agentdesk (%s) > ", statusFn(ctx)))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: profile, avatar <file>, password, rooms, createroom, questions <roomId>, open <path>, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, open <path>, status, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "status":
			cmdErr = a.Status(ctx)

		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <path>")
				continue
			}
			cmdErr = a.Open(ctx, args[0])

		case "profile":
			cmdErr = a.Profile(ctx)

		case "avatar":
			if len(args) != 1 {
				printlnFn("Usage: avatar <file>")
				continue
			}
			cmdErr = a.Avatar(ctx, args[0])

		case "password":
			cmdErr = a.Password(ctx)

		case "rooms":
			cmdErr = a.Rooms(ctx)

		case "createroom":
			cmdErr = a.CreateRoom(ctx)

		case "questions":
			if len(args) != 1 {
				printlnFn("Usage: questions <roomId>")
				continue
			}
			cmdErr = a.Questions(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr.Error())
		}
	}
}
