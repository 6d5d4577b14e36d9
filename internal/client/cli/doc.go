// Package cli provides the interactive agentdesk command-line client.
//
// App is the composition root: it opens the local SQLite session store,
// builds the token store, the resource cache, the HTTP API client and the
// services on top of them, and registers a view for every route of the
// navigation guard. The REPL (see runREPL) turns commands into navigations
// and service calls.
//
// Key features:
//   - Register / Login / Logout, with the credential kept across restarts
//   - Profile and avatar replacement with a local preview and confirmation
//   - Rooms: list, create, show questions
//   - Pages opened through the guard, which sends signed-out users to /login
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
