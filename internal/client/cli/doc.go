// Package cli is the zamazon navigation shell.
//
// App owns the session store, the access guard (through nav.Router) and
// the backend client, and drives a line based REPL. Each line either opens
// a page by path or shortcut, or is handed to the page currently shown.
// Before each render the shell prints the main bar and the category bar.
//
// At start the session verifier runs once in the background; the shell
// subscribes to the store, and when the session flips it re-resolves the
// current path so protected pages give way to the login page.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
