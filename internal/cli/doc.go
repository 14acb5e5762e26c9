// Package cli provides the interactive notedrop capture shell.
//
// It wires configuration, the local vault and history database, the image
// host client, and the Notion publisher into an interactive REPL. Typical
// flow: open the data directory, resolve credentials, and capture notes that
// are submitted in the background while the prompt stays responsive.
//
// Key features:
//   - Capture: multi-line text plus optional image paths
//   - Setup: collect and store the Notion and image host credentials
//   - History: list recent submissions with their outcomes
//   - Forget: drop a stored credential so Setup asks for it again
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// and then waits for in-flight submissions to finish.
package cli
