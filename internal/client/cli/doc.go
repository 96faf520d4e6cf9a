// Package cli provides the interactive evcamctl command-line client.
//
// It wires configuration, the local session store, the backend API client,
// and an interactive REPL. Typical flow: bind a camera from its pairing
// payload, then issue capture commands and browse recorded files.
//
// Key features:
//   - Bind / Unbind a camera (pairing payload or plain device id)
//   - Capture: photo, timed record, manual start/stop recording
//   - Device status and listing
//   - File listing, download links, deletion
//   - Live preview frame refresh
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
