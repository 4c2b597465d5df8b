// Package anki provides a client for the AnkiConnect add-on HTTP API.
//
// AnkiConnect exposes a running Anki instance on a local port (8765 by
// default) and speaks a single-endpoint JSON protocol: every call is a POST
// with an action name, a protocol version and optional params, answered by a
// {result, error} envelope. This package wraps that envelope behind typed
// methods for the handful of actions the sync tool needs.
//
// # Client Interface
//
// The Client interface abstracts the remote collection, making it easy to
// mock AnkiConnect interactions for unit testing (as seen in core/anki/mocks).
//
// # Operations
//
//   - EnsureDeck: Idempotent deck creation.
//   - FindNotes / NotesInfo: Search and fetch note state.
//   - AddNote / UpdateNoteFields / UpdateNoteTags / DeleteNotes: Note lifecycle.
//   - StoreMediaFile / DeleteMediaFile / MediaFileNames: Media lifecycle.
//
// # Errors
//
// Failed calls return *RemoteError carrying the action name. Transport-level
// failures additionally match ErrUnreachable via errors.Is, which callers use
// to tell "Anki is not running" apart from "Anki rejected the request".
//
// # Usage
//
//	client, err := anki.NewClient(config)
//	ids, err := client.FindNotes(ctx, anki.TagQuery("uid:LA-01-001"))
package anki
