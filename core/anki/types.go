package anki

import "fmt"

// APIVersion is the AnkiConnect protocol version this client speaks.
const APIVersion = 6

// ModelBasic is the notetype every synced note uses. Its two fields are
// FieldFront and FieldBack.
const ModelBasic = "Basic"

const (
	FieldFront = "Front"
	FieldBack  = "Back"
)

// NoteID identifies a note inside the Anki collection.
type NoteID int64

// NewNote describes a note to be created.
type NewNote struct {
	Deck  string
	Front string
	Back  string
	Tags  []string
}

// NoteInfo is the remote state of an existing note, reduced to what the
// reconciler compares: the two Basic fields and the tag set.
type NoteInfo struct {
	ID    NoteID
	Front string
	Back  string
	Tags  []string
}

// TagQuery returns a search query matching notes that carry the given tag.
func TagQuery(tag string) string {
	return fmt.Sprintf("tag:%q", tag)
}

// TagPrefixQuery returns a search query matching notes with any tag that
// starts with the given prefix. Anki globs inside quoted terms, so the
// trailing star stays inside the quotes.
func TagPrefixQuery(prefix string) string {
	return TagQuery(prefix + "*")
}

// DeckQuery returns a search query matching notes in exactly the given deck.
func DeckQuery(deck string) string {
	return fmt.Sprintf("deck:%q", deck)
}
