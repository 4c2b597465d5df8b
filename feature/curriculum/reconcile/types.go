package reconcile

import "curriculum-sync/core/anki"

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionEnsureDeck creates a deck unless it already exists.
	ActionEnsureDeck ActionType = "ensure_deck"
	// ActionCreateNote creates a new remote note for a local card.
	ActionCreateNote ActionType = "create_note"
	// ActionUpdateNote replaces the fields and tags of an existing remote
	// note, including the adoption case where an untagged note gains its
	// uid tag.
	ActionUpdateNote ActionType = "update_note"
	// ActionDeleteNote removes a remote note whose uid vanished locally.
	ActionDeleteNote ActionType = "delete_note"
	// ActionStoreMedia uploads an image into the remote media folder.
	ActionStoreMedia ActionType = "store_media"
	// ActionDeleteMedia removes an image from the remote media folder.
	ActionDeleteMedia ActionType = "delete_media"
)

// Action represents one planned mutation against the remote store.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// UID is the card identity the action belongs to, when card-scoped.
	UID string `json:"uid,omitempty"`

	// Deck is the target deck for ensure_deck and create_note actions.
	Deck string `json:"deck,omitempty"`

	// NoteID is the remote note for update_note and delete_note actions.
	NoteID anki.NoteID `json:"note_id,omitempty"`

	// Filename is the remote media name for store_media and delete_media.
	Filename string `json:"filename,omitempty"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Front, Back and Tags carry the desired note content for create and
	// update actions.
	Front string   `json:"-"`
	Back  string   `json:"-"`
	Tags  []string `json:"-"`

	// Path is the local file read during apply for store_media actions.
	Path string `json:"-"`
}

// Plan contains the planned actions and aggregate counts for one run.
type Plan struct {
	// Actions in execution order: decks, creates, updates, deletes,
	// media uploads, media deletes.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Empty reports whether the plan contains no note or media mutations.
// Deck ensures alone do not count; they are idempotent reads in the common
// case.
func (p *Plan) Empty() bool {
	for _, action := range p.Actions {
		if action.Type != ActionEnsureDeck {
			return false
		}
	}
	return true
}

// Summary provides aggregate statistics for a plan.
type Summary struct {
	// Lessons and Cards describe the local catalog.
	Lessons int `json:"lessons"`
	Cards   int `json:"cards"`

	// Added counts notes that will be created.
	Added int `json:"added"`

	// Updated counts notes that will be rewritten, adoptions included.
	Updated int `json:"updated"`

	// Adopted counts the subset of Updated where an existing untagged note
	// with identical front gains the card's uid tag instead of a duplicate
	// being created.
	Adopted int `json:"adopted"`

	// Unchanged counts cards already at parity. No call is made for them,
	// which preserves remote review metadata.
	Unchanged int `json:"unchanged"`

	// Deleted counts remote notes whose uid vanished locally.
	Deleted int `json:"deleted"`

	// MediaStored and MediaDeleted count media mutations.
	MediaStored  int `json:"media_stored"`
	MediaDeleted int `json:"media_deleted"`
}

// Options controls apply behavior.
type Options struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Confirmed indicates the caller has confirmed destructive actions.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}
