package reconcile

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"curriculum-sync/core/anki"
)

// ApplyPlan executes the actions of a plan in order and returns the number of
// actions executed. Execution stops at the first error. It requires
// opts.Confirmed true and opts.DryRun false to execute anything at all.
//
// Media files are read from fsys at apply time, so a plan stays cheap to
// build and print. Consecutive note deletions collapse into one batch call.
func ApplyPlan(ctx context.Context, client anki.Client, fsys afero.Fs, plan *Plan, opts Options) (executed int, err error) {
	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	actions := plan.Actions
	for i := 0; i < len(actions); i++ {
		action := actions[i]
		switch action.Type {
		case ActionEnsureDeck:
			if _, err := client.EnsureDeck(ctx, action.Deck); err != nil {
				return executed, fmt.Errorf("failed to ensure deck %s: %w", action.Deck, err)
			}
			executed++

		case ActionCreateNote:
			note := anki.NewNote{
				Deck:  action.Deck,
				Front: action.Front,
				Back:  action.Back,
				Tags:  action.Tags,
			}
			if _, err := client.AddNote(ctx, note); err != nil {
				return executed, fmt.Errorf("failed to create note %s: %w", action.UID, err)
			}
			executed++

		case ActionUpdateNote:
			if err := client.UpdateNoteFields(ctx, action.NoteID, action.Front, action.Back); err != nil {
				return executed, fmt.Errorf("failed to update note %s: %w", action.UID, err)
			}
			if err := client.UpdateNoteTags(ctx, action.NoteID, action.Tags); err != nil {
				return executed, fmt.Errorf("failed to update tags of note %s: %w", action.UID, err)
			}
			executed++

		case ActionDeleteNote:
			batch := []anki.NoteID{action.NoteID}
			for i+1 < len(actions) && actions[i+1].Type == ActionDeleteNote {
				i++
				batch = append(batch, actions[i].NoteID)
			}
			if err := client.DeleteNotes(ctx, batch); err != nil {
				return executed, fmt.Errorf("failed to delete %d notes: %w", len(batch), err)
			}
			executed += len(batch)

		case ActionStoreMedia:
			data, err := afero.ReadFile(fsys, action.Path)
			if err != nil {
				return executed, fmt.Errorf("failed to read media %s: %w", action.Filename, err)
			}
			if err := client.StoreMediaFile(ctx, action.Filename, data); err != nil {
				return executed, fmt.Errorf("failed to store media %s: %w", action.Filename, err)
			}
			executed++

		case ActionDeleteMedia:
			if err := client.DeleteMediaFile(ctx, action.Filename); err != nil {
				return executed, fmt.Errorf("failed to delete media %s: %w", action.Filename, err)
			}
			executed++

		default:
			return executed, fmt.Errorf("unknown action type %q", action.Type)
		}
	}

	return executed, nil
}
