package reconcile

import (
	"context"
	"fmt"
	"sort"

	"curriculum-sync/core/anki"
	"curriculum-sync/feature/curriculum"
)

// BuildPurgePlan returns the actions that remove every trace of the corpus
// from the remote collection: all notes carrying a corpus uid tag, duplicate
// claimants included, and every parseable media file in the corpus namespace.
// Decks stay in place; they may hold notes from outside the corpus.
func BuildPurgePlan(ctx context.Context, client anki.Client, manifest curriculum.Manifest) (*Plan, error) {
	plan := &Plan{}

	ids, err := client.FindNotes(ctx, anki.TagPrefixQuery(manifest.UIDTagPrefix()))
	if err != nil {
		return nil, fmt.Errorf("listing remote notes: %w", err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		plan.Summary.Deleted++
		plan.Actions = append(plan.Actions, Action{
			Type:   ActionDeleteNote,
			NoteID: id,
			Reason: "purge",
		})
	}

	names, err := client.MediaFileNames(ctx, manifest.MediaPattern())
	if err != nil {
		return nil, fmt.Errorf("listing remote media: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		owner, ok := curriculum.ParseImageName(name)
		if !ok {
			continue
		}
		plan.Summary.MediaDeleted++
		plan.Actions = append(plan.Actions, Action{
			Type:     ActionDeleteMedia,
			UID:      owner,
			Filename: name,
			Reason:   "purge",
		})
	}

	return plan, nil
}
