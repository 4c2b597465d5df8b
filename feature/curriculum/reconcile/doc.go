// Package reconcile plans and applies the mutations that bring a remote Anki
// collection to parity with a loaded corpus catalog.
//
// The package splits the work into two phases:
//
// 1. Plan: BuildPlan reads the remote state (notes by uid tag, untagged notes
// per deck, media names by namespace glob) and diffs it against the catalog.
// The result is an ordered list of actions plus aggregate counts. Planning
// performs only read calls.
//
// 2. Apply: ApplyPlan executes a plan's actions in order through the
// anki.Client, stopping at the first error. It refuses to run unless the
// options carry Confirmed=true and DryRun=false, so a caller cannot mutate
// the collection by accident.
//
// # Matching rules
//
// Cards match remote notes by uid tag. A card whose uid has no remote
// claimant may instead adopt an untagged note in its target deck with an
// identical front, which preserves the note's review history. Remote notes
// carrying a corpus uid tag with no local card are deleted. Notes outside the
// corpus tag prefix are never touched.
//
// Unchanged cards produce no action at all. Skipping the write keeps the
// remote review metadata (scheduling, lapses) intact.
//
// # Media rules
//
// Corpus images upload when their owning card changed this run or when the
// file is absent remotely. Remote media files in the corpus namespace are
// deleted when their owning card or their local file is gone. Files matching
// the namespace glob but not the <uid>_<seq>.<ext> naming are left alone.
//
// # Usage Example
//
//	plan, err := reconcile.BuildPlan(ctx, client, catalog)
//	if err != nil {
//	    return err
//	}
//	executed, err := reconcile.ApplyPlan(ctx, client, fsys, plan, reconcile.Options{
//	    Confirmed: true,
//	})
//
// BuildPurgePlan is the destructive counterpart: it plans the removal of
// every corpus note and media file from the collection.
package reconcile
