package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"curriculum-sync/core/anki"
	"curriculum-sync/feature/curriculum"
)

// BuildPlan compares the local catalog against the remote collection and
// returns the actions that bring the remote side to parity. It performs only
// read calls; use ApplyPlan to execute.
//
// Remote notes are matched to cards by uid tag. Notes outside the corpus tag
// prefix are never read, never planned against and never deleted.
func BuildPlan(ctx context.Context, client anki.Client, catalog *curriculum.Catalog) (*Plan, error) {
	manifest := catalog.Manifest
	plan := &Plan{Summary: Summary{
		Lessons: len(catalog.Lessons),
		Cards:   catalog.CardCount(),
	}}

	remote, err := fetchRemoteIndex(ctx, client, manifest.UIDTagPrefix())
	if err != nil {
		return nil, err
	}

	adoptable := newAdoptionIndex(client)
	changedOwners := make(map[string]bool)

	var (
		deckActions   []Action
		createActions []Action
		updateActions []Action
	)
	seenDecks := make(map[string]bool)
	ensureDeck := func(name string) {
		if seenDecks[name] {
			return
		}
		seenDecks[name] = true
		deckActions = append(deckActions, Action{Type: ActionEnsureDeck, Deck: name, Reason: "target deck"})
	}
	ensureDeck(manifest.Deck)

	for i := range catalog.Lessons {
		lesson := &catalog.Lessons[i]
		deck := manifest.SubdeckName(*lesson)
		ensureDeck(deck)

		for _, card := range lesson.Cards {
			tags := card.SyncTags()

			current, known := remote[card.UID]
			if known {
				delete(remote, card.UID)
				changed := diffNote(card.Front, card.Back, tags, current)
				if len(changed) == 0 {
					plan.Summary.Unchanged++
					continue
				}
				changedOwners[card.UID] = true
				plan.Summary.Updated++
				updateActions = append(updateActions, Action{
					Type:   ActionUpdateNote,
					UID:    card.UID,
					NoteID: current.ID,
					Front:  card.Front,
					Back:   card.Back,
					Tags:   tags,
					Reason: fmt.Sprintf("mismatch: %v", changed),
				})
				continue
			}

			orphan, adopted, err := adoptable.take(ctx, deck, card.Front)
			if err != nil {
				return nil, err
			}
			if adopted {
				changedOwners[card.UID] = true
				plan.Summary.Updated++
				plan.Summary.Adopted++
				updateActions = append(updateActions, Action{
					Type:   ActionUpdateNote,
					UID:    card.UID,
					NoteID: orphan.ID,
					Front:  card.Front,
					Back:   card.Back,
					Tags:   tags,
					Reason: "adopted by front match",
				})
				continue
			}

			changedOwners[card.UID] = true
			plan.Summary.Added++
			createActions = append(createActions, Action{
				Type:   ActionCreateNote,
				UID:    card.UID,
				Deck:   deck,
				Front:  card.Front,
				Back:   card.Back,
				Tags:   tags,
				Reason: "missing remotely",
			})
		}
	}

	var deleteActions []Action
	stale := make([]string, 0, len(remote))
	for uid := range remote {
		stale = append(stale, uid)
	}
	sort.Strings(stale)
	for _, uid := range stale {
		plan.Summary.Deleted++
		deleteActions = append(deleteActions, Action{
			Type:   ActionDeleteNote,
			UID:    uid,
			NoteID: remote[uid].ID,
			Reason: "missing locally",
		})
	}

	mediaActions, err := planMedia(ctx, client, catalog, changedOwners)
	if err != nil {
		return nil, err
	}
	for _, action := range mediaActions {
		switch action.Type {
		case ActionStoreMedia:
			plan.Summary.MediaStored++
		case ActionDeleteMedia:
			plan.Summary.MediaDeleted++
		}
	}

	plan.Actions = append(plan.Actions, deckActions...)
	plan.Actions = append(plan.Actions, createActions...)
	plan.Actions = append(plan.Actions, updateActions...)
	plan.Actions = append(plan.Actions, deleteActions...)
	plan.Actions = append(plan.Actions, mediaActions...)
	return plan, nil
}

// fetchRemoteIndex loads every remote note carrying a corpus uid tag and
// indexes them by uid. When several notes claim the same uid, the one with
// the lowest note id wins and the extras stay untouched.
func fetchRemoteIndex(ctx context.Context, client anki.Client, tagPrefix string) (map[string]anki.NoteInfo, error) {
	ids, err := client.FindNotes(ctx, anki.TagPrefixQuery(tagPrefix))
	if err != nil {
		return nil, fmt.Errorf("listing remote notes: %w", err)
	}
	index := make(map[string]anki.NoteInfo, len(ids))
	if len(ids) == 0 {
		return index, nil
	}

	notes, err := client.NotesInfo(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching remote notes: %w", err)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	for _, note := range notes {
		uid := uidFromTags(note.Tags, tagPrefix)
		if uid == "" {
			continue
		}
		if _, claimed := index[uid]; claimed {
			continue
		}
		index[uid] = note
	}
	return index, nil
}

// uidFromTags extracts the uid from the first tag carrying the corpus tag
// prefix. It returns "" for notes without one.
func uidFromTags(tags []string, tagPrefix string) string {
	for _, tag := range tags {
		if strings.HasPrefix(tag, tagPrefix) {
			return strings.TrimPrefix(tag, curriculum.TagUID)
		}
	}
	return ""
}

// adoptionIndex lazily loads, per deck, the remote notes that carry no uid
// tag at all. A local card without a remote claim adopts the untagged note
// whose front matches exactly, instead of creating a duplicate. Each orphan
// can be adopted once.
type adoptionIndex struct {
	client anki.Client
	decks  map[string]map[string]anki.NoteInfo
}

func newAdoptionIndex(client anki.Client) *adoptionIndex {
	return &adoptionIndex{
		client: client,
		decks:  make(map[string]map[string]anki.NoteInfo),
	}
}

// take returns the untagged note in deck with the given front, consuming it.
func (a *adoptionIndex) take(ctx context.Context, deck, front string) (anki.NoteInfo, bool, error) {
	byFront, loaded := a.decks[deck]
	if !loaded {
		var err error
		byFront, err = a.load(ctx, deck)
		if err != nil {
			return anki.NoteInfo{}, false, err
		}
		a.decks[deck] = byFront
	}
	note, ok := byFront[front]
	if ok {
		delete(byFront, front)
	}
	return note, ok, nil
}

func (a *adoptionIndex) load(ctx context.Context, deck string) (map[string]anki.NoteInfo, error) {
	byFront := make(map[string]anki.NoteInfo)
	ids, err := a.client.FindNotes(ctx, anki.DeckQuery(deck))
	if err != nil {
		return nil, fmt.Errorf("listing notes in deck %s: %w", deck, err)
	}
	if len(ids) == 0 {
		return byFront, nil
	}
	notes, err := a.client.NotesInfo(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching notes in deck %s: %w", deck, err)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	for _, note := range notes {
		if hasUIDTag(note.Tags) {
			continue
		}
		if _, taken := byFront[note.Front]; taken {
			continue
		}
		byFront[note.Front] = note
	}
	return byFront, nil
}

// hasUIDTag reports whether any tag claims an identity, from this corpus or
// any other. Claimed notes are never adoption candidates.
func hasUIDTag(tags []string) bool {
	for _, tag := range tags {
		if strings.HasPrefix(tag, curriculum.TagUID) {
			return true
		}
	}
	return false
}

// diffNote lists the facets where the desired card content differs from the
// remote note. Tags compare as sets; the remote side does not keep tag order.
func diffNote(front, back string, tags []string, remote anki.NoteInfo) []string {
	var changed []string
	if front != remote.Front {
		changed = append(changed, "front")
	}
	if back != remote.Back {
		changed = append(changed, "back")
	}
	if !sameTagSet(tags, remote.Tags) {
		changed = append(changed, "tags")
	}
	return changed
}

func sameTagSet(a, b []string) bool {
	setA := make(map[string]struct{}, len(a))
	for _, tag := range a {
		setA[tag] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, tag := range b {
		setB[tag] = struct{}{}
	}
	if len(setA) != len(setB) {
		return false
	}
	for tag := range setA {
		if _, ok := setB[tag]; !ok {
			return false
		}
	}
	return true
}

// planMedia reconciles the remote media folder with the corpus images. An
// image uploads when its owner changed this run or the file is absent
// remotely. A remote file in the corpus namespace deletes when its owner uid
// or the local file itself is gone. Names matching the namespace glob but not
// the <uid>_<seq>.<ext> shape are left alone.
func planMedia(ctx context.Context, client anki.Client, catalog *curriculum.Catalog, changedOwners map[string]bool) ([]Action, error) {
	remoteNames, err := client.MediaFileNames(ctx, catalog.Manifest.MediaPattern())
	if err != nil {
		return nil, fmt.Errorf("listing remote media: %w", err)
	}
	remoteSet := make(map[string]bool, len(remoteNames))
	for _, name := range remoteNames {
		remoteSet[name] = true
	}

	var stores []Action
	localSet := make(map[string]bool, len(catalog.Images))
	for _, image := range catalog.Images {
		localSet[image.Filename] = true
		switch {
		case !remoteSet[image.Filename]:
			stores = append(stores, Action{
				Type:     ActionStoreMedia,
				UID:      image.OwnerUID,
				Filename: image.Filename,
				Path:     image.Path,
				Reason:   "missing remotely",
			})
		case changedOwners[image.OwnerUID]:
			stores = append(stores, Action{
				Type:     ActionStoreMedia,
				UID:      image.OwnerUID,
				Filename: image.Filename,
				Path:     image.Path,
				Reason:   "owner changed",
			})
		}
	}

	cards := catalog.ByUID()
	var deletes []Action
	sort.Strings(remoteNames)
	for _, name := range remoteNames {
		if localSet[name] {
			continue
		}
		owner, ok := curriculum.ParseImageName(name)
		if !ok {
			continue
		}
		reason := "file missing locally"
		if _, alive := cards[owner]; !alive {
			reason = "owner missing locally"
		}
		deletes = append(deletes, Action{
			Type:     ActionDeleteMedia,
			UID:      owner,
			Filename: name,
			Reason:   reason,
		})
	}

	return append(stores, deletes...), nil
}
