package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"curriculum-sync/core/anki"
	"curriculum-sync/core/anki/mocks"
	"curriculum-sync/feature/curriculum/reconcile"
)

func TestApplyPlan_RequiresConfirmation(t *testing.T) {
	mockClient := &mocks.Client{}
	plan := &reconcile.Plan{Actions: []reconcile.Action{
		{Type: reconcile.ActionCreateNote, UID: "LA-01-001", Deck: "Linear Algebra", Front: "Q", Back: "A"},
	}}

	tests := []struct {
		name string
		opts reconcile.Options
	}{
		{"Unconfirmed", reconcile.Options{}},
		{"DryRun", reconcile.Options{Confirmed: true, DryRun: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executed, err := reconcile.ApplyPlan(context.Background(), mockClient, afero.NewMemMapFs(), plan, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, 0, executed)
		})
	}
	mockClient.AssertNotCalled(t, "AddNote", mock.Anything, mock.Anything)
}

func TestApplyPlan_ExecutesAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "content/images/LA-01-001_01.png", []byte("png-bytes"), 0o644))

	plan := &reconcile.Plan{Actions: []reconcile.Action{
		{Type: reconcile.ActionEnsureDeck, Deck: "Linear Algebra"},
		{Type: reconcile.ActionCreateNote, UID: "LA-01-001", Deck: "Linear Algebra::01 Vectors", Front: "Q1", Back: "A1", Tags: []string{"uid:LA-01-001"}},
		{Type: reconcile.ActionUpdateNote, UID: "LA-01-002", NoteID: 102, Front: "Q2", Back: "A2", Tags: []string{"t", "uid:LA-01-002"}},
		{Type: reconcile.ActionDeleteNote, UID: "LA-09-001", NoteID: 301},
		{Type: reconcile.ActionDeleteNote, UID: "LA-09-002", NoteID: 302},
		{Type: reconcile.ActionStoreMedia, UID: "LA-01-001", Filename: "LA-01-001_01.png", Path: "content/images/LA-01-001_01.png"},
		{Type: reconcile.ActionDeleteMedia, UID: "LA-09-001", Filename: "LA-09-001_01.png"},
	}}

	mockClient := &mocks.Client{}
	mockClient.On("EnsureDeck", mock.Anything, "Linear Algebra").Return(true, nil).Once()
	mockClient.On("AddNote", mock.Anything, anki.NewNote{
		Deck:  "Linear Algebra::01 Vectors",
		Front: "Q1",
		Back:  "A1",
		Tags:  []string{"uid:LA-01-001"},
	}).Return(anki.NoteID(900), nil).Once()
	mockClient.On("UpdateNoteFields", mock.Anything, anki.NoteID(102), "Q2", "A2").Return(nil).Once()
	mockClient.On("UpdateNoteTags", mock.Anything, anki.NoteID(102), []string{"t", "uid:LA-01-002"}).Return(nil).Once()
	// Consecutive deletions collapse into one call.
	mockClient.On("DeleteNotes", mock.Anything, []anki.NoteID{301, 302}).Return(nil).Once()
	mockClient.On("StoreMediaFile", mock.Anything, "LA-01-001_01.png", []byte("png-bytes")).Return(nil).Once()
	mockClient.On("DeleteMediaFile", mock.Anything, "LA-09-001_01.png").Return(nil).Once()

	executed, err := reconcile.ApplyPlan(context.Background(), mockClient, fs, plan, reconcile.Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 7, executed)
	mockClient.AssertExpectations(t)
}

func TestApplyPlan_StopsOnFirstError(t *testing.T) {
	plan := &reconcile.Plan{Actions: []reconcile.Action{
		{Type: reconcile.ActionCreateNote, UID: "LA-01-001", Deck: "Linear Algebra", Front: "Q1", Back: "A1"},
		{Type: reconcile.ActionUpdateNote, UID: "LA-01-002", NoteID: 102, Front: "Q2", Back: "A2"},
		{Type: reconcile.ActionDeleteNote, UID: "LA-09-001", NoteID: 301},
	}}

	mockClient := &mocks.Client{}
	mockClient.On("AddNote", mock.Anything, mock.Anything).Return(anki.NoteID(900), nil).Once()
	mockClient.On("UpdateNoteFields", mock.Anything, anki.NoteID(102), "Q2", "A2").Return(errors.New("collection locked")).Once()

	executed, err := reconcile.ApplyPlan(context.Background(), mockClient, afero.NewMemMapFs(), plan, reconcile.Options{Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update note LA-01-002")
	assert.Equal(t, 1, executed)
	mockClient.AssertNotCalled(t, "DeleteNotes", mock.Anything, mock.Anything)
	mockClient.AssertExpectations(t)
}

func TestApplyPlan_MissingMediaFile(t *testing.T) {
	mockClient := &mocks.Client{}
	plan := &reconcile.Plan{Actions: []reconcile.Action{
		{Type: reconcile.ActionStoreMedia, UID: "LA-01-001", Filename: "LA-01-001_01.png", Path: "content/images/LA-01-001_01.png"},
	}}

	executed, err := reconcile.ApplyPlan(context.Background(), mockClient, afero.NewMemMapFs(), plan, reconcile.Options{Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read media LA-01-001_01.png")
	assert.Equal(t, 0, executed)
	mockClient.AssertNotCalled(t, "StoreMediaFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyPlan_UnknownAction(t *testing.T) {
	plan := &reconcile.Plan{Actions: []reconcile.Action{{Type: "reticulate"}}}

	_, err := reconcile.ApplyPlan(context.Background(), &mocks.Client{}, afero.NewMemMapFs(), plan, reconcile.Options{Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action type")
}
