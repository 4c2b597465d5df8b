package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"curriculum-sync/core/anki"
	"curriculum-sync/core/anki/mocks"
	"curriculum-sync/feature/curriculum/reconcile"
)

func TestBuildPurgePlan(t *testing.T) {
	mockClient := &mocks.Client{}
	mockClient.On("FindNotes", mock.Anything, uidQuery).Return([]anki.NoteID{102, 101}, nil)
	mockClient.On("MediaFileNames", mock.Anything, "LA-*").Return([]string{
		"LA-02-001_01.png",
		"LA-01-001_01.png",
		"LA-readme.txt",
	}, nil)

	plan, err := reconcile.BuildPurgePlan(context.Background(), mockClient, testManifest())
	require.NoError(t, err)

	require.Len(t, plan.Actions, 4)
	assert.Equal(t, reconcile.ActionDeleteNote, plan.Actions[0].Type)
	assert.Equal(t, anki.NoteID(101), plan.Actions[0].NoteID)
	assert.Equal(t, anki.NoteID(102), plan.Actions[1].NoteID)
	assert.Equal(t, "purge", plan.Actions[0].Reason)

	assert.Equal(t, reconcile.ActionDeleteMedia, plan.Actions[2].Type)
	assert.Equal(t, "LA-01-001_01.png", plan.Actions[2].Filename)
	assert.Equal(t, "LA-02-001_01.png", plan.Actions[3].Filename)

	assert.Equal(t, 2, plan.Summary.Deleted)
	assert.Equal(t, 2, plan.Summary.MediaDeleted)
	mockClient.AssertExpectations(t)
}

func TestBuildPurgePlan_NothingToPurge(t *testing.T) {
	mockClient := &mocks.Client{}
	mockClient.On("FindNotes", mock.Anything, uidQuery).Return([]anki.NoteID{}, nil)
	mockClient.On("MediaFileNames", mock.Anything, "LA-*").Return([]string{}, nil)

	plan, err := reconcile.BuildPurgePlan(context.Background(), mockClient, testManifest())
	require.NoError(t, err)

	assert.Empty(t, plan.Actions)
	assert.True(t, plan.Empty())
	mockClient.AssertExpectations(t)
}
