package mocks

import (
	"context"

	"curriculum-sync/core/anki"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of anki.Client
type Client struct {
	mock.Mock
}

func (m *Client) Version(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *Client) EnsureDeck(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *Client) FindNotes(ctx context.Context, query string) ([]anki.NoteID, error) {
	args := m.Called(ctx, query)
	if ids, ok := args.Get(0).([]anki.NoteID); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) NotesInfo(ctx context.Context, ids []anki.NoteID) ([]anki.NoteInfo, error) {
	args := m.Called(ctx, ids)
	if infos, ok := args.Get(0).([]anki.NoteInfo); ok {
		return infos, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) AddNote(ctx context.Context, note anki.NewNote) (anki.NoteID, error) {
	args := m.Called(ctx, note)
	if id, ok := args.Get(0).(anki.NoteID); ok {
		return id, args.Error(1)
	}
	return 0, args.Error(1)
}

func (m *Client) UpdateNoteFields(ctx context.Context, id anki.NoteID, front, back string) error {
	args := m.Called(ctx, id, front, back)
	return args.Error(0)
}

func (m *Client) UpdateNoteTags(ctx context.Context, id anki.NoteID, tags []string) error {
	args := m.Called(ctx, id, tags)
	return args.Error(0)
}

func (m *Client) DeleteNotes(ctx context.Context, ids []anki.NoteID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *Client) StoreMediaFile(ctx context.Context, filename string, data []byte) error {
	args := m.Called(ctx, filename, data)
	return args.Error(0)
}

func (m *Client) DeleteMediaFile(ctx context.Context, filename string) error {
	args := m.Called(ctx, filename)
	return args.Error(0)
}

func (m *Client) MediaFileNames(ctx context.Context, pattern string) ([]string, error) {
	args := m.Called(ctx, pattern)
	if names, ok := args.Get(0).([]string); ok {
		return names, args.Error(1)
	}
	return nil, args.Error(1)
}
