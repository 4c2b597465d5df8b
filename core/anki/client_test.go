package anki_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"curriculum-sync/core/anki"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envelope mirrors the request shape AnkiConnect receives.
type envelope struct {
	Action  string          `json:"action"`
	Version int             `json:"version"`
	Params  json.RawMessage `json:"params"`
}

// fakeAnki records every envelope it receives and answers from canned
// per-action results or error strings.
type fakeAnki struct {
	t        *testing.T
	requests []envelope
	results  map[string]any
	errs     map[string]string
}

func (f *fakeAnki) handler(w http.ResponseWriter, r *http.Request) {
	var env envelope
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&env))
	f.requests = append(f.requests, env)

	if msg, ok := f.errs[env.Action]; ok {
		_ = json.NewEncoder(w).Encode(map[string]any{"result": nil, "error": msg})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"result": f.results[env.Action], "error": nil})
}

func (f *fakeAnki) lastParams(t *testing.T, out any) {
	t.Helper()
	require.NotEmpty(t, f.requests)
	require.NoError(t, json.Unmarshal(f.requests[len(f.requests)-1].Params, out))
}

func newTestClient(t *testing.T, f *fakeAnki) anki.Client {
	t.Helper()
	f.t = t
	srv := httptest.NewServer(http.HandlerFunc(f.handler))
	t.Cleanup(srv.Close)

	client, err := anki.NewClient(anki.Config{Endpoint: srv.URL, TimeoutSeconds: 5})
	require.NoError(t, err)
	return client
}

func TestNewClient_EndpointValidation(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		wantErr  bool
	}{
		{"Valid", "http://127.0.0.1:8765", false},
		{"MissingScheme", "127.0.0.1:8765", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := anki.NewClient(anki.Config{Endpoint: tt.endpoint})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClient_Version(t *testing.T) {
	fake := &fakeAnki{results: map[string]any{"version": 6}}
	client := newTestClient(t, fake)

	v, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, v)

	require.Len(t, fake.requests, 1)
	assert.Equal(t, "version", fake.requests[0].Action)
	assert.Equal(t, anki.APIVersion, fake.requests[0].Version)
}

func TestClient_EnsureDeck(t *testing.T) {
	t.Run("AlreadyExists", func(t *testing.T) {
		fake := &fakeAnki{results: map[string]any{
			"deckNames": []string{"Default", "Linear Algebra"},
		}}
		client := newTestClient(t, fake)

		created, err := client.EnsureDeck(context.Background(), "Linear Algebra")
		require.NoError(t, err)
		assert.False(t, created)
		require.Len(t, fake.requests, 1)
		assert.Equal(t, "deckNames", fake.requests[0].Action)
	})

	t.Run("Creates", func(t *testing.T) {
		fake := &fakeAnki{results: map[string]any{
			"deckNames":  []string{"Default"},
			"createDeck": 1756100000000,
		}}
		client := newTestClient(t, fake)

		created, err := client.EnsureDeck(context.Background(), "Linear Algebra::01 Vectors")
		require.NoError(t, err)
		assert.True(t, created)

		require.Len(t, fake.requests, 2)
		assert.Equal(t, "createDeck", fake.requests[1].Action)

		var params struct {
			Deck string `json:"deck"`
		}
		fake.lastParams(t, &params)
		assert.Equal(t, "Linear Algebra::01 Vectors", params.Deck)
	})
}

func TestClient_AddNote(t *testing.T) {
	fake := &fakeAnki{results: map[string]any{"addNote": 1496198395707}}
	client := newTestClient(t, fake)

	id, err := client.AddNote(context.Background(), anki.NewNote{
		Deck:  "Linear Algebra::01 Vectors",
		Front: "What is a vector?",
		Back:  "An element of a vector space.",
		Tags:  []string{"linear-algebra::ch01", "uid:LA-01-001"},
	})
	require.NoError(t, err)
	assert.Equal(t, anki.NoteID(1496198395707), id)

	var params struct {
		Note struct {
			DeckName  string            `json:"deckName"`
			ModelName string            `json:"modelName"`
			Fields    map[string]string `json:"fields"`
			Tags      []string          `json:"tags"`
			Options   struct {
				AllowDuplicate bool `json:"allowDuplicate"`
			} `json:"options"`
		} `json:"note"`
	}
	fake.lastParams(t, &params)
	assert.Equal(t, "Linear Algebra::01 Vectors", params.Note.DeckName)
	assert.Equal(t, anki.ModelBasic, params.Note.ModelName)
	assert.Equal(t, "What is a vector?", params.Note.Fields[anki.FieldFront])
	assert.Equal(t, "An element of a vector space.", params.Note.Fields[anki.FieldBack])
	assert.Contains(t, params.Note.Tags, "uid:LA-01-001")
	assert.False(t, params.Note.Options.AllowDuplicate)
}

func TestClient_NotesInfo(t *testing.T) {
	fake := &fakeAnki{results: map[string]any{
		"notesInfo": []any{
			map[string]any{
				"noteId": 100,
				"tags":   []string{"uid:LA-01-001"},
				"fields": map[string]any{
					"Front": map[string]any{"value": "Q", "order": 0},
					"Back":  map[string]any{"value": "A", "order": 1},
				},
			},
			// Anki answers with an empty object for ids it no longer knows
			map[string]any{},
		},
	}}
	client := newTestClient(t, fake)

	infos, err := client.NotesInfo(context.Background(), []anki.NoteID{100, 101})
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, anki.NoteID(100), infos[0].ID)
	assert.Equal(t, "Q", infos[0].Front)
	assert.Equal(t, "A", infos[0].Back)
	assert.Equal(t, []string{"uid:LA-01-001"}, infos[0].Tags)
}

func TestClient_NotesInfo_Empty(t *testing.T) {
	fake := &fakeAnki{}
	client := newTestClient(t, fake)

	infos, err := client.NotesInfo(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, infos)
	assert.Empty(t, fake.requests, "no request should be made for an empty id list")
}

func TestClient_DeleteNotes_Empty(t *testing.T) {
	fake := &fakeAnki{}
	client := newTestClient(t, fake)

	require.NoError(t, client.DeleteNotes(context.Background(), nil))
	assert.Empty(t, fake.requests, "no request should be made for an empty id list")
}

func TestClient_StoreMediaFile(t *testing.T) {
	fake := &fakeAnki{results: map[string]any{"storeMediaFile": "LA-01-001_01.png"}}
	client := newTestClient(t, fake)

	data := []byte{0x89, 0x50, 0x4e, 0x47}
	require.NoError(t, client.StoreMediaFile(context.Background(), "LA-01-001_01.png", data))

	var params struct {
		Filename string `json:"filename"`
		Data     string `json:"data"`
	}
	fake.lastParams(t, &params)
	assert.Equal(t, "LA-01-001_01.png", params.Filename)
	assert.Equal(t, base64.StdEncoding.EncodeToString(data), params.Data)
}

func TestClient_RemoteError(t *testing.T) {
	fake := &fakeAnki{errs: map[string]string{
		"addNote": "cannot create note because it is a duplicate",
	}}
	client := newTestClient(t, fake)

	_, err := client.AddNote(context.Background(), anki.NewNote{Deck: "D", Front: "F", Back: "B"})
	require.Error(t, err)

	var remoteErr *anki.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "addNote", remoteErr.Action)
	assert.Contains(t, remoteErr.Message, "duplicate")
	assert.False(t, errors.Is(err, anki.ErrUnreachable))
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	client, err := anki.NewClient(anki.Config{Endpoint: endpoint, TimeoutSeconds: 1})
	require.NoError(t, err)

	_, err = client.Version(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, anki.ErrUnreachable))

	var remoteErr *anki.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "version", remoteErr.Action)
}

func TestQueries(t *testing.T) {
	assert.Equal(t, `tag:"uid:LA-01-001"`, anki.TagQuery("uid:LA-01-001"))
	assert.Equal(t, `tag:"uid:LA-*"`, anki.TagPrefixQuery("uid:LA-"))
	assert.Equal(t, `deck:"Linear Algebra::01 Vectors"`, anki.DeckQuery("Linear Algebra::01 Vectors"))
}
