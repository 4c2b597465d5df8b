package anki

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"slices"
	"time"
)

// Client defines the interface for talking to a running Anki instance
// through the AnkiConnect add-on.
type Client interface {
	// Version reports the API version of the add-on.
	Version(ctx context.Context) (int, error)
	// EnsureDeck creates the deck unless it already exists. It reports
	// whether this call created it.
	EnsureDeck(ctx context.Context, name string) (bool, error)
	// FindNotes returns the ids of all notes matching the search query.
	FindNotes(ctx context.Context, query string) ([]NoteID, error)
	// NotesInfo fetches fields and tags for the given notes.
	NotesInfo(ctx context.Context, ids []NoteID) ([]NoteInfo, error)
	// AddNote creates a new note and returns its id.
	AddNote(ctx context.Context, note NewNote) (NoteID, error)
	// UpdateNoteFields replaces the Front and Back fields of a note.
	UpdateNoteFields(ctx context.Context, id NoteID, front, back string) error
	// UpdateNoteTags replaces the full tag set of a note.
	UpdateNoteTags(ctx context.Context, id NoteID, tags []string) error
	// DeleteNotes removes the given notes along with their cards.
	DeleteNotes(ctx context.Context, ids []NoteID) error
	// StoreMediaFile writes a file into the collection's media folder,
	// overwriting any existing file with the same name.
	StoreMediaFile(ctx context.Context, filename string, data []byte) error
	// DeleteMediaFile removes a file from the collection's media folder.
	DeleteMediaFile(ctx context.Context, filename string) error
	// MediaFileNames lists media files matching the given glob pattern.
	MediaFileNames(ctx context.Context, pattern string) ([]string, error)
}

// NewClient creates a new AnkiConnect client based on the configuration.
func NewClient(cfg Config) (Client, error) {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid anki endpoint %q", cfg.Endpoint)
	}

	// Ensure timeout defaults if not set
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Create custom transport with strict timeouts. A wedged Anki instance
	// accepts connections but never answers, so the response header timeout
	// matters as much as the dial timeout.
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &httpClient{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Transport: transport, Timeout: timeoutDuration},
	}, nil
}

type httpClient struct {
	endpoint string
	http     *http.Client
}

// request is the envelope AnkiConnect expects for every call.
type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

// response is the envelope AnkiConnect returns for every call. Error is a
// plain string by protocol; null means success.
type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// invoke performs one envelope round trip. When out is non-nil the result
// payload is decoded into it.
func (c *httpClient) invoke(ctx context.Context, action string, params, out any) error {
	body, err := json.Marshal(request{Action: action, Version: APIVersion, Params: params})
	if err != nil {
		return &RemoteError{Action: action, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &RemoteError{Action: action, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &RemoteError{Action: action, Err: fmt.Errorf("%w: %v", ErrUnreachable, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &RemoteError{Action: action, Message: fmt.Sprintf("unexpected status %s", resp.Status)}
	}

	var envelope response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &RemoteError{Action: action, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if envelope.Error != nil {
		return &RemoteError{Action: action, Message: *envelope.Error}
	}
	if out != nil && len(envelope.Result) > 0 && string(envelope.Result) != "null" {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return &RemoteError{Action: action, Err: fmt.Errorf("decoding result: %w", err)}
		}
	}
	return nil
}

func (c *httpClient) Version(ctx context.Context) (int, error) {
	var v int
	if err := c.invoke(ctx, "version", nil, &v); err != nil {
		return 0, err
	}
	return v, nil
}

func (c *httpClient) EnsureDeck(ctx context.Context, name string) (bool, error) {
	var names []string
	if err := c.invoke(ctx, "deckNames", nil, &names); err != nil {
		return false, err
	}
	if slices.Contains(names, name) {
		return false, nil
	}
	if err := c.invoke(ctx, "createDeck", deckParams{Deck: name}, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (c *httpClient) FindNotes(ctx context.Context, query string) ([]NoteID, error) {
	var ids []NoteID
	if err := c.invoke(ctx, "findNotes", queryParams{Query: query}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *httpClient) NotesInfo(ctx context.Context, ids []NoteID) ([]NoteInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var raw []noteInfoResult
	if err := c.invoke(ctx, "notesInfo", notesParams{Notes: ids}, &raw); err != nil {
		return nil, err
	}
	infos := make([]NoteInfo, 0, len(raw))
	for _, r := range raw {
		// AnkiConnect answers with an empty object for ids it no longer knows
		if r.NoteID == 0 {
			continue
		}
		infos = append(infos, NoteInfo{
			ID:    r.NoteID,
			Front: r.Fields[FieldFront].Value,
			Back:  r.Fields[FieldBack].Value,
			Tags:  r.Tags,
		})
	}
	return infos, nil
}

func (c *httpClient) AddNote(ctx context.Context, note NewNote) (NoteID, error) {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	params := addNoteParams{Note: noteSpec{
		DeckName:  note.Deck,
		ModelName: ModelBasic,
		Fields:    map[string]string{FieldFront: note.Front, FieldBack: note.Back},
		Tags:      tags,
		Options:   noteOptions{AllowDuplicate: false},
	}}
	var id NoteID
	if err := c.invoke(ctx, "addNote", params, &id); err != nil {
		return 0, err
	}
	return id, nil
}

func (c *httpClient) UpdateNoteFields(ctx context.Context, id NoteID, front, back string) error {
	params := updateFieldsParams{Note: updateFieldsSpec{
		ID:     id,
		Fields: map[string]string{FieldFront: front, FieldBack: back},
	}}
	return c.invoke(ctx, "updateNoteFields", params, nil)
}

func (c *httpClient) UpdateNoteTags(ctx context.Context, id NoteID, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	return c.invoke(ctx, "updateNoteTags", updateTagsParams{Note: id, Tags: tags}, nil)
}

func (c *httpClient) DeleteNotes(ctx context.Context, ids []NoteID) error {
	if len(ids) == 0 {
		return nil
	}
	return c.invoke(ctx, "deleteNotes", notesParams{Notes: ids}, nil)
}

func (c *httpClient) StoreMediaFile(ctx context.Context, filename string, data []byte) error {
	params := storeMediaParams{
		Filename: filename,
		Data:     base64.StdEncoding.EncodeToString(data),
	}
	return c.invoke(ctx, "storeMediaFile", params, nil)
}

func (c *httpClient) DeleteMediaFile(ctx context.Context, filename string) error {
	return c.invoke(ctx, "deleteMediaFile", mediaParams{Filename: filename}, nil)
}

func (c *httpClient) MediaFileNames(ctx context.Context, pattern string) ([]string, error) {
	var names []string
	if err := c.invoke(ctx, "getMediaFilesNames", patternParams{Pattern: pattern}, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// Wire shapes for the individual actions.

type deckParams struct {
	Deck string `json:"deck"`
}

type queryParams struct {
	Query string `json:"query"`
}

type notesParams struct {
	Notes []NoteID `json:"notes"`
}

type addNoteParams struct {
	Note noteSpec `json:"note"`
}

type noteSpec struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
	Options   noteOptions       `json:"options"`
}

type noteOptions struct {
	AllowDuplicate bool `json:"allowDuplicate"`
}

type updateFieldsParams struct {
	Note updateFieldsSpec `json:"note"`
}

type updateFieldsSpec struct {
	ID     NoteID            `json:"id"`
	Fields map[string]string `json:"fields"`
}

type updateTagsParams struct {
	Note NoteID   `json:"note"`
	Tags []string `json:"tags"`
}

type storeMediaParams struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

type mediaParams struct {
	Filename string `json:"filename"`
}

type patternParams struct {
	Pattern string `json:"pattern"`
}

type noteInfoResult struct {
	NoteID NoteID               `json:"noteId"`
	Tags   []string             `json:"tags"`
	Fields map[string]noteField `json:"fields"`
}

type noteField struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}
