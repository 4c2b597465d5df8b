package anki

// Config holds configuration for the AnkiConnect endpoint.
type Config struct {
	// Endpoint is the URL the AnkiConnect add-on listens on.
	Endpoint string `mapstructure:"endpoint" default:"http://127.0.0.1:8765"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
