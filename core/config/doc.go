// Package config provides configuration management for the sync tool.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file, with defaults declared as struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all process settings,
// divided into subsections:
//   - Anki: AnkiConnect endpoint and request timeout
//   - Log: Logging level and format
//   - Content: Location of the content corpus on disk
//
// Environment variables map onto nested keys with underscores, so
// ANKI_ENDPOINT sets anki.endpoint and CONTENT_DIR sets content.dir.
//
// Note that this is process configuration only. The corpus carries its own
// config.json (deck name, uid prefix) which is loaded and validated by the
// curriculum package.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Anki.Endpoint)
package config
