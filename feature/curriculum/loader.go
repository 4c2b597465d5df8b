package curriculum

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/spf13/afero"
)

const (
	// ManifestFile is the corpus-level config file name.
	ManifestFile = "config.json"
	// ImagesDir is the corpus subdirectory holding media files.
	ImagesDir = "images"
)

// lessonFilePattern matches lesson file names and captures the lesson id.
var lessonFilePattern = regexp.MustCompile(`^lesson_([0-9]+)\.json$`)

// imageFilePattern captures the owning card uid and sequence number from a
// media file name, e.g. "LA-01-005_01.png". The uid part runs up to the last
// underscore, so uids containing underscores still parse.
var imageFilePattern = regexp.MustCompile(`^(.+)_([0-9]+)\.(?i:png|jpe?g|gif|svg|webp)$`)

// ParseImageName extracts the owning card uid from a media file name of the
// form <uid>_<seq>.<ext>. It reports ok false for any other name.
func ParseImageName(name string) (owner string, ok bool) {
	match := imageFilePattern.FindStringSubmatch(name)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// LoadManifest reads and validates config.json from the corpus directory.
func LoadManifest(fsys afero.Fs, dir string) (Manifest, error) {
	data, err := afero.ReadFile(fsys, filepath.Join(dir, ManifestFile))
	if err != nil {
		return Manifest{}, fmt.Errorf("reading %s: %w", ManifestFile, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, &ValidationError{File: ManifestFile, Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if reason := m.Validate(); reason != "" {
		return Manifest{}, &ValidationError{File: ManifestFile, Message: reason}
	}
	return m, nil
}

// Load reads the complete corpus from dir: the manifest, every lesson file in
// filename order and the image inventory. It fails fast on the first
// validation defect and performs no remote calls. A corpus with zero lesson
// files is valid; syncing it deletes every remote card of the corpus.
func Load(fsys afero.Fs, dir string) (*Catalog, error) {
	manifest, err := LoadManifest(fsys, dir)
	if err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", dir, err)
	}

	var lessonFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && lessonFilePattern.MatchString(entry.Name()) {
			lessonFiles = append(lessonFiles, entry.Name())
		}
	}
	sort.Strings(lessonFiles)

	catalog := &Catalog{Manifest: manifest}
	seen := make(map[string]string) // uid -> file that first defined it

	for _, name := range lessonFiles {
		lesson, err := loadLesson(fsys, dir, name, manifest, seen)
		if err != nil {
			return nil, err
		}
		catalog.Lessons = append(catalog.Lessons, lesson)
	}

	if err := scanImages(fsys, dir, catalog); err != nil {
		return nil, err
	}

	return catalog, nil
}

func loadLesson(fsys afero.Fs, dir, name string, manifest Manifest, seen map[string]string) (Lesson, error) {
	data, err := afero.ReadFile(fsys, filepath.Join(dir, name))
	if err != nil {
		return Lesson{}, fmt.Errorf("reading %s: %w", name, err)
	}

	var lesson Lesson
	if err := json.Unmarshal(data, &lesson); err != nil {
		return Lesson{}, &ValidationError{File: name, Message: fmt.Sprintf("invalid JSON: %v", err)}
	}

	if reason := lesson.Validate(); reason != "" {
		return Lesson{}, &ValidationError{File: name, Message: reason}
	}

	fileID := lessonFilePattern.FindStringSubmatch(name)[1]
	if lesson.ID != fileID {
		return Lesson{}, &ValidationError{File: name, Message: fmt.Sprintf("id %q does not match filename", lesson.ID)}
	}

	for _, card := range lesson.Cards {
		if reason := card.Validate(manifest.UIDPrefix); reason != "" {
			return Lesson{}, &ValidationError{File: name, UID: card.UID, Message: reason}
		}
		if firstFile, dup := seen[card.UID]; dup {
			return Lesson{}, &ValidationError{File: name, UID: card.UID, Message: fmt.Sprintf("duplicate uid (first defined in %s)", firstFile)}
		}
		seen[card.UID] = name
	}

	return lesson, nil
}

// scanImages inventories the images directory. Only files owned by a catalog
// card become ImageAssets; anything else is a warning, never fatal.
func scanImages(fsys afero.Fs, dir string, catalog *Catalog) error {
	imagesDir := filepath.Join(dir, ImagesDir)
	entries, err := afero.ReadDir(fsys, imagesDir)
	if err != nil {
		// An absent images directory just means a corpus without media
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", imagesDir, err)
	}

	cards := catalog.ByUID()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		owner, ok := ParseImageName(name)
		if !ok {
			catalog.Warnings = append(catalog.Warnings,
				fmt.Sprintf("%s/%s does not match <uid>_<seq>.<ext> naming, ignored", ImagesDir, name))
			continue
		}
		if _, ok := cards[owner]; !ok {
			catalog.Warnings = append(catalog.Warnings,
				fmt.Sprintf("%s/%s has no owning card %s, not uploaded", ImagesDir, name, owner))
			continue
		}
		catalog.Images = append(catalog.Images, ImageAsset{
			Filename: name,
			OwnerUID: owner,
			Path:     filepath.Join(imagesDir, name),
		})
	}
	return nil
}
