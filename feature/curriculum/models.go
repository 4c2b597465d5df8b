package curriculum

import (
	"fmt"
	"strings"
)

// TagUID is the tag namespace carrying card identity on the remote side.
// A card with uid LA-01-005 is tracked remotely by the tag "uid:LA-01-005".
const TagUID = "uid:"

// DefaultSubdeckFormat is used when config.json does not specify one.
const DefaultSubdeckFormat = "{deck}::{title}"

// Manifest is the corpus-level configuration stored in config.json.
type Manifest struct {
	// Course is a human-readable label used in logs and reports.
	Course string `json:"course"`
	// Deck is the parent deck all lesson subdecks hang under.
	Deck string `json:"deck"`
	// UIDPrefix namespaces every card uid and media filename of this corpus.
	UIDPrefix string `json:"uid_prefix"`
	// SubdeckFormat renders a lesson into its subdeck name. Placeholders:
	// {deck}, {id}, {title}. Empty means DefaultSubdeckFormat.
	SubdeckFormat string `json:"subdeck_format"`
}

// SubdeckName renders the deck a lesson's cards live in.
func (m Manifest) SubdeckName(l Lesson) string {
	format := m.SubdeckFormat
	if format == "" {
		format = DefaultSubdeckFormat
	}
	return strings.NewReplacer(
		"{deck}", m.Deck,
		"{id}", l.ID,
		"{title}", l.Title,
	).Replace(format)
}

// UIDTagPrefix returns the tag prefix shared by every card of this corpus,
// e.g. "uid:LA-". Remote notes are discovered by this prefix, so notes from
// other corpora (different prefix) are never touched.
func (m Manifest) UIDTagPrefix() string {
	return TagUID + m.UIDPrefix + "-"
}

// MediaPattern returns the glob matching this corpus's media files in the
// remote collection, e.g. "LA-*".
func (m Manifest) MediaPattern() string {
	return m.UIDPrefix + "-*"
}

// Validate checks the manifest has the minimum required fields and valid
// formats. It returns an empty string when the manifest is valid.
func (m Manifest) Validate() string {
	if m.Deck == "" {
		return "missing deck"
	}
	if m.UIDPrefix == "" {
		return "missing uid_prefix"
	}
	if strings.ContainsAny(m.UIDPrefix, " \t\"*") {
		return "uid_prefix must not contain whitespace, quotes or wildcards"
	}
	return ""
}

// Lesson is one lesson file worth of cards.
type Lesson struct {
	// ID orders the lesson inside the course. It must match the digits in
	// the lesson_<id>.json filename.
	ID string `json:"id"`
	// Title is the short topic name used in subdeck naming.
	Title string `json:"title"`
	// LessonTitle is the full display title used in logs and reports.
	LessonTitle string `json:"lesson_title"`
	// Objectives lists what the lesson teaches. Informational only.
	Objectives []string `json:"objectives"`
	// Cards are the flashcards of this lesson, in corpus order.
	Cards []Card `json:"cards"`
}

// Validate checks the lesson has the minimum required fields.
func (l Lesson) Validate() string {
	if l.ID == "" {
		return "missing id"
	}
	if l.Title == "" {
		return "missing title"
	}
	if len(l.Cards) == 0 {
		return "no cards"
	}
	return ""
}

// Card is a single flashcard.
type Card struct {
	// UID is the stable identity of the card across syncs. It must start
	// with the corpus uid prefix and be unique across all lessons.
	UID string `json:"uid"`
	// Front is the question side. HTML with MathJax markup.
	Front string `json:"front"`
	// Back is the answer side. HTML with MathJax markup and optional
	// <img src="..."> references into the corpus images directory.
	Back string `json:"back"`
	// Tags are the content tags pushed alongside the identity tag.
	Tags []string `json:"tags"`
}

// UIDTag returns the identity tag this card is tracked by remotely.
func (c Card) UIDTag() string {
	return TagUID + c.UID
}

// SyncTags returns the full tag set pushed to the remote note: the card's
// content tags plus the identity tag, deduplicated, local order preserved.
func (c Card) SyncTags() []string {
	tags := make([]string, 0, len(c.Tags)+1)
	seen := make(map[string]bool, len(c.Tags)+1)
	for _, tag := range c.Tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	if !seen[c.UIDTag()] {
		tags = append(tags, c.UIDTag())
	}
	return tags
}

// Validate checks the card has the minimum required fields and a uid that
// belongs to the corpus.
func (c Card) Validate(uidPrefix string) string {
	if c.UID == "" {
		return "missing uid"
	}
	if strings.ContainsAny(c.UID, " \t\n\"") {
		return "uid must not contain whitespace or quotes"
	}
	if uidPrefix != "" && !strings.HasPrefix(c.UID, uidPrefix+"-") {
		return fmt.Sprintf("uid does not start with %q", uidPrefix+"-")
	}
	if strings.TrimSpace(c.Front) == "" {
		return "empty front"
	}
	if strings.TrimSpace(c.Back) == "" {
		return "empty back"
	}
	for _, tag := range c.Tags {
		if strings.ContainsAny(tag, " \t\n") {
			return fmt.Sprintf("tag %q contains whitespace", tag)
		}
		// A uid tag pointing at a different card would make the note answer
		// to two identities.
		if strings.HasPrefix(tag, TagUID) && tag != c.UIDTag() {
			return fmt.Sprintf("tag %q contradicts card uid", tag)
		}
	}
	return ""
}

// ImageAsset is a media file from the corpus images directory.
type ImageAsset struct {
	// Filename is the base name, which doubles as the remote media name.
	Filename string
	// OwnerUID is the card uid encoded in the filename.
	OwnerUID string
	// Path is the full path of the file inside the corpus filesystem.
	Path string
}

// Catalog is the fully loaded and validated corpus.
type Catalog struct {
	Manifest Manifest
	// Lessons in filename order.
	Lessons []Lesson
	// Images owned by catalog cards, in filename order.
	Images []ImageAsset
	// Warnings are non-fatal findings from loading: an image without an
	// owning card, a file in images/ that does not match the naming scheme.
	Warnings []string
}

// CardRef points at a card together with the lesson it belongs to.
type CardRef struct {
	Lesson *Lesson
	Card   *Card
}

// ByUID indexes every card by uid. Loading guarantees uniqueness.
func (c *Catalog) ByUID() map[string]CardRef {
	refs := make(map[string]CardRef, c.CardCount())
	for i := range c.Lessons {
		lesson := &c.Lessons[i]
		for j := range lesson.Cards {
			refs[lesson.Cards[j].UID] = CardRef{Lesson: lesson, Card: &lesson.Cards[j]}
		}
	}
	return refs
}

// ImagesByOwner groups the corpus images by owning card uid.
func (c *Catalog) ImagesByOwner() map[string][]ImageAsset {
	owned := make(map[string][]ImageAsset)
	for _, img := range c.Images {
		owned[img.OwnerUID] = append(owned[img.OwnerUID], img)
	}
	return owned
}

// CardCount returns the total number of cards across all lessons.
func (c *Catalog) CardCount() int {
	n := 0
	for _, l := range c.Lessons {
		n += len(l.Cards)
	}
	return n
}
