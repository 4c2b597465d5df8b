// Package curriculum implements the content side of the sync tool.
//
// A corpus is a directory holding three things:
//  1. config.json: The corpus manifest (course label, parent deck, uid
//     prefix, subdeck naming template).
//  2. lesson_<id>.json files: Ordered lessons, each an ordered list of
//     flashcards carrying a stable uid.
//  3. images/: Media files named <card_uid>_<seq>.<ext>, owned by the card
//     whose uid they carry.
//
// # Loading
//
// Load reads the whole corpus through an afero filesystem and fails fast
// with a *ValidationError on the first structural defect: malformed JSON,
// missing required fields, a lesson id that does not match its filename, a
// uid outside the corpus prefix, or a uid defined twice. Everything
// non-fatal (stray files in images/, images without an owning card) is
// collected into Catalog.Warnings instead.
//
// # Identity
//
// The uid is the sole join key between local cards and remote notes. It
// never changes once assigned; renaming a uid is indistinguishable from
// deleting one card and creating another. Remotely a card is tracked by the
// tag "uid:<uid>", and every media file by its <card_uid>_ name prefix.
//
// # Checking
//
// Catalog.Check runs the advisory checks used by the check command: card
// markup against a bluemonday policy tuned for MathJax content, image
// reference cross-checks, and duplicate front detection.
package curriculum
