package curriculum

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// cardMarkup is the markup allowed in card fronts and backs: user-generated
// content plus images and the span/class combinations MathJax renders into.
var cardMarkup = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy().
		AllowElements("img").
		AllowAttrs("src", "alt").OnElements("img").
		AllowElements("math", "span").
		AllowAttrs("class").OnElements("span")
	return p
}()

// imgRefPattern extracts src attributes from img tags in card backs.
var imgRefPattern = regexp.MustCompile(`(?i)<img[^>]+src="([^"]*)"`)

// Finding is one advisory defect reported by Check. Findings do not stop a
// sync (the remote store accepts arbitrary HTML); the check command treats
// them as failures so they get fixed at authoring time.
type Finding struct {
	File    string
	UID     string
	Message string
}

func (f Finding) String() string {
	switch {
	case f.UID != "" && f.File != "":
		return fmt.Sprintf("%s: card %s: %s", f.File, f.UID, f.Message)
	case f.File != "":
		return fmt.Sprintf("%s: %s", f.File, f.Message)
	default:
		return f.Message
	}
}

// Check runs the advisory content checks that loading does not enforce:
// markup outside the sanitizer policy, image references that point nowhere,
// images no card references, and duplicate fronts (which the remote store
// rejects at create time).
func (c *Catalog) Check() []Finding {
	var findings []Finding

	localImages := make(map[string]bool, len(c.Images))
	for _, img := range c.Images {
		localImages[img.Filename] = true
	}
	referenced := make(map[string]bool)
	fronts := make(map[string]string) // normalized front -> uid that first used it

	for i := range c.Lessons {
		lesson := &c.Lessons[i]
		file := fmt.Sprintf("lesson_%s.json", lesson.ID)

		for j := range lesson.Cards {
			card := &lesson.Cards[j]

			if msg := checkMarkup(card.Front); msg != "" {
				findings = append(findings, Finding{File: file, UID: card.UID, Message: "front " + msg})
			}
			if msg := checkMarkup(card.Back); msg != "" {
				findings = append(findings, Finding{File: file, UID: card.UID, Message: "back " + msg})
			}

			front := strings.TrimSpace(card.Front)
			if first, dup := fronts[front]; dup {
				findings = append(findings, Finding{File: file, UID: card.UID,
					Message: fmt.Sprintf("front duplicates card %s (the remote store rejects duplicate fronts)", first)})
			} else {
				fronts[front] = card.UID
			}

			for _, ref := range imgRefs(card.Back) {
				referenced[ref] = true
				if imageFilePattern.MatchString(ref) {
					if !localImages[ref] {
						findings = append(findings, Finding{File: file, UID: card.UID,
							Message: fmt.Sprintf("references missing image %s", ref)})
					}
				} else {
					findings = append(findings, Finding{File: file, UID: card.UID,
						Message: fmt.Sprintf("references unmanaged media %q", ref)})
				}
			}
		}
	}

	for _, img := range c.Images {
		if !referenced[img.Filename] {
			findings = append(findings, Finding{UID: img.OwnerUID,
				Message: fmt.Sprintf("%s/%s is uploaded but never referenced", ImagesDir, img.Filename)})
		}
	}

	return findings
}

// checkMarkup reports whether sanitizing would alter the text. Entity
// escaping differences are normalized away so MathJax markup with bare
// comparison operators does not trip the check.
func checkMarkup(text string) string {
	sanitized := cardMarkup.Sanitize(text)
	if strings.TrimSpace(sanitized) == "" {
		return "is empty after sanitization"
	}
	if html.UnescapeString(sanitized) != html.UnescapeString(text) {
		return "contains markup outside the allowed set"
	}
	return ""
}

func imgRefs(text string) []string {
	matches := imgRefPattern.FindAllStringSubmatch(text, -1)
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m[1])
	}
	return refs
}
