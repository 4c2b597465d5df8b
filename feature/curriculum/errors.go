package curriculum

import (
	"errors"
	"fmt"
)

// ErrInvalid is the sentinel every content validation failure matches via
// errors.Is.
var ErrInvalid = errors.New("invalid content")

// ValidationError describes a single defect in the content corpus: which
// file, which card (when the defect is card-level) and what is wrong.
// Loading fails fast on the first defect, before any remote call is made.
type ValidationError struct {
	// File is the corpus-relative path of the offending file.
	File string
	// UID is the uid of the offending card, when known.
	UID string
	// Message describes the defect.
	Message string
}

func (e *ValidationError) Error() string {
	switch {
	case e.UID != "" && e.File != "":
		return fmt.Sprintf("%s: card %s: %s", e.File, e.UID, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	default:
		return e.Message
	}
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}
