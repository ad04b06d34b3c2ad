package entities

import (
	"time"

	"github.com/berean-study/trivia-api/internal/domain/notedoc"
)

// NoteMode selects between the two authoring styles of the notes feature.
type NoteMode string

const (
	ModeGuided   NoteMode = "guided"   // structured prompts (SOAP-style fields)
	ModeAdvanced NoteMode = "advanced" // free-form rich-text document
)

// Valid reports whether the mode is one of the known authoring styles.
func (m NoteMode) Valid() bool {
	return m == ModeGuided || m == ModeAdvanced
}

// GuidedFields are the structured prompts of a guided note.
type GuidedFields struct {
	Observation    string `json:"observation"`
	Interpretation string `json:"interpretation"`
	Application    string `json:"application"`
	Prayer         string `json:"prayer"`
}

// Note is one journal entry. Guided notes carry structured fields; advanced
// notes carry a rich-text document body.
type Note struct {
	ID        string            `json:"id"`
	UserID    string            `json:"-"`
	Mode      NoteMode          `json:"mode"`
	Book      string            `json:"book"`
	Chapter   int               `json:"chapter"`
	VerseFrom int               `json:"verse_from,omitempty"`
	VerseTo   int               `json:"verse_to,omitempty"`
	Guided    *GuidedFields     `json:"guided,omitempty"`
	Body      *notedoc.Document `json:"body,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
