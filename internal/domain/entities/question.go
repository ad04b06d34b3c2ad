package entities

// Option is a single answer choice within a question. Labels are unique
// within one question and conventionally run A-D.
type Option struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Question represents one multiple-choice trivia question from a book bank.
// Records are immutable after load; the only mutation is the one-shot
// VerseText cache filled lazily by verse enrichment.
type Question struct {
	ID           string   `json:"id"`            // unique within a book (e.g. "gen-014")
	Book         string   `json:"book"`          // book slug the question belongs to
	Prompt       string   `json:"prompt"`        // question text shown to the player
	Options      []Option `json:"options"`       // answer choices, conventionally 4
	CorrectLabel string   `json:"correct_label"` // label of the correct option
	Reference    string   `json:"reference"`     // scripture reference backing the answer
	VerseText    string   `json:"verse_text,omitempty"`
	Explanation  string   `json:"explanation"` // shown on the feedback panel
}

// HasOption reports whether the question carries an option with the given label.
func (q *Question) HasOption(label string) bool {
	for _, opt := range q.Options {
		if opt.Label == label {
			return true
		}
	}
	return false
}

// IsCorrect reports whether the given label matches the correct option.
func (q *Question) IsCorrect(label string) bool {
	return label == q.CorrectLabel
}
