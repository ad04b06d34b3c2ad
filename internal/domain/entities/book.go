package entities

// Book describes one playable question bank.
type Book struct {
	Slug          string `json:"slug"`  // URL-safe identifier (e.g. "genesis")
	Title         string `json:"title"` // display name
	QuestionCount int    `json:"question_count"`
	Gated         bool   `json:"gated"` // session start requires a credit-gate pass
}
