package entities

import "time"

// AnswerEvent is one progress record written per submitted answer.
type AnswerEvent struct {
	UserID     string
	Book       string
	QuestionID string
	Username   string // resolved display name at the time of answering
	IsCorrect  bool
	AnsweredAt time.Time
}

// UserStats holds the per-user aggregate counters shown on the profile.
type UserStats struct {
	UserID            string
	QuestionsAnswered int64
	UpdatedAt         *time.Time // nil until the first answer lands
}
