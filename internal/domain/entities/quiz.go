package entities

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrAlreadyAnswered = errors.New("current question already answered")
	ErrNotRevealed     = errors.New("current question not answered yet")
	ErrQuizFinished    = errors.New("quiz session already finished")
	ErrUnknownOption   = errors.New("unknown option label")
)

// AnswerOutcome is the result of submitting an answer for the current question.
type AnswerOutcome struct {
	QuestionID   string
	Correct      bool
	CorrectLabel string
	Explanation  string
	Reference    string
}

// QuizSession is one play-through of a book quiz. The question list is fixed
// at session start; CurrentIndex and CorrectCount only ever increase, and a
// finished session accepts no further answers. Methods are safe for
// concurrent use so two tabs sharing a session cannot double-score.
type QuizSession struct {
	mu sync.Mutex

	ID        string
	UserID    string // empty for anonymous players
	Book      string
	Questions []*Question

	CurrentIndex int
	ChosenLabel  string
	Revealed     bool
	CorrectCount int
	Finished     bool
	StartedAt    time.Time
}

// NewQuizSession creates an active session over a fixed question list.
func NewQuizSession(id, userID, book string, questions []*Question) *QuizSession {
	return &QuizSession{
		ID:        id,
		UserID:    userID,
		Book:      book,
		Questions: questions,
		StartedAt: time.Now(),
	}
}

// Current returns the question at the current index, or nil once finished.
func (s *QuizSession) Current() *Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

func (s *QuizSession) currentLocked() *Question {
	if s.Finished || s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	return s.Questions[s.CurrentIndex]
}

// Submit records the chosen label for the current question, scores it and
// moves the session to the revealed state. A second submission for the same
// question is rejected without touching the tally or the chosen label.
func (s *QuizSession) Submit(label string) (AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Finished {
		return AnswerOutcome{}, ErrQuizFinished
	}
	if s.Revealed {
		return AnswerOutcome{}, ErrAlreadyAnswered
	}

	q := s.currentLocked()
	if !q.HasOption(label) {
		return AnswerOutcome{}, ErrUnknownOption
	}

	s.ChosenLabel = label
	s.Revealed = true

	correct := q.IsCorrect(label)
	if correct {
		s.CorrectCount++
	}

	return AnswerOutcome{
		QuestionID:   q.ID,
		Correct:      correct,
		CorrectLabel: q.CorrectLabel,
		Explanation:  q.Explanation,
		Reference:    q.Reference,
	}, nil
}

// Advance moves to the next question, or finishes the session after the last
// one. It is only valid in the revealed state.
func (s *QuizSession) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Finished {
		return ErrQuizFinished
	}
	if !s.Revealed {
		return ErrNotRevealed
	}

	if s.CurrentIndex == len(s.Questions)-1 {
		s.Finished = true
		return nil
	}

	s.CurrentIndex++
	s.ChosenLabel = ""
	s.Revealed = false
	return nil
}

// SetVerseText caches fetched verse text onto the session's copy of a
// question. The cache is write-once; later calls for the same question are
// ignored.
func (s *QuizSession) SetVerseText(questionID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range s.Questions {
		if q.ID == questionID {
			if q.VerseText == "" {
				q.VerseText = text
			}
			return
		}
	}
}

// VerseText returns the cached verse text for a question, if any.
func (s *QuizSession) VerseText(questionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range s.Questions {
		if q.ID == questionID {
			return q.VerseText
		}
	}
	return ""
}

// Snapshot is a consistent read of the session's mutable fields.
type Snapshot struct {
	CurrentIndex int
	ChosenLabel  string
	Revealed     bool
	CorrectCount int
	Finished     bool
	Total        int
}

// State returns a consistent snapshot for rendering.
func (s *QuizSession) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		CurrentIndex: s.CurrentIndex,
		ChosenLabel:  s.ChosenLabel,
		Revealed:     s.Revealed,
		CorrectCount: s.CorrectCount,
		Finished:     s.Finished,
		Total:        len(s.Questions),
	}
}
