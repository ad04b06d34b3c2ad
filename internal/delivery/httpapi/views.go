package httpapi

import (
	"github.com/berean-study/trivia-api/internal/domain/entities"
	"github.com/berean-study/trivia-api/internal/service"
)

// questionView is a question as shown while asking: no correct label and no
// explanation until the answer is revealed.
type questionView struct {
	ID        string            `json:"id"`
	Prompt    string            `json:"prompt"`
	Options   []entities.Option `json:"options"`
	Reference string            `json:"reference"`
}

// sessionView is the render state of a live session.
type sessionView struct {
	ID           string        `json:"id"`
	Book         string        `json:"book"`
	Total        int           `json:"total"`
	CurrentIndex int           `json:"current_index"`
	CorrectCount int           `json:"correct_count"`
	ChosenLabel  string        `json:"chosen_label,omitempty"`
	Revealed     bool          `json:"revealed"`
	Finished     bool          `json:"finished"`
	Question     *questionView `json:"question,omitempty"`
}

func newSessionView(sess *entities.QuizSession) sessionView {
	state := sess.State()
	view := sessionView{
		ID:           sess.ID,
		Book:         sess.Book,
		Total:        state.Total,
		CurrentIndex: state.CurrentIndex,
		CorrectCount: state.CorrectCount,
		ChosenLabel:  state.ChosenLabel,
		Revealed:     state.Revealed,
		Finished:     state.Finished,
	}
	if q := sess.Current(); q != nil {
		view.Question = &questionView{
			ID:        q.ID,
			Prompt:    q.Prompt,
			Options:   q.Options,
			Reference: q.Reference,
		}
	}
	return view
}

// answerView is the feedback panel payload.
type answerView struct {
	Correct      bool   `json:"correct"`
	CorrectLabel string `json:"correct_label"`
	Explanation  string `json:"explanation"`
	Reference    string `json:"reference"`
	VerseText    string `json:"verse_text,omitempty"`
	VersePending bool   `json:"verse_pending"`
}

func newAnswerView(r *service.SubmitResult) answerView {
	return answerView{
		Correct:      r.Correct,
		CorrectLabel: r.CorrectLabel,
		Explanation:  r.Explanation,
		Reference:    r.Reference,
		VerseText:    r.VerseText,
		VersePending: r.VersePending,
	}
}

// summaryView is the end-of-session payload.
type summaryView struct {
	Finished      bool   `json:"finished"`
	CorrectCount  int    `json:"correct_count"`
	Total         int    `json:"total"`
	Encouragement string `json:"encouragement,omitempty"`
}
