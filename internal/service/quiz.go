package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/berean-study/trivia-api/internal/domain/entities"
	"github.com/berean-study/trivia-api/internal/identity"
)

var ErrSessionNotFound = errors.New("quiz session not found")

// QuestionBank provides read access to the static per-book question banks.
type QuestionBank interface {
	Books() []entities.Book
	Book(slug string) (entities.Book, error)
	Bank(slug string) ([]*entities.Question, error)
}

// ProgressRepo is the remote progress store.
type ProgressRepo interface {
	CorrectQuestionIDs(ctx context.Context, userID, book string) ([]string, error)
	RecordAnswer(ctx context.Context, e entities.AnswerEvent) error
	IncrementAnswered(ctx context.Context, userID string) error
	Stats(ctx context.Context, userID string) (*entities.UserStats, error)
}

// SessionStore keeps live sessions between requests.
type SessionStore interface {
	Store(s *entities.QuizSession)
	Get(id string) (*entities.QuizSession, bool)
	Delete(id string)
}

// VerseFetcher looks up the quoted scripture text for a reference.
type VerseFetcher interface {
	PassageText(ctx context.Context, reference string) (string, error)
}

// CreditGate is the pre-flight consumption check for gated books. Any error
// vetoes the session start; it is the one fatal remote failure path.
type CreditGate interface {
	Consume(ctx context.Context, userID, book string) error
}

// QuizService drives quiz sessions: selection on start, scoring and
// best-effort side effects on submit, progression on advance.
type QuizService struct {
	bank     QuestionBank
	progress ProgressRepo
	sessions SessionStore
	verses   VerseFetcher
	gate     CreditGate
	selector *Selector
	logger   *zap.Logger

	sessionSize   int
	effectTimeout time.Duration
}

func NewQuizService(
	bank QuestionBank,
	progress ProgressRepo,
	sessions SessionStore,
	verses VerseFetcher,
	gate CreditGate,
	selector *Selector,
	logger *zap.Logger,
	sessionSize int,
	effectTimeout time.Duration,
) *QuizService {
	if sessionSize <= 0 {
		sessionSize = DefaultSessionSize
	}
	if effectTimeout <= 0 {
		effectTimeout = 10 * time.Second
	}

	return &QuizService{
		bank:          bank,
		progress:      progress,
		sessions:      sessions,
		verses:        verses,
		gate:          gate,
		selector:      selector,
		logger:        logger,
		sessionSize:   sessionSize,
		effectTimeout: effectTimeout,
	}
}

// Books lists the playable books.
func (s *QuizService) Books() []entities.Book {
	return s.bank.Books()
}

// Start begins a fresh session for one book: credit gate for gated books,
// progress filter, then the shuffle-and-truncate draw. A failed progress
// read degrades to "nothing previously correct" and never blocks the quiz.
func (s *QuizService) Start(ctx context.Context, user identity.User, book string) (*entities.QuizSession, error) {
	info, err := s.bank.Book(book)
	if err != nil {
		return nil, err
	}

	if info.Gated {
		if err := s.gate.Consume(ctx, user.ID, book); err != nil {
			return nil, fmt.Errorf("credit gate: %w", err)
		}
	}

	var correctIDs []string
	if user.SignedIn() {
		correctIDs, err = s.progress.CorrectQuestionIDs(ctx, user.ID, book)
		if err != nil {
			s.logger.Warn("progress read failed, starting unfiltered",
				zap.String("book", book), zap.Error(err))
			correctIDs = nil
		}
	}

	bank, err := s.bank.Bank(book)
	if err != nil {
		return nil, err
	}

	pool := Eligible(bank, correctIDs)
	questions := s.selector.Pick(pool, s.sessionSize)

	sess := entities.NewQuizSession(uuid.NewString(), user.ID, book, questions)
	s.sessions.Store(sess)

	return sess, nil
}

// Session returns a live session by ID.
func (s *QuizService) Session(id string) (*entities.QuizSession, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// SubmitResult is the feedback panel payload for one answered question.
type SubmitResult struct {
	Correct      bool
	CorrectLabel string
	Explanation  string
	Reference    string
	VerseText    string // empty while the enrichment is still pending
	VersePending bool
}

// Submit scores the chosen label for the session's current question. The
// reveal never waits on network I/O: the progress write, the counter bump
// and the verse fetch are dispatched on their own goroutines, each with its
// own timeout, and their failures are logged but never surfaced.
func (s *QuizService) Submit(ctx context.Context, user identity.User, sessionID, label string) (*SubmitResult, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	outcome, err := sess.Submit(label)
	if err != nil {
		return nil, err
	}

	if sess.UserID != "" {
		event := entities.AnswerEvent{
			UserID:     sess.UserID,
			Book:       sess.Book,
			QuestionID: outcome.QuestionID,
			Username:   user.DisplayName(),
			IsCorrect:  outcome.Correct,
			AnsweredAt: time.Now(),
		}
		go s.recordAnswer(event)
		go s.bumpAnswered(sess.UserID)
	}

	verseText := sess.VerseText(outcome.QuestionID)
	pending := false
	if verseText == "" && outcome.Reference != "" {
		pending = true
		go s.fetchVerse(sess, outcome.QuestionID, outcome.Reference)
	}

	return &SubmitResult{
		Correct:      outcome.Correct,
		CorrectLabel: outcome.CorrectLabel,
		Explanation:  outcome.Explanation,
		Reference:    outcome.Reference,
		VerseText:    verseText,
		VersePending: pending,
	}, nil
}

// AdvanceResult reports the session state after moving past a revealed
// question. Encouragement is only set once the session finishes.
type AdvanceResult struct {
	Finished      bool
	CorrectCount  int
	Total         int
	Encouragement string
}

// Advance moves the session to the next question, or finishes it after the
// last one.
func (s *QuizService) Advance(sessionID string) (*AdvanceResult, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	if err := sess.Advance(); err != nil {
		return nil, err
	}

	state := sess.State()
	res := &AdvanceResult{
		Finished:     state.Finished,
		CorrectCount: state.CorrectCount,
		Total:        state.Total,
	}
	if state.Finished {
		res.Encouragement = entities.Encouragement(state.CorrectCount, state.Total)
	}
	return res, nil
}

// Verse returns the cached verse text for the session's current question,
// reporting pending while the enrichment fetch is still in flight.
func (s *QuizService) Verse(sessionID string) (text string, pending bool, err error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return "", false, ErrSessionNotFound
	}

	q := sess.Current()
	if q == nil {
		return "", false, nil
	}

	text = sess.VerseText(q.ID)
	return text, text == "" && q.Reference != "", nil
}

// Stats returns the aggregate answered counter for a user.
func (s *QuizService) Stats(ctx context.Context, userID string) (*entities.UserStats, error) {
	return s.progress.Stats(ctx, userID)
}

func (s *QuizService) recordAnswer(event entities.AnswerEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), s.effectTimeout)
	defer cancel()

	if err := s.progress.RecordAnswer(ctx, event); err != nil {
		s.logger.Warn("record answer failed",
			zap.String("question_id", event.QuestionID), zap.Error(err))
	}
}

func (s *QuizService) bumpAnswered(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.effectTimeout)
	defer cancel()

	if err := s.progress.IncrementAnswered(ctx, userID); err != nil {
		s.logger.Warn("answered counter update failed", zap.Error(err))
	}
}

func (s *QuizService) fetchVerse(sess *entities.QuizSession, questionID, reference string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.effectTimeout)
	defer cancel()

	text, err := s.verses.PassageText(ctx, reference)
	if err != nil {
		// Enrichment is best-effort; the feedback panel falls back to the
		// explanation text alone.
		s.logger.Debug("verse lookup failed",
			zap.String("reference", reference), zap.Error(err))
		return
	}

	sess.SetVerseText(questionID, text)
}
