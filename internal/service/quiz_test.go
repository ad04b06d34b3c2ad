package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/berean-study/trivia-api/internal/credits"
	"github.com/berean-study/trivia-api/internal/domain/entities"
	"github.com/berean-study/trivia-api/internal/identity"
	"github.com/berean-study/trivia-api/internal/storage"
)

type fakeBank struct {
	book entities.Book
	bank []*entities.Question
}

func (f *fakeBank) Books() []entities.Book { return []entities.Book{f.book} }

func (f *fakeBank) Book(slug string) (entities.Book, error) {
	if slug != f.book.Slug {
		return entities.Book{}, errors.New("book not found")
	}
	return f.book, nil
}

func (f *fakeBank) Bank(slug string) ([]*entities.Question, error) {
	if slug != f.book.Slug {
		return nil, errors.New("book not found")
	}
	return f.bank, nil
}

type fakeProgress struct {
	mu sync.Mutex

	correctIDs []string
	readErr    error
	writeErr   error

	recorded   []entities.AnswerEvent
	increments int
}

func (f *fakeProgress) CorrectQuestionIDs(_ context.Context, _, _ string) ([]string, error) {
	return f.correctIDs, f.readErr
}

func (f *fakeProgress) RecordAnswer(_ context.Context, e entities.AnswerEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, e)
	return f.writeErr
}

func (f *fakeProgress) IncrementAnswered(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.increments++
	return f.writeErr
}

func (f *fakeProgress) Stats(_ context.Context, userID string) (*entities.UserStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &entities.UserStats{UserID: userID, QuestionsAnswered: int64(f.increments)}, nil
}

func (f *fakeProgress) recordedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recorded)
}

func (f *fakeProgress) incrementCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.increments
}

type fakeVerses struct {
	text string
	err  error
}

func (f *fakeVerses) PassageText(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

type fakeGate struct {
	err   error
	calls int
}

func (f *fakeGate) Consume(_ context.Context, _, _ string) error {
	f.calls++
	return f.err
}

func newTestService(t *testing.T, bank *fakeBank, progress *fakeProgress, verses *fakeVerses, gate *fakeGate) *QuizService {
	t.Helper()
	return NewQuizService(
		bank,
		progress,
		storage.NewSessionStorage(time.Hour),
		verses,
		gate,
		NewSelectorWithSeed(42),
		zap.NewNop(),
		DefaultSessionSize,
		time.Second,
	)
}

// waitFor polls until cond holds or the deadline passes. Used to observe the
// best-effort side effects dispatched on their own goroutines.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestStartDrawsTenUniqueQuestions(t *testing.T) {
	bank := &fakeBank{
		book: entities.Book{Slug: "genesis", Title: "Genesis", QuestionCount: 100},
		bank: makeBank(100),
	}
	svc := newTestService(t, bank, &fakeProgress{}, &fakeVerses{}, &fakeGate{})

	sess, err := svc.Start(context.Background(), identity.User{}, "genesis")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if len(sess.Questions) != 10 {
		t.Fatalf("session size = %d, want 10", len(sess.Questions))
	}
	seen := make(map[string]struct{})
	for _, q := range sess.Questions {
		if _, dup := seen[q.ID]; dup {
			t.Errorf("duplicate question %s in session", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
}

func TestStartAllMasteredFallsBackToFullBank(t *testing.T) {
	questions := makeBank(100)
	allIDs := make([]string, len(questions))
	for i, q := range questions {
		allIDs[i] = q.ID
	}

	bank := &fakeBank{book: entities.Book{Slug: "genesis"}, bank: questions}
	svc := newTestService(t, bank, &fakeProgress{correctIDs: allIDs}, &fakeVerses{}, &fakeGate{})

	sess, err := svc.Start(context.Background(), identity.User{ID: "u1"}, "genesis")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if len(sess.Questions) != 10 {
		t.Errorf("session size = %d, want 10 in review mode", len(sess.Questions))
	}
}

func TestStartProgressReadFailureDegrades(t *testing.T) {
	bank := &fakeBank{book: entities.Book{Slug: "genesis"}, bank: makeBank(20)}
	progress := &fakeProgress{readErr: errors.New("store down")}
	svc := newTestService(t, bank, progress, &fakeVerses{}, &fakeGate{})

	sess, err := svc.Start(context.Background(), identity.User{ID: "u1"}, "genesis")
	if err != nil {
		t.Fatalf("Start() error = %v, want degraded success", err)
	}
	if len(sess.Questions) != 10 {
		t.Errorf("session size = %d, want 10", len(sess.Questions))
	}
}

func TestStartGatedBookVetoed(t *testing.T) {
	bank := &fakeBank{book: entities.Book{Slug: "revelation", Gated: true}, bank: makeBank(20)}
	gate := &fakeGate{err: credits.ErrDenied}
	svc := newTestService(t, bank, &fakeProgress{}, &fakeVerses{}, gate)

	_, err := svc.Start(context.Background(), identity.User{ID: "u1"}, "revelation")
	if !errors.Is(err, credits.ErrDenied) {
		t.Fatalf("Start() error = %v, want ErrDenied", err)
	}
	if gate.calls != 1 {
		t.Errorf("gate calls = %d, want 1", gate.calls)
	}
}

func TestStartUngatedBookSkipsGate(t *testing.T) {
	bank := &fakeBank{book: entities.Book{Slug: "genesis"}, bank: makeBank(20)}
	gate := &fakeGate{err: credits.ErrDenied}
	svc := newTestService(t, bank, &fakeProgress{}, &fakeVerses{}, gate)

	if _, err := svc.Start(context.Background(), identity.User{}, "genesis"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if gate.calls != 0 {
		t.Errorf("gate calls = %d, want 0 for ungated book", gate.calls)
	}
}

func TestSubmitWritesProgressForSignedInUser(t *testing.T) {
	bank := &fakeBank{book: entities.Book{Slug: "genesis"}, bank: makeBank(20)}
	progress := &fakeProgress{}
	svc := newTestService(t, bank, progress, &fakeVerses{text: "In the beginning"}, &fakeGate{})

	user := identity.User{ID: "u1", FirstName: "Hannah"}
	sess, err := svc.Start(context.Background(), user, "genesis")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	result, err := svc.Submit(context.Background(), user, sess.ID, "A")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !result.Correct {
		t.Error("expected a correct answer for label A")
	}

	waitFor(t, func() bool { return progress.recordedCount() == 1 })
	waitFor(t, func() bool { return progress.incrementCount() == 1 })

	progress.mu.Lock()
	event := progress.recorded[0]
	progress.mu.Unlock()
	if event.Username != "Hannah" || !event.IsCorrect || event.Book != "genesis" {
		t.Errorf("unexpected answer event: %+v", event)
	}
}

func TestSubmitAnonymousSkipsProgressWrites(t *testing.T) {
	bank := &fakeBank{book: entities.Book{Slug: "genesis"}, bank: makeBank(20)}
	progress := &fakeProgress{}
	svc := newTestService(t, bank, progress, &fakeVerses{text: "text"}, &fakeGate{})

	sess, err := svc.Start(context.Background(), identity.User{}, "genesis")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := svc.Submit(context.Background(), identity.User{}, sess.ID, "A"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// Give stray goroutines a moment; none should fire.
	time.Sleep(50 * time.Millisecond)
	if progress.recordedCount() != 0 || progress.incrementCount() != 0 {
		t.Error("anonymous answers must not produce progress writes")
	}
}

func TestSubmitVerseFailureIsSilent(t *testing.T) {
	bank := &fakeBank{book: entities.Book{Slug: "genesis"}, bank: makeBank(20)}
	svc := newTestService(t, bank, &fakeProgress{}, &fakeVerses{err: errors.New("api down")}, &fakeGate{})

	sess, err := svc.Start(context.Background(), identity.User{}, "genesis")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	result, err := svc.Submit(context.Background(), identity.User{}, sess.ID, "B")
	if err != nil {
		t.Fatalf("Submit() error = %v, enrichment failures must not surface", err)
	}
	if result.Explanation == "" {
		t.Error("feedback must still carry the explanation text")
	}
	if result.VerseText != "" {
		t.Error("no verse text expected when the lookup fails")
	}
}

func TestSubmitCachesVerseOncePerQuestion(t *testing.T) {
	bank := &fakeBank{book: entities.Book{Slug: "genesis"}, bank: makeBank(20)}
	svc := newTestService(t, bank, &fakeProgress{}, &fakeVerses{text: "quoted verse"}, &fakeGate{})

	sess, err := svc.Start(context.Background(), identity.User{}, "genesis")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := svc.Submit(context.Background(), identity.User{}, sess.ID, "A"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	questionID := sess.Current().ID
	waitFor(t, func() bool { return sess.VerseText(questionID) == "quoted verse" })

	text, pending, err := svc.Verse(sess.ID)
	if err != nil {
		t.Fatalf("Verse() error = %v", err)
	}
	if pending || text != "quoted verse" {
		t.Errorf("Verse() = (%q, %v), want cached text and not pending", text, pending)
	}
}

func TestFullSessionFinishesWithEncouragement(t *testing.T) {
	bank := &fakeBank{book: entities.Book{Slug: "genesis"}, bank: makeBank(20)}
	svc := newTestService(t, bank, &fakeProgress{}, &fakeVerses{text: "v"}, &fakeGate{})

	sess, err := svc.Start(context.Background(), identity.User{}, "genesis")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var final *AdvanceResult
	for i := 0; i < len(sess.Questions); i++ {
		if _, err := svc.Submit(context.Background(), identity.User{}, sess.ID, "A"); err != nil {
			t.Fatalf("Submit(%d) error = %v", i, err)
		}
		final, err = svc.Advance(sess.ID)
		if err != nil {
			t.Fatalf("Advance(%d) error = %v", i, err)
		}
	}

	if !final.Finished {
		t.Fatal("session should be finished after the last advance")
	}
	if final.CorrectCount != 10 || final.Total != 10 {
		t.Errorf("score = %d/%d, want 10/10", final.CorrectCount, final.Total)
	}
	if final.Encouragement != entities.Encouragement(10, 10) {
		t.Errorf("Encouragement = %q, want top tier", final.Encouragement)
	}
}

func TestSubmitUnknownSession(t *testing.T) {
	bank := &fakeBank{book: entities.Book{Slug: "genesis"}, bank: makeBank(20)}
	svc := newTestService(t, bank, &fakeProgress{}, &fakeVerses{}, &fakeGate{})

	if _, err := svc.Submit(context.Background(), identity.User{}, "missing", "A"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Submit() error = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.Advance("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Advance() error = %v, want ErrSessionNotFound", err)
	}
}
