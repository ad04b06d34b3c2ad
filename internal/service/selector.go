package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/berean-study/trivia-api/internal/domain/entities"
)

// DefaultSessionSize is the number of questions drawn per play-through.
const DefaultSessionSize = 10

// Selector draws the per-session question set: an eligibility filter over
// previously-correct IDs followed by a uniform shuffle-and-truncate.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector creates a selector seeded from the clock.
func NewSelector() *Selector {
	return NewSelectorWithSeed(time.Now().UnixNano())
}

// NewSelectorWithSeed creates a deterministically seeded selector for tests.
func NewSelectorWithSeed(seed int64) *Selector {
	return &Selector{rng: rand.New(rand.NewSource(seed))}
}

// Eligible returns the bank minus the previously-correct IDs. When the user
// has mastered every question the full bank is returned instead (review
// mode), so the result is never empty for a nonempty bank.
func Eligible(bank []*entities.Question, correctIDs []string) []*entities.Question {
	if len(correctIDs) == 0 {
		return bank
	}

	exclude := make(map[string]struct{}, len(correctIDs))
	for _, id := range correctIDs {
		exclude[id] = struct{}{}
	}

	pool := make([]*entities.Question, 0, len(bank))
	for _, q := range bank {
		if _, done := exclude[q.ID]; !done {
			pool = append(pool, q)
		}
	}

	if len(pool) == 0 {
		return bank
	}
	return pool
}

// Pick shuffles a copy of the pool and returns the first min(n, len(pool))
// questions. The returned questions are per-session copies, so the lazy
// verse-text cache never leaks between sessions.
func (s *Selector) Pick(pool []*entities.Question, n int) []*entities.Question {
	out := append([]*entities.Question(nil), pool...)

	s.mu.Lock()
	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	s.mu.Unlock()

	if n > len(out) {
		n = len(out)
	}
	out = out[:n]

	copies := make([]*entities.Question, len(out))
	for i, q := range out {
		c := *q
		copies[i] = &c
	}
	return copies
}
