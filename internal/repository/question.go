package repository

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/berean-study/trivia-api/internal/domain/entities"
)

//go:embed banks/*.json
var bankFS embed.FS

var (
	ErrBookNotFound = errors.New("book not found")
	ErrEmptyBank    = errors.New("question bank is empty")
)

// bankFile mirrors the on-disk JSON layout of one book bank.
type bankFile struct {
	Book      string `json:"book"`
	Title     string `json:"title"`
	Gated     bool   `json:"gated"`
	Questions []struct {
		ID          string            `json:"id"`
		Prompt      string            `json:"prompt"`
		Options     []entities.Option `json:"options"`
		Correct     string            `json:"correct"`
		Reference   string            `json:"reference"`
		Explanation string            `json:"explanation"`
	} `json:"questions"`
}

// QuestionRepository provides read-only access to the static question banks.
// Banks ship embedded in the binary; a directory override lets deployments
// swap in their own JSON files without rebuilding.
type QuestionRepository struct {
	books map[string]entities.Book
	banks map[string][]*entities.Question
	order []string // slugs in display order
}

// NewQuestionRepository loads every bank, from dir when non-empty and from
// the embedded files otherwise. Malformed banks fail loading outright.
func NewQuestionRepository(dir string) (*QuestionRepository, error) {
	var (
		files []string
		read  func(name string) ([]byte, error)
	)

	if dir != "" {
		matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return nil, fmt.Errorf("list banks: %w", err)
		}
		files = matches
		read = os.ReadFile
	} else {
		matches, err := fs.Glob(bankFS, "banks/*.json")
		if err != nil {
			return nil, fmt.Errorf("list embedded banks: %w", err)
		}
		files = matches
		read = bankFS.ReadFile
	}

	r := &QuestionRepository{
		books: make(map[string]entities.Book),
		banks: make(map[string][]*entities.Question),
	}

	for _, name := range files {
		data, err := read(name)
		if err != nil {
			return nil, fmt.Errorf("read bank %s: %w", name, err)
		}
		if err := r.addBank(data); err != nil {
			return nil, fmt.Errorf("load bank %s: %w", name, err)
		}
	}

	if len(r.books) == 0 {
		return nil, ErrEmptyBank
	}

	sort.Slice(r.order, func(i, j int) bool {
		return r.books[r.order[i]].Title < r.books[r.order[j]].Title
	})

	return r, nil
}

func (r *QuestionRepository) addBank(data []byte) error {
	var bf bankFile
	if err := json.Unmarshal(data, &bf); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if bf.Book == "" {
		return errors.New("bank missing book slug")
	}
	if _, exists := r.books[bf.Book]; exists {
		return fmt.Errorf("duplicate bank for book %q", bf.Book)
	}
	if len(bf.Questions) == 0 {
		return ErrEmptyBank
	}

	questions := make([]*entities.Question, 0, len(bf.Questions))
	seen := make(map[string]struct{}, len(bf.Questions))
	for _, qf := range bf.Questions {
		if qf.ID == "" {
			return errors.New("question missing id")
		}
		if _, dup := seen[qf.ID]; dup {
			return fmt.Errorf("duplicate question id %q", qf.ID)
		}
		seen[qf.ID] = struct{}{}

		if len(qf.Options) < 2 {
			return fmt.Errorf("question %q needs at least two options", qf.ID)
		}
		labels := make(map[string]struct{}, len(qf.Options))
		for _, opt := range qf.Options {
			if _, dup := labels[opt.Label]; dup {
				return fmt.Errorf("question %q has duplicate option label %q", qf.ID, opt.Label)
			}
			labels[opt.Label] = struct{}{}
		}
		if _, ok := labels[qf.Correct]; !ok {
			return fmt.Errorf("question %q: correct label %q not among options", qf.ID, qf.Correct)
		}

		questions = append(questions, &entities.Question{
			ID:           qf.ID,
			Book:         bf.Book,
			Prompt:       qf.Prompt,
			Options:      qf.Options,
			CorrectLabel: qf.Correct,
			Reference:    qf.Reference,
			Explanation:  qf.Explanation,
		})
	}

	r.books[bf.Book] = entities.Book{
		Slug:          bf.Book,
		Title:         bf.Title,
		QuestionCount: len(questions),
		Gated:         bf.Gated,
	}
	r.banks[bf.Book] = questions
	r.order = append(r.order, bf.Book)
	return nil
}

// Books returns all playable books sorted by title.
func (r *QuestionRepository) Books() []entities.Book {
	out := make([]entities.Book, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, r.books[slug])
	}
	return out
}

// Book returns the metadata for one book.
func (r *QuestionRepository) Book(slug string) (entities.Book, error) {
	b, ok := r.books[slug]
	if !ok {
		return entities.Book{}, ErrBookNotFound
	}
	return b, nil
}

// Bank returns the full question bank for one book. Callers must treat the
// returned questions as read-only; sessions work on copies.
func (r *QuestionRepository) Bank(slug string) ([]*entities.Question, error) {
	bank, ok := r.banks[slug]
	if !ok {
		return nil, ErrBookNotFound
	}
	return bank, nil
}
