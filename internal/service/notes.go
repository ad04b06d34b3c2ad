package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/berean-study/trivia-api/internal/domain/entities"
	"github.com/berean-study/trivia-api/internal/domain/notedoc"
)

var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrInvalidNote   = errors.New("invalid note")
	ErrMissingFields = errors.New("guided note needs at least one filled field")
)

// NoteStore keeps notes between requests.
type NoteStore interface {
	Save(note *entities.Note)
	Get(userID, noteID string) (*entities.Note, bool)
	List(userID string) []*entities.Note
	Delete(userID, noteID string) bool
}

// NoteInput carries the client-supplied fields of a note.
type NoteInput struct {
	Mode      entities.NoteMode
	Book      string
	Chapter   int
	VerseFrom int
	VerseTo   int
	Guided    *entities.GuidedFields
	Body      *notedoc.Document
}

// NotesService manages the journaling feature. It shares nothing with the
// quiz beyond the identity of the author.
type NotesService struct {
	store NoteStore
	now   func() time.Time
}

func NewNotesService(store NoteStore) *NotesService {
	return &NotesService{store: store, now: time.Now}
}

// Create validates and stores a new note for a user.
func (s *NotesService) Create(userID string, in NoteInput) (*entities.Note, error) {
	if err := validateNote(in); err != nil {
		return nil, err
	}

	now := s.now()
	note := &entities.Note{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mode:      in.Mode,
		Book:      in.Book,
		Chapter:   in.Chapter,
		VerseFrom: in.VerseFrom,
		VerseTo:   in.VerseTo,
		Guided:    in.Guided,
		Body:      in.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.store.Save(note)
	return note, nil
}

// Get returns one of a user's notes.
func (s *NotesService) Get(userID, noteID string) (*entities.Note, error) {
	note, ok := s.store.Get(userID, noteID)
	if !ok {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

// List returns a user's notes, newest first.
func (s *NotesService) List(userID string) []*entities.Note {
	return s.store.List(userID)
}

// Update replaces the content of an existing note, keeping its identity and
// creation time.
func (s *NotesService) Update(userID, noteID string, in NoteInput) (*entities.Note, error) {
	note, ok := s.store.Get(userID, noteID)
	if !ok {
		return nil, ErrNoteNotFound
	}
	if err := validateNote(in); err != nil {
		return nil, err
	}

	updated := &entities.Note{
		ID:        note.ID,
		UserID:    note.UserID,
		Mode:      in.Mode,
		Book:      in.Book,
		Chapter:   in.Chapter,
		VerseFrom: in.VerseFrom,
		VerseTo:   in.VerseTo,
		Guided:    in.Guided,
		Body:      in.Body,
		CreatedAt: note.CreatedAt,
		UpdatedAt: s.now(),
	}
	s.store.Save(updated)
	return updated, nil
}

// Delete removes one of a user's notes.
func (s *NotesService) Delete(userID, noteID string) error {
	if !s.store.Delete(userID, noteID) {
		return ErrNoteNotFound
	}
	return nil
}

func validateNote(in NoteInput) error {
	if !in.Mode.Valid() {
		return ErrInvalidNote
	}
	if in.Book == "" || in.Chapter <= 0 {
		return ErrInvalidNote
	}
	if in.VerseFrom < 0 || in.VerseTo < 0 || (in.VerseTo > 0 && in.VerseTo < in.VerseFrom) {
		return ErrInvalidNote
	}

	switch in.Mode {
	case entities.ModeGuided:
		if in.Guided == nil {
			return ErrMissingFields
		}
		g := in.Guided
		if g.Observation == "" && g.Interpretation == "" && g.Application == "" && g.Prayer == "" {
			return ErrMissingFields
		}
	case entities.ModeAdvanced:
		if in.Body == nil {
			return ErrInvalidNote
		}
		if err := in.Body.Validate(); err != nil {
			return err
		}
	}
	return nil
}
