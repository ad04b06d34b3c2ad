package storage

import (
	"sort"
	"sync"

	"github.com/berean-study/trivia-api/internal/domain/entities"
)

// NoteStorage provides in-memory, per-user note storage. The notes feature
// has no persistence layer in this snapshot; the store sits behind the
// service interface so a database-backed implementation can replace it.
type NoteStorage struct {
	mu    sync.RWMutex
	notes map[string]map[string]*entities.Note // userID -> noteID -> note
}

func NewNoteStorage() *NoteStorage {
	return &NoteStorage{notes: make(map[string]map[string]*entities.Note)}
}

// Save inserts or replaces a note.
func (s *NoteStorage) Save(note *entities.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.notes[note.UserID]
	if !ok {
		byID = make(map[string]*entities.Note)
		s.notes[note.UserID] = byID
	}
	byID[note.ID] = note
}

// Get retrieves one of a user's notes by ID.
func (s *NoteStorage) Get(userID, noteID string) (*entities.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[userID][noteID]
	return note, ok
}

// List returns a user's notes, newest first.
func (s *NoteStorage) List(userID string) []*entities.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Note, 0, len(s.notes[userID]))
	for _, note := range s.notes[userID] {
		out = append(out, note)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Delete removes one of a user's notes. It reports whether a note was
// actually removed.
func (s *NoteStorage) Delete(userID, noteID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.notes[userID]
	if !ok {
		return false
	}
	if _, exists := byID[noteID]; !exists {
		return false
	}
	delete(byID, noteID)
	return true
}
