package words

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/palabra/internal"
	"codeberg.org/snonux/palabra/internal/storage"
)

// Supported interface languages
const (
	LanguageEnglish = "en"
	LanguageRussian = "ru"
)

var (
	// ErrEmptyField is returned when the Spanish or Russian text is blank
	ErrEmptyField = errors.New("spanish and russian must not be empty")

	// ErrUnknownLanguage is returned for languages other than en and ru
	ErrUnknownLanguage = errors.New("unknown language")
)

// Store is the single source of truth for the word list
type Store struct {
	storage     storage.Storage
	logger      *zap.Logger
	entries     []Entry
	lastSavedID string

	now   func() time.Time
	newID func() string
}

// NewStore creates an empty store bound to s. Call Load to hydrate it.
func NewStore(s storage.Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		storage: s,
		logger:  logger,
		now:     time.Now,
		newID:   internal.GenerateEntryID,
	}
}

// Load replaces the in-memory state with what is persisted.
// Missing or unreadable data leaves the store empty.
func (s *Store) Load() error {
	s.entries = nil
	s.lastSavedID = ""

	raw, ok, err := s.storage.Get(storage.KeyWords)
	if err != nil {
		return fmt.Errorf("failed to load words: %w", err)
	}
	if ok && raw != "" {
		var entries []Entry
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			s.logger.Warn("stored word list is corrupt, starting empty", zap.Error(err))
		} else {
			s.entries = s.repair(entries)
		}
	}

	id, ok, err := s.storage.Get(storage.KeyLastSavedID)
	if err != nil {
		return fmt.Errorf("failed to load last saved id: %w", err)
	}
	if ok && s.indexOf(id) >= 0 {
		s.lastSavedID = id
	}

	s.logger.Debug("word list loaded", zap.Int("entries", len(s.entries)))
	return nil
}

// repair gives entries without an id a fresh one and drops repeated ids
func (s *Store) repair(entries []Entry) []Entry {
	seen := make(map[string]bool, len(entries))
	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			e.ID = s.newID()
		}
		if seen[e.ID] {
			s.logger.Warn("dropping entry with repeated id", zap.String("id", e.ID))
			continue
		}
		seen[e.ID] = true
		result = append(result, e)
	}
	return result
}

// Save writes the full entry list and the last saved id to storage
func (s *Store) Save() error {
	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode words: %w", err)
	}
	if err := s.storage.Set(storage.KeyWords, string(data)); err != nil {
		return err
	}

	if s.lastSavedID == "" {
		return s.storage.Delete(storage.KeyLastSavedID)
	}
	return s.storage.Set(storage.KeyLastSavedID, s.lastSavedID)
}

// commit saves the current state. On failure the in-memory state is rolled
// back to prev so memory never runs ahead of storage.
func (s *Store) commit(prev []Entry, prevLast string) error {
	if err := s.Save(); err != nil {
		s.entries = prev
		s.lastSavedID = prevLast
		return err
	}
	return nil
}

// Entries returns a copy of all entries in store order
func (s *Store) Entries() []Entry {
	result := make([]Entry, len(s.entries))
	copy(result, s.entries)
	return result
}

// Len returns the number of entries
func (s *Store) Len() int {
	return len(s.entries)
}

// Get returns the entry with the given id
func (s *Store) Get(id string) (Entry, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.entries[i], true
	}
	return Entry{}, false
}

// FindBySpanish returns the first entry whose Spanish text matches case-insensitively
func (s *Store) FindBySpanish(spanish string) (Entry, bool) {
	key := Key(spanish)
	for _, e := range s.entries {
		if Key(e.Spanish) == key {
			return e, true
		}
	}
	return Entry{}, false
}

// LastSavedID returns the id of the most recently added or edited entry
func (s *Store) LastSavedID() string {
	return s.lastSavedID
}

// Add creates a manual entry at the front of the list. When an entry with
// the same Spanish text already exists nothing is inserted and its id is
// returned with created set to false.
func (s *Store) Add(spanish, russian string) (id string, created bool, err error) {
	spanish, russian, err = clean(spanish, russian)
	if err != nil {
		return "", false, err
	}

	prev, prevLast := s.entries, s.lastSavedID
	if existing, ok := s.FindBySpanish(spanish); ok {
		s.lastSavedID = existing.ID
		return existing.ID, false, s.commit(prev, prevLast)
	}

	entry := Entry{
		ID:       s.newID(),
		Spanish:  spanish,
		Russian:  russian,
		AddedAt:  s.now().UnixMilli(),
		IsManual: true,
	}
	s.entries = append([]Entry{entry}, s.entries...)
	s.lastSavedID = entry.ID

	if err := s.commit(prev, prevLast); err != nil {
		return "", false, err
	}
	s.logger.Debug("word added", zap.String("id", entry.ID), zap.String("spanish", spanish))
	return entry.ID, true, nil
}

// Update replaces the texts of an entry in place. It reports false when
// the id is unknown and ErrEmptyField when a field is blank; in both cases
// nothing changes.
func (s *Store) Update(id, spanish, russian string) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	spanish, russian, err := clean(spanish, russian)
	if err != nil {
		return false, err
	}

	prev, prevLast := s.Entries(), s.lastSavedID
	s.entries[i].Spanish = spanish
	s.entries[i].Russian = russian
	s.lastSavedID = id
	if err := s.commit(prev, prevLast); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes an entry; unknown ids are ignored
func (s *Store) Delete(id string) error {
	_, err := s.DeleteMany(map[string]bool{id: true})
	return err
}

// DeleteMany removes all entries whose id is in ids in one pass and
// returns how many were removed
func (s *Store) DeleteMany(ids map[string]bool) (int, error) {
	return s.filter(func(i int, e Entry) bool { return ids[e.ID] })
}

// DeleteIndices removes the entries at the given store positions
func (s *Store) DeleteIndices(indices []int) (int, error) {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	return s.filter(func(i int, e Entry) bool { return drop[i] })
}

func (s *Store) filter(remove func(i int, e Entry) bool) (int, error) {
	prevLast := s.lastSavedID
	kept := make([]Entry, 0, len(s.entries))
	removed := 0
	for i, e := range s.entries {
		if remove(i, e) {
			removed++
			if e.ID == s.lastSavedID {
				s.lastSavedID = ""
			}
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return 0, nil
	}
	prev := s.entries
	s.entries = kept
	if err := s.commit(prev, prevLast); err != nil {
		return 0, err
	}
	s.logger.Debug("words deleted", zap.Int("count", removed))
	return removed, nil
}

// ClearAll removes every entry
func (s *Store) ClearAll() error {
	prev, prevLast := s.entries, s.lastSavedID
	s.entries = nil
	s.lastSavedID = ""
	return s.commit(prev, prevLast)
}

// ImportBatch adds the candidate pairs as non-manual entries, skipping any
// whose Spanish text collides with an existing entry or an earlier
// candidate. Accepted entries are placed in front, in batch order.
func (s *Store) ImportBatch(pairs []Pair) (int, error) {
	seen := make(map[string]bool, len(s.entries)+len(pairs))
	for _, e := range s.entries {
		seen[Key(e.Spanish)] = true
	}

	now := s.now().UnixMilli()
	var accepted []Entry
	for _, p := range pairs {
		spanish, russian, err := clean(p.Spanish, p.Russian)
		if err != nil {
			continue
		}
		key := Key(spanish)
		if seen[key] {
			continue
		}
		seen[key] = true
		accepted = append(accepted, Entry{
			ID:      s.newID(),
			Spanish: spanish,
			Russian: russian,
			AddedAt: now,
		})
	}
	if len(accepted) == 0 {
		return 0, nil
	}

	prev := s.entries
	s.entries = append(accepted, s.entries...)
	if err := s.commit(prev, s.lastSavedID); err != nil {
		return 0, err
	}
	s.logger.Debug("words imported", zap.Int("accepted", len(accepted)), zap.Int("candidates", len(pairs)))
	return len(accepted), nil
}

// ExportAll returns every pair in store order
func (s *Store) ExportAll() []Pair {
	result := make([]Pair, len(s.entries))
	for i, e := range s.entries {
		result[i] = Pair{Spanish: e.Spanish, Russian: e.Russian}
	}
	return result
}

// Language returns the persisted interface language, Russian by default
func (s *Store) Language() string {
	lang, ok, err := s.storage.Get(storage.KeyLanguage)
	if err != nil || !ok || ValidateLanguage(lang) != nil {
		return LanguageRussian
	}
	return lang
}

// SetLanguage persists the interface language
func (s *Store) SetLanguage(lang string) error {
	if err := ValidateLanguage(lang); err != nil {
		return err
	}
	return s.storage.Set(storage.KeyLanguage, lang)
}

// ValidateLanguage checks that lang is a supported interface language
func ValidateLanguage(lang string) error {
	switch lang {
	case LanguageEnglish, LanguageRussian:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func clean(spanish, russian string) (string, string, error) {
	spanish = strings.TrimSpace(spanish)
	russian = strings.TrimSpace(russian)
	if spanish == "" || russian == "" {
		return "", "", ErrEmptyField
	}
	return spanish, russian, nil
}
