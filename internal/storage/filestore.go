package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sjperalta/lendtrack-api/internal/models"
)

// FileStore persists the whole borrower set as a single JSON document on
// the local filesystem. Every operation reads the document, mutates it in
// memory and writes it back. The mutex scopes the entire read-modify-write
// cycle; without it concurrent requests could interleave and lose writes.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// fileDocument is the on-disk layout: { "borrowers": [ ... ] }
type fileDocument struct {
	Borrowers []models.Borrower `json:"borrowers"`
}

// NewFileStore creates a file store rooted at path, creating the parent
// directory if needed. The file itself is created lazily on first write; a
// missing file reads as an empty borrower set.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Name identifies this backend
func (s *FileStore) Name() string {
	return "file"
}

// ListAll returns every borrower sorted by creation time, newest first
func (s *FileStore) ListAll(ctx context.Context) ([]models.Borrower, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(doc.Borrowers, func(i, j int) bool {
		return doc.Borrowers[i].CreatedAt.After(doc.Borrowers[j].CreatedAt)
	})
	return doc.Borrowers, nil
}

// FindByID returns the borrower with the given id or ErrNotFound
func (s *FileStore) FindByID(ctx context.Context, id string) (*models.Borrower, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range doc.Borrowers {
		if doc.Borrowers[i].ID == id {
			b := doc.Borrowers[i]
			return &b, nil
		}
	}
	return nil, ErrNotFound
}

// Insert assigns a fresh identifier and appends the borrower to the set
func (s *FileStore) Insert(ctx context.Context, b *models.Borrower) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	b.ID = newFileID()
	doc.Borrowers = append(doc.Borrowers, *b)
	return s.save(doc)
}

// UpdateFields applies a partial update to one borrower's cached fields
func (s *FileStore) UpdateFields(ctx context.Context, id string, patch FieldPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	b := findBorrower(doc, id)
	if b == nil {
		return ErrNotFound
	}
	patch.applyTo(b)
	return s.save(doc)
}

// AppendHistory appends a payment or penalty record and applies the field
// patch in the same document write
func (s *FileStore) AppendHistory(ctx context.Context, id string, kind HistoryKind, record any, patch FieldPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	b := findBorrower(doc, id)
	if b == nil {
		return ErrNotFound
	}

	switch kind {
	case HistoryPayments:
		payment, ok := record.(models.Payment)
		if !ok {
			return fmt.Errorf("history kind %q requires a Payment record", kind)
		}
		b.Payments = append(b.Payments, payment)
	case HistoryPenalties:
		penalty, ok := record.(models.Penalty)
		if !ok {
			return fmt.Errorf("history kind %q requires a Penalty record", kind)
		}
		b.Penalties = append(b.Penalties, penalty)
	default:
		return fmt.Errorf("unknown history kind %q", kind)
	}

	patch.applyTo(b)
	return s.save(doc)
}

// Remove deletes a borrower from the set
func (s *FileStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	for i := range doc.Borrowers {
		if doc.Borrowers[i].ID == id {
			doc.Borrowers = append(doc.Borrowers[:i], doc.Borrowers[i+1:]...)
			return s.save(doc)
		}
	}
	return ErrNotFound
}

// Snapshot copies the current document to a timestamped file under dir.
// Used by the scheduled backup job.
func (s *FileStore) Snapshot(dir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil // nothing to back up yet
		}
		return "", fmt.Errorf("failed to open data file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := fmt.Sprintf("borrowers_%s.json", time.Now().Format("2006-01-02_150405"))
	dstPath := filepath.Join(dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}
	return dstPath, nil
}

// load reads the whole document; a missing file is an empty set
func (s *FileStore) load() (*fileDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileDocument{Borrowers: []models.Borrower{}}, nil
		}
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	doc := &fileDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}
	if doc.Borrowers == nil {
		doc.Borrowers = []models.Borrower{}
	}
	return doc, nil
}

// save serializes the document fully before touching the target path, then
// replaces it atomically via rename. A failed write never leaves a
// half-written document behind.
func (s *FileStore) save(doc *fileDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize data file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

// findBorrower returns a pointer into the document's slice, or nil
func findBorrower(doc *fileDocument, id string) *models.Borrower {
	for i := range doc.Borrowers {
		if doc.Borrowers[i].ID == id {
			return &doc.Borrowers[i]
		}
	}
	return nil
}

// applyTo writes the non-nil patch fields onto the borrower
func (p FieldPatch) applyTo(b *models.Borrower) {
	if p.RemainingBalance != nil {
		b.RemainingBalance = *p.RemainingBalance
	}
	if p.TotalPenalties != nil {
		b.TotalPenalties = *p.TotalPenalties
	}
	if p.NextDueDate != nil {
		b.NextDueDate = *p.NextDueDate
	}
	if p.MonthlyPayment != nil {
		b.MonthlyPayment = *p.MonthlyPayment
	}
}

// newFileID builds an identifier from a millisecond timestamp and a random
// suffix, unique in practice across a single deployment
func newFileID() string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}
