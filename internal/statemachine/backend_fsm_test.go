package statemachine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sjperalta/lendtrack-api/internal/models"
	"github.com/sjperalta/lendtrack-api/internal/storage"
	"github.com/sjperalta/lendtrack-api/pkg/logger"
)

// stubStore is a minimal BorrowerStore for selector tests
type stubStore struct {
	name string
}

func (s *stubStore) ListAll(ctx context.Context) ([]models.Borrower, error) { return nil, nil }
func (s *stubStore) FindByID(ctx context.Context, id string) (*models.Borrower, error) {
	return nil, storage.ErrNotFound
}
func (s *stubStore) Insert(ctx context.Context, b *models.Borrower) error { return nil }
func (s *stubStore) UpdateFields(ctx context.Context, id string, patch storage.FieldPatch) error {
	return nil
}
func (s *stubStore) AppendHistory(ctx context.Context, id string, kind storage.HistoryKind, record any, patch storage.FieldPatch) error {
	return nil
}
func (s *stubStore) Remove(ctx context.Context, id string) error { return nil }
func (s *stubStore) Name() string                                { return s.name }

func TestSelectorInitialState(t *testing.T) {
	logger.Setup("test")

	db := &stubStore{name: "database"}
	file := &stubStore{name: "file"}

	withDB := NewBackendSelector(db, file)
	assert.Equal(t, StateDatabaseActive, withDB.State())
	assert.True(t, withDB.UsingDatabase())
	assert.Equal(t, "database", withDB.Active().Name())
	assert.Nil(t, withDB.FailedAt())

	fileOnly := NewBackendSelector(nil, file)
	assert.Equal(t, StateFileActive, fileOnly.State())
	assert.False(t, fileOnly.UsingDatabase())
	assert.Equal(t, "file", fileOnly.Active().Name())
}

func TestSelectorFallbackIsOneWay(t *testing.T) {
	logger.Setup("test")

	db := &stubStore{name: "database"}
	file := &stubStore{name: "file"}
	selector := NewBackendSelector(db, file)

	cause := errors.New("connection refused")
	got := selector.Fallback(context.Background(), cause)

	assert.Equal(t, "file", got.Name())
	assert.Equal(t, StateFileActive, selector.State())
	assert.NotNil(t, selector.FailedAt())
	assert.Equal(t, "file", selector.Active().Name())

	// Falling back again is a no-op and the timestamp does not move
	first := selector.FailedAt()
	got = selector.Fallback(context.Background(), errors.New("still down"))
	assert.Equal(t, "file", got.Name())
	assert.Equal(t, first, selector.FailedAt())
}
