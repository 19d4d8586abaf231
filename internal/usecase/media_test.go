package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/pwnz15/Kre/internal/entity"
	"github.com/pwnz15/Kre/internal/port/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func photoRef(name string) entity.PhotoRef {
	return entity.PhotoRef{
		URL:       "http://minio/listing-photos/photos/" + name,
		ObjectKey: "photos/" + name,
	}
}

func TestMediaOrchestrator_Attach_OrderMatchesInput(t *testing.T) {
	mockStorage := new(MockObjectStorage)
	m := NewMediaOrchestrator(mockStorage, zap.NewNop())

	files := []storage.File{
		{Name: "a.jpg", Data: []byte("a")},
		{Name: "b.jpg", Data: []byte("b")},
		{Name: "c.jpg", Data: []byte("c")},
	}
	for _, f := range files {
		mockStorage.On("Upload", mock.Anything, f).Return(photoRef(f.Name), nil).Once()
	}

	refs, err := m.Attach(context.Background(), files)

	assert.NoError(t, err)
	assert.Len(t, refs, 3)
	// Uploads run in parallel but results must map back to input order.
	assert.Equal(t, "photos/a.jpg", refs[0].ObjectKey)
	assert.Equal(t, "photos/b.jpg", refs[1].ObjectKey)
	assert.Equal(t, "photos/c.jpg", refs[2].ObjectKey)
	mockStorage.AssertExpectations(t)
}

func TestMediaOrchestrator_Attach_NoFiles(t *testing.T) {
	mockStorage := new(MockObjectStorage)
	m := NewMediaOrchestrator(mockStorage, zap.NewNop())

	refs, err := m.Attach(context.Background(), nil)

	assert.NoError(t, err)
	assert.Nil(t, refs)
	mockStorage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestMediaOrchestrator_Attach_RollsBackOnPartialFailure(t *testing.T) {
	mockStorage := new(MockObjectStorage)
	m := NewMediaOrchestrator(mockStorage, zap.NewNop())

	files := []storage.File{
		{Name: "a.jpg", Data: []byte("a")},
		{Name: "b.jpg", Data: []byte("b")},
		{Name: "c.jpg", Data: []byte("c")},
	}
	mockStorage.On("Upload", mock.Anything, files[0]).Return(photoRef("a.jpg"), nil).Once()
	mockStorage.On("Upload", mock.Anything, files[1]).Return(entity.PhotoRef{}, errors.New("connection reset")).Once()
	mockStorage.On("Upload", mock.Anything, files[2]).Return(photoRef("c.jpg"), nil).Once()
	mockStorage.On("Delete", mock.Anything, "photos/a.jpg").Return(nil).Once()
	mockStorage.On("Delete", mock.Anything, "photos/c.jpg").Return(nil).Once()

	refs, err := m.Attach(context.Background(), files)

	assert.Nil(t, refs)
	var mediaErr *MediaError
	assert.ErrorAs(t, err, &mediaErr)
	assert.True(t, mediaErr.RolledBack)
	assert.Empty(t, mediaErr.Orphans)
	mockStorage.AssertExpectations(t)
}

func TestMediaOrchestrator_Attach_ReportsOrphansWhenRollbackFails(t *testing.T) {
	mockStorage := new(MockObjectStorage)
	m := NewMediaOrchestrator(mockStorage, zap.NewNop())

	files := []storage.File{
		{Name: "a.jpg", Data: []byte("a")},
		{Name: "b.jpg", Data: []byte("b")},
	}
	mockStorage.On("Upload", mock.Anything, files[0]).Return(photoRef("a.jpg"), nil).Once()
	mockStorage.On("Upload", mock.Anything, files[1]).Return(entity.PhotoRef{}, errors.New("quota exceeded")).Once()
	mockStorage.On("Delete", mock.Anything, "photos/a.jpg").Return(errors.New("timeout")).Once()

	_, err := m.Attach(context.Background(), files)

	var mediaErr *MediaError
	assert.ErrorAs(t, err, &mediaErr)
	assert.False(t, mediaErr.RolledBack)
	assert.Equal(t, []string{"photos/a.jpg"}, mediaErr.Orphans)
	mockStorage.AssertExpectations(t)
}

func TestMediaOrchestrator_Release_CollectsWarningsWithoutAborting(t *testing.T) {
	mockStorage := new(MockObjectStorage)
	m := NewMediaOrchestrator(mockStorage, zap.NewNop())

	refs := []entity.PhotoRef{photoRef("a.jpg"), photoRef("b.jpg"), photoRef("c.jpg")}
	mockStorage.On("Delete", mock.Anything, "photos/a.jpg").Return(nil).Once()
	mockStorage.On("Delete", mock.Anything, "photos/b.jpg").Return(errors.New("access denied")).Once()
	mockStorage.On("Delete", mock.Anything, "photos/c.jpg").Return(nil).Once()

	warnings := m.Release(context.Background(), refs)

	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "photos/b.jpg")
	mockStorage.AssertExpectations(t)
}

func TestMediaOrchestrator_Discard_RunsDespiteCancelledContext(t *testing.T) {
	mockStorage := new(MockObjectStorage)
	m := NewMediaOrchestrator(mockStorage, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockStorage.On("Delete", mock.MatchedBy(func(c context.Context) bool {
		return c.Err() == nil
	}), "photos/a.jpg").Return(nil).Once()

	orphans := m.Discard(ctx, []entity.PhotoRef{photoRef("a.jpg")})

	assert.Empty(t, orphans)
	mockStorage.AssertExpectations(t)
}
