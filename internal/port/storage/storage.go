package storage

import (
	"context"

	"github.com/pwnz15/Kre/internal/entity"
)

// File is one uploaded photo as received from the transport layer.
type File struct {
	Name string
	Data []byte
}

// ObjectStorage is the object-store capability the listing core consumes.
// Delete must be idempotent: removing an object that no longer exists is
// not an error.
type ObjectStorage interface {
	Upload(ctx context.Context, file File) (entity.PhotoRef, error)
	Delete(ctx context.Context, objectKey string) error
}
