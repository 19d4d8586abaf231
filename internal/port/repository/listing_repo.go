package repository

import (
	"context"
	"errors"

	"github.com/pwnz15/Kre/internal/entity"
)

var ErrNotFound = errors.New("listing not found in repository")

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entity.Filter, page, pageSize int) ([]*entity.Listing, error)
	Count(ctx context.Context, filter entity.Filter) (int64, error)
}
