package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pwnz15/Kre/internal/entity"
	"github.com/pwnz15/Kre/internal/port/cache"
	"github.com/pwnz15/Kre/internal/port/repository"
	"github.com/pwnz15/Kre/internal/port/storage"
	"go.uber.org/zap"
)

type EventPublisher interface {
	PublishListingCreated(ctx context.Context, listing *entity.Listing) error
	PublishListingUpdated(ctx context.Context, listing *entity.Listing) error
	PublishListingDeleted(ctx context.Context, listingID string) error
}

// ListingUsecase drives the listing lifecycle: it is the only component
// that writes to the record store, and it delegates all object-store work
// to the media orchestrator so that the two stores stay consistent under
// partial failure.
type ListingUsecase struct {
	repo      repository.ListingRepository
	media     *MediaOrchestrator
	cacheRepo cache.CacheRepository
	publisher EventPublisher
	logger    *zap.Logger
}

func NewListingUsecase(
	repo repository.ListingRepository,
	media *MediaOrchestrator,
	cacheRepo cache.CacheRepository,
	publisher EventPublisher,
	log *zap.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:      repo,
		media:     media,
		cacheRepo: cacheRepo,
		publisher: publisher,
		logger:    log,
	}
}

func listingCacheKey(id string) string {
	return fmt.Sprintf("listing:%s", id)
}

const listingCacheTTL = 5 * time.Minute

type CreateListingInput struct {
	Title            string
	Description      string
	Governorate      string
	City             string
	Address          string
	University       string
	CurrentOccupants int
	TotalCapacity    int
	PricePerPerson   float64
	Preferences      entity.Preferences
	Status           entity.ListingStatus
}

// Create validates the candidate before any I/O, uploads the photos, then
// persists the record. A record-store failure after a successful upload
// rolls the upload back and surfaces the rollback outcome in the returned
// *StorageError.
func (uc *ListingUsecase) Create(ctx context.Context, ownerID string, input CreateListingInput, files []storage.File) (*entity.Listing, error) {
	status := input.Status
	if status == "" {
		status = entity.StatusAvailable
	}

	now := time.Now()
	listing := &entity.Listing{
		OwnerID:          ownerID,
		Title:            input.Title,
		Description:      input.Description,
		Governorate:      input.Governorate,
		City:             input.City,
		Address:          input.Address,
		University:       input.University,
		CurrentOccupants: input.CurrentOccupants,
		TotalCapacity:    input.TotalCapacity,
		PricePerPerson:   input.PricePerPerson,
		Preferences:      input.Preferences,
		Photos:           []entity.PhotoRef{},
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	violations := ValidateListing(listing)
	if !status.Valid() {
		violations = append(violations, fmt.Sprintf("%q is not a valid listing status", status))
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	refs, err := uc.media.Attach(ctx, files)
	if err != nil {
		uc.logger.Error("failed to upload listing photos", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	if refs != nil {
		listing.Photos = refs
	}

	id, err := uc.repo.Create(ctx, listing)
	if err != nil {
		uc.logger.Error("failed to persist listing", zap.String("owner_id", ownerID), zap.Error(err))
		orphans := uc.media.Discard(ctx, refs)
		return nil, &StorageError{Err: err, RolledBack: len(orphans) == 0, Orphans: orphans}
	}
	listing.ID = id

	if uc.publisher != nil {
		if pubErr := uc.publisher.PublishListingCreated(ctx, listing); pubErr != nil {
			uc.logger.Warn("failed to publish listing created event",
				zap.String("listing_id", listing.ID), zap.Error(pubErr))
		}
	}

	return listing, nil
}

// Update loads the record, checks ownership, validates the merged view and
// applies the attach-before-commit, release-after-commit photo discipline:
// new photos are uploaded before the record is written, and the previous
// ones are removed only once the write has succeeded.
func (uc *ListingUsecase) Update(ctx context.Context, ownerID, id string, fields UpdateFields, files []storage.File) (*entity.Listing, error) {
	existing, err := uc.getForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	merged := mergeListing(existing, fields)
	if violations := ValidateListing(merged); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	var newRefs []entity.PhotoRef
	if len(files) > 0 {
		newRefs, err = uc.media.Attach(ctx, files)
		if err != nil {
			uc.logger.Error("failed to upload replacement photos",
				zap.String("listing_id", id), zap.Error(err))
			return nil, err
		}
		merged.Photos = newRefs
	}

	merged.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, merged); err != nil {
		uc.logger.Error("failed to persist listing update", zap.String("listing_id", id), zap.Error(err))
		orphans := uc.media.Discard(ctx, newRefs)
		if errors.Is(err, repository.ErrNotFound) {
			// The record vanished between the ownership check and the
			// write, most likely a concurrent delete.
			if len(orphans) > 0 {
				uc.logger.Error("orphaned photos after concurrent delete",
					zap.String("listing_id", id), zap.Strings("orphans", orphans))
			}
			return nil, ErrListingNotFound
		}
		return nil, &StorageError{Err: err, RolledBack: len(orphans) == 0, Orphans: orphans}
	}

	// The record now points at the new photos; the old ones are cleanup
	// debt at worst.
	if len(files) > 0 {
		if warnings := uc.media.Release(ctx, existing.Photos); len(warnings) > 0 {
			uc.logger.Warn("some replaced photos were not deleted",
				zap.String("listing_id", id), zap.Strings("warnings", warnings))
		}
	}

	uc.invalidateCache(ctx, id)

	if uc.publisher != nil {
		if pubErr := uc.publisher.PublishListingUpdated(ctx, merged); pubErr != nil {
			uc.logger.Warn("failed to publish listing updated event",
				zap.String("listing_id", id), zap.Error(pubErr))
		}
	}

	return merged, nil
}

// UpdateStatus transitions a listing's status. Transitions are explicit
// caller actions only: occupancy never changes status, and a closed
// listing stays closed.
func (uc *ListingUsecase) UpdateStatus(ctx context.Context, ownerID, id string, status entity.ListingStatus) (*entity.Listing, error) {
	if !status.Valid() {
		return nil, &ValidationError{Violations: []string{fmt.Sprintf("%q is not a valid listing status", status)}}
	}

	listing, err := uc.getForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if listing.Status == entity.StatusClosed {
		return nil, &ValidationError{Violations: []string{"a closed listing cannot change status"}}
	}

	listing.Status = status
	listing.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Error("failed to persist listing status", zap.String("listing_id", id), zap.Error(err))
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, &StorageError{Err: err, RolledBack: true}
	}

	uc.invalidateCache(ctx, id)

	if uc.publisher != nil {
		if pubErr := uc.publisher.PublishListingUpdated(ctx, listing); pubErr != nil {
			uc.logger.Warn("failed to publish listing updated event",
				zap.String("listing_id", id), zap.Error(pubErr))
		}
	}

	return listing, nil
}

// Delete removes the record first and only then releases its photos: the
// record is the source of truth, so a photo that outlives it is a warning,
// never a failure. The returned warnings list the photos left behind.
func (uc *ListingUsecase) Delete(ctx context.Context, ownerID, id string) ([]string, error) {
	listing, err := uc.getForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		uc.logger.Error("failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return nil, &StorageError{Err: err, RolledBack: true}
	}

	warnings := uc.media.Release(ctx, listing.Photos)

	uc.invalidateCache(ctx, id)

	if uc.publisher != nil {
		if pubErr := uc.publisher.PublishListingDeleted(ctx, id); pubErr != nil {
			uc.logger.Warn("failed to publish listing deleted event",
				zap.String("listing_id", id), zap.Error(pubErr))
		}
	}

	return warnings, nil
}

// GetByID is a public read with a cache-aside in front of the repository.
func (uc *ListingUsecase) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	if uc.cacheRepo != nil {
		key := listingCacheKey(id)
		if data, err := uc.cacheRepo.Get(ctx, key); err == nil {
			var cached entity.Listing
			if unmarshalErr := json.Unmarshal(data, &cached); unmarshalErr == nil {
				return &cached, nil
			}
			uc.logger.Warn("corrupted listing in cache, evicting", zap.String("key", key))
			if delErr := uc.cacheRepo.Delete(ctx, key); delErr != nil {
				uc.logger.Warn("failed to evict corrupted cache entry", zap.String("key", key), zap.Error(delErr))
			}
		} else if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
		}
	}

	listing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to load listing %s: %w", id, err)
	}

	if uc.cacheRepo != nil {
		if data, marshalErr := json.Marshal(listing); marshalErr == nil {
			key := listingCacheKey(id)
			if setErr := uc.cacheRepo.Set(ctx, key, data, listingCacheTTL); setErr != nil {
				uc.logger.Warn("failed to cache listing", zap.String("key", key), zap.Error(setErr))
			}
		}
	}

	return listing, nil
}

// getForOwner loads a listing and enforces ownership-scoped mutation.
// Ownership mismatch is reported as ErrForbidden rather than masked as
// not-found: reads are public, so existence is not a secret.
func (uc *ListingUsecase) getForOwner(ctx context.Context, ownerID, id string) (*entity.Listing, error) {
	listing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to load listing %s: %w", id, err)
	}
	if listing.OwnerID != ownerID {
		uc.logger.Warn("ownership check failed",
			zap.String("listing_id", id),
			zap.String("owner_id", listing.OwnerID),
			zap.String("caller_id", ownerID),
		)
		return nil, ErrForbidden
	}
	return listing, nil
}

func (uc *ListingUsecase) invalidateCache(ctx context.Context, id string) {
	if uc.cacheRepo == nil {
		return
	}
	key := listingCacheKey(id)
	if err := uc.cacheRepo.Delete(ctx, key); err != nil {
		uc.logger.Warn("failed to invalidate listing cache", zap.String("key", key), zap.Error(err))
	}
}
