package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pwnz15/Kre/internal/entity"
	"github.com/pwnz15/Kre/internal/port/storage"
	"go.uber.org/zap"
)

const defaultRollbackTimeout = 10 * time.Second

// MediaOrchestrator sequences photo uploads and deletes against the object
// store and keeps it consistent with the record store under partial
// failure: a failed Attach batch removes everything it uploaded, a Release
// tolerates individual delete failures and reports them as warnings.
type MediaOrchestrator struct {
	storage         storage.ObjectStorage
	logger          *zap.Logger
	rollbackTimeout time.Duration
}

func NewMediaOrchestrator(st storage.ObjectStorage, log *zap.Logger) *MediaOrchestrator {
	return &MediaOrchestrator{
		storage:         st,
		logger:          log,
		rollbackTimeout: defaultRollbackTimeout,
	}
}

// Attach uploads every file and returns the stored references in the same
// order as the input. Uploads run in parallel. If any upload fails, every
// object that did get stored in this batch is deleted again and a single
// *MediaError is returned; the error records whether that rollback left
// orphans behind.
func (m *MediaOrchestrator) Attach(ctx context.Context, files []storage.File) ([]entity.PhotoRef, error) {
	if len(files) == 0 {
		return nil, nil
	}

	refs := make([]entity.PhotoRef, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f storage.File) {
			defer wg.Done()
			refs[i], errs[i] = m.storage.Upload(ctx, f)
		}(i, f)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		var uploaded []entity.PhotoRef
		for i := range refs {
			if errs[i] == nil {
				uploaded = append(uploaded, refs[i])
			}
		}
		orphans := m.Discard(ctx, uploaded)
		return nil, &MediaError{
			Err:        err,
			RolledBack: len(orphans) == 0,
			Orphans:    orphans,
		}
	}

	return refs, nil
}

// Release deletes every referenced object. Failures never abort the batch:
// each one is logged and returned as a warning, since a stale object is
// cleanup debt rather than a correctness problem.
func (m *MediaOrchestrator) Release(ctx context.Context, refs []entity.PhotoRef) []string {
	var warnings []string
	for _, ref := range refs {
		if err := m.storage.Delete(ctx, ref.ObjectKey); err != nil {
			m.logger.Warn("failed to delete photo from object store",
				zap.String("object_key", ref.ObjectKey),
				zap.Error(err),
			)
			warnings = append(warnings, fmt.Sprintf("photo %s could not be deleted: %v", ref.ObjectKey, err))
		}
	}
	return warnings
}

// Discard compensates for an attach whose surrounding operation failed. It
// runs under its own short deadline, detached from the caller's context so
// that an already-expired request can still clean up after itself. Keys it
// could not delete are returned as orphans.
func (m *MediaOrchestrator) Discard(ctx context.Context, refs []entity.PhotoRef) []string {
	if len(refs) == 0 {
		return nil
	}

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.rollbackTimeout)
	defer cancel()

	var orphans []string
	for _, ref := range refs {
		if err := m.storage.Delete(rctx, ref.ObjectKey); err != nil {
			m.logger.Error("rollback delete failed, object orphaned",
				zap.String("object_key", ref.ObjectKey),
				zap.Error(err),
			)
			orphans = append(orphans, ref.ObjectKey)
		}
	}
	return orphans
}
