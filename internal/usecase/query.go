package usecase

import (
	"context"
	"fmt"

	"github.com/pwnz15/Kre/internal/entity"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Page is one page of listing search results.
type Page struct {
	Items       []*entity.Listing `json:"items"`
	Total       int64             `json:"total"`
	TotalPages  int               `json:"total_pages"`
	CurrentPage int               `json:"current_page"`
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func clampPageSize(size int) int {
	if size < 1 || size > maxPageSize {
		return defaultPageSize
	}
	return size
}

// List runs the filtered, paginated fetch and the total-count query
// concurrently; the two see independent, "reasonably recent" snapshots.
// Out-of-range pagination inputs are clamped, and an inverted price range
// is a valid filter that simply matches nothing.
func (uc *ListingUsecase) List(ctx context.Context, filter entity.Filter, page, pageSize int) (*Page, error) {
	page = clampPage(page)
	pageSize = clampPageSize(pageSize)

	var (
		items    []*entity.Listing
		listErr  error
		total    int64
		countErr error
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		total, countErr = uc.repo.Count(ctx, filter)
	}()
	items, listErr = uc.repo.List(ctx, filter, page, pageSize)
	<-done

	if listErr != nil {
		return nil, fmt.Errorf("listing search failed: %w", listErr)
	}
	if countErr != nil {
		return nil, fmt.Errorf("listing count failed: %w", countErr)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &Page{
		Items:       items,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}
