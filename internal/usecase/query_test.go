package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/pwnz15/Kre/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, clampPage(-3))
	assert.Equal(t, 1, clampPage(0))
	assert.Equal(t, 1, clampPage(1))
	assert.Equal(t, 7, clampPage(7))
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, defaultPageSize, clampPageSize(0))
	assert.Equal(t, defaultPageSize, clampPageSize(-5))
	assert.Equal(t, defaultPageSize, clampPageSize(101))
	assert.Equal(t, 1, clampPageSize(1))
	assert.Equal(t, 100, clampPageSize(100))
}

func TestList_CombinesFetchAndCount(t *testing.T) {
	uc, m := newTestUsecase()

	items := []*entity.Listing{storedListing(), storedListing()}
	filter := entity.Filter{Governorate: "Sousse"}
	m.repo.On("List", mock.Anything, filter, 1, defaultPageSize).Return(items, nil).Once()
	m.repo.On("Count", mock.Anything, filter).Return(int64(25), nil).Once()

	page, err := uc.List(context.Background(), filter, 0, 0)

	assert.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	m.repo.AssertExpectations(t)
}

func TestList_InvertedPriceRangeIsNotAnError(t *testing.T) {
	uc, m := newTestUsecase()

	minPrice, maxPrice := 100.0, 50.0
	filter := entity.Filter{MinPrice: &minPrice, MaxPrice: &maxPrice}
	m.repo.On("List", mock.Anything, filter, 1, defaultPageSize).Return([]*entity.Listing{}, nil).Once()
	m.repo.On("Count", mock.Anything, filter).Return(int64(0), nil).Once()

	page, err := uc.List(context.Background(), filter, 1, 10)

	assert.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
}

func TestList_FetchErrorPropagates(t *testing.T) {
	uc, m := newTestUsecase()

	m.repo.On("List", mock.Anything, mock.Anything, 1, defaultPageSize).Return(nil, errors.New("cursor timeout")).Once()
	m.repo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil).Once()

	_, err := uc.List(context.Background(), entity.Filter{}, 1, 10)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestList_CountErrorPropagates(t *testing.T) {
	uc, m := newTestUsecase()

	m.repo.On("List", mock.Anything, mock.Anything, 1, defaultPageSize).Return([]*entity.Listing{}, nil).Once()
	m.repo.On("Count", mock.Anything, mock.Anything).Return(int64(0), errors.New("cursor timeout")).Once()

	_, err := uc.List(context.Background(), entity.Filter{}, 1, 10)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "count failed")
}
