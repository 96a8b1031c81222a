package resilience

import (
	"context"

	"sptpts-backend/application/ports"
	"sptpts-backend/domain/core/entities"
	"sptpts-backend/domain/core/valueobjects"
)

// PlaceRepository guards a ports.PlaceRepository
type PlaceRepository struct {
	next    ports.PlaceRepository
	breaker *Breaker
}

// NewPlaceRepository wraps next with breaker
func NewPlaceRepository(next ports.PlaceRepository, breaker *Breaker) *PlaceRepository {
	return &PlaceRepository{next: next, breaker: breaker}
}

func (r *PlaceRepository) GetByID(ctx context.Context, id valueobjects.PlaceID) (*entities.Place, error) {
	result, err := r.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return r.next.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	place, _ := result.(*entities.Place)
	return place, nil
}

// CategoryRepository guards a ports.CategoryRepository
type CategoryRepository struct {
	next    ports.CategoryRepository
	breaker *Breaker
}

// NewCategoryRepository wraps next with breaker
func NewCategoryRepository(next ports.CategoryRepository, breaker *Breaker) *CategoryRepository {
	return &CategoryRepository{next: next, breaker: breaker}
}

func (r *CategoryRepository) GetAll(ctx context.Context) (*valueobjects.CategorySet, error) {
	result, err := r.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return r.next.GetAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	set, _ := result.(*valueobjects.CategorySet)
	return set, nil
}

// SearchIndex guards a ports.SearchIndex
type SearchIndex struct {
	next    ports.SearchIndex
	breaker *Breaker
}

// NewSearchIndex wraps next with breaker
func NewSearchIndex(next ports.SearchIndex, breaker *Breaker) *SearchIndex {
	return &SearchIndex{next: next, breaker: breaker}
}

func (s *SearchIndex) Search(ctx context.Context, criteria ports.SearchCriteria) ([]*entities.Place, error) {
	result, err := s.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return s.next.Search(ctx, criteria)
	})
	if err != nil {
		return nil, err
	}
	places, _ := result.([]*entities.Place)
	return places, nil
}

var (
	_ ports.PlaceRepository    = (*PlaceRepository)(nil)
	_ ports.CategoryRepository = (*CategoryRepository)(nil)
	_ ports.SearchIndex        = (*SearchIndex)(nil)
)
