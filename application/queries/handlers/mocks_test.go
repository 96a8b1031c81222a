package handlers

import (
	"context"

	"sptpts-backend/application/ports"
	"sptpts-backend/domain/core/entities"
	"sptpts-backend/domain/core/valueobjects"

	"github.com/stretchr/testify/mock"
)

// Mock implementations for testing

type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) GetByID(ctx context.Context, id valueobjects.PlaceID) (*entities.Place, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*entities.Place), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) (*valueobjects.CategorySet, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).(*valueobjects.CategorySet), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSearchIndex struct {
	mock.Mock
}

func (m *MockSearchIndex) Search(ctx context.Context, criteria ports.SearchCriteria) ([]*entities.Place, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) != nil {
		return args.Get(0).([]*entities.Place), args.Error(1)
	}
	return nil, args.Error(1)
}

func mustPlaceID(raw string) valueobjects.PlaceID {
	id, err := valueobjects.NewPlaceIDFromString(raw)
	if err != nil {
		panic(err)
	}
	return id
}
