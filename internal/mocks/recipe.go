package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/smartchef/backend/internal/model"
	"github.com/smartchef/backend/internal/types"
)

// MockRecipeStore is a mock implementation of service.RecipeStore
type MockRecipeStore struct {
	mock.Mock
}

// Save mocks the Save method
func (m *MockRecipeStore) Save(ctx context.Context, rec *types.StoredRecipe) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// Get mocks the Get method
func (m *MockRecipeStore) Get(ctx context.Context, id uuid.UUID) (*types.StoredRecipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StoredRecipe), args.Error(1)
}

// MockScanService is a mock implementation of service.IScanService
type MockScanService struct {
	mock.Mock
}

// Record mocks the Record method
func (m *MockScanService) Record(ctx context.Context, image string, labels []string, recipeCount int) (*model.Scan, error) {
	args := m.Called(ctx, image, labels, recipeCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scan), args.Error(1)
}

// List mocks the List method
func (m *MockScanService) List(ctx context.Context, limit int) ([]model.Scan, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Scan), args.Error(1)
}

// Get mocks the Get method
func (m *MockScanService) Get(ctx context.Context, id uuid.UUID) (*model.Scan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scan), args.Error(1)
}

// TopLabels mocks the TopLabels method
func (m *MockScanService) TopLabels(ctx context.Context, limit int) ([]model.LabelStat, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LabelStat), args.Error(1)
}
