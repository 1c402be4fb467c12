package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/smartchef/backend/internal/service"
)

// MockTextGenerator is a mock implementation of service.TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

// Complete mocks the Complete method
func (m *MockTextGenerator) Complete(ctx context.Context, req service.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockDetector is a mock implementation of service.Detector
type MockDetector struct {
	mock.Mock
}

// Detect mocks the Detect method
func (m *MockDetector) Detect(ctx context.Context, image []byte, filename string) ([]string, error) {
	args := m.Called(ctx, image, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockImageStore is a mock implementation of service.ImageStore
type MockImageStore struct {
	mock.Mock
}

// Save mocks the Save method; the reader is drained so callers see a normal write.
func (m *MockImageStore) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	args := m.Called(ctx, name, contentType)
	return args.String(0), args.Error(1)
}
