// Package mocks provides testify mocks of the persistence and event bus collaborators.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dukex/newsroom/pkg/models"
	"github.com/dukex/newsroom/pkg/persistence"
)

// MockPersistence is a mock implementation of persistence.Persistence interface.
type MockPersistence struct {
	mock.Mock
}

func (m *MockPersistence) Load(ctx context.Context, collectionID string) ([]*models.Post, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPersistence) Save(ctx context.Context, collectionID string, posts []*models.Post) error {
	args := m.Called(ctx, collectionID, posts)

	return args.Error(0)
}

func (m *MockPersistence) Collections(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

var _ persistence.Persistence = (*MockPersistence)(nil)
