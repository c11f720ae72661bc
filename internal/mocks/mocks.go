package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/dietrec/backend/internal/model"
	"github.com/pageza/dietrec/backend/internal/models"
	"github.com/pageza/dietrec/backend/internal/service"
	"github.com/pageza/dietrec/backend/internal/types"
)

// MockRecommendationService is a mock implementation of IRecommendationService
type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) Generate(ctx context.Context, profile model.Profile) (*service.RecommendationResult, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecommendationResult), args.Error(1)
}

// MockSessionStore is a mock implementation of ISessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) New(ctx context.Context) (*types.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Session), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*types.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Session), args.Error(1)
}

func (m *MockSessionStore) Save(ctx context.Context, session *types.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockHistoryService is a mock implementation of IHistoryService
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) Record(ctx context.Context, entry *models.PlanHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryService) List(ctx context.Context, sessionID string, limit int) ([]*models.PlanHistory, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PlanHistory), args.Error(1)
}

// Compile-time interface checks
var (
	_ service.IRecommendationService = (*MockRecommendationService)(nil)
	_ service.ISessionStore          = (*MockSessionStore)(nil)
	_ service.IHistoryService        = (*MockHistoryService)(nil)
)
