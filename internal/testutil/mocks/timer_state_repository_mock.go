package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ghelleks/botany-battle-sub000/internal/models"
)

// MockTimerStateRepository is a mock implementation of repository.TimerStateRepository
type MockTimerStateRepository struct {
	mock.Mock
}

func (m *MockTimerStateRepository) Save(ctx context.Context, rec *models.TimerStateRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockTimerStateRepository) Load(ctx context.Context, sessionID string) (*models.TimerStateRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimerStateRecord), args.Error(1)
}

func (m *MockTimerStateRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockTimerStateRepository) DeleteStale(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}
