package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ghelleks/botany-battle-sub000/internal/models"
)

// MockScoreRepository is a mock implementation of repository.ScoreRepository
type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) SaveScore(ctx context.Context, rec *models.ScoreRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockScoreRepository) PersonalBest(ctx context.Context, mode models.Mode, difficulty models.Difficulty) (*models.ScoreRecord, error) {
	args := m.Called(ctx, mode, difficulty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScoreRecord), args.Error(1)
}

func (m *MockScoreRepository) PersonalBests(ctx context.Context) ([]models.ScoreRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScoreRecord), args.Error(1)
}

func (m *MockScoreRepository) Leaderboard(ctx context.Context, mode models.Mode, difficulty models.Difficulty, limit int) ([]models.ScoreRecord, error) {
	args := m.Called(ctx, mode, difficulty, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScoreRecord), args.Error(1)
}

func (m *MockScoreRepository) Stats(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}
