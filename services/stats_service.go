package services

import (
	"context"
	"fmt"
	"math"

	"friendgraph-api/models"
	"friendgraph-api/repositories"
)

// StatsService reads aggregate counts straight from storage on every call.
type StatsService struct {
	users       repositories.UserRepository
	friendships repositories.FriendshipRepository
}

func NewStatsService(users repositories.UserRepository, friendships repositories.FriendshipRepository) *StatsService {
	return &StatsService{users: users, friendships: friendships}
}

func (s *StatsService) GetUserStats(ctx context.Context) (*models.UserStats, error) {
	total, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	return &models.UserStats{Total: total}, nil
}

// GetFriendshipStats counts confirmed friendships only. Each one gives a
// friend to two users, hence the factor of two in the average.
func (s *StatsService) GetFriendshipStats(ctx context.Context) (*models.FriendshipStats, error) {
	total, err := s.friendships.CountConfirmed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count friendships: %w", err)
	}
	users, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return &models.FriendshipStats{
		Total:                     total,
		AverageFriendshipsPerUser: averageFriendshipsPerUser(total, users),
	}, nil
}

func (s *StatsService) GetStats(ctx context.Context) (*models.Stats, error) {
	users, err := s.GetUserStats(ctx)
	if err != nil {
		return nil, err
	}
	friendships, err := s.GetFriendshipStats(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Stats{Users: *users, Friendships: *friendships}, nil
}

func averageFriendshipsPerUser(friendships, users int64) float64 {
	if users <= 0 {
		return 0
	}
	return roundToDecimal(float64(2*friendships)/float64(users), 2)
}

// roundToDecimal rounds a float to specified decimal places
func roundToDecimal(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
