package database

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"friendgraph-api/models"
)

// SeedData populates an empty database with fake users and a mix of pending
// and confirmed friendships for development.
func SeedData(db *gorm.DB, userCount int, seed int64, log *zap.Logger) error {
	var existing int64
	if err := db.Model(&models.User{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if existing > 0 {
		log.Info("database already has data, skipping seed", zap.Int64("users", existing))
		return nil
	}

	faker := gofakeit.New(seed)

	users := make([]models.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		username := strings.ToLower(fmt.Sprintf("%s_%d", faker.Username(), i))
		if len(username) > 50 {
			username = username[len(username)-50:]
		}
		users = append(users, models.User{
			ID:       uuid.NewString(),
			Username: username,
			Email:    fmt.Sprintf("%d.%s", i, faker.Email()),
		})
	}
	if len(users) == 0 {
		return nil
	}
	if err := db.CreateInBatches(users, 100).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	// Each user requests the next two users in the ring; every other request
	// is already confirmed.
	var friendships []models.Friendship
	seen := make(map[[2]string]bool)
	for i, user := range users {
		for step := 1; step <= 2; step++ {
			target := users[(i+step)%len(users)]
			if target.ID == user.ID {
				continue
			}
			low, high := models.OrderedPair(user.ID, target.ID)
			if seen[[2]string{low, high}] {
				continue
			}
			seen[[2]string{low, high}] = true

			friendship := models.NewFriendship(uuid.NewString(), user.ID, target.ID)
			if faker.Bool() {
				friendship.Status = models.FriendshipStatusConfirmed
			}
			friendships = append(friendships, friendship)
		}
	}
	if len(friendships) > 0 {
		if err := db.CreateInBatches(friendships, 100).Error; err != nil {
			return fmt.Errorf("failed to seed friendships: %w", err)
		}
	}

	log.Info("database seeded", zap.Int("users", len(users)), zap.Int("friendships", len(friendships)))
	return nil
}
