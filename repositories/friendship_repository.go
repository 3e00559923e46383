package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"friendgraph-api/models"
)

// FriendshipRepository stores friendship edges. Lookups by pair are
// direction-agnostic.
type FriendshipRepository interface {
	FindByUnorderedPair(ctx context.Context, a, b string) (*models.Friendship, error)
	FindByID(ctx context.Context, id string) (*models.Friendship, error)
	Insert(ctx context.Context, userID, friendUserID string) (*models.Friendship, error)
	UpdateStatus(ctx context.Context, id string, status models.FriendshipStatus) (*models.Friendship, error)
	Delete(ctx context.Context, id string) (*models.Friendship, error)
	ListConfirmedForUser(ctx context.Context, userID, search string, limit, offset int) ([]models.FriendshipWithUser, int64, error)
	ListPendingForUser(ctx context.Context, userID string, direction models.PendingDirection, limit, offset int) ([]models.FriendshipWithUser, int64, error)
	CountConfirmed(ctx context.Context) (int64, error)
}

type friendshipRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db, now: time.Now}
}

// friendshipRow is a listing row: the edge plus the counterpart's username.
type friendshipRow struct {
	ID             string
	UserID         string
	FriendUserID   string
	Status         models.FriendshipStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
	FriendUsername string
}

func (r *friendshipRepository) FindByUnorderedPair(ctx context.Context, a, b string) (*models.Friendship, error) {
	low, high := models.OrderedPair(a, b)

	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		First(&friendship).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &friendship, nil
}

func (r *friendshipRepository) FindByID(ctx context.Context, id string) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).First(&friendship, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &friendship, nil
}

// Insert creates a pending request. The unique pair index turns a lost race
// into ErrDuplicatePair.
func (r *friendshipRepository) Insert(ctx context.Context, userID, friendUserID string) (*models.Friendship, error) {
	friendship := models.NewFriendship(uuid.NewString(), userID, friendUserID)
	now := r.now().UTC()
	friendship.CreatedAt = now
	friendship.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(&friendship).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicatePair
		}
		return nil, err
	}
	return &friendship, nil
}

// UpdateStatus only touches rows not already in the target status, so two
// concurrent transitions cannot both succeed.
func (r *friendshipRepository) UpdateStatus(ctx context.Context, id string, status models.FriendshipStatus) (*models.Friendship, error) {
	result := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("id = ? AND status <> ?", id, status).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": r.now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStatusUnchanged
	}

	return r.FindByID(ctx, id)
}

// Delete removes the row and returns it as it was before deletion.
func (r *friendshipRepository) Delete(ctx context.Context, id string) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&friendship, "id = ?", id).Error; err != nil {
			return translateNotFound(err)
		}

		result := tx.Where("id = ?", id).Delete(&models.Friendship{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

func (r *friendshipRepository) ListConfirmedForUser(ctx context.Context, userID, search string, limit, offset int) ([]models.FriendshipWithUser, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("friendships.status = ? AND (friendships.user_id = ? OR friendships.friend_user_id = ?)",
			models.FriendshipStatusConfirmed, userID, userID)
	}
	return r.listForUser(ctx, userID, scope, search, limit, offset)
}

func (r *friendshipRepository) ListPendingForUser(ctx context.Context, userID string, direction models.PendingDirection, limit, offset int) ([]models.FriendshipWithUser, int64, error) {
	column := "friendships.friend_user_id"
	if direction == models.PendingOutgoing {
		column = "friendships.user_id"
	}
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("friendships.status = ? AND "+column+" = ?", models.FriendshipStatusPending, userID)
	}
	return r.listForUser(ctx, userID, scope, "", limit, offset)
}

func (r *friendshipRepository) listForUser(ctx context.Context, userID string, scope func(*gorm.DB) *gorm.DB, search string, limit, offset int) ([]models.FriendshipWithUser, int64, error) {
	base := func() *gorm.DB {
		query := r.db.WithContext(ctx).Table("friendships").
			Joins("JOIN users ON users.id = CASE WHEN friendships.user_id = ? THEN friendships.friend_user_id ELSE friendships.user_id END", userID).
			Scopes(scope)
		if search != "" {
			query = query.Where("LOWER(users.username) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(search))+"%")
		}
		return query
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []models.FriendshipWithUser{}, 0, nil
	}

	var rows []friendshipRow
	err := base().
		Select("friendships.id, friendships.user_id, friendships.friend_user_id, friendships.status, " +
			"friendships.created_at, friendships.updated_at, users.username AS friend_username").
		Order("friendships.created_at DESC").
		Order("friendships.id ASC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]models.FriendshipWithUser, 0, len(rows))
	for _, row := range rows {
		friendship := models.NewFriendship(row.ID, row.UserID, row.FriendUserID)
		friendship.Status = row.Status
		friendship.CreatedAt = row.CreatedAt
		friendship.UpdatedAt = row.UpdatedAt

		items = append(items, models.FriendshipWithUser{
			Friendship: friendship,
			Friend: models.UserSummary{
				ID:       friendship.Counterpart(userID),
				Username: row.FriendUsername,
			},
		})
	}

	return items, total, nil
}

func (r *friendshipRepository) CountConfirmed(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("status = ?", models.FriendshipStatusConfirmed).
		Count(&count).Error
	return count, err
}

// escapeLike makes % and _ match literally under ESCAPE '!'.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
