package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"friendgraph-api/models"
)

// MemoryStore is an in-process identity store and friendship repository with
// the same uniqueness guarantees as the SQL schema.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]models.User
	friendships map[string]models.Friendship
	pairs       map[[2]string]string
	now         func() time.Time
}

var (
	_ UserRepository       = (*MemoryStore)(nil)
	_ FriendshipRepository = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]models.User),
		friendships: make(map[string]models.Friendship),
		pairs:       make(map[[2]string]string),
		now:         time.Now,
	}
}

// SetClock replaces the time source used for created/updated timestamps.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) AddUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	s.users[user.ID] = user
}

func (s *MemoryStore) UserExists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok, nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) GetUsername(ctx context.Context, id string) (string, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

func (s *MemoryStore) CountUsers(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

func (s *MemoryStore) FindByUnorderedPair(ctx context.Context, a, b string) (*models.Friendship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	low, high := models.OrderedPair(a, b)

	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.pairs[[2]string{low, high}]
	if !ok {
		return nil, ErrNotFound
	}
	friendship := s.friendships[id]
	return &friendship, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*models.Friendship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	friendship, ok := s.friendships[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &friendship, nil
}

func (s *MemoryStore) Insert(ctx context.Context, userID, friendUserID string) (*models.Friendship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	friendship := models.NewFriendship(uuid.NewString(), userID, friendUserID)
	key := [2]string{friendship.UserLowID, friendship.UserHighID}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pairs[key]; exists {
		return nil, ErrDuplicatePair
	}
	now := s.now().UTC()
	friendship.CreatedAt = now
	friendship.UpdatedAt = now
	s.friendships[friendship.ID] = friendship
	s.pairs[key] = friendship.ID
	return &friendship, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, status models.FriendshipStatus) (*models.Friendship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	friendship, ok := s.friendships[id]
	if !ok {
		return nil, ErrNotFound
	}
	if friendship.Status == status {
		return nil, ErrStatusUnchanged
	}
	friendship.Status = status
	friendship.UpdatedAt = s.now().UTC()
	s.friendships[id] = friendship
	return &friendship, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) (*models.Friendship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	friendship, ok := s.friendships[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.friendships, id)
	delete(s.pairs, [2]string{friendship.UserLowID, friendship.UserHighID})
	return &friendship, nil
}

func (s *MemoryStore) ListConfirmedForUser(ctx context.Context, userID, search string, limit, offset int) ([]models.FriendshipWithUser, int64, error) {
	needle := strings.ToLower(search)
	return s.list(ctx, userID, limit, offset, func(f models.Friendship, friendUsername string) bool {
		return f.Status == models.FriendshipStatusConfirmed &&
			f.IsParticipant(userID) &&
			strings.Contains(strings.ToLower(friendUsername), needle)
	})
}

func (s *MemoryStore) ListPendingForUser(ctx context.Context, userID string, direction models.PendingDirection, limit, offset int) ([]models.FriendshipWithUser, int64, error) {
	return s.list(ctx, userID, limit, offset, func(f models.Friendship, _ string) bool {
		if f.Status != models.FriendshipStatusPending {
			return false
		}
		if direction == models.PendingOutgoing {
			return f.UserID == userID
		}
		return f.FriendUserID == userID
	})
}

func (s *MemoryStore) list(ctx context.Context, userID string, limit, offset int, match func(models.Friendship, string) bool) ([]models.FriendshipWithUser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.FriendshipWithUser
	for _, f := range s.friendships {
		if !f.IsParticipant(userID) {
			continue
		}
		friend, ok := s.users[f.Counterpart(userID)]
		if !ok || !match(f, friend.Username) {
			continue
		}
		matched = append(matched, models.FriendshipWithUser{
			Friendship: f,
			Friend:     models.UserSummary{ID: friend.ID, Username: friend.Username},
		})
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []models.FriendshipWithUser{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (s *MemoryStore) CountConfirmed(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, f := range s.friendships {
		if f.Status == models.FriendshipStatusConfirmed {
			count++
		}
	}
	return count, nil
}
