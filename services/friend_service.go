package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"friendgraph-api/apperror"
	"friendgraph-api/events"
	"friendgraph-api/metrics"
	"friendgraph-api/models"
	"friendgraph-api/repositories"
	"friendgraph-api/utils"
)

const (
	maxSearchLength       = 50
	defaultPublishTimeout = 3 * time.Second
	// Pages past this point cannot hold rows; clamping keeps offsets small.
	maxPage = 1_000_000
)

type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

func (p Pagination) normalize(limit, page int) (int, int) {
	if limit <= 0 {
		limit = p.DefaultLimit
	}
	if limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	return limit, page
}

// FriendService owns the friendship lifecycle: request, confirm, remove and
// the paginated friend and pending-request lists.
type FriendService struct {
	friendships repositories.FriendshipRepository
	users       repositories.UserRepository
	publisher   events.Publisher
	metrics     *metrics.Metrics
	log         *zap.Logger
	pagination  Pagination

	// Upper bound on one event publication, within the caller's deadline.
	publishTimeout time.Duration
}

func NewFriendService(
	friendships repositories.FriendshipRepository,
	users repositories.UserRepository,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
	pagination Pagination,
	publishTimeout time.Duration,
) *FriendService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if pagination.DefaultLimit <= 0 {
		pagination.DefaultLimit = 10
	}
	if pagination.MaxLimit < pagination.DefaultLimit {
		pagination.MaxLimit = pagination.DefaultLimit
	}
	if publishTimeout <= 0 {
		publishTimeout = defaultPublishTimeout
	}

	return &FriendService{
		friendships: friendships,
		users:       users,
		publisher:   publisher,
		metrics:     m,
		log:         log,
		pagination:  pagination,

		publishTimeout: publishTimeout,
	}
}

// AddFriend creates a pending request from requesterID to targetID.
func (s *FriendService) AddFriend(ctx context.Context, requesterID, targetID string) (_ *models.Friendship, err error) {
	defer s.observe("add_friend", time.Now(), &err)

	if err := validateID("user id", requesterID); err != nil {
		return nil, err
	}
	if err := validateID("friend user id", targetID); err != nil {
		return nil, err
	}
	if requesterID == targetID {
		return nil, apperror.InvalidRequest("cannot send a friend request to yourself")
	}

	exists, err := s.users.UserExists(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !exists {
		return nil, apperror.NotFound("user not found")
	}

	existing, err := s.friendships.FindByUnorderedPair(ctx, requesterID, targetID)
	switch {
	case err == nil:
		if existing.Status == models.FriendshipStatusConfirmed {
			return nil, apperror.Conflict("already friends with this user")
		}
		return nil, apperror.Conflict("friend request already exists")
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to look up friendship: %w", err)
	}

	created, err := s.friendships.Insert(ctx, requesterID, targetID)
	if errors.Is(err, repositories.ErrDuplicatePair) {
		return nil, apperror.Wrap(apperror.ErrConflict, err, "friend request already exists")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	s.publish(ctx, events.FriendshipRequested, requesterID, created)
	return created, nil
}

// ConfirmFriendRequest moves a pending request to confirmed. Only the
// recipient may confirm, and only once.
func (s *FriendService) ConfirmFriendRequest(ctx context.Context, actingUserID, friendshipID string) (_ *models.Friendship, err error) {
	defer s.observe("confirm_friend_request", time.Now(), &err)

	if err := validateID("user id", actingUserID); err != nil {
		return nil, err
	}
	if err := validateID("friendship id", friendshipID); err != nil {
		return nil, err
	}

	friendship, err := s.friendships.FindByID(ctx, friendshipID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("friend request not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load friend request: %w", err)
	}

	if !friendship.IsParticipant(actingUserID) {
		return nil, apperror.Forbidden("not allowed to confirm this friend request")
	}
	if friendship.Status == models.FriendshipStatusConfirmed {
		return nil, apperror.InvalidState("friend request already confirmed")
	}
	if friendship.FriendUserID != actingUserID {
		return nil, apperror.Forbidden("only the recipient can confirm a friend request")
	}

	updated, err := s.friendships.UpdateStatus(ctx, friendshipID, models.FriendshipStatusConfirmed)
	switch {
	case errors.Is(err, repositories.ErrStatusUnchanged):
		return nil, apperror.Wrap(apperror.ErrInvalidState, err, "friend request already confirmed")
	case errors.Is(err, repositories.ErrNotFound):
		return nil, apperror.NotFound("friend request not found")
	case err != nil:
		return nil, fmt.Errorf("failed to confirm friend request: %w", err)
	}

	s.publish(ctx, events.FriendshipConfirmed, actingUserID, updated)
	return updated, nil
}

// RemoveFriend deletes the friendship in any status. Either participant may
// remove it; on a pending row this cancels or declines the request.
func (s *FriendService) RemoveFriend(ctx context.Context, actingUserID, friendshipID string) (_ *models.Friendship, err error) {
	defer s.observe("remove_friend", time.Now(), &err)

	if err := validateID("user id", actingUserID); err != nil {
		return nil, err
	}
	if err := validateID("friendship id", friendshipID); err != nil {
		return nil, err
	}

	friendship, err := s.friendships.FindByID(ctx, friendshipID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("friendship not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load friendship: %w", err)
	}
	if !friendship.IsParticipant(actingUserID) {
		return nil, apperror.Forbidden("not allowed to remove this friendship")
	}

	deleted, err := s.friendships.Delete(ctx, friendshipID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NotFound("friendship not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to remove friendship: %w", err)
	}

	s.publish(ctx, events.FriendshipRemoved, actingUserID, deleted)
	return deleted, nil
}

// GetUserFriendList pages through the confirmed friendships of userID,
// optionally filtered by the counterpart's username.
func (s *FriendService) GetUserFriendList(ctx context.Context, userID, search string, limit, page int) (_ *models.PagedResult[models.FriendshipWithUser], err error) {
	defer s.observe("get_user_friend_list", time.Now(), &err)

	if err := validateID("user id", userID); err != nil {
		return nil, err
	}
	search = strings.TrimSpace(search)
	if utf8.RuneCountInString(search) > maxSearchLength {
		return nil, apperror.InvalidRequest(fmt.Sprintf("search must be at most %d characters", maxSearchLength))
	}

	limit, page = s.pagination.normalize(limit, page)
	items, total, err := s.friendships.ListConfirmedForUser(ctx, userID, search, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}

	result := models.NewPagedResult(items, total, page, limit)
	return &result, nil
}

// ListPendingRequests pages through pending requests addressed to userID
// (incoming) or sent by userID (outgoing).
func (s *FriendService) ListPendingRequests(ctx context.Context, userID string, direction models.PendingDirection, limit, page int) (_ *models.PagedResult[models.FriendshipWithUser], err error) {
	defer s.observe("list_pending_requests", time.Now(), &err)

	if err := validateID("user id", userID); err != nil {
		return nil, err
	}
	if direction != models.PendingIncoming && direction != models.PendingOutgoing {
		return nil, apperror.InvalidRequest("direction must be incoming or outgoing")
	}

	limit, page = s.pagination.normalize(limit, page)
	items, total, err := s.friendships.ListPendingForUser(ctx, userID, direction, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}

	result := models.NewPagedResult(items, total, page, limit)
	return &result, nil
}

func (s *FriendService) publish(ctx context.Context, eventType events.Type, actorID string, friendship *models.Friendship) {
	event := events.NewFriendshipEvent(eventType, actorID, *friendship)

	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish friendship event",
			zap.String("type", string(eventType)),
			zap.String("friendship_id", friendship.ID),
			zap.Error(err),
		)
	}
}

func (s *FriendService) observe(operation string, start time.Time, err *error) {
	s.metrics.ObserveOperation(operation, time.Since(start), *err)
}

func validateID(field, id string) error {
	if !utils.IsValidID(id) {
		return apperror.InvalidRequest(fmt.Sprintf("%s is invalid", field))
	}
	return nil
}
