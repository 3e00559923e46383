// Package events publishes friendship lifecycle events to downstream
// consumers. Publication is best effort: callers log failures and carry on.
package events

import (
	"context"
	"errors"
	"time"

	"friendgraph-api/models"
)

type Type string

const (
	FriendshipRequested Type = "friendship.requested"
	FriendshipConfirmed Type = "friendship.confirmed"
	FriendshipRemoved   Type = "friendship.removed"
)

type FriendshipEvent struct {
	Type         Type                    `json:"type"`
	FriendshipID string                  `json:"friendship_id"`
	ActorID      string                  `json:"actor_id"`
	UserID       string                  `json:"user_id"`
	FriendUserID string                  `json:"friend_user_id"`
	Status       models.FriendshipStatus `json:"status"`
	OccurredAt   time.Time               `json:"occurred_at"`
}

func NewFriendshipEvent(eventType Type, actorID string, friendship models.Friendship) FriendshipEvent {
	return FriendshipEvent{
		Type:         eventType,
		FriendshipID: friendship.ID,
		ActorID:      actorID,
		UserID:       friendship.UserID,
		FriendUserID: friendship.FriendUserID,
		Status:       friendship.Status,
		OccurredAt:   time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event FriendshipEvent) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, FriendshipEvent) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event FriendshipEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
