// File: /models/friendship.go
package models

import "time"

type FriendshipStatus string

const (
	FriendshipStatusPending   FriendshipStatus = "pending"
	FriendshipStatusConfirmed FriendshipStatus = "confirmed"
)

// Friendship is a directed edge from requester (UserID) to recipient
// (FriendUserID). UserLowID/UserHighID hold the ordered pair and carry the
// unique index that allows one row per unordered pair.
type Friendship struct {
	ID           string           `json:"id" gorm:"primaryKey;size:191"`
	UserID       string           `json:"user_id" gorm:"not null;size:191;index"`
	FriendUserID string           `json:"friend_user_id" gorm:"not null;size:191;index"`
	Status       FriendshipStatus `json:"status" gorm:"not null;default:'pending';size:20;index"`
	UserLowID    string           `json:"-" gorm:"not null;size:191;uniqueIndex:uk_friendships_pair,priority:1"`
	UserHighID   string           `json:"-" gorm:"not null;size:191;uniqueIndex:uk_friendships_pair,priority:2"`
	CreatedAt    time.Time        `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewFriendship builds a pending request with the pair key already set.
func NewFriendship(id, userID, friendUserID string) Friendship {
	low, high := OrderedPair(userID, friendUserID)
	return Friendship{
		ID:           id,
		UserID:       userID,
		FriendUserID: friendUserID,
		Status:       FriendshipStatusPending,
		UserLowID:    low,
		UserHighID:   high,
	}
}

// OrderedPair returns the two ids sorted, the canonical key of an unordered pair.
func OrderedPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

func (f Friendship) IsParticipant(userID string) bool {
	return f.UserID == userID || f.FriendUserID == userID
}

// Counterpart returns the other side of the edge as seen by userID.
func (f Friendship) Counterpart(userID string) string {
	if f.UserID == userID {
		return f.FriendUserID
	}
	return f.UserID
}

// FriendshipWithUser is a friendship as seen by one participant, with the
// other participant resolved.
type FriendshipWithUser struct {
	Friendship
	Friend UserSummary `json:"friend"`
}

type PendingDirection string

const (
	PendingIncoming PendingDirection = "incoming"
	PendingOutgoing PendingDirection = "outgoing"
)
