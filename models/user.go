// File: /models/user.go
package models

import "time"

// User is owned by the identity store; the friendship core only reads it.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary is the public projection of a user attached to friendship views.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
