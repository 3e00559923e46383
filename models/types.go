// File: /models/types.go
package models

// PagedResult is one page of a listing plus what a client needs to page on.
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func NewPagedResult[T any](items []T, total int64, page, limit int) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PagedResult[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

type UserStats struct {
	Total int64 `json:"total"`
}

type FriendshipStats struct {
	Total                     int64   `json:"total"`
	AverageFriendshipsPerUser float64 `json:"average_friendships_per_user"`
}

type Stats struct {
	Users       UserStats       `json:"users"`
	Friendships FriendshipStats `json:"friendships"`
}
