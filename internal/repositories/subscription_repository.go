package repositories

import (
	"context"

	"foodgram/internal/models"
)

// SubscriptionRepository stores follower -> author edges.
type SubscriptionRepository interface {
	Create(ctx context.Context, followerID, authorID uint) error
	Delete(ctx context.Context, followerID, authorID uint) error
	ListAuthors(ctx context.Context, followerID uint, offset, limit int) ([]models.User, int64, error)
	FollowedAmong(ctx context.Context, followerID uint, authorIDs []uint) (map[uint]bool, error)
}
