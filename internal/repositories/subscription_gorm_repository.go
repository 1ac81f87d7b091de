package repositories

import (
	"context"
	"fmt"

	"foodgram/internal/models"

	"gorm.io/gorm"
)

// GORMSubscriptionRepository is a GORM implementation of SubscriptionRepository.
type GORMSubscriptionRepository struct {
	db *gorm.DB
}

// NewGORMSubscriptionRepository creates a new instance of GORMSubscriptionRepository.
func NewGORMSubscriptionRepository(db *gorm.DB) *GORMSubscriptionRepository {
	return &GORMSubscriptionRepository{
		db: db,
	}
}

// Create inserts the edge; ErrDuplicate when it exists already.
func (r *GORMSubscriptionRepository) Create(ctx context.Context, followerID, authorID uint) error {
	sub := &models.Subscription{UserID: followerID, AuthorID: authorID}
	if err := r.db.WithContext(ctx).Omit("User", "Author").Create(sub).Error; err != nil {
		return fmt.Errorf("failed to subscribe user %d to author %d: %w", followerID, authorID, translate(err))
	}
	return nil
}

// Delete removes the edge; ErrNotFound when there was none.
func (r *GORMSubscriptionRepository) Delete(ctx context.Context, followerID, authorID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", followerID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return fmt.Errorf("failed to unsubscribe user %d from author %d: %w", followerID, authorID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d is not subscribed to author %d: %w", followerID, authorID, ErrNotFound)
	}
	return nil
}

// ListAuthors returns one page of followed authors in the order the
// subscriptions were made, plus the total number of subscriptions.
func (r *GORMSubscriptionRepository) ListAuthors(ctx context.Context, followerID uint, offset, limit int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Subscription{}).Where("user_id = ?", followerID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var authors []models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", followerID).
		Order("subscriptions.id").
		Offset(offset).
		Limit(limit).
		Find(&authors).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions of user %d: %w", followerID, err)
	}
	return authors, total, nil
}

// FollowedAmong reports which of authorIDs the follower is subscribed to.
func (r *GORMSubscriptionRepository) FollowedAmong(ctx context.Context, followerID uint, authorIDs []uint) (map[uint]bool, error) {
	followed := make(map[uint]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return followed, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", followerID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check subscriptions of user %d: %w", followerID, err)
	}
	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}
