package services

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/logging"
	"foodgram/internal/metrics"
	"foodgram/internal/models"
	"foodgram/internal/repositories"

	"golang.org/x/sync/errgroup"
)

// AuthorSubscription is a followed author with a preview of their recipes.
type AuthorSubscription struct {
	Author      models.User
	Recipes     []models.Recipe
	RecipeCount int64
}

// SubscriptionService maintains follower -> author edges.
type SubscriptionService struct {
	users         repositories.UserRepository
	recipes       repositories.RecipeRepository
	subscriptions repositories.SubscriptionRepository
	events        EventPublisher
	recipesLimit  int
}

// NewSubscriptionService creates a new SubscriptionService. recipesLimit is
// the recipe preview length used when a request does not ask for one.
func NewSubscriptionService(users repositories.UserRepository, recipes repositories.RecipeRepository, subscriptions repositories.SubscriptionRepository, events EventPublisher, recipesLimit int) *SubscriptionService {
	if recipesLimit < 0 {
		recipesLimit = 0
	}
	return &SubscriptionService{
		users:         users,
		recipes:       recipes,
		subscriptions: subscriptions,
		events:        events,
		recipesLimit:  recipesLimit,
	}
}

func (s *SubscriptionService) DefaultRecipesLimit() int { return s.recipesLimit }

// Subscribe makes follower follow author and returns the author's entry.
func (s *SubscriptionService) Subscribe(ctx context.Context, followerID, authorID uint, recipesLimit int) (*AuthorSubscription, error) {
	if followerID == authorID {
		metrics.SubscriptionChanges.WithLabelValues("subscribe", "self").Inc()
		return nil, newError(ErrSelfSubscription, "You cannot subscribe to yourself")
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if isNotFound(err) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("failed to load author %d: %w", authorID, err)
	}

	if err := s.subscriptions.Create(ctx, followerID, authorID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			metrics.SubscriptionChanges.WithLabelValues("subscribe", "duplicate").Inc()
			return nil, newError(ErrAlreadySubscribed, "You are already subscribed to %s", author.Username)
		}
		if isNotFound(err) {
			metrics.SubscriptionChanges.WithLabelValues("subscribe", "missing").Inc()
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	metrics.SubscriptionChanges.WithLabelValues("subscribe", "ok").Inc()
	logging.Debug().Uint("follower_id", followerID).Uint("author_id", authorID).Msg("subscribed")
	publish(s.events, EventUserSubscribed, SubscriptionEvent{FollowerID: followerID, AuthorID: authorID})

	// The edge is committed at this point; a failed preview must not turn
	// the response into an error the client would retry.
	entries, err := s.withRecipes(ctx, []models.User{*author}, recipesLimit)
	if err != nil {
		logging.Warn().Err(err).Uint("author_id", authorID).Msg("subscribed but failed to load recipe preview")
		return &AuthorSubscription{Author: *author}, nil
	}
	return &entries[0], nil
}

// Unsubscribe removes the follower -> author edge.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, followerID, authorID uint) error {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if isNotFound(err) {
			return newError(ErrNotFound, "User not found")
		}
		return fmt.Errorf("failed to load author %d: %w", authorID, err)
	}
	if err := s.subscriptions.Delete(ctx, followerID, authorID); err != nil {
		if isNotFound(err) {
			metrics.SubscriptionChanges.WithLabelValues("unsubscribe", "absent").Inc()
			return newError(ErrNotSubscribed, "You are not subscribed to this user")
		}
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	metrics.SubscriptionChanges.WithLabelValues("unsubscribe", "ok").Inc()
	logging.Debug().Uint("follower_id", followerID).Uint("author_id", authorID).Msg("unsubscribed")
	publish(s.events, EventUserUnsubscribed, SubscriptionEvent{FollowerID: followerID, AuthorID: authorID})
	return nil
}

// List returns a page of authors followed by followerID in the order they
// were followed. A negative recipesLimit selects the default.
func (s *SubscriptionService) List(ctx context.Context, followerID uint, page Page, recipesLimit int) ([]AuthorSubscription, int64, error) {
	authors, total, err := s.subscriptions.ListAuthors(ctx, followerID, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	entries, err := s.withRecipes(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// IsFollowing reports which of authorIDs the viewer follows. Anonymous
// viewers (0) follow nobody.
func (s *SubscriptionService) IsFollowing(ctx context.Context, viewerID uint, authorIDs []uint) (map[uint]bool, error) {
	if viewerID == 0 || len(authorIDs) == 0 {
		return map[uint]bool{}, nil
	}
	followed, err := s.subscriptions.FollowedAmong(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	return followed, nil
}

// withRecipes attaches the recipe count and the newest recipesLimit recipes
// of every author. Authors are loaded concurrently.
func (s *SubscriptionService) withRecipes(ctx context.Context, authors []models.User, recipesLimit int) ([]AuthorSubscription, error) {
	if recipesLimit < 0 {
		recipesLimit = s.recipesLimit
	}
	entries := make([]AuthorSubscription, len(authors))
	if len(authors) == 0 {
		return entries, nil
	}

	ids := make([]uint, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
		entries[i].Author = a
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.recipes.CountByAuthors(gctx, ids)
		if err != nil {
			return fmt.Errorf("failed to count recipes: %w", err)
		}
		for i := range entries {
			entries[i].RecipeCount = counts[entries[i].Author.ID]
		}
		return nil
	})
	if recipesLimit > 0 {
		for i := range entries {
			i := i
			g.Go(func() error {
				recipes, err := s.recipes.ListByAuthor(gctx, entries[i].Author.ID, recipesLimit)
				if err != nil {
					return fmt.Errorf("failed to list recipes of author %d: %w", entries[i].Author.ID, err)
				}
				entries[i].Recipes = recipes
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}
