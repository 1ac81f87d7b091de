package services_test

import (
	"context"
	"fmt"
	"testing"

	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type subscriptionFixture struct {
	users   *MockUserRepository
	recipes *MockRecipeRepository
	subs    *MockSubscriptionRepository
	service *services.SubscriptionService
}

func newSubscriptionFixture() *subscriptionFixture {
	f := &subscriptionFixture{
		users:   new(MockUserRepository),
		recipes: new(MockRecipeRepository),
		subs:    new(MockSubscriptionRepository),
	}
	f.service = services.NewSubscriptionService(f.users, f.recipes, f.subs, nil, 3)
	return f
}

func TestSubscriptionService_SelfSubscriptionAlwaysRejected(t *testing.T) {
	f := newSubscriptionFixture()
	for _, id := range []uint{1, 2, 42, 1 << 20} {
		_, err := f.service.Subscribe(context.Background(), id, id, -1)
		assert.ErrorIs(t, err, services.ErrSelfSubscription)
	}
	f.subs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubscriptionService_SubscribeAndUnsubscribe(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture()
	author := &models.User{ID: 2, Username: "chef"}
	recipes := []models.Recipe{{ID: 9, AuthorID: 2}, {ID: 8, AuthorID: 2}}

	f.users.On("GetByID", mock.Anything, uint(2)).Return(author, nil)
	f.subs.On("Create", mock.Anything, uint(1), uint(2)).Return(nil).Once()
	f.recipes.On("CountByAuthors", mock.Anything, []uint{2}).Return(map[uint]int64{2: 5}, nil)
	f.recipes.On("ListByAuthor", mock.Anything, uint(2), 2).Return(recipes, nil)

	entry, err := f.service.Subscribe(ctx, 1, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, "chef", entry.Author.Username)
	assert.EqualValues(t, 5, entry.RecipeCount)
	assert.Equal(t, recipes, entry.Recipes)

	f.subs.On("Create", mock.Anything, uint(1), uint(2)).Return(fmt.Errorf("insert: %w", repositories.ErrDuplicate)).Once()
	_, err = f.service.Subscribe(ctx, 1, 2, 2)
	assert.ErrorIs(t, err, services.ErrAlreadySubscribed)

	f.subs.On("Delete", mock.Anything, uint(1), uint(2)).Return(nil).Once()
	require.NoError(t, f.service.Unsubscribe(ctx, 1, 2))

	f.subs.On("Delete", mock.Anything, uint(1), uint(2)).Return(fmt.Errorf("delete: %w", repositories.ErrNotFound)).Once()
	assert.ErrorIs(t, f.service.Unsubscribe(ctx, 1, 2), services.ErrNotSubscribed)

	f.subs.AssertExpectations(t)
}

func TestSubscriptionService_UnknownAuthor(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture()
	f.users.On("GetByID", mock.Anything, uint(77)).Return(nil, repositories.ErrNotFound)

	_, err := f.service.Subscribe(ctx, 1, 77, -1)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, f.service.Unsubscribe(ctx, 1, 77), services.ErrNotFound)
}

func TestSubscriptionService_AuthorGoneDuringInsert(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture()
	f.users.On("GetByID", mock.Anything, uint(5)).Return(&models.User{ID: 5, Username: "gone"}, nil)
	f.subs.On("Create", mock.Anything, uint(1), uint(5)).Return(fmt.Errorf("insert: %w", repositories.ErrNotFound))

	_, err := f.service.Subscribe(ctx, 1, 5, -1)
	assert.ErrorIs(t, err, services.ErrNotFound)
	f.recipes.AssertNotCalled(t, "CountByAuthors", mock.Anything, mock.Anything)
}

func TestSubscriptionService_SubscribeSurvivesPreviewFailure(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture()
	author := &models.User{ID: 2, Username: "chef"}

	f.users.On("GetByID", mock.Anything, uint(2)).Return(author, nil)
	f.subs.On("Create", mock.Anything, uint(1), uint(2)).Return(nil).Once()
	f.recipes.On("CountByAuthors", mock.Anything, []uint{2}).Return(map[uint]int64(nil), assert.AnError)
	f.recipes.On("ListByAuthor", mock.Anything, uint(2), 3).Return([]models.Recipe(nil), assert.AnError)

	entry, err := f.service.Subscribe(ctx, 1, 2, -1)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "chef", entry.Author.Username)
	assert.Empty(t, entry.Recipes)
	assert.Zero(t, entry.RecipeCount)
	f.subs.AssertExpectations(t)
}

func TestSubscriptionService_ListKeepsEdgeOrder(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture()
	authors := []models.User{{ID: 5, Username: "late"}, {ID: 3, Username: "early"}}

	f.subs.On("ListAuthors", mock.Anything, uint(1), 0, 6).Return(authors, int64(2), nil)
	f.recipes.On("CountByAuthors", mock.Anything, []uint{5, 3}).Return(map[uint]int64{5: 1}, nil)
	f.recipes.On("ListByAuthor", mock.Anything, uint(5), 3).Return([]models.Recipe{{ID: 50}}, nil)
	f.recipes.On("ListByAuthor", mock.Anything, uint(3), 3).Return([]models.Recipe{}, nil)

	entries, total, err := f.service.List(ctx, 1, services.NewPage(1, 6, 6, 100), -1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(5), entries[0].Author.ID)
	assert.EqualValues(t, 1, entries[0].RecipeCount)
	assert.Len(t, entries[0].Recipes, 1)
	assert.Equal(t, uint(3), entries[1].Author.ID)
	assert.Zero(t, entries[1].RecipeCount)
}

func TestSubscriptionService_ListZeroRecipesLimit(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture()

	f.subs.On("ListAuthors", mock.Anything, uint(1), 0, 6).Return([]models.User{{ID: 5}}, int64(1), nil)
	f.recipes.On("CountByAuthors", mock.Anything, []uint{5}).Return(map[uint]int64{5: 4}, nil)

	entries, _, err := f.service.List(ctx, 1, services.NewPage(1, 6, 6, 100), 0)
	require.NoError(t, err)
	assert.Empty(t, entries[0].Recipes)
	f.recipes.AssertNotCalled(t, "ListByAuthor", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubscriptionService_IsFollowing(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture()

	following, err := f.service.IsFollowing(ctx, 0, []uint{1, 2})
	require.NoError(t, err)
	assert.Empty(t, following)

	f.subs.On("FollowedAmong", mock.Anything, uint(1), []uint{2, 3}).Return(map[uint]bool{3: true}, nil)
	following, err = f.service.IsFollowing(ctx, 1, []uint{2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{3: true}, following)
}
