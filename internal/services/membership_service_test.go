package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"foodgram/internal/models"
	"foodgram/internal/repositories"
	"foodgram/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memoryMemberships keeps pairs in a map and reports duplicates and absences
// the way the unique index does.
type memoryMemberships struct {
	MockMembershipRepository
	sets map[models.MembershipKind]map[[2]uint]bool
}

func newMemoryMemberships() *memoryMemberships {
	return &memoryMemberships{sets: map[models.MembershipKind]map[[2]uint]bool{
		models.KindFavorite:     {},
		models.KindShoppingCart: {},
	}}
}

func (m *memoryMemberships) Add(ctx context.Context, kind models.MembershipKind, userID, recipeID uint) error {
	key := [2]uint{userID, recipeID}
	if m.sets[kind][key] {
		return fmt.Errorf("insert: %w", repositories.ErrDuplicate)
	}
	m.sets[kind][key] = true
	return nil
}

func (m *memoryMemberships) Remove(ctx context.Context, kind models.MembershipKind, userID, recipeID uint) error {
	key := [2]uint{userID, recipeID}
	if !m.sets[kind][key] {
		return fmt.Errorf("delete: %w", repositories.ErrNotFound)
	}
	delete(m.sets[kind], key)
	return nil
}

func TestMembershipService_Transitions(t *testing.T) {
	ctx := context.Background()
	for _, kind := range []models.MembershipKind{models.KindFavorite, models.KindShoppingCart} {
		t.Run(string(kind), func(t *testing.T) {
			recipes := new(MockRecipeRepository)
			memberships := newMemoryMemberships()
			events := new(MockEventPublisher)
			service := services.NewMembershipService(recipes, memberships, events)

			recipe := &models.Recipe{ID: 10, Name: "pancakes"}
			recipes.On("GetByID", mock.Anything, uint(10)).Return(recipe, nil)
			events.On("PublishEvent", string(kind)+".added", services.MembershipEvent{UserID: 1, RecipeID: 10}).Return(nil).Twice()
			events.On("PublishEvent", string(kind)+".removed", services.MembershipEvent{UserID: 1, RecipeID: 10}).Return(nil).Once()

			got, err := service.Add(ctx, kind, 1, 10)
			require.NoError(t, err)
			assert.Equal(t, recipe, got)

			_, err = service.Add(ctx, kind, 1, 10)
			assert.ErrorIs(t, err, services.ErrDuplicateMembership)
			assert.Len(t, memberships.sets[kind], 1)

			require.NoError(t, service.Remove(ctx, kind, 1, 10))

			err = service.Remove(ctx, kind, 1, 10)
			assert.ErrorIs(t, err, services.ErrNotMember)
			assert.Empty(t, memberships.sets[kind])

			_, err = service.Add(ctx, kind, 1, 10)
			require.NoError(t, err)

			events.AssertExpectations(t)
		})
	}
}

func TestMembershipService_KindsAreIndependent(t *testing.T) {
	ctx := context.Background()
	recipes := new(MockRecipeRepository)
	memberships := newMemoryMemberships()
	service := services.NewMembershipService(recipes, memberships, nil)

	recipes.On("GetByID", mock.Anything, uint(10)).Return(&models.Recipe{ID: 10}, nil)

	_, err := service.Add(ctx, models.KindFavorite, 1, 10)
	require.NoError(t, err)
	_, err = service.Add(ctx, models.KindShoppingCart, 1, 10)
	require.NoError(t, err)
	_, err = service.Add(ctx, models.KindFavorite, 2, 10)
	require.NoError(t, err)

	assert.ErrorIs(t, service.Remove(ctx, models.KindShoppingCart, 2, 10), services.ErrNotMember)
}

func TestMembershipService_MissingRecipe(t *testing.T) {
	ctx := context.Background()
	recipes := new(MockRecipeRepository)
	memberships := new(MockMembershipRepository)
	service := services.NewMembershipService(recipes, memberships, nil)

	recipes.On("GetByID", mock.Anything, uint(404)).Return(nil, fmt.Errorf("lookup: %w", repositories.ErrNotFound))

	_, err := service.Add(ctx, models.KindFavorite, 1, 404)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, service.Remove(ctx, models.KindFavorite, 1, 404), services.ErrNotFound)

	memberships.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	memberships.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMembershipService_ReferenceGoneDuringInsert(t *testing.T) {
	ctx := context.Background()
	recipes := new(MockRecipeRepository)
	memberships := new(MockMembershipRepository)
	service := services.NewMembershipService(recipes, memberships, nil)

	recipes.On("GetByID", mock.Anything, uint(3)).Return(&models.Recipe{ID: 3}, nil)
	memberships.On("Add", mock.Anything, models.KindShoppingCart, uint(1), uint(3)).
		Return(fmt.Errorf("insert: %w", repositories.ErrNotFound))

	_, err := service.Add(ctx, models.KindShoppingCart, 1, 3)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.NotErrorIs(t, err, services.ErrDuplicateMembership)
}

func TestMembershipService_StorageFailureIsNotTranslated(t *testing.T) {
	ctx := context.Background()
	recipes := new(MockRecipeRepository)
	memberships := new(MockMembershipRepository)
	service := services.NewMembershipService(recipes, memberships, nil)

	boom := fmt.Errorf("connection reset")
	recipes.On("GetByID", mock.Anything, uint(1)).Return(&models.Recipe{ID: 1}, nil)
	memberships.On("Add", mock.Anything, models.KindFavorite, uint(1), uint(1)).Return(boom)

	_, err := service.Add(ctx, models.KindFavorite, 1, 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, services.ErrDuplicateMembership)
	var svcErr *services.Error
	assert.False(t, errors.As(err, &svcErr))
}
