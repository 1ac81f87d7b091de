package services_test

import (
	"context"

	"foodgram/internal/models"
	"foodgram/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// MockRecipeRepository is a mock implementation of repositories.RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	if args.Error(0) == nil && recipe.ID == 0 {
		recipe.ID = 100
	}
	return args.Error(0)
}

func (m *MockRecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	return m.Called(ctx, recipe).Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Recipe, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) List(ctx context.Context, filter repositories.RecipeFilter, offset, limit int) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, filter, offset, limit)
	return args.Get(0).([]models.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	args := m.Called(ctx, authorID, limit)
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	args := m.Called(ctx, authorIDs)
	return args.Get(0).(map[uint]int64), args.Error(1)
}

// MockMembershipRepository is a mock implementation of repositories.MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Add(ctx context.Context, kind models.MembershipKind, userID, recipeID uint) error {
	return m.Called(ctx, kind, userID, recipeID).Error(0)
}

func (m *MockMembershipRepository) Remove(ctx context.Context, kind models.MembershipKind, userID, recipeID uint) error {
	return m.Called(ctx, kind, userID, recipeID).Error(0)
}

func (m *MockMembershipRepository) RecipeIDsAmong(ctx context.Context, kind models.MembershipKind, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	args := m.Called(ctx, kind, userID, recipeIDs)
	return args.Get(0).(map[uint]bool), args.Error(1)
}

func (m *MockMembershipRepository) RecipeIDs(ctx context.Context, kind models.MembershipKind, userID uint) ([]uint, error) {
	args := m.Called(ctx, kind, userID)
	return args.Get(0).([]uint), args.Error(1)
}

// MockSubscriptionRepository is a mock implementation of repositories.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, followerID, authorID uint) error {
	return m.Called(ctx, followerID, authorID).Error(0)
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, followerID, authorID uint) error {
	return m.Called(ctx, followerID, authorID).Error(0)
}

func (m *MockSubscriptionRepository) ListAuthors(ctx context.Context, followerID uint, offset, limit int) ([]models.User, int64, error) {
	args := m.Called(ctx, followerID, offset, limit)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubscriptionRepository) FollowedAmong(ctx context.Context, followerID uint, authorIDs []uint) (map[uint]bool, error) {
	args := m.Called(ctx, followerID, authorIDs)
	return args.Get(0).(map[uint]bool), args.Error(1)
}

// MockCatalogRepository is a mock implementation of repositories.CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListTags(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockCatalogRepository) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockCatalogRepository) TagsByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockCatalogRepository) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockCatalogRepository) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ingredient), args.Error(1)
}

func (m *MockCatalogRepository) IngredientsByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockCatalogRepository) UpsertIngredients(ctx context.Context, ingredients []models.Ingredient) (int64, error) {
	args := m.Called(ctx, ingredients)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogRepository) UpsertTags(ctx context.Context, tags []models.Tag) (int64, error) {
	args := m.Called(ctx, tags)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishEvent(routingKey string, payload interface{}) error {
	return m.Called(routingKey, payload).Error(0)
}

// MockImageStore is a mock implementation of storage.ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}
