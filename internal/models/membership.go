package models

import "time"

// MembershipKind names one of the two per-user recipe sets.
type MembershipKind string

const (
	KindFavorite     MembershipKind = "favorite"
	KindShoppingCart MembershipKind = "shopping_cart"
)

// Favorite marks a recipe as favorited by a user. The composite unique index
// keeps at most one row per (user, recipe).
type Favorite struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe    Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// ShoppingCartEntry puts a recipe into a user's shopping cart.
type ShoppingCartEntry struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_cart_user_recipe;index"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe    Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ShoppingCartEntry) TableName() string { return "shopping_cart_entries" }

// Subscription is a directed edge from a follower (UserID) to an author.
// Self edges are rejected by the service before they reach storage.
type Subscription struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_subscription_user_author"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_subscription_user_author;index"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCartEntry{},
		&Subscription{},
	}
}
