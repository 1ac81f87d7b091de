package models

import "time"

// User is an account that authors recipes and keeps favorites, a shopping cart
// and subscriptions to other authors.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(254);not null"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(150);not null"`
	FirstName string    `json:"first_name" gorm:"type:varchar(150)"`
	LastName  string    `json:"last_name" gorm:"type:varchar(150)"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
