package models

import "gorm.io/gorm"

// Rating is a single user's 1-5 star rating of a store. The composite
// unique index guarantees at most one row per (user, store) pair even under
// concurrent submissions; resubmission overwrites Value in place.
type Rating struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string `json:"userId" gorm:"type:varchar(36);uniqueIndex:idx_rating_user_store"`
	StoreID    string `json:"storeId" gorm:"type:varchar(36);uniqueIndex:idx_rating_user_store"`
	Value      int    `json:"rating" gorm:"column:rating"`
	User       User   `json:"-" gorm:"foreignKey:UserID"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
