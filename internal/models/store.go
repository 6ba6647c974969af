package models

import "gorm.io/gorm"

// Store represents a rateable store. AverageRating is denormalized from the
// ratings table: it is nil while the store has no ratings and is rewritten
// inside the same transaction as every rating mutation. No code outside the
// rating repository may write it.
type Store struct {
	ID            string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string   `json:"name" gorm:"type:varchar(100)"`
	Email         string   `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Address       string   `json:"address" gorm:"type:varchar(255)"`
	OwnerID       string   `json:"ownerId" gorm:"type:varchar(36);index"`
	AverageRating *float64 `json:"averageRating" gorm:"column:average_rating"`
	Ratings       []Rating `json:"-" gorm:"foreignKey:StoreID"`
	gorm.Model             // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
