package models

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Role is the closed set of user roles. Anything else is rejected at the
// ingress boundary.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleUser       Role = "USER"
	RoleStoreOwner Role = "STORE_OWNER"
)

// ParseRole normalizes a raw role string (case-insensitive) into a Role.
// An empty input defaults to USER.
func ParseRole(raw string) (Role, error) {
	if raw == "" {
		return RoleUser, nil
	}
	switch Role(strings.ToUpper(raw)) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	case RoleStoreOwner:
		return RoleStoreOwner, nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// User represents a registered account. Emails are stored lowercased so the
// unique index is effectively case-insensitive.
type User struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string `json:"name" gorm:"type:varchar(100)"`
	Email        string `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	PasswordHash string `json:"-" gorm:"type:varchar(255)"` // Never serialized
	Address      string `json:"address" gorm:"type:varchar(255)"`
	Role         Role   `json:"role" gorm:"type:varchar(20)"`
	gorm.Model          // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
