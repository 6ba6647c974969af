package authz

import (
	"fmt"

	"storerate/internal/apperrors"
	"storerate/internal/models"
)

// Session is the authenticated identity extracted from a verified token.
// It is deliberately not re-checked against current user state: a role
// change only takes effect on the next login.
type Session struct {
	UserID string
	Name   string
	Email  string
	Role   models.Role
}

// Action enumerates every protected operation the policy knows about.
type Action int

const (
	ActionListStores Action = iota
	ActionCreateStore
	ActionViewStoreRatings
	ActionSubmitRating
	ActionDeleteRating
	ActionListUsers
	ActionViewStats
	ActionUpdatePassword
)

// Resource carries the ownership context an action may need. Zero value is
// fine for actions without an ownership rule.
type Resource struct {
	StoreOwnerID string
}

// Authorize applies the role rules for action in fixed precedence:
// authentication first, then admin-only actions, then ownership, then the
// USER-only rating mutations. Returns nil on allow, or an error wrapping
// apperrors.ErrUnauthenticated / apperrors.ErrForbidden on deny.
func Authorize(s *Session, action Action, res Resource) error {
	if s == nil || s.UserID == "" {
		return fmt.Errorf("no valid session: %w", apperrors.ErrUnauthenticated)
	}

	switch action {
	case ActionCreateStore, ActionListUsers, ActionViewStats:
		if s.Role != models.RoleAdmin {
			return fmt.Errorf("admin role required: %w", apperrors.ErrForbidden)
		}
		return nil

	case ActionViewStoreRatings:
		if s.Role == models.RoleAdmin || s.UserID == res.StoreOwnerID {
			return nil
		}
		return fmt.Errorf("not the store owner: %w", apperrors.ErrForbidden)

	case ActionSubmitRating, ActionDeleteRating:
		// Ratings are always submitted as oneself; any store is fair game.
		if s.Role != models.RoleUser {
			return fmt.Errorf("only users may rate stores: %w", apperrors.ErrForbidden)
		}
		return nil

	case ActionListStores, ActionUpdatePassword:
		// Any authenticated session.
		return nil
	}

	return fmt.Errorf("unknown action %d: %w", action, apperrors.ErrForbidden)
}
