package services

import (
	"errors"
	"fmt"

	"storerate/internal/apperrors"
	"storerate/internal/models"
	"storerate/internal/repositories"

	"github.com/rs/zerolog/log"
)

// EventPublisher abstracts the message broker so the service can run
// without one (nil) and tests can stub it.
type EventPublisher interface {
	PublishRatingEvent(event map[string]interface{}) error
}

// RatingService owns the rating lifecycle: submit/overwrite, delete, and
// the read views built on top of the ledger. The store-average invariant
// itself lives in the repository's transactions; this layer adds input
// validation, view assembly and event publication.
type RatingService struct {
	ratingRepo repositories.RatingRepository
	storeRepo  repositories.StoreRepository
	publisher  EventPublisher
}

// NewRatingService creates a new RatingService. publisher may be nil.
func NewRatingService(ratingRepo repositories.RatingRepository, storeRepo repositories.StoreRepository, publisher EventPublisher) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		storeRepo:  storeRepo,
		publisher:  publisher,
	}
}

// RatingEntry is one user's rating as shown in the owner/admin view.
type RatingEntry struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	Rating    int    `json:"rating"`
}

// StoreRatingsView is the owner/admin ratings dashboard payload.
type StoreRatingsView struct {
	Store     string        `json:"store"`
	Ratings   []RatingEntry `json:"ratings"`
	AvgRating *float64      `json:"avgRating"`
}

// StoreWithRatings is one row of the authenticated store listing: the
// store, its stored average, everyone's ratings and the caller's own
// rating (nil when the caller has not rated it).
type StoreWithRatings struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Address        string        `json:"address"`
	OwnerID        string        `json:"ownerId"`
	OverallRating  *float64      `json:"overallRating"`
	PersonalRating *int          `json:"personalRating"`
	Ratings        []RatingEntry `json:"ratings"`
}

// SubmitOrUpdateRating records value as userID's rating of storeID,
// overwriting any previous one. The bool result reports created (true) vs
// updated (false). A missing store is the caller's mistake, so it maps to
// ErrInvalidInput rather than ErrNotFound.
func (s *RatingService) SubmitOrUpdateRating(userID, storeID string, value int) (*models.Rating, bool, error) {
	if value < 1 || value > 5 {
		return nil, false, fmt.Errorf("rating must be between 1 and 5: %w", apperrors.ErrInvalidInput)
	}
	if storeID == "" {
		return nil, false, fmt.Errorf("storeId is required: %w", apperrors.ErrInvalidInput)
	}

	rating, created, err := s.ratingRepo.SubmitOrUpdate(userID, storeID, value)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, fmt.Errorf("store %s does not exist: %w", storeID, apperrors.ErrInvalidInput)
		}
		return nil, false, err
	}

	event := "rating.updated"
	if created {
		event = "rating.submitted"
	}
	s.publish(map[string]interface{}{
		"event":   event,
		"userId":  userID,
		"storeId": storeID,
		"rating":  value,
	})
	return rating, created, nil
}

// DeleteRating removes userID's rating of storeID. Fails with ErrNotFound
// when no such rating exists; the store's average is untouched in that
// case.
func (s *RatingService) DeleteRating(userID, storeID string) error {
	if err := s.ratingRepo.Delete(userID, storeID); err != nil {
		return err
	}
	s.publish(map[string]interface{}{
		"event":   "rating.deleted",
		"userId":  userID,
		"storeId": storeID,
	})
	return nil
}

// ListRatingsForStore assembles the owner/admin view: every rating with its
// user, plus the store's denormalized average.
func (s *RatingService) ListRatingsForStore(storeID string) (*StoreRatingsView, error) {
	store, err := s.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}

	ratings, err := s.ratingRepo.ListForStore(storeID)
	if err != nil {
		return nil, err
	}

	entries := make([]RatingEntry, 0, len(ratings))
	for _, r := range ratings {
		entries = append(entries, RatingEntry{
			UserID:    r.UserID,
			UserName:  r.User.Name,
			UserEmail: r.User.Email,
			Rating:    r.Value,
		})
	}

	return &StoreRatingsView{
		Store:     store.Name,
		Ratings:   entries,
		AvgRating: store.AverageRating,
	}, nil
}

// ListStoresWithPersonalRating returns every store matching the filter,
// each carrying its stored average and at most one personal rating
// belonging to userID.
func (s *RatingService) ListStoresWithPersonalRating(userID string, filter repositories.StoreFilter) ([]StoreWithRatings, error) {
	stores, err := s.storeRepo.FindWithRatings(filter)
	if err != nil {
		return nil, err
	}

	result := make([]StoreWithRatings, 0, len(stores))
	for _, store := range stores {
		row := StoreWithRatings{
			ID:            store.ID,
			Name:          store.Name,
			Email:         store.Email,
			Address:       store.Address,
			OwnerID:       store.OwnerID,
			OverallRating: store.AverageRating,
			Ratings:       make([]RatingEntry, 0, len(store.Ratings)),
		}
		for _, r := range store.Ratings {
			row.Ratings = append(row.Ratings, RatingEntry{
				UserID:    r.UserID,
				UserName:  r.User.Name,
				UserEmail: r.User.Email,
				Rating:    r.Value,
			})
			if r.UserID == userID {
				value := r.Value
				row.PersonalRating = &value
			}
		}
		result = append(result, row)
	}
	return result, nil
}

// publish sends a rating lifecycle event, best-effort. The mutation has
// already committed; a broker failure is logged, not surfaced.
func (s *RatingService) publish(event map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRatingEvent(event); err != nil {
		log.Warn().Err(err).Interface("event", event).Msg("failed to publish rating event")
	}
}
