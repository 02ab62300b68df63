package usecase

import (
	"context"
	"errors"
	"strings"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type ratingUsecase struct {
	ratingRepo domain.RatingRepository
	notifier   domain.NotificationUsecase
	validate   *validator.Validate
}

func NewRatingUsecase(ratingRepo domain.RatingRepository, notifier domain.NotificationUsecase, validate *validator.Validate) domain.RatingUsecase {
	return &ratingUsecase{
		ratingRepo: ratingRepo,
		notifier:   notifier,
		validate:   validate,
	}
}

// Submit validates the score and ids before anything is sent to the
// database.
func (u *ratingUsecase) Submit(ctx context.Context, input domain.RatingInput) (*domain.Rating, error) {
	if input.Comment != nil {
		comment := strings.TrimSpace(*input.Comment)
		input.Comment = &comment
		if comment == "" {
			input.Comment = nil
		}
	}
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	if input.RaterID == input.RatedID {
		return nil, apperror.BadRequest("You cannot rate yourself")
	}

	rating := &domain.Rating{
		JobID:   input.JobID,
		RaterID: input.RaterID,
		RatedID: input.RatedID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := u.ratingRepo.Create(ctx, rating); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			return nil, apperror.Conflict("You have already rated this person for this job")
		case errors.Is(err, domain.ErrReference):
			return nil, apperror.BadRequest("The job or user you are rating does not exist")
		}
		return nil, failure("Failed to submit your rating", err)
	}

	u.notifier.Notify(ctx, domain.Notification{
		UserID:       rating.RatedID,
		Title:        "New rating",
		Message:      "You received a new rating",
		Type:         domain.NotificationSystem,
		RelatedJobID: &rating.JobID,
	})
	return rating, nil
}

func (u *ratingUsecase) ListForUser(ctx context.Context, ratedID string) (*domain.RatingSummary, error) {
	ratings, err := u.ratingRepo.FetchByRatedID(ctx, ratedID)
	if err != nil {
		return nil, failure("Failed to load ratings", err)
	}
	return &domain.RatingSummary{
		Average: domain.CalculateAverageRating(ratings),
		Count:   len(ratings),
		Ratings: ratings,
	}, nil
}

func (u *ratingUsecase) ListGiven(ctx context.Context, raterID string) ([]domain.Rating, error) {
	ratings, err := u.ratingRepo.FetchByRaterID(ctx, raterID)
	if err != nil {
		return nil, failure("Failed to load ratings", err)
	}
	return ratings, nil
}
