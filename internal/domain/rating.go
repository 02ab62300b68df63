package domain

import (
	"context"
	"math"
	"time"
)

type Rating struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId"`
	RaterID   string    `json:"raterId"`
	RatedID   string    `json:"ratedId"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	RaterName *string `json:"raterName,omitempty"`
	JobTitle  *string `json:"jobTitle,omitempty"`
}

type RatingInput struct {
	JobID   string  `json:"jobId" validate:"required"`
	RaterID string  `json:"-" validate:"required"`
	RatedID string  `json:"ratedId" validate:"required"`
	Rating  int     `json:"rating" validate:"min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

// RatingSummary is what the ratings page shows for one user.
type RatingSummary struct {
	Average float64  `json:"average"`
	Count   int      `json:"count"`
	Ratings []Rating `json:"ratings"`
}

type RatingRepository interface {
	Create(ctx context.Context, rating *Rating) error
	FetchByRatedID(ctx context.Context, ratedID string) ([]Rating, error)
	FetchByRaterID(ctx context.Context, raterID string) ([]Rating, error)
}

type RatingUsecase interface {
	Submit(ctx context.Context, input RatingInput) (*Rating, error)
	ListForUser(ctx context.Context, ratedID string) (*RatingSummary, error)
	ListGiven(ctx context.Context, raterID string) ([]Rating, error)
}

// CalculateAverageRating returns the mean score rounded to one decimal, or 0
// when there are no ratings.
func CalculateAverageRating(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(ratings))
	return math.Round(avg*10) / 10
}
