package domain

import "time"

// Review описывает отзыв о товаре. ProductID не меняется после создания.
type Review struct {
	ID        string
	ProductID string
	UserID    string
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewReview(userID string, rating int, comment string) *Review {
	return &Review{
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}
}
