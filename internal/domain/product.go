package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	Name         string             `bson:"name" json:"name"`
	Price        float64            `bson:"price" json:"price"`
	Description  string             `bson:"description" json:"description"`
	Image        string             `bson:"image" json:"image"`
	Brand        string             `bson:"brand" json:"brand"`
	Category     string             `bson:"category" json:"category"`
	CountInStock int                `bson:"count_in_stock" json:"countInStock"`
	Colors       []string           `bson:"colors" json:"colors"`
	// Char is carried opaquely; nothing in the service interprets it.
	Char       string   `bson:"char" json:"char"`
	Year       int      `bson:"year,omitempty" json:"year,omitempty"`
	NumReviews int      `bson:"num_reviews" json:"numReviews"`
	Rating     float64  `bson:"rating" json:"rating"`
	Reviews    []Review `bson:"reviews" json:"reviews"`
	// Version guards the review append's read-modify-write cycle.
	Version   int64 `bson:"version" json:"-"`
	CreatedAt int64 `bson:"created_at" json:"created_at"`
	UpdatedAt int64 `bson:"updated_at" json:"updated_at"`
}

type Review struct {
	UserID    string `bson:"user_id" json:"user_id"`
	Name      string `bson:"name" json:"name"`
	Rating    int    `bson:"rating" json:"rating"`
	Comment   string `bson:"comment" json:"comment"`
	CreatedAt int64  `bson:"created_at" json:"created_at"`
}

// HasReviewBy reports whether the given user already reviewed this product.
func (p Product) HasReviewBy(externalID string) bool {
	for _, review := range p.Reviews {
		if review.UserID == externalID {
			return true
		}
	}
	return false
}

// ReviewAggregates returns the review count and mean rating after appending
// one more review with the given rating.
func (p Product) ReviewAggregates(newRating int) (numReviews int, rating float64) {
	numReviews = len(p.Reviews) + 1

	sum := float64(newRating)
	for _, review := range p.Reviews {
		sum += float64(review.Rating)
	}

	return numReviews, sum / float64(numReviews)
}
