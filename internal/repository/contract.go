package repository

import (
	"context"

	"github.com/storefront/storefront-service/internal/domain"
	"github.com/storefront/storefront-service/internal/dto"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductQuery narrows catalog reads. Keyword is a case-insensitive pattern
// match on the product name, Category an exact match. Skip/Limit of zero
// means unpaginated.
type ProductQuery struct {
	Keyword  string
	Category string
	Skip     int64
	Limit    int64
}

type MongoDBProductRepository interface {
	AddProduct(ctx context.Context, data domain.Product) (id primitive.ObjectID, err error)
	GetProducts(ctx context.Context, query ProductQuery) (data []domain.Product, err error)
	CountProducts(ctx context.Context, query ProductQuery) (count int64, err error)
	GetProductByID(ctx context.Context, id string) (product domain.Product, err error)
	UpdateProduct(ctx context.Context, data domain.Product) (err error)
	DeleteProduct(ctx context.Context, id string) (err error)
	AddProductReview(ctx context.Context, productID primitive.ObjectID, review domain.Review, numReviews int, rating float64, version int64) (err error)
	GetTopProducts(ctx context.Context, limit int64) (data []domain.Product, err error)
	GetPriceRange(ctx context.Context, query ProductQuery) (priceRange dto.PriceRange, err error)
	GetDistinctBrands(ctx context.Context) (brands []string, err error)
	GetDistinctColors(ctx context.Context) (colors []string, err error)
	GetDistinctYears(ctx context.Context) (years []int, err error)
}

type MongoDBUserRepository interface {
	AddUser(ctx context.Context, data domain.User) (id primitive.ObjectID, err error)
	GetUserByEmail(ctx context.Context, email string) (user domain.User, err error)
	GetUserByID(ctx context.Context, id string) (user domain.User, err error)
	GetUserByExternalID(ctx context.Context, externalID string) (user domain.User, err error)
	UpdateUser(ctx context.Context, data domain.User) (err error)
	DeleteUser(ctx context.Context, id string) (err error)
	GetUsers(ctx context.Context, skip int64, limit int64) (data []domain.User, err error)
	CountUsers(ctx context.Context) (count int64, err error)
}
