package service

import (
	"context"

	"github.com/storefront/storefront-service/internal/domain"
	"github.com/storefront/storefront-service/internal/dto"
	pkgdto "github.com/storefront/storefront-service/pkg/dto"
)

type ProductService interface {
	GetProducts(ctx context.Context, filter pkgdto.Filter) (resp dto.ProductListResponse, err error)
	GetProductsByCategory(ctx context.Context, filter pkgdto.Filter) (resp dto.ProductListResponse, err error)
	GetProductByID(ctx context.Context, id string) (product domain.Product, err error)
	AddProduct(ctx context.Context, ownerExternalID string, data dto.ProductRequest) (product domain.Product, err error)
	UpdateProduct(ctx context.Context, data dto.ProductRequest) (product domain.Product, err error)
	DeleteProduct(ctx context.Context, id string) (err error)
	AddProductReview(ctx context.Context, reviewerExternalID string, reviewerName string, data dto.ReviewRequest) (err error)
	GetTopProducts(ctx context.Context) (products []domain.Product, err error)
	GetBrands(ctx context.Context) (brands []string, err error)
	GetColors(ctx context.Context) (colors []string, err error)
	GetYears(ctx context.Context) (years []int, err error)
}

type UserService interface {
	Register(ctx context.Context, data dto.RegisterRequest) (resp dto.UserResponse, err error)
	Login(ctx context.Context, data dto.LoginRequest) (resp dto.LoginResponse, err error)
	GetProfile(ctx context.Context, externalID string) (resp dto.UserResponse, err error)
	UpdateProfile(ctx context.Context, data dto.UpdateProfileRequest) (resp dto.UserResponse, err error)
	GetUsers(ctx context.Context, page int) (resp dto.UserListResponse, err error)
	GetUserByID(ctx context.Context, id string) (resp dto.UserResponse, err error)
	UpdateUser(ctx context.Context, data dto.UpdateUserRequest) (resp dto.UserResponse, err error)
	DeleteUser(ctx context.Context, id string) (err error)
}
