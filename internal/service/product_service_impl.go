package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/storefront/storefront-service/config"
	"github.com/storefront/storefront-service/internal/domain"
	"github.com/storefront/storefront-service/internal/dto"
	"github.com/storefront/storefront-service/internal/event"
	"github.com/storefront/storefront-service/internal/repository"
	pkgdto "github.com/storefront/storefront-service/pkg/dto"
	"github.com/storefront/storefront-service/pkg/errs"
	"github.com/storefront/storefront-service/pkg/storage"
)

const topProductsLimit = 3

type ProductServiceImpl struct {
	mongoDBRepo   repository.MongoDBProductRepository
	config        config.Config
	eventProducer event.Producer
	uploads       *storage.LocalDisk
}

func CreateProductService(mongoDBRepo repository.MongoDBProductRepository, config config.Config, eventProducer event.Producer, uploads *storage.LocalDisk) ProductService {
	return &ProductServiceImpl{mongoDBRepo: mongoDBRepo, config: config, eventProducer: eventProducer, uploads: uploads}
}

func (s *ProductServiceImpl) listProducts(ctx context.Context, filter pkgdto.Filter) (resp dto.ProductListResponse, query repository.ProductQuery, count int64, err error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}

	pageSize := int64(s.config.PageSize)
	query = repository.ProductQuery{
		Keyword:  filter.Keyword,
		Category: filter.Category,
		Skip:     pageSize * int64(page-1),
		Limit:    pageSize,
	}

	count, err = s.mongoDBRepo.CountProducts(ctx, query)
	if err != nil {
		return
	}

	products, err := s.mongoDBRepo.GetProducts(ctx, query)
	if err != nil {
		return
	}

	if products == nil {
		products = []domain.Product{}
	}

	resp.Products = products
	resp.Page = page
	resp.Pages = int((count + pageSize - 1) / pageSize)
	return
}

func (s *ProductServiceImpl) GetProducts(ctx context.Context, filter pkgdto.Filter) (resp dto.ProductListResponse, err error) {
	filter.Category = ""
	resp, _, _, err = s.listProducts(ctx, filter)
	return
}

func (s *ProductServiceImpl) GetProductsByCategory(ctx context.Context, filter pkgdto.Filter) (resp dto.ProductListResponse, err error) {
	resp, query, count, err := s.listProducts(ctx, filter)
	if err != nil {
		return
	}

	if count == 0 {
		return resp, nil
	}

	priceRange, err := s.mongoDBRepo.GetPriceRange(ctx, query)
	if err != nil {
		return
	}

	resp.MinPrice = priceRange.MinPrice
	resp.MaxPrice = priceRange.MaxPrice
	return
}

func (s *ProductServiceImpl) GetProductByID(ctx context.Context, id string) (product domain.Product, err error) {
	return s.mongoDBRepo.GetProductByID(ctx, id)
}

func (s *ProductServiceImpl) AddProduct(ctx context.Context, ownerExternalID string, data dto.ProductRequest) (product domain.Product, err error) {
	timestamp := time.Now().UnixMilli()
	product = domain.Product{
		UserID:       ownerExternalID,
		Name:         data.Name,
		Price:        data.Price,
		Description:  data.Description,
		Image:        data.Image,
		Brand:        data.Brand,
		Category:     data.Category,
		CountInStock: data.CountInStock,
		Colors:       data.Colors,
		Char:         data.Char,
		Year:         data.Year,
		NumReviews:   0,
		Rating:       0,
		Reviews:      []domain.Review{},
		CreatedAt:    timestamp,
		UpdatedAt:    timestamp,
	}

	productID, err := s.mongoDBRepo.AddProduct(ctx, product)
	if err != nil {
		return
	}

	product.ID = productID

	err = s.eventProducer.Publish(ctx, dto.EventAddProduct, product)
	if err != nil {
		return
	}

	return product, nil
}

func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, data dto.ProductRequest) (product domain.Product, err error) {
	existing, err := s.mongoDBRepo.GetProductByID(ctx, data.ID)
	if err != nil {
		return
	}

	updatedData := domain.Product{
		ID:           existing.ID,
		Name:         data.Name,
		Price:        data.Price,
		Description:  data.Description,
		Image:        data.Image,
		Brand:        data.Brand,
		Category:     data.Category,
		CountInStock: data.CountInStock,
		Colors:       data.Colors,
		Char:         data.Char,
		Year:         data.Year,
	}

	err = s.mongoDBRepo.UpdateProduct(ctx, updatedData)
	if err != nil {
		return
	}

	product, err = s.mongoDBRepo.GetProductByID(ctx, data.ID)
	if err != nil {
		return
	}

	err = s.eventProducer.Publish(ctx, dto.EventUpdateProduct, product)
	if err != nil {
		return
	}

	return product, nil
}

// DeleteProduct removes the uploaded image before the record, best effort:
// a failed file delete is logged and the record delete proceeds, and a
// missing file is ignored outright. External image URLs are never touched.
func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id string) (err error) {
	product, err := s.mongoDBRepo.GetProductByID(ctx, id)
	if err != nil {
		return
	}

	if storage.IsUploadPath(product.Image) {
		if err := s.uploads.Delete(product.Image); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("component", "DeleteProduct").Msg("failed to delete product image")
		}
	}

	err = s.mongoDBRepo.DeleteProduct(ctx, id)
	if err != nil {
		return
	}

	err = s.eventProducer.Publish(ctx, dto.EventDeleteProduct, dto.ProductRequest{ID: id})
	if err != nil {
		return
	}

	return
}

// AddProductReview appends the review and recomputes num_reviews and rating
// in one version-guarded write. When another review lands between the read
// and the write the version no longer matches; re-read and recompute so the
// aggregates never lose an update.
func (s *ProductServiceImpl) AddProductReview(ctx context.Context, reviewerExternalID string, reviewerName string, data dto.ReviewRequest) (err error) {
	maxAttempts := 3
	for i := 0; i < maxAttempts; i++ {
		var product domain.Product
		product, err = s.mongoDBRepo.GetProductByID(ctx, data.ProductID)
		if err != nil {
			return
		}

		if product.HasReviewBy(reviewerExternalID) {
			return errs.ErrDuplicateReview
		}

		review := domain.Review{
			UserID:    reviewerExternalID,
			Name:      reviewerName,
			Rating:    data.Rating,
			Comment:   data.Comment,
			CreatedAt: time.Now().UnixMilli(),
		}

		numReviews, rating := product.ReviewAggregates(data.Rating)

		err = s.mongoDBRepo.AddProductReview(ctx, product.ID, review, numReviews, rating, product.Version)
		if err == errs.ErrConflict {
			log.Ctx(ctx).Warn().Str("component", "AddProductReview").Str("product_id", data.ProductID).Msg("concurrent review detected, retrying")
			continue
		}
		if err != nil {
			return
		}

		return s.eventProducer.Publish(ctx, dto.EventAddProductReview, review)
	}

	return errs.ErrConflict
}

func (s *ProductServiceImpl) GetTopProducts(ctx context.Context) (products []domain.Product, err error) {
	products, err = s.mongoDBRepo.GetTopProducts(ctx, topProductsLimit)
	if err != nil {
		return
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}

func (s *ProductServiceImpl) GetBrands(ctx context.Context) (brands []string, err error) {
	brands, err = s.mongoDBRepo.GetDistinctBrands(ctx)
	if err != nil {
		return
	}

	sort.Strings(brands)
	return brands, nil
}

// GetColors returns distinct colors in store order; no sort is applied.
func (s *ProductServiceImpl) GetColors(ctx context.Context) (colors []string, err error) {
	return s.mongoDBRepo.GetDistinctColors(ctx)
}

func (s *ProductServiceImpl) GetYears(ctx context.Context) (years []int, err error) {
	return s.mongoDBRepo.GetDistinctYears(ctx)
}
