package service

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/storefront/storefront-service/config"
	"github.com/storefront/storefront-service/internal/domain"
	"github.com/storefront/storefront-service/internal/dto"
	"github.com/storefront/storefront-service/internal/repository"
	pkgdto "github.com/storefront/storefront-service/pkg/dto"
	"github.com/storefront/storefront-service/pkg/errs"
	"github.com/storefront/storefront-service/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memProductRepo struct {
	products map[string]domain.Product
	order    []string
	// conflicts makes the next N review writes fail with ErrConflict.
	conflicts int
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[string]domain.Product{}}
}

func (r *memProductRepo) add(p domain.Product) domain.Product {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.products[p.ID.Hex()] = p
	r.order = append(r.order, p.ID.Hex())
	return p
}

func (r *memProductRepo) matches(p domain.Product, query repository.ProductQuery) bool {
	if query.Keyword != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(query.Keyword)) {
		return false
	}
	if query.Category != "" && p.Category != query.Category {
		return false
	}
	return true
}

func (r *memProductRepo) matching(query repository.ProductQuery) []domain.Product {
	var out []domain.Product
	for _, id := range r.order {
		if p, ok := r.products[id]; ok && r.matches(p, query) {
			out = append(out, p)
		}
	}
	return out
}

func (r *memProductRepo) AddProduct(_ context.Context, data domain.Product) (primitive.ObjectID, error) {
	return r.add(data).ID, nil
}

func (r *memProductRepo) GetProducts(_ context.Context, query repository.ProductQuery) ([]domain.Product, error) {
	matched := r.matching(query)
	if query.Limit == 0 {
		return matched, nil
	}

	if query.Skip >= int64(len(matched)) {
		return nil, nil
	}
	matched = matched[query.Skip:]
	if int64(len(matched)) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

func (r *memProductRepo) CountProducts(_ context.Context, query repository.ProductQuery) (int64, error) {
	return int64(len(r.matching(query))), nil
}

func (r *memProductRepo) GetProductByID(_ context.Context, id string) (domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, errs.ErrProductNotFound
	}
	return p, nil
}

func (r *memProductRepo) UpdateProduct(_ context.Context, data domain.Product) error {
	p, ok := r.products[data.ID.Hex()]
	if !ok {
		return errs.ErrProductNotFound
	}

	p.Name = data.Name
	p.Price = data.Price
	p.Description = data.Description
	p.Image = data.Image
	p.Brand = data.Brand
	p.Category = data.Category
	p.CountInStock = data.CountInStock
	p.Colors = data.Colors
	p.Char = data.Char
	p.Year = data.Year
	p.Version++
	r.products[data.ID.Hex()] = p
	return nil
}

func (r *memProductRepo) DeleteProduct(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return errs.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) AddProductReview(_ context.Context, productID primitive.ObjectID, review domain.Review, numReviews int, rating float64, version int64) error {
	if r.conflicts > 0 {
		r.conflicts--
		return errs.ErrConflict
	}

	p, ok := r.products[productID.Hex()]
	if !ok || p.Version != version {
		return errs.ErrConflict
	}

	p.Reviews = append(p.Reviews, review)
	p.NumReviews = numReviews
	p.Rating = rating
	p.Version++
	r.products[productID.Hex()] = p
	return nil
}

func (r *memProductRepo) GetTopProducts(_ context.Context, limit int64) ([]domain.Product, error) {
	all := r.matching(repository.ProductQuery{})
	sort.SliceStable(all, func(i, j int) bool { return all[i].Rating > all[j].Rating })
	if int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memProductRepo) GetPriceRange(_ context.Context, query repository.ProductQuery) (dto.PriceRange, error) {
	matched := r.matching(query)
	if len(matched) == 0 {
		return dto.PriceRange{}, nil
	}

	min, max := matched[0].Price, matched[0].Price
	for _, p := range matched[1:] {
		if p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
	}
	return dto.PriceRange{MinPrice: &min, MaxPrice: &max}, nil
}

func (r *memProductRepo) GetDistinctBrands(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, id := range r.order {
		if p, ok := r.products[id]; ok && !seen[p.Brand] {
			seen[p.Brand] = true
			out = append(out, p.Brand)
		}
	}
	return out, nil
}

func (r *memProductRepo) GetDistinctColors(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, id := range r.order {
		p, ok := r.products[id]
		if !ok {
			continue
		}
		for _, color := range p.Colors {
			if !seen[color] {
				seen[color] = true
				out = append(out, color)
			}
		}
	}
	return out, nil
}

func (r *memProductRepo) GetDistinctYears(_ context.Context) ([]int, error) {
	seen := map[int]bool{}
	var out []int
	for _, id := range r.order {
		if p, ok := r.products[id]; ok && p.Year != 0 && !seen[p.Year] {
			seen[p.Year] = true
			out = append(out, p.Year)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ interface{}) error {
	p.events = append(p.events, eventType)
	return nil
}

func testConfig() config.Config {
	return config.Config{PageSize: 10}
}

func newTestProductService(t *testing.T, repo repository.MongoDBProductRepository) (ProductService, *recordingPublisher, string) {
	t.Helper()
	publisher := &recordingPublisher{}
	uploadsDir := t.TempDir()
	svc := CreateProductService(repo, testConfig(), publisher, storage.NewLocalDisk(uploadsDir))
	return svc, publisher, uploadsDir
}

func TestGetProductsPagination(t *testing.T) {
	repo := newMemProductRepo()
	for i := 0; i < 25; i++ {
		repo.add(domain.Product{Name: "Widget", Category: "tools"})
	}

	svc, _, _ := newTestProductService(t, repo)

	testCases := []struct {
		name      string
		page      int
		wantCount int
		wantPage  int
		wantPages int
	}{
		{name: "first page", page: 1, wantCount: 10, wantPage: 1, wantPages: 3},
		{name: "middle page", page: 2, wantCount: 10, wantPage: 2, wantPages: 3},
		{name: "last page is partial", page: 3, wantCount: 5, wantPage: 3, wantPages: 3},
		{name: "zero page defaults to first", page: 0, wantCount: 10, wantPage: 1, wantPages: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := svc.GetProducts(context.Background(), pkgdto.Filter{Page: tc.page})
			require.NoError(t, err)
			assert.Len(t, resp.Products, tc.wantCount)
			assert.Equal(t, tc.wantPage, resp.Page)
			assert.Equal(t, tc.wantPages, resp.Pages)
		})
	}
}

func TestGetProductsPagesCoverEveryRecordOnce(t *testing.T) {
	repo := newMemProductRepo()
	for i := 0; i < 23; i++ {
		repo.add(domain.Product{Name: "Widget"})
	}

	svc, _, _ := newTestProductService(t, repo)

	seen := map[string]int{}
	resp, err := svc.GetProducts(context.Background(), pkgdto.Filter{Page: 1})
	require.NoError(t, err)

	for page := 1; page <= resp.Pages; page++ {
		resp, err := svc.GetProducts(context.Background(), pkgdto.Filter{Page: page})
		require.NoError(t, err)
		for _, p := range resp.Products {
			seen[p.ID.Hex()]++
		}
	}

	assert.Len(t, seen, 23)
	for id, n := range seen {
		assert.Equalf(t, 1, n, "product %s appeared %d times", id, n)
	}
}

func TestGetProductsKeywordFilter(t *testing.T) {
	repo := newMemProductRepo()
	repo.add(domain.Product{Name: "AirPods Wireless"})
	repo.add(domain.Product{Name: "Amazon Echo Dot"})

	svc, _, _ := newTestProductService(t, repo)

	resp, err := svc.GetProducts(context.Background(), pkgdto.Filter{Page: 1, Keyword: "airpods"})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "AirPods Wireless", resp.Products[0].Name)
}

func TestGetProductsByCategory(t *testing.T) {
	repo := newMemProductRepo()
	repo.add(domain.Product{Name: "Cheap", Category: "electronics", Price: 9.99})
	repo.add(domain.Product{Name: "Pricey", Category: "electronics", Price: 199.99})
	repo.add(domain.Product{Name: "Other", Category: "garden", Price: 49.99})

	svc, _, _ := newTestProductService(t, repo)

	resp, err := svc.GetProductsByCategory(context.Background(), pkgdto.Filter{Page: 1, Category: "electronics"})
	require.NoError(t, err)
	assert.Len(t, resp.Products, 2)
	require.NotNil(t, resp.MinPrice)
	require.NotNil(t, resp.MaxPrice)
	assert.InDelta(t, 9.99, *resp.MinPrice, 1e-9)
	assert.InDelta(t, 199.99, *resp.MaxPrice, 1e-9)
}

func TestGetProductsByCategoryEmpty(t *testing.T) {
	repo := newMemProductRepo()
	repo.add(domain.Product{Name: "Other", Category: "garden"})

	svc, _, _ := newTestProductService(t, repo)

	resp, err := svc.GetProductsByCategory(context.Background(), pkgdto.Filter{Page: 1, Category: "electronics"})
	require.NoError(t, err)
	assert.Empty(t, resp.Products)
	assert.NotNil(t, resp.Products)
	assert.Nil(t, resp.MinPrice)
	assert.Nil(t, resp.MaxPrice)
}

func TestAddProduct(t *testing.T) {
	repo := newMemProductRepo()
	svc, publisher, _ := newTestProductService(t, repo)

	product, err := svc.AddProduct(context.Background(), "owner-1", dto.ProductRequest{
		Name:         "Widget",
		Price:        9.99,
		CountInStock: 5,
		Colors:       []string{"red", "blue"},
	})
	require.NoError(t, err)

	assert.False(t, product.ID.IsZero())
	assert.Equal(t, "owner-1", product.UserID)
	assert.Equal(t, 0, product.NumReviews)
	assert.Zero(t, product.Rating)
	assert.Empty(t, product.Reviews)
	assert.Equal(t, []string{dto.EventAddProduct}, publisher.events)

	stored, err := svc.GetProductByID(context.Background(), product.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Widget", stored.Name)
	assert.Equal(t, []string{"red", "blue"}, stored.Colors)
}

func TestUpdateProductReplacesAllFields(t *testing.T) {
	repo := newMemProductRepo()
	existing := repo.add(domain.Product{Name: "Old", Brand: "Acme", Price: 10, Year: 2020})

	svc, publisher, _ := newTestProductService(t, repo)

	updated, err := svc.UpdateProduct(context.Background(), dto.ProductRequest{
		ID:    existing.ID.Hex(),
		Name:  "New",
		Price: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, "New", updated.Name)
	assert.InDelta(t, 20, updated.Price, 1e-9)
	// Full replacement: omitted fields are wiped, not merged.
	assert.Empty(t, updated.Brand)
	assert.Zero(t, updated.Year)
	assert.Equal(t, []string{dto.EventUpdateProduct}, publisher.events)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _, _ := newTestProductService(t, newMemProductRepo())

	_, err := svc.UpdateProduct(context.Background(), dto.ProductRequest{ID: primitive.NewObjectID().Hex(), Name: "New"})
	assert.ErrorIs(t, err, errs.ErrProductNotFound)
}

func TestDeleteProductRemovesUploadedImage(t *testing.T) {
	repo := newMemProductRepo()
	svc, publisher, uploadsDir := newTestProductService(t, repo)

	imagePath := filepath.Join(uploadsDir, "widget.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("img"), 0o644))

	product := repo.add(domain.Product{Name: "Widget", Image: "/uploads/widget.jpg"})

	err := svc.DeleteProduct(context.Background(), product.ID.Hex())
	require.NoError(t, err)

	_, err = os.Stat(imagePath)
	assert.True(t, os.IsNotExist(err))

	_, err = svc.GetProductByID(context.Background(), product.ID.Hex())
	assert.ErrorIs(t, err, errs.ErrProductNotFound)
	assert.Equal(t, []string{dto.EventDeleteProduct}, publisher.events)
}

func TestDeleteProductExternalImageLeftAlone(t *testing.T) {
	repo := newMemProductRepo()
	svc, _, uploadsDir := newTestProductService(t, repo)

	unrelated := filepath.Join(uploadsDir, "keep.jpg")
	require.NoError(t, os.WriteFile(unrelated, []byte("img"), 0o644))

	product := repo.add(domain.Product{Name: "Widget", Image: "https://cdn.example.com/widget.jpg"})

	require.NoError(t, svc.DeleteProduct(context.Background(), product.ID.Hex()))

	_, err := os.Stat(unrelated)
	assert.NoError(t, err)
}

func TestDeleteProductMissingImageFileIgnored(t *testing.T) {
	repo := newMemProductRepo()
	svc, _, _ := newTestProductService(t, repo)

	product := repo.add(domain.Product{Name: "Widget", Image: "/uploads/never-written.jpg"})

	assert.NoError(t, svc.DeleteProduct(context.Background(), product.ID.Hex()))
}

func TestAddProductReview(t *testing.T) {
	repo := newMemProductRepo()
	product := repo.add(domain.Product{Name: "Widget"})

	svc, publisher, _ := newTestProductService(t, repo)

	err := svc.AddProductReview(context.Background(), "user-u", "U", dto.ReviewRequest{ProductID: product.ID.Hex(), Rating: 4, Comment: "ok"})
	require.NoError(t, err)

	stored, err := svc.GetProductByID(context.Background(), product.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, stored.NumReviews)
	assert.InDelta(t, 4.0, stored.Rating, 1e-9)

	// Second review from the same user must fail and change nothing.
	err = svc.AddProductReview(context.Background(), "user-u", "U", dto.ReviewRequest{ProductID: product.ID.Hex(), Rating: 1})
	assert.ErrorIs(t, err, errs.ErrDuplicateReview)

	stored, err = svc.GetProductByID(context.Background(), product.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, stored.NumReviews)
	assert.InDelta(t, 4.0, stored.Rating, 1e-9)

	// A different user brings the mean to 3.0.
	err = svc.AddProductReview(context.Background(), "user-v", "V", dto.ReviewRequest{ProductID: product.ID.Hex(), Rating: 2})
	require.NoError(t, err)

	stored, err = svc.GetProductByID(context.Background(), product.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 2, stored.NumReviews)
	assert.InDelta(t, 3.0, stored.Rating, 1e-9)

	assert.Equal(t, []string{dto.EventAddProductReview, dto.EventAddProductReview}, publisher.events)
}

func TestAddProductReviewRetriesOnConflict(t *testing.T) {
	repo := newMemProductRepo()
	product := repo.add(domain.Product{Name: "Widget"})
	repo.conflicts = 2

	svc, _, _ := newTestProductService(t, repo)

	err := svc.AddProductReview(context.Background(), "user-u", "U", dto.ReviewRequest{ProductID: product.ID.Hex(), Rating: 5})
	require.NoError(t, err)

	stored, err := svc.GetProductByID(context.Background(), product.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, stored.NumReviews)
}

func TestAddProductReviewGivesUpAfterRepeatedConflicts(t *testing.T) {
	repo := newMemProductRepo()
	product := repo.add(domain.Product{Name: "Widget"})
	repo.conflicts = 3

	svc, _, _ := newTestProductService(t, repo)

	err := svc.AddProductReview(context.Background(), "user-u", "U", dto.ReviewRequest{ProductID: product.ID.Hex(), Rating: 5})
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestAddProductReviewMissingProduct(t *testing.T) {
	svc, _, _ := newTestProductService(t, newMemProductRepo())

	err := svc.AddProductReview(context.Background(), "user-u", "U", dto.ReviewRequest{ProductID: primitive.NewObjectID().Hex(), Rating: 5})
	assert.ErrorIs(t, err, errs.ErrProductNotFound)
}

func TestGetTopProducts(t *testing.T) {
	repo := newMemProductRepo()
	repo.add(domain.Product{Name: "A", Rating: 4.5})
	repo.add(domain.Product{Name: "B", Rating: 2.0})
	repo.add(domain.Product{Name: "C", Rating: 5.0})
	repo.add(domain.Product{Name: "D", Rating: 3.5})

	svc, _, _ := newTestProductService(t, repo)

	products, err := svc.GetTopProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "C", products[0].Name)
	assert.Equal(t, "A", products[1].Name)
	assert.Equal(t, "D", products[2].Name)
}

func TestGetBrandsSorted(t *testing.T) {
	repo := newMemProductRepo()
	repo.add(domain.Product{Brand: "Sony"})
	repo.add(domain.Product{Brand: "Apple"})
	repo.add(domain.Product{Brand: "Sony"})
	repo.add(domain.Product{Brand: "Logitech"})

	svc, _, _ := newTestProductService(t, repo)

	brands, err := svc.GetBrands(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Logitech", "Sony"}, brands)
}

func TestGetColorsFlattenedStoreOrder(t *testing.T) {
	repo := newMemProductRepo()
	repo.add(domain.Product{Colors: []string{"red", "blue"}})
	repo.add(domain.Product{Colors: []string{"blue", "green"}})

	svc, _, _ := newTestProductService(t, repo)

	colors, err := svc.GetColors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "blue", "green"}, colors)
}

func TestUpdateWithoutYearDropsItFromYears(t *testing.T) {
	repo := newMemProductRepo()
	existing := repo.add(domain.Product{Name: "Widget", Year: 2021})

	svc, _, _ := newTestProductService(t, repo)

	years, err := svc.GetYears(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2021}, years)

	_, err = svc.UpdateProduct(context.Background(), dto.ProductRequest{ID: existing.ID.Hex(), Name: "Widget"})
	require.NoError(t, err)

	years, err = svc.GetYears(context.Background())
	require.NoError(t, err)
	assert.Empty(t, years)
}

func TestGetYearsSkipsAbsent(t *testing.T) {
	repo := newMemProductRepo()
	repo.add(domain.Product{Year: 2021})
	repo.add(domain.Product{})
	repo.add(domain.Product{Year: 2023})
	repo.add(domain.Product{Year: 2021})

	svc, _, _ := newTestProductService(t, repo)

	years, err := svc.GetYears(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2021, 2023}, years)
}
