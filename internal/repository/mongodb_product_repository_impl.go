package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/storefront/storefront-service/internal/domain"
	"github.com/storefront/storefront-service/internal/dto"
	"github.com/storefront/storefront-service/pkg/errs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDBProductRepositoryImpl struct {
	db *mongo.Database
}

func CreateNewMongoDBProductRepository(db *mongo.Database) MongoDBProductRepository {
	return &MongoDBProductRepositoryImpl{db: db}
}

func buildProductFilter(query ProductQuery) bson.M {
	filter := bson.M{}

	if query.Keyword != "" {
		filter["name"] = primitive.Regex{Pattern: query.Keyword, Options: "i"}
	}

	if query.Category != "" {
		filter["category"] = query.Category
	}

	return filter
}

func (r *MongoDBProductRepositoryImpl) AddProduct(ctx context.Context, data domain.Product) (id primitive.ObjectID, err error) {
	result, err := r.db.Collection("products").InsertOne(ctx, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddProduct").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), err
}

func (r *MongoDBProductRepositoryImpl) GetProducts(ctx context.Context, query ProductQuery) (data []domain.Product, err error) {
	opts := options.Find()
	if query.Limit != 0 {
		opts.SetSkip(query.Skip)
		opts.SetLimit(query.Limit)
	}

	cursor, err := r.db.Collection("products").Find(ctx, buildProductFilter(query), opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProducts").Msg("")
		return
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProducts").Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBProductRepositoryImpl) CountProducts(ctx context.Context, query ProductQuery) (count int64, err error) {
	count, err = r.db.Collection("products").CountDocuments(ctx, buildProductFilter(query))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CountProducts").Msg("")
		return
	}

	return
}

func (r *MongoDBProductRepositoryImpl) GetProductByID(ctx context.Context, id string) (product domain.Product, err error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductByID").Msg("")
		return product, errs.ErrProductNotFound
	}

	filter := bson.D{{Key: "_id", Value: productID}}

	err = r.db.Collection("products").FindOne(ctx, filter).Decode(&product)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductByID").Msg("")
		if err == mongo.ErrNoDocuments {
			return product, errs.ErrProductNotFound
		}

		return product, err
	}
	return product, nil
}

// buildProductUpdate writes the full replacement set of catalog fields. A
// zero year is unset rather than stored, mirroring the insert-side omitempty
// so the field stays absent for the distinct-years lookup.
func buildProductUpdate(data domain.Product) bson.D {
	set := bson.D{
		{Key: "name", Value: data.Name},
		{Key: "price", Value: data.Price},
		{Key: "description", Value: data.Description},
		{Key: "image", Value: data.Image},
		{Key: "brand", Value: data.Brand},
		{Key: "category", Value: data.Category},
		{Key: "count_in_stock", Value: data.CountInStock},
		{Key: "colors", Value: data.Colors},
		{Key: "char", Value: data.Char},
		{Key: "updated_at", Value: time.Now().UnixMilli()},
	}

	if data.Year != 0 {
		set = append(set, bson.E{Key: "year", Value: data.Year})
	}

	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
	}

	if data.Year == 0 {
		update = append(update, bson.E{Key: "$unset", Value: bson.D{{Key: "year", Value: ""}}})
	}

	return update
}

// UpdateProduct replaces every catalog field unconditionally. Fields absent
// from the request arrive as zero values and overwrite what is stored; this
// full-replacement semantic is the documented contract, not a merge.
func (r *MongoDBProductRepositoryImpl) UpdateProduct(ctx context.Context, data domain.Product) (err error) {
	filter := bson.D{{Key: "_id", Value: data.ID}}

	result, err := r.db.Collection("products").UpdateOne(ctx, filter, buildProductUpdate(data))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateProduct").Msg("Failed to update product")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrProductNotFound
	}

	return nil
}

func (r *MongoDBProductRepositoryImpl) DeleteProduct(ctx context.Context, id string) (err error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return errs.ErrProductNotFound
	}

	filter := bson.D{{Key: "_id", Value: productID}}

	result, err := r.db.Collection("products").DeleteOne(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return
	}

	if result.DeletedCount == 0 {
		return errs.ErrProductNotFound
	}

	return
}

// AddProductReview appends the review and persists the recomputed aggregates
// in one write. The version check makes the whole read-modify-write cycle
// safe against a concurrent review on the same product: a mismatch matches
// nothing and surfaces as ErrConflict so the caller can re-read and retry.
func (r *MongoDBProductRepositoryImpl) AddProductReview(ctx context.Context, productID primitive.ObjectID, review domain.Review, numReviews int, rating float64, version int64) (err error) {
	filter := bson.D{
		{Key: "_id", Value: productID},
		{Key: "version", Value: version},
	}

	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "reviews", Value: review}}},
		{Key: "$set", Value: bson.D{
			{Key: "num_reviews", Value: numReviews},
			{Key: "rating", Value: rating},
			{Key: "updated_at", Value: time.Now().UnixMilli()},
		}},
		{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
	}

	result, err := r.db.Collection("products").UpdateOne(ctx, filter, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddProductReview").Msg("")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrConflict
	}

	return
}

func (r *MongoDBProductRepositoryImpl) GetTopProducts(ctx context.Context, limit int64) (data []domain.Product, err error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.db.Collection("products").Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetTopProducts").Msg("")
		return
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetTopProducts").Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBProductRepositoryImpl) GetPriceRange(ctx context.Context, query ProductQuery) (priceRange dto.PriceRange, err error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: buildProductFilter(query)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "min_price", Value: bson.D{{Key: "$min", Value: "$price"}}},
			{Key: "max_price", Value: bson.D{{Key: "$max", Value: "$price"}}},
		}}},
	}

	cursor, err := r.db.Collection("products").Aggregate(ctx, pipeline)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetPriceRange").Msg("")
		return
	}
	defer cursor.Close(ctx)

	var results []dto.PriceRange
	if err = cursor.All(ctx, &results); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetPriceRange").Msg("")
		return
	}

	if len(results) == 0 {
		return priceRange, nil
	}

	return results[0], nil
}

func (r *MongoDBProductRepositoryImpl) GetDistinctBrands(ctx context.Context) (brands []string, err error) {
	values, err := r.db.Collection("products").Distinct(ctx, "brand", bson.M{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetDistinctBrands").Msg("")
		return
	}

	return toStrings(values), nil
}

// GetDistinctColors flattens the colors array field across all products
// before deduplication; the store's distinct does both in one pass.
func (r *MongoDBProductRepositoryImpl) GetDistinctColors(ctx context.Context) (colors []string, err error) {
	values, err := r.db.Collection("products").Distinct(ctx, "colors", bson.M{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetDistinctColors").Msg("")
		return
	}

	return toStrings(values), nil
}

func (r *MongoDBProductRepositoryImpl) GetDistinctYears(ctx context.Context) (years []int, err error) {
	values, err := r.db.Collection("products").Distinct(ctx, "year", bson.M{"year": bson.M{"$ne": nil}})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetDistinctYears").Msg("")
		return
	}

	return toInts(values), nil
}

func toStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toInts(values []interface{}) []int {
	out := make([]int, 0, len(values))
	for _, v := range values {
		switch n := v.(type) {
		case int32:
			out = append(out, int(n))
		case int64:
			out = append(out, int(n))
		case float64:
			out = append(out, int(n))
		}
	}
	return out
}
