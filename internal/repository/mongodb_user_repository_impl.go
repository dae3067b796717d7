package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/storefront/storefront-service/internal/domain"
	"github.com/storefront/storefront-service/pkg/errs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDBUserRepositoryImpl struct {
	db *mongo.Database
}

func CreateNewMongoDBUserRepository(db *mongo.Database) MongoDBUserRepository {
	return &MongoDBUserRepositoryImpl{db: db}
}

func (r *MongoDBUserRepositoryImpl) AddUser(ctx context.Context, data domain.User) (id primitive.ObjectID, err error) {
	timestamp := time.Now().UnixMilli()
	data.CreatedAt = timestamp
	data.UpdatedAt = timestamp

	result, err := r.db.Collection("users").InsertOne(ctx, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddUser").Msg("")
		return
	}

	return result.InsertedID.(primitive.ObjectID), err
}

// GetUserByEmail returns the zero User with a nil error when no account
// matches; callers check ExternalID to tell a miss from a hit.
func (r *MongoDBUserRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (user domain.User, err error) {
	err = r.db.Collection("users").FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return user, nil
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetUserByEmail").Msg("")
		return user, err
	}

	return
}

func (r *MongoDBUserRepositoryImpl) GetUserByID(ctx context.Context, id string) (user domain.User, err error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetUserByID").Msg("")
		return user, errs.ErrAccountNotFound
	}

	err = r.db.Collection("users").FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&user)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetUserByID").Msg("")
		if err == mongo.ErrNoDocuments {
			return user, errs.ErrAccountNotFound
		}

		return user, err
	}

	return
}

func (r *MongoDBUserRepositoryImpl) GetUserByExternalID(ctx context.Context, externalID string) (user domain.User, err error) {
	err = r.db.Collection("users").FindOne(ctx, bson.D{{Key: "external_id", Value: externalID}}).Decode(&user)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetUserByExternalID").Msg("")
		if err == mongo.ErrNoDocuments {
			return user, errs.ErrAccountNotFound
		}

		return user, err
	}

	return
}

func (r *MongoDBUserRepositoryImpl) UpdateUser(ctx context.Context, data domain.User) (err error) {
	filter := bson.D{{Key: "_id", Value: data.ID}}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: data.Name},
		{Key: "email", Value: data.Email},
		{Key: "hashed_password", Value: data.HashedPassword},
		{Key: "role", Value: data.Role},
		{Key: "updated_at", Value: time.Now().UnixMilli()},
	}}}

	result, err := r.db.Collection("users").UpdateOne(ctx, filter, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateUser").Msg("")
		return
	}

	if result.MatchedCount == 0 {
		return errs.ErrAccountNotFound
	}

	return
}

func (r *MongoDBUserRepositoryImpl) DeleteUser(ctx context.Context, id string) (err error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteUser").Msg("")
		return errs.ErrAccountNotFound
	}

	result, err := r.db.Collection("users").DeleteOne(ctx, bson.D{{Key: "_id", Value: userID}})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteUser").Msg("")
		return
	}

	if result.DeletedCount == 0 {
		return errs.ErrAccountNotFound
	}

	return
}

func (r *MongoDBUserRepositoryImpl) GetUsers(ctx context.Context, skip int64, limit int64) (data []domain.User, err error) {
	opts := options.Find()
	if limit != 0 {
		opts.SetSkip(skip)
		opts.SetLimit(limit)
	}

	cursor, err := r.db.Collection("users").Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetUsers").Msg("")
		return
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetUsers").Msg("")
		return
	}

	return data, nil
}

func (r *MongoDBUserRepositoryImpl) CountUsers(ctx context.Context) (count int64, err error) {
	count, err = r.db.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CountUsers").Msg("")
		return
	}

	return
}
