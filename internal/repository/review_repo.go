package repository

import (
	"context"
	"errors"
	"time"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/model"
	"BootcampAPI/internal/query"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type ReviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(database *mongo.Database) *ReviewRepository {
	return &ReviewRepository{coll: database.Collection("reviews")}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *model.Review) error {
	rv.CreatedAt = time.Now().UTC()
	res, err := r.coll.InsertOne(ctx, rv)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.NewValidation("account has already reviewed this bootcamp")
		}
		return apperror.NewInternal(err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		rv.ID = id
	}
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.Review, error) {
	var rv model.Review
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("review not found")
		}
		return nil, apperror.NewInternal(err)
	}
	return &rv, nil
}

func (r *ReviewRepository) Update(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.Review, error) {
	if len(fields) > 0 {
		res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": fields})
		if err != nil {
			return nil, apperror.NewInternal(err)
		}
		if res.MatchedCount == 0 {
			return nil, apperror.NewNotFound("review not found")
		}
	}
	return r.GetByID(ctx, id)
}

func (r *ReviewRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperror.NewInternal(err)
	}
	if res.DeletedCount == 0 {
		return apperror.NewNotFound("review not found")
	}
	return nil
}

// DeleteByBootcamp removes every review of a deleted bootcamp.
func (r *ReviewRepository) DeleteByBootcamp(ctx context.Context, bootcampID bson.ObjectID) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"bootcamp": bootcampID}); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

func (r *ReviewRepository) List(ctx context.Context, d query.Descriptor, base bson.M) (*ListResult[model.Review], error) {
	return FindPage[model.Review](ctx, r.coll, d, base)
}

// AverageRating computes the mean rating across a bootcamp's reviews.
func (r *ReviewRepository) AverageRating(ctx context.Context, bootcampID bson.ObjectID) (float64, error) {
	return average(ctx, r.coll, bootcampID, "$rating")
}
