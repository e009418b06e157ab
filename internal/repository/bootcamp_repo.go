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

type BootcampRepository struct {
	coll *mongo.Collection
}

func NewBootcampRepository(database *mongo.Database) *BootcampRepository {
	return &BootcampRepository{coll: database.Collection("bootcamps")}
}

func (r *BootcampRepository) Create(ctx context.Context, b *model.Bootcamp) error {
	b.CreatedAt = time.Now().UTC()
	res, err := r.coll.InsertOne(ctx, b)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.NewValidation("bootcamp already exists")
		}
		return apperror.NewInternal(err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		b.ID = id
	}
	return nil
}

func (r *BootcampRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.Bootcamp, error) {
	var b model.Bootcamp
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("bootcamp not found")
		}
		return nil, apperror.NewInternal(err)
	}
	return &b, nil
}

func (r *BootcampRepository) Update(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.Bootcamp, error) {
	if len(fields) > 0 {
		res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": fields})
		if err != nil {
			return nil, apperror.NewInternal(err)
		}
		if res.MatchedCount == 0 {
			return nil, apperror.NewNotFound("bootcamp not found")
		}
	}
	return r.GetByID(ctx, id)
}

func (r *BootcampRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperror.NewInternal(err)
	}
	if res.DeletedCount == 0 {
		return apperror.NewNotFound("bootcamp not found")
	}
	return nil
}

func (r *BootcampRepository) SetPhoto(ctx context.Context, id bson.ObjectID, filename string) error {
	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"photo": filename}})
	if err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

func (r *BootcampRepository) SetAverageRating(ctx context.Context, id bson.ObjectID, rating float64) error {
	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"averageRating": rating}})
	if err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

func (r *BootcampRepository) SetAverageCost(ctx context.Context, id bson.ObjectID, cost float64) error {
	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"averageCost": cost}})
	if err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

func (r *BootcampRepository) List(ctx context.Context, d query.Descriptor) (*ListResult[model.Bootcamp], error) {
	return FindPage[model.Bootcamp](ctx, r.coll, d, bson.M{})
}

// FindWithinRadius returns the bootcamps whose location falls inside the
// sphere cap centered on (lat, lng). Radius is in radians (distance divided
// by the earth's radius).
func (r *BootcampRepository) FindWithinRadius(ctx context.Context, lat, lng, radius float64) ([]model.Bootcamp, error) {
	filter := bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radius},
			},
		},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	bootcamps := []model.Bootcamp{}
	if err := cursor.All(ctx, &bootcamps); err != nil {
		return nil, apperror.NewInternal(err)
	}
	return bootcamps, nil
}

// Summaries fetches the reduced bootcamp view for relation expansion.
func (r *BootcampRepository) Summaries(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*model.BootcampSummary, error) {
	out := map[bson.ObjectID]*model.BootcampSummary{}
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	var summaries []model.BootcampSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, apperror.NewInternal(err)
	}
	for i := range summaries {
		out[summaries[i].ID] = &summaries[i]
	}
	return out, nil
}
