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

type CourseRepository struct {
	coll *mongo.Collection
}

func NewCourseRepository(database *mongo.Database) *CourseRepository {
	return &CourseRepository{coll: database.Collection("courses")}
}

func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	c.CreatedAt = time.Now().UTC()
	res, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		return apperror.NewInternal(err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		c.ID = id
	}
	return nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id bson.ObjectID) (*model.Course, error) {
	var c model.Course
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("course not found")
		}
		return nil, apperror.NewInternal(err)
	}
	return &c, nil
}

func (r *CourseRepository) Update(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.Course, error) {
	if len(fields) > 0 {
		res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": fields})
		if err != nil {
			return nil, apperror.NewInternal(err)
		}
		if res.MatchedCount == 0 {
			return nil, apperror.NewNotFound("course not found")
		}
	}
	return r.GetByID(ctx, id)
}

func (r *CourseRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperror.NewInternal(err)
	}
	if res.DeletedCount == 0 {
		return apperror.NewNotFound("course not found")
	}
	return nil
}

// DeleteByBootcamp removes every course of a deleted bootcamp.
func (r *CourseRepository) DeleteByBootcamp(ctx context.Context, bootcampID bson.ObjectID) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"bootcamp": bootcampID}); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}

func (r *CourseRepository) List(ctx context.Context, d query.Descriptor, base bson.M) (*ListResult[model.Course], error) {
	return FindPage[model.Course](ctx, r.coll, d, base)
}

// AverageTuition computes the mean tuition across a bootcamp's courses.
// Returns 0 when the bootcamp has no courses left.
func (r *CourseRepository) AverageTuition(ctx context.Context, bootcampID bson.ObjectID) (float64, error) {
	return average(ctx, r.coll, bootcampID, "$tuition")
}

// average runs the shared group pipeline used for tuition and rating means.
func average(ctx context.Context, coll *mongo.Collection, bootcampID bson.ObjectID, field string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bootcamp": bootcampID}}},
		{{Key: "$group", Value: bson.M{"_id": "$bootcamp", "avg": bson.M{"$avg": field}}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, apperror.NewInternal(err)
	}
	var out []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return 0, apperror.NewInternal(err)
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Avg, nil
}
