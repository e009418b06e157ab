package services

import (
	"context"

	"BootcampAPI/internal/model"
	"BootcampAPI/internal/query"
	"BootcampAPI/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Persistence surfaces the resource services depend on. The mongo
// repositories satisfy them; tests substitute in-memory fakes.

type BootcampStore interface {
	Create(ctx context.Context, b *model.Bootcamp) error
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Bootcamp, error)
	Update(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.Bootcamp, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	SetPhoto(ctx context.Context, id bson.ObjectID, filename string) error
	SetAverageRating(ctx context.Context, id bson.ObjectID, rating float64) error
	SetAverageCost(ctx context.Context, id bson.ObjectID, cost float64) error
	List(ctx context.Context, d query.Descriptor) (*repository.ListResult[model.Bootcamp], error)
	FindWithinRadius(ctx context.Context, lat, lng, radius float64) ([]model.Bootcamp, error)
	Summaries(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*model.BootcampSummary, error)
}

type CourseStore interface {
	Create(ctx context.Context, c *model.Course) error
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Course, error)
	Update(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.Course, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	DeleteByBootcamp(ctx context.Context, bootcampID bson.ObjectID) error
	List(ctx context.Context, d query.Descriptor, base bson.M) (*repository.ListResult[model.Course], error)
	AverageTuition(ctx context.Context, bootcampID bson.ObjectID) (float64, error)
}

type ReviewStore interface {
	Create(ctx context.Context, r *model.Review) error
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Review, error)
	Update(ctx context.Context, id bson.ObjectID, fields bson.M) (*model.Review, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	DeleteByBootcamp(ctx context.Context, bootcampID bson.ObjectID) error
	List(ctx context.Context, d query.Descriptor, base bson.M) (*repository.ListResult[model.Review], error)
	AverageRating(ctx context.Context, bootcampID bson.ObjectID) (float64, error)
}

// Geocoder resolves a postal code to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, zipcode string) (lat, lng float64, err error)
}

var (
	_ AccountStore  = (*repository.AccountRepository)(nil)
	_ BootcampStore = (*repository.BootcampRepository)(nil)
	_ CourseStore   = (*repository.CourseRepository)(nil)
	_ ReviewStore   = (*repository.ReviewRepository)(nil)
)

// canModify is the ownership-or-admin rule applied to every owned resource.
func canModify(acting *model.Account, ownerID bson.ObjectID) bool {
	return acting.Role == model.RoleAdmin || acting.ID == ownerID
}

// setDoc converts a bound request body into a $set document, dropping the
// fields clients must never write directly.
func setDoc(fields map[string]any, protected ...string) bson.M {
	out := bson.M{}
	for k, v := range fields {
		out[k] = v
	}
	delete(out, "_id")
	delete(out, "id")
	delete(out, "user")
	delete(out, "createdAt")
	for _, k := range protected {
		delete(out, k)
	}
	return out
}
