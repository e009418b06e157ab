package services

import (
	"context"
	"net/url"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/model"
	"BootcampAPI/internal/query"
	"BootcampAPI/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ReviewService struct {
	reviews   ReviewStore
	bootcamps BootcampStore
}

func NewReviewService(reviews ReviewStore, bootcamps BootcampStore) *ReviewService {
	return &ReviewService{reviews: reviews, bootcamps: bootcamps}
}

func (s *ReviewService) List(ctx context.Context, params url.Values, bootcampID *bson.ObjectID) (*repository.ListResult[model.Review], error) {
	base := bson.M{}
	if bootcampID != nil {
		base["bootcamp"] = *bootcampID
	}
	d := query.Parse(params)
	d.Populate = "bootcamp"

	result, err := s.reviews.List(ctx, d, base)
	if err != nil {
		return nil, err
	}
	if err := s.populateBootcamps(ctx, result.Items); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ReviewService) Get(ctx context.Context, id bson.ObjectID) (*model.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews := []model.Review{*review}
	if err := s.populateBootcamps(ctx, reviews); err != nil {
		return nil, err
	}
	return &reviews[0], nil
}

// Create adds a review to a bootcamp. Role gating (user or admin) happens
// at the route; here the bootcamp just has to exist.
func (s *ReviewService) Create(ctx context.Context, acting *model.Account, bootcampID bson.ObjectID, review *model.Review) (*model.Review, error) {
	if review.Title == "" {
		return nil, apperror.NewValidation("title is required")
	}
	if review.Rating < 1 || review.Rating > 10 {
		return nil, apperror.NewValidation("rating must be between 1 and 10")
	}
	if _, err := s.bootcamps.GetByID(ctx, bootcampID); err != nil {
		return nil, err
	}

	review.BootcampID = bootcampID
	review.User = acting.ID
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	if err := s.recomputeAverageRating(ctx, bootcampID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, acting *model.Account, id bson.ObjectID, fields map[string]any) (*model.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(acting, review.User) {
		return nil, apperror.NewAuthorization("not authorized to update this review")
	}
	if rating, ok := fields["rating"]; ok {
		if n, ok := toInt(rating); !ok || n < 1 || n > 10 {
			return nil, apperror.NewValidation("rating must be between 1 and 10")
		}
	}

	updated, err := s.reviews.Update(ctx, id, setDoc(fields, "bootcamp"))
	if err != nil {
		return nil, err
	}
	if err := s.recomputeAverageRating(ctx, review.BootcampID); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, acting *model.Account, id bson.ObjectID) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(acting, review.User) {
		return apperror.NewAuthorization("not authorized to delete this review")
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	return s.recomputeAverageRating(ctx, review.BootcampID)
}

func (s *ReviewService) recomputeAverageRating(ctx context.Context, bootcampID bson.ObjectID) error {
	avg, err := s.reviews.AverageRating(ctx, bootcampID)
	if err != nil {
		return err
	}
	return s.bootcamps.SetAverageRating(ctx, bootcampID, avg)
}

func (s *ReviewService) populateBootcamps(ctx context.Context, reviews []model.Review) error {
	ids := make([]bson.ObjectID, 0, len(reviews))
	seen := map[bson.ObjectID]bool{}
	for i := range reviews {
		if id := reviews[i].BootcampID; !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	summaries, err := s.bootcamps.Summaries(ctx, ids)
	if err != nil {
		return err
	}
	for i := range reviews {
		reviews[i].Bootcamp = summaries[reviews[i].BootcampID]
	}
	return nil
}

// toInt normalizes the numeric types a bound JSON body can produce.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
