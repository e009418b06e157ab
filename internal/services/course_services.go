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

type CourseService struct {
	courses   CourseStore
	bootcamps BootcampStore
}

func NewCourseService(courses CourseStore, bootcamps BootcampStore) *CourseService {
	return &CourseService{courses: courses, bootcamps: bootcamps}
}

// List returns courses with the bootcamp relation expanded. A non-nil
// bootcampID narrows the list to one bootcamp; the query grammar still
// applies on top.
func (s *CourseService) List(ctx context.Context, params url.Values, bootcampID *bson.ObjectID) (*repository.ListResult[model.Course], error) {
	base := bson.M{}
	if bootcampID != nil {
		base["bootcamp"] = *bootcampID
	}
	d := query.Parse(params)
	d.Populate = "bootcamp"

	result, err := s.courses.List(ctx, d, base)
	if err != nil {
		return nil, err
	}
	if err := s.populateBootcamps(ctx, result.Items); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *CourseService) Get(ctx context.Context, id bson.ObjectID) (*model.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	courses := []model.Course{*course}
	if err := s.populateBootcamps(ctx, courses); err != nil {
		return nil, err
	}
	return &courses[0], nil
}

// Create adds a course to a bootcamp. The acting account must own the
// bootcamp or be an admin.
func (s *CourseService) Create(ctx context.Context, acting *model.Account, bootcampID bson.ObjectID, course *model.Course) (*model.Course, error) {
	if course.Title == "" {
		return nil, apperror.NewValidation("title is required")
	}
	bootcamp, err := s.bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, err
	}
	if !canModify(acting, bootcamp.User) {
		return nil, apperror.NewAuthorization("not authorized to add a course to this bootcamp")
	}

	course.BootcampID = bootcampID
	course.User = acting.ID
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	if err := s.recomputeAverageCost(ctx, bootcampID); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, acting *model.Account, id bson.ObjectID, fields map[string]any) (*model.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(acting, course.User) {
		return nil, apperror.NewAuthorization("not authorized to update this course")
	}

	updated, err := s.courses.Update(ctx, id, setDoc(fields, "bootcamp"))
	if err != nil {
		return nil, err
	}
	if err := s.recomputeAverageCost(ctx, course.BootcampID); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CourseService) Delete(ctx context.Context, acting *model.Account, id bson.ObjectID) error {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(acting, course.User) {
		return apperror.NewAuthorization("not authorized to delete this course")
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}
	return s.recomputeAverageCost(ctx, course.BootcampID)
}

// recomputeAverageCost keeps the bootcamp's mean tuition in step with its
// courses.
func (s *CourseService) recomputeAverageCost(ctx context.Context, bootcampID bson.ObjectID) error {
	avg, err := s.courses.AverageTuition(ctx, bootcampID)
	if err != nil {
		return err
	}
	return s.bootcamps.SetAverageCost(ctx, bootcampID, avg)
}

func (s *CourseService) populateBootcamps(ctx context.Context, courses []model.Course) error {
	ids := make([]bson.ObjectID, 0, len(courses))
	seen := map[bson.ObjectID]bool{}
	for i := range courses {
		if id := courses[i].BootcampID; !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	summaries, err := s.bootcamps.Summaries(ctx, ids)
	if err != nil {
		return err
	}
	for i := range courses {
		courses[i].Bootcamp = summaries[courses[i].BootcampID]
	}
	return nil
}
