package services_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/model"
	"BootcampAPI/internal/query"
	"BootcampAPI/internal/repository"
	"BootcampAPI/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type fakeBootcampStore struct {
	bootcamps map[bson.ObjectID]*model.Bootcamp
	avgCost   map[bson.ObjectID]float64
	avgRating map[bson.ObjectID]float64
}

func newFakeBootcampStore(bootcamps ...*model.Bootcamp) *fakeBootcampStore {
	f := &fakeBootcampStore{
		bootcamps: map[bson.ObjectID]*model.Bootcamp{},
		avgCost:   map[bson.ObjectID]float64{},
		avgRating: map[bson.ObjectID]float64{},
	}
	for _, b := range bootcamps {
		f.bootcamps[b.ID] = b
	}
	return f
}

func (f *fakeBootcampStore) Create(_ context.Context, b *model.Bootcamp) error {
	b.ID = bson.NewObjectID()
	f.bootcamps[b.ID] = b
	return nil
}

func (f *fakeBootcampStore) GetByID(_ context.Context, id bson.ObjectID) (*model.Bootcamp, error) {
	if b, ok := f.bootcamps[id]; ok {
		view := *b
		return &view, nil
	}
	return nil, apperror.NewNotFound("bootcamp not found")
}

func (f *fakeBootcampStore) Update(_ context.Context, id bson.ObjectID, fields bson.M) (*model.Bootcamp, error) {
	b, ok := f.bootcamps[id]
	if !ok {
		return nil, apperror.NewNotFound("bootcamp not found")
	}
	if name, ok := fields["name"].(string); ok {
		b.Name = name
	}
	view := *b
	return &view, nil
}

func (f *fakeBootcampStore) Delete(_ context.Context, id bson.ObjectID) error {
	if _, ok := f.bootcamps[id]; !ok {
		return apperror.NewNotFound("bootcamp not found")
	}
	delete(f.bootcamps, id)
	return nil
}

func (f *fakeBootcampStore) SetPhoto(_ context.Context, id bson.ObjectID, filename string) error {
	f.bootcamps[id].Photo = filename
	return nil
}

func (f *fakeBootcampStore) SetAverageRating(_ context.Context, id bson.ObjectID, rating float64) error {
	f.avgRating[id] = rating
	return nil
}

func (f *fakeBootcampStore) SetAverageCost(_ context.Context, id bson.ObjectID, cost float64) error {
	f.avgCost[id] = cost
	return nil
}

func (f *fakeBootcampStore) List(_ context.Context, _ query.Descriptor) (*repository.ListResult[model.Bootcamp], error) {
	items := []model.Bootcamp{}
	for _, b := range f.bootcamps {
		items = append(items, *b)
	}
	return &repository.ListResult[model.Bootcamp]{Items: items, Total: int64(len(items))}, nil
}

func (f *fakeBootcampStore) FindWithinRadius(_ context.Context, _, _, _ float64) ([]model.Bootcamp, error) {
	return nil, nil
}

func (f *fakeBootcampStore) Summaries(_ context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*model.BootcampSummary, error) {
	out := map[bson.ObjectID]*model.BootcampSummary{}
	for _, id := range ids {
		if b, ok := f.bootcamps[id]; ok {
			out[id] = &model.BootcampSummary{ID: b.ID, Name: b.Name, Description: b.Description}
		}
	}
	return out, nil
}

type fakeCourseStore struct {
	courses map[bson.ObjectID]*model.Course
}

func newFakeCourseStore(courses ...*model.Course) *fakeCourseStore {
	f := &fakeCourseStore{courses: map[bson.ObjectID]*model.Course{}}
	for _, c := range courses {
		f.courses[c.ID] = c
	}
	return f
}

func (f *fakeCourseStore) Create(_ context.Context, c *model.Course) error {
	c.ID = bson.NewObjectID()
	f.courses[c.ID] = c
	return nil
}

func (f *fakeCourseStore) GetByID(_ context.Context, id bson.ObjectID) (*model.Course, error) {
	if c, ok := f.courses[id]; ok {
		view := *c
		return &view, nil
	}
	return nil, apperror.NewNotFound("course not found")
}

func (f *fakeCourseStore) Update(_ context.Context, id bson.ObjectID, fields bson.M) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, apperror.NewNotFound("course not found")
	}
	if title, ok := fields["title"].(string); ok {
		c.Title = title
	}
	view := *c
	return &view, nil
}

func (f *fakeCourseStore) Delete(_ context.Context, id bson.ObjectID) error {
	if _, ok := f.courses[id]; !ok {
		return apperror.NewNotFound("course not found")
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseStore) DeleteByBootcamp(_ context.Context, bootcampID bson.ObjectID) error {
	for id, c := range f.courses {
		if c.BootcampID == bootcampID {
			delete(f.courses, id)
		}
	}
	return nil
}

func (f *fakeCourseStore) List(_ context.Context, _ query.Descriptor, base bson.M) (*repository.ListResult[model.Course], error) {
	items := []model.Course{}
	for _, c := range f.courses {
		if want, ok := base["bootcamp"].(bson.ObjectID); ok && c.BootcampID != want {
			continue
		}
		items = append(items, *c)
	}
	return &repository.ListResult[model.Course]{Items: items, Total: int64(len(items))}, nil
}

func (f *fakeCourseStore) AverageTuition(_ context.Context, bootcampID bson.ObjectID) (float64, error) {
	var sum float64
	var n int
	for _, c := range f.courses {
		if c.BootcampID == bootcampID {
			sum += c.Tuition
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func TestCourseService_OwnershipOrAdmin(t *testing.T) {
	owner := &model.Account{ID: bson.NewObjectID(), Role: model.RolePublisher}
	admin := &model.Account{ID: bson.NewObjectID(), Role: model.RoleAdmin}
	stranger := &model.Account{ID: bson.NewObjectID(), Role: model.RolePublisher}

	tests := []struct {
		name     string
		acting   *model.Account
		wantCode int
	}{
		{name: "non-owner non-admin is forbidden", acting: stranger, wantCode: http.StatusForbidden},
		{name: "owner succeeds", acting: owner, wantCode: 0},
		{name: "admin succeeds", acting: admin, wantCode: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			bootcamp := &model.Bootcamp{ID: bson.NewObjectID(), User: owner.ID, Name: "Dev Works"}
			course := &model.Course{ID: bson.NewObjectID(), BootcampID: bootcamp.ID, User: owner.ID, Title: "Go 101", Tuition: 8000}
			svc := services.NewCourseService(newFakeCourseStore(course), newFakeBootcampStore(bootcamp))

			_, err := svc.Update(ctx, tt.acting, course.ID, map[string]any{"title": "Go 201"})
			if tt.wantCode == 0 {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperror.SafeCode(err))
			}

			err = svc.Delete(ctx, tt.acting, course.ID)
			if tt.wantCode == 0 {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperror.SafeCode(err))
			}
		})
	}
}

func TestCourseService_CreateRequiresBootcampOwnership(t *testing.T) {
	ctx := context.Background()
	owner := &model.Account{ID: bson.NewObjectID(), Role: model.RolePublisher}
	stranger := &model.Account{ID: bson.NewObjectID(), Role: model.RolePublisher}
	bootcamp := &model.Bootcamp{ID: bson.NewObjectID(), User: owner.ID, Name: "Dev Works"}

	courses := newFakeCourseStore()
	bootcamps := newFakeBootcampStore(bootcamp)
	svc := services.NewCourseService(courses, bootcamps)

	_, err := svc.Create(ctx, stranger, bootcamp.ID, &model.Course{Title: "Go 101", Tuition: 9000})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.SafeCode(err))

	created, err := svc.Create(ctx, owner, bootcamp.ID, &model.Course{Title: "Go 101", Tuition: 9000})
	require.NoError(t, err)
	assert.Equal(t, bootcamp.ID, created.BootcampID)
	assert.Equal(t, owner.ID, created.User)

	_, err = svc.Create(ctx, owner, bson.NewObjectID(), &model.Course{Title: "Go 102"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.SafeCode(err))
}

func TestCourseService_CreateKeepsAverageCostCurrent(t *testing.T) {
	ctx := context.Background()
	owner := &model.Account{ID: bson.NewObjectID(), Role: model.RolePublisher}
	bootcamp := &model.Bootcamp{ID: bson.NewObjectID(), User: owner.ID}

	bootcamps := newFakeBootcampStore(bootcamp)
	svc := services.NewCourseService(newFakeCourseStore(), bootcamps)

	_, err := svc.Create(ctx, owner, bootcamp.ID, &model.Course{Title: "A", Tuition: 8000})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, bootcamp.ID, &model.Course{Title: "B", Tuition: 12000})
	require.NoError(t, err)

	assert.Equal(t, 10000.0, bootcamps.avgCost[bootcamp.ID])
}

func TestCourseService_ListExpandsBootcamp(t *testing.T) {
	ctx := context.Background()
	bootcamp := &model.Bootcamp{ID: bson.NewObjectID(), Name: "Dev Works", Description: "Full stack"}
	course := &model.Course{ID: bson.NewObjectID(), BootcampID: bootcamp.ID, Title: "Go 101"}

	svc := services.NewCourseService(newFakeCourseStore(course), newFakeBootcampStore(bootcamp))

	result, err := svc.List(ctx, url.Values{}, nil)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.NotNil(t, result.Items[0].Bootcamp)
	assert.Equal(t, "Dev Works", result.Items[0].Bootcamp.Name)
	assert.Equal(t, "Full stack", result.Items[0].Bootcamp.Description)
}
