package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/config"
	"BootcampAPI/internal/model"
	"BootcampAPI/internal/query"
	"BootcampAPI/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// earthRadiusMiles converts a search distance in miles into the radians
// the sphere-cap query expects.
const earthRadiusMiles = 3963.0

type BootcampService struct {
	bootcamps BootcampStore
	courses   CourseStore
	reviews   ReviewStore
	geocoder  Geocoder
	upload    config.UploadConfig
}

func NewBootcampService(bootcamps BootcampStore, courses CourseStore, reviews ReviewStore, geocoder Geocoder, upload config.UploadConfig) *BootcampService {
	return &BootcampService{
		bootcamps: bootcamps,
		courses:   courses,
		reviews:   reviews,
		geocoder:  geocoder,
		upload:    upload,
	}
}

func (s *BootcampService) List(ctx context.Context, params url.Values) (*repository.ListResult[model.Bootcamp], error) {
	return s.bootcamps.List(ctx, query.Parse(params))
}

func (s *BootcampService) Get(ctx context.Context, id bson.ObjectID) (*model.Bootcamp, error) {
	return s.bootcamps.GetByID(ctx, id)
}

func (s *BootcampService) Create(ctx context.Context, acting *model.Account, b *model.Bootcamp) (*model.Bootcamp, error) {
	if b.Name == "" {
		return nil, apperror.NewValidation("name is required")
	}
	if b.Description == "" {
		return nil, apperror.NewValidation("description is required")
	}
	b.User = acting.ID
	if err := s.bootcamps.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BootcampService) Update(ctx context.Context, acting *model.Account, id bson.ObjectID, fields map[string]any) (*model.Bootcamp, error) {
	bootcamp, err := s.bootcamps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(acting, bootcamp.User) {
		return nil, apperror.NewAuthorization("not authorized to update this bootcamp")
	}
	return s.bootcamps.Update(ctx, id, setDoc(fields, "photo", "averageRating", "averageCost"))
}

// Delete removes a bootcamp and cascades to its courses and reviews.
func (s *BootcampService) Delete(ctx context.Context, acting *model.Account, id bson.ObjectID) error {
	bootcamp, err := s.bootcamps.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(acting, bootcamp.User) {
		return apperror.NewAuthorization("not authorized to delete this bootcamp")
	}
	if err := s.courses.DeleteByBootcamp(ctx, id); err != nil {
		return err
	}
	if err := s.reviews.DeleteByBootcamp(ctx, id); err != nil {
		return err
	}
	return s.bootcamps.Delete(ctx, id)
}

// InRadius geocodes the zipcode and returns the bootcamps within the given
// distance in miles.
func (s *BootcampService) InRadius(ctx context.Context, zipcode string, distance float64) ([]model.Bootcamp, error) {
	if distance <= 0 {
		return nil, apperror.NewValidation("distance must be a positive number")
	}
	lat, lng, err := s.geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, apperror.NewDelivery("could not geocode zipcode", err)
	}
	return s.bootcamps.FindWithinRadius(ctx, lat, lng, distance/earthRadiusMiles)
}

// UploadPhoto validates and stores a bootcamp photo, records the filename,
// and returns it. Owner-or-admin only.
func (s *BootcampService) UploadPhoto(ctx context.Context, acting *model.Account, id bson.ObjectID, file *multipart.FileHeader) (string, error) {
	bootcamp, err := s.bootcamps.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !canModify(acting, bootcamp.User) {
		return "", apperror.NewAuthorization("not authorized to update this bootcamp")
	}

	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", apperror.NewValidation("please upload an image file")
	}
	if file.Size > s.upload.MaxSize {
		return "", apperror.NewValidation(fmt.Sprintf("please upload an image less than %d bytes", s.upload.MaxSize))
	}

	filename := fmt.Sprintf("photo_%s_%s%s", id.Hex(), uuid.NewString(), filepath.Ext(file.Filename))
	if err := s.savePhoto(file, filename); err != nil {
		return "", apperror.NewDelivery("problem with file upload", err)
	}

	if err := s.bootcamps.SetPhoto(ctx, id, filename); err != nil {
		return "", err
	}
	return filename, nil
}

func (s *BootcampService) savePhoto(file *multipart.FileHeader, filename string) error {
	if err := os.MkdirAll(s.upload.Path, 0o755); err != nil {
		return err
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.upload.Path, filename))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
