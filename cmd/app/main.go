package main

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"BootcampAPI/external/mapquest"
	"BootcampAPI/external/resend"

	"BootcampAPI/internal/config"
	"BootcampAPI/internal/db"
	"BootcampAPI/internal/middleware"
	"BootcampAPI/internal/repository"
	"BootcampAPI/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func main() {
	// ======================
	// CONFIG
	// ======================
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// ======================
	// INFRA
	// ======================
	client, database, err := db.Connect(cfg.Mongo)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(context.Background(), database); err != nil {
		log.Fatal(err)
	}

	// ======================
	// EXTERNALS
	// ======================
	var mailer services.Mailer
	if cfg.Mail.ResendAPIKey != "" {
		mailer, err = resend.NewResendMailer(cfg.Mail.ResendAPIKey, cfg.Mail.From)
		if err != nil {
			log.Fatal(err)
		}
	} else if cfg.IsProduction() {
		log.Fatal("RESEND_API_KEY is required in production")
	} else {
		mailer = devMailer{}
	}

	var geocoder services.Geocoder
	if cfg.Geo.MapQuestAPIKey != "" {
		geocoder, err = mapquest.NewMapQuestGeocoder(cfg.Geo.MapQuestAPIKey)
		if err != nil {
			log.Fatal(err)
		}
	} else if cfg.IsProduction() {
		log.Fatal("MAPQUEST_API_KEY is required in production")
	} else {
		geocoder = devGeocoder{}
	}

	// ======================
	// REPOSITORIES
	// ======================
	accountRepo := repository.NewAccountRepository(database)
	bootcampRepo := repository.NewBootcampRepository(database)
	courseRepo := repository.NewCourseRepository(database)
	reviewRepo := repository.NewReviewRepository(database)

	// ======================
	// SERVICES
	// ======================
	jwtManager := middleware.NewJWTManager(cfg.Auth, accountRepo)
	authSvc := services.NewAuthService(accountRepo, mailer, jwtManager, cfg.BaseURL, cfg.Auth.ResetTokenExpire)
	bootcampSvc := services.NewBootcampService(bootcampRepo, courseRepo, reviewRepo, geocoder, cfg.Upload)
	courseSvc := services.NewCourseService(courseRepo, bootcampRepo)
	reviewSvc := services.NewReviewService(reviewRepo, bootcampRepo)
	userSvc := services.NewUserService(accountRepo)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	e.Static("/uploads", cfg.Upload.Path)

	api := e.Group("/api/v1")
	uploadLimit := echomw.BodyLimit(strconv.FormatInt(cfg.Upload.MaxSize, 10))

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAuthRoutes(api, cfg, authSvc, jwtManager)
	registerBootcampRoutes(api, bootcampSvc, jwtManager, uploadLimit)
	registerCourseRoutes(api, courseSvc, jwtManager)
	registerReviewRoutes(api, reviewSvc, jwtManager)
	registerUserRoutes(api, userSvc, jwtManager)

	// ======================
	// SERVER
	// ======================
	log.Printf("listening in %s mode on port %d", cfg.Env, cfg.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}

// devMailer stands in for Resend during local development: the reset link
// is logged instead of emailed.
type devMailer struct{}

func (devMailer) SendPasswordResetEmail(_ context.Context, to, resetURL string) error {
	log.Printf("[dev mailer] password reset for %s: %s", to, resetURL)
	return nil
}

// devGeocoder fails radius searches until a MapQuest key is configured.
type devGeocoder struct{}

func (devGeocoder) Geocode(context.Context, string) (float64, float64, error) {
	return 0, 0, fmt.Errorf("geocoding is not configured (set MAPQUEST_API_KEY)")
}
