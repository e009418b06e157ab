package main

import (
	"net/http"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/middleware"
	"BootcampAPI/internal/model"
	"BootcampAPI/internal/services"

	"github.com/labstack/echo/v4"
)

func listReviews(svc *services.ReviewService) echo.HandlerFunc {
	return func(c echo.Context) error {
		result, err := svc.List(c.Request().Context(), c.QueryParams(), nil)
		if err != nil {
			return err
		}
		return respondList(c, result)
	}
}

func listBootcampReviews(svc *services.ReviewService) echo.HandlerFunc {
	return func(c echo.Context) error {
		bootcampID, err := paramID(c, "bootcampId")
		if err != nil {
			return err
		}
		result, err := svc.List(c.Request().Context(), c.QueryParams(), &bootcampID)
		if err != nil {
			return err
		}
		return respondList(c, result)
	}
}

func getReview(svc *services.ReviewService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		review, err := svc.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, review)
	}
}

func addReview(svc *services.ReviewService) echo.HandlerFunc {
	return func(c echo.Context) error {
		bootcampID, err := paramID(c, "bootcampId")
		if err != nil {
			return err
		}
		review := new(model.Review)
		if err := c.Bind(review); err != nil {
			return apperror.NewValidation("invalid request body")
		}
		created, err := svc.Create(c.Request().Context(), middleware.GetAccount(c), bootcampID, review)
		if err != nil {
			return err
		}
		return respond(c, http.StatusCreated, created)
	}
}

func updateReview(svc *services.ReviewService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		fields := map[string]any{}
		if err := c.Bind(&fields); err != nil {
			return apperror.NewValidation("invalid request body")
		}
		review, err := svc.Update(c.Request().Context(), middleware.GetAccount(c), id, fields)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, review)
	}
}

func deleteReview(svc *services.ReviewService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Delete(c.Request().Context(), middleware.GetAccount(c), id); err != nil {
			return err
		}
		return respond(c, http.StatusOK, echo.Map{})
	}
}

func registerReviewRoutes(g *echo.Group, svc *services.ReviewService, jwt *middleware.JWTManager) {
	review := []echo.MiddlewareFunc{jwt.Protect(), middleware.Authorize(model.RoleUser, model.RoleAdmin)}

	reviews := g.Group("/reviews")
	reviews.GET("", listReviews(svc))
	reviews.GET("/:id", getReview(svc))
	reviews.PUT("/:id", updateReview(svc), review...)
	reviews.DELETE("/:id", deleteReview(svc), review...)

	// nested under a bootcamp
	g.GET("/bootcamps/:bootcampId/reviews", listBootcampReviews(svc))
	g.POST("/bootcamps/:bootcampId/reviews", addReview(svc), review...)
}
