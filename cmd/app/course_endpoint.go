package main

import (
	"net/http"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/middleware"
	"BootcampAPI/internal/model"
	"BootcampAPI/internal/services"

	"github.com/labstack/echo/v4"
)

func listCourses(svc *services.CourseService) echo.HandlerFunc {
	return func(c echo.Context) error {
		result, err := svc.List(c.Request().Context(), c.QueryParams(), nil)
		if err != nil {
			return err
		}
		return respondList(c, result)
	}
}

func listBootcampCourses(svc *services.CourseService) echo.HandlerFunc {
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

func getCourse(svc *services.CourseService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		course, err := svc.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, course)
	}
}

func addCourse(svc *services.CourseService) echo.HandlerFunc {
	return func(c echo.Context) error {
		bootcampID, err := paramID(c, "bootcampId")
		if err != nil {
			return err
		}
		course := new(model.Course)
		if err := c.Bind(course); err != nil {
			return apperror.NewValidation("invalid request body")
		}
		created, err := svc.Create(c.Request().Context(), middleware.GetAccount(c), bootcampID, course)
		if err != nil {
			return err
		}
		return respond(c, http.StatusCreated, created)
	}
}

func updateCourse(svc *services.CourseService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		fields := map[string]any{}
		if err := c.Bind(&fields); err != nil {
			return apperror.NewValidation("invalid request body")
		}
		course, err := svc.Update(c.Request().Context(), middleware.GetAccount(c), id, fields)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, course)
	}
}

func deleteCourse(svc *services.CourseService) echo.HandlerFunc {
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

func registerCourseRoutes(g *echo.Group, svc *services.CourseService, jwt *middleware.JWTManager) {
	publish := []echo.MiddlewareFunc{jwt.Protect(), middleware.Authorize(model.RolePublisher, model.RoleAdmin)}

	courses := g.Group("/courses")
	courses.GET("", listCourses(svc))
	courses.GET("/:id", getCourse(svc))
	courses.PUT("/:id", updateCourse(svc), publish...)
	courses.DELETE("/:id", deleteCourse(svc), publish...)

	// nested under a bootcamp
	g.GET("/bootcamps/:bootcampId/courses", listBootcampCourses(svc))
	g.POST("/bootcamps/:bootcampId/courses", addCourse(svc), publish...)
}
