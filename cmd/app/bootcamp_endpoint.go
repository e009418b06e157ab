package main

import (
	"net/http"
	"strconv"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/middleware"
	"BootcampAPI/internal/model"
	"BootcampAPI/internal/services"

	"github.com/labstack/echo/v4"
)

func listBootcamps(svc *services.BootcampService) echo.HandlerFunc {
	return func(c echo.Context) error {
		result, err := svc.List(c.Request().Context(), c.QueryParams())
		if err != nil {
			return err
		}
		return respondList(c, result)
	}
}

func getBootcamp(svc *services.BootcampService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		bootcamp, err := svc.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, bootcamp)
	}
}

func createBootcamp(svc *services.BootcampService) echo.HandlerFunc {
	return func(c echo.Context) error {
		bootcamp := new(model.Bootcamp)
		if err := c.Bind(bootcamp); err != nil {
			return apperror.NewValidation("invalid request body")
		}
		created, err := svc.Create(c.Request().Context(), middleware.GetAccount(c), bootcamp)
		if err != nil {
			return err
		}
		return respond(c, http.StatusCreated, created)
	}
}

func updateBootcamp(svc *services.BootcampService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		fields := map[string]any{}
		if err := c.Bind(&fields); err != nil {
			return apperror.NewValidation("invalid request body")
		}
		bootcamp, err := svc.Update(c.Request().Context(), middleware.GetAccount(c), id, fields)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, bootcamp)
	}
}

func deleteBootcamp(svc *services.BootcampService) echo.HandlerFunc {
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

func bootcampsInRadius(svc *services.BootcampService) echo.HandlerFunc {
	return func(c echo.Context) error {
		distance, err := strconv.ParseFloat(c.Param("distance"), 64)
		if err != nil {
			return apperror.NewValidation("distance must be a number")
		}
		bootcamps, err := svc.InRadius(c.Request().Context(), c.Param("zipcode"), distance)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"count":   len(bootcamps),
			"data":    bootcamps,
		})
	}
}

func uploadBootcampPhoto(svc *services.BootcampService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		file, err := c.FormFile("file")
		if err != nil {
			return apperror.NewValidation("please upload a file")
		}
		filename, err := svc.UploadPhoto(c.Request().Context(), middleware.GetAccount(c), id, file)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, filename)
	}
}

func registerBootcampRoutes(g *echo.Group, svc *services.BootcampService, jwt *middleware.JWTManager, uploadLimit echo.MiddlewareFunc) {
	bootcamps := g.Group("/bootcamps")

	// public
	bootcamps.GET("", listBootcamps(svc))
	bootcamps.GET("/:id", getBootcamp(svc))
	bootcamps.GET("/radius/:zipcode/:distance", bootcampsInRadius(svc))

	// publisher or admin; mutations additionally require ownership,
	// enforced in the service
	publish := bootcamps.Group("")
	publish.Use(jwt.Protect(), middleware.Authorize(model.RolePublisher, model.RoleAdmin))
	publish.POST("", createBootcamp(svc))
	publish.PUT("/:id", updateBootcamp(svc))
	publish.DELETE("/:id", deleteBootcamp(svc))
	publish.PUT("/:id/photo", uploadBootcampPhoto(svc), uploadLimit)
}
