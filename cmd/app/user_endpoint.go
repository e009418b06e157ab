package main

import (
	"net/http"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/middleware"
	"BootcampAPI/internal/model"
	"BootcampAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func listUsers(svc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		result, err := svc.List(c.Request().Context(), c.QueryParams())
		if err != nil {
			return err
		}
		return respondList(c, result)
	}
}

func getUser(svc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		account, err := svc.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, account)
	}
}

func createUser(svc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(userRequest)
		if err := c.Bind(req); err != nil {
			return apperror.NewValidation("invalid request body")
		}
		account, err := svc.Create(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
		if err != nil {
			return err
		}
		return respond(c, http.StatusCreated, account)
	}
}

func updateUser(svc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		req := new(userRequest)
		if err := c.Bind(req); err != nil {
			return apperror.NewValidation("invalid request body")
		}
		account, err := svc.Update(c.Request().Context(), id, req.Name, req.Email, req.Role)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, account)
	}
}

func deleteUser(svc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Delete(c.Request().Context(), id); err != nil {
			return err
		}
		return respond(c, http.StatusOK, echo.Map{})
	}
}

func registerUserRoutes(g *echo.Group, svc *services.UserService, jwt *middleware.JWTManager) {
	users := g.Group("/users")
	users.Use(jwt.Protect(), middleware.Authorize(model.RoleAdmin))

	users.GET("", listUsers(svc))
	users.POST("", createUser(svc))
	users.GET("/:id", getUser(svc))
	users.PUT("/:id", updateUser(svc))
	users.DELETE("/:id", deleteUser(svc))
}
