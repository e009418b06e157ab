package main

import (
	"fmt"
	"net/http"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/repository"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// respond writes the success envelope.
func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{
		"success": true,
		"data":    data,
	})
}

// respondList writes the list envelope with count and pagination.
func respondList[T any](c echo.Context, result *repository.ListResult[T]) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"count":      len(result.Items),
		"pagination": result.Pagination,
		"data":       result.Items,
	})
}

// errorHandler maps every error onto the JSON error envelope. Typed domain
// errors carry their own status; anything else is a 500 with a generic
// message, with the real error kept to the logs.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := apperror.SafeCode(err)
	message := apperror.SafeMessage(err)
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = fmt.Sprintf("%v", he.Message)
	}
	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	_ = c.JSON(code, echo.Map{
		"success": false,
		"error":   message,
	})
}

// paramID parses an object id path parameter. A malformed id reads as a
// missing resource, matching the lookup it would have failed anyway.
func paramID(c echo.Context, name string) (bson.ObjectID, error) {
	raw := c.Param(name)
	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		return bson.ObjectID{}, apperror.NewNotFound("resource not found with id of " + raw)
	}
	return id, nil
}
