package handler

import (
	"errors"
	"net/http"

	"directory-service/internal/service"
	"directory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Response is the envelope for every JSON body
type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func success(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Response{Message: message, Data: data})
}

func fail(c echo.Context, status int, message string, errs any) error {
	return c.JSON(status, Response{Message: message, Errors: errs})
}

// respondError translates err into the envelope. message heads validation
// failures; other service errors use their own message. Unclassified errors
// are logged and reported as a generic 500.
func respondError(c echo.Context, message string, err error) error {
	var fields FieldErrors
	if errors.As(err, &fields) {
		return fail(c, http.StatusBadRequest, message, fields)
	}

	var se *service.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case service.KindValidation:
			field := se.Field
			if field == "" {
				field = "non_field_errors"
			}
			return fail(c, http.StatusBadRequest, message, FieldErrors{field: se.Message})
		case service.KindAuthentication:
			return fail(c, http.StatusUnauthorized, se.Message, nil)
		case service.KindAuthorization:
			return fail(c, http.StatusForbidden, se.Message, nil)
		case service.KindNotFound:
			return fail(c, http.StatusNotFound, se.Message, nil)
		case service.KindConflict:
			return fail(c, http.StatusBadRequest, se.Message, nil)
		}
	}

	logger.FromEcho(c).Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return fail(c, http.StatusInternalServerError, "internal server error", nil)
}
