package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/rolodex/internal/apperror"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorHandler returns an echo error handler that renders AppErrors as
// {"error": type, "message": msg} with the error's status code. Echo's own
// HTTP errors (unknown route, bad method) get a type derived from their
// status; anything else is a logged 500.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(err error, c echo.Context) {
		// Don't double-write if response is already committed.
		if c.Response().Committed {
			return
		}

		var appErr *apperror.AppError
		var echoErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			if appErr.Internal != nil {
				logger.Error("request failed",
					slog.String("type", appErr.Type),
					slog.String("message", appErr.Message),
					slog.Any("internal", appErr.Internal),
					slog.String("path", c.Request().URL.Path),
				)
			}
		case errors.As(err, &echoErr):
			appErr = apperror.FromStatus(echoErr.Code, "", echoMessage(echoErr))
		default:
			logger.Error("unhandled error",
				slog.Any("error", err),
				slog.String("path", c.Request().URL.Path),
			)
			appErr = apperror.NewInternal(err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(appErr.Code)
		} else {
			writeErr = c.JSON(appErr.Code, ErrorBody{Error: appErr.Type, Message: appErr.Message})
		}
		if writeErr != nil {
			logger.Error("writing error response", slog.Any("error", writeErr))
		}
	}
}

func echoMessage(e *echo.HTTPError) string {
	if msg, ok := e.Message.(string); ok {
		return msg
	}
	if e.Message != nil {
		return fmt.Sprint(e.Message)
	}
	return http.StatusText(e.Code)
}
