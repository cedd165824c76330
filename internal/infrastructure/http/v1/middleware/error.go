package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carrest/internal/core/apperror"
	"carrest/internal/infrastructure/http/v1/dto"
	"carrest/pkg/logger"
)

// internalMessage is the only text clients see for unexpected failures.
const internalMessage = "Internal server error"

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Get last error
		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		ctx := c.Request.Context()

		appErr, ok := apperror.AsAppError(err)
		if !ok {
			logger.Error(ctx, "unhandled error", "error", err)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				StatusCode: http.StatusInternalServerError,
				Message:    internalMessage,
			})
			return
		}

		message := appErr.Message
		if appErr.Code == apperror.CodeInternal {
			logger.Error(ctx, "request failed",
				"code", appErr.Code,
				"cause", appErr.Err,
				"details", appErr.Details,
			)
			message = internalMessage
		} else if appErr.Err != nil {
			logger.Debug(ctx, "request rejected",
				"code", appErr.Code,
				"cause", appErr.Err,
			)
		}

		c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
			StatusCode: appErr.HTTPStatus,
			Message:    message,
		})
	}
}

// NoRoute renders unknown paths in the error body format.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			StatusCode: http.StatusNotFound,
			Message:    "No handler found for " + c.Request.Method + " " + c.Request.URL.Path,
		})
	}
}
