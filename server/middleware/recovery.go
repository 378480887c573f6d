package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/container/errors"
	"github.com/kbukum/container/logger"
)

// Recovery turns a handler panic into a 500 with an INTERNAL_ERROR body.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("Panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
				))
				appErr := apperrors.Internal(fmt.Errorf("panic: %v", rec))
				c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			}
		}()
		c.Next()
	}
}
