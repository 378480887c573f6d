package server

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/container/errors"
)

// RespondWithError writes err as an error envelope. Non-AppErrors become
// INTERNAL_ERROR.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK writes data as a 200 JSON body.
func RespondOK(c *gin.Context, data any) {
	c.JSON(200, data)
}
