package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"agency-backend/internal/apperr"
	"agency-backend/internal/models"
)

// respondError writes err with the status of its kind. Internal causes are logged and
// replaced with a generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	appErr := apperr.From(err)
	if appErr.Kind == apperr.KindInternal && logger != nil {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.Error(err)
	c.JSON(appErr.HTTPStatus(), appErr.ToHTTPError())
}

func pathUUID(c *gin.Context, param, what string) (uuid.UUID, bool) {
	return parseUUID(c, c.Param(param), what)
}

// parseUUID writes a 400 when raw is not a UUID.
func parseUUID(c *gin.Context, raw, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid " + what + " id"})
		return uuid.Nil, false
	}
	return id, true
}

func badRequest(c *gin.Context, message string, err error) {
	resp := models.ErrorResponse{Error: message}
	if err != nil {
		resp.Message = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

func managerUnavailable(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
}
