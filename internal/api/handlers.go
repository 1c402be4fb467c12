package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartchef/backend/internal/types"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		OK:   true,
		Time: time.Now().UTC().Truncate(time.Second),
	})
}

func respondError(c *gin.Context, status int, msg string, err error) {
	resp := types.ErrorResponse{Error: msg}
	if err != nil {
		_ = c.Error(err)
		if status < http.StatusInternalServerError {
			resp.Message = err.Error()
		}
	}
	c.AbortWithStatusJSON(status, resp)
}
