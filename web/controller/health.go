package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/resalelab/carprice/config"
	"github.com/resalelab/carprice/database"
	"github.com/resalelab/carprice/estimator"
	"github.com/resalelab/carprice/web/entity"
	"github.com/resalelab/carprice/web/service"
)

// HealthController reports database and model availability.
type HealthController struct {
	predictionService service.PredictionService
}

func NewHealthController(g *gin.RouterGroup) *HealthController {
	a := &HealthController{}
	g.GET("/health", a.health)
	return a
}

// health answers 503 only when the database is down; a missing model leaves
// the app usable for login and history and is reported as degraded.
func (a *HealthController) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	h := entity.Health{
		Status:       "ok",
		Version:      config.GetVersion(),
		Database:     database.Ping(ctx) == nil,
		ModelLoaded:  estimator.Available(),
		ModelVersion: a.predictionService.ModelVersion(),
	}
	status := http.StatusOK
	switch {
	case !h.Database:
		h.Status = "unavailable"
		status = http.StatusServiceUnavailable
	case !h.ModelLoaded:
		h.Status = "degraded"
	}
	c.JSON(status, h)
}
