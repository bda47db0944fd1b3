package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/blogposts/utils"
)

// HealthController reports whether the service can reach its store.
type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController { return &HealthController{db: db} }

// Health answers {"status":"ok"} or 503 when the database does not answer a ping.
func (h *HealthController) Health(ctx *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(pingCtx)
	}
	if err != nil {
		utils.Sugar.Warnf("health check failed: %v", err)
		utils.Respond(ctx, http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	utils.Success(ctx, gin.H{"status": "ok"})
}
