package handlers

import (
	"net/http"

	"slotcal/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency check.
func HealthHandler(monitor *utils.HealthMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if monitor == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		status := monitor.Status()
		code, label := http.StatusOK, "ok"
		if !status.Healthy() {
			code, label = http.StatusServiceUnavailable, "degraded"
		}
		c.JSON(code, gin.H{"status": label, "checks": status})
	}
}
