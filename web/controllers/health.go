package controllers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Health reports liveness plus host load so operators can spot a saturated node.
func (h *Handler) Health(c *gin.Context) {
	resp := gin.H{
		"status":     "ok",
		"uptime":     time.Since(h.StartedAt).Round(time.Second).String(),
		"goroutines": runtime.NumGoroutine(),
	}
	if pct, err := cpu.PercentWithContext(c.Request.Context(), 0, false); err == nil && len(pct) > 0 {
		resp["cpu_percent"] = pct[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(c.Request.Context()); err == nil {
		resp["memory_percent"] = vm.UsedPercent
	}
	c.JSON(http.StatusOK, resp)
}
