package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mujq1695/dev-events/internal/db"
)

// ConnectionProbe is the readiness-facing slice of the connector.
type ConnectionProbe interface {
	State() db.State
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	conn ConnectionProbe
}

func NewHealthHandler(conn ConnectionProbe) *HealthHandler {
	return &HealthHandler{conn: conn}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz reports the connector phase. It only pings a connection that is
// already up; probing readiness must not trigger the first dial.
func (h *HealthHandler) Readyz(ctx *gin.Context) {
	if h.conn == nil {
		ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}

	state := h.conn.State()

	if state != db.StateConnected {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"db":     string(state),
		})
		return
	}

	pctx, cancel := context.WithTimeout(ctx.Request.Context(), time.Second)
	defer cancel()

	if err := h.conn.Ping(pctx); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"db":     "unreachable",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"db":     string(state),
	})
}
