package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookwise/library/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// TaskQueueChecker reports whether the background queue is reachable.
type TaskQueueChecker interface {
	Ping() error
}

type HealthController struct {
	db      *database.Database
	queue   TaskQueueChecker
	version string
}

func NewHealthController(db *database.Database, queue TaskQueueChecker, version string) *HealthController {
	return &HealthController{
		db:      db,
		queue:   queue,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	// Queue failures are reported but do not make the service unhealthy.
	if h.queue != nil {
		if err := h.queue.Ping(); err != nil {
			checks["tasks"] = "error: " + err.Error()
		} else {
			checks["tasks"] = "ok"
		}
	} else {
		checks["tasks"] = "disabled"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

func (h *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
