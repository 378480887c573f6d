package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/container/component"
	"github.com/kbukum/container/container"
	"github.com/kbukum/container/version"
)

// HealthSource reports the health of running components.
type HealthSource interface {
	HealthAll(ctx context.Context) []component.Health
}

// RegistryView is the read-only registry surface the admin API exposes.
type RegistryView interface {
	ID() string
	Len() int
	Entries() []container.EntryInfo
	Entry(key string) (container.EntryInfo, error)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     component.HealthStatus `json:"status"`
	Components []component.Health     `json:"components"`
	Timestamp  time.Time              `json:"timestamp"`
}

// RegistryResponse is the body of GET /registry.
type RegistryResponse struct {
	ID      string                `json:"id"`
	Count   int                   `json:"count"`
	Entries []container.EntryInfo `json:"entries"`
}

// HealthHandler serves the component health aggregate. Any unhealthy
// component turns the response into a 503.
func HealthHandler(src HealthSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		results := src.HealthAll(c.Request.Context())
		if results == nil {
			results = []component.Health{}
		}
		overall := component.Overall(results)

		status := http.StatusOK
		if overall == component.StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, HealthResponse{
			Status:     overall,
			Components: results,
			Timestamp:  time.Now().UTC(),
		})
	}
}

// RegistryHandler lists every registry entry.
func RegistryHandler(reg RegistryView) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries := reg.Entries()
		RespondOK(c, RegistryResponse{
			ID:      reg.ID(),
			Count:   len(entries),
			Entries: entries,
		})
	}
}

// EntryHandler describes the entry at the :key path parameter.
func EntryHandler(reg RegistryView) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := reg.Entry(c.Param("key"))
		if err != nil {
			RespondWithError(c, err)
			return
		}
		RespondOK(c, info)
	}
}

// InfoHandler serves build information.
func InfoHandler(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondOK(c, gin.H{
			"service": service,
			"version": version.Get(),
		})
	}
}

// RegisterAdmin mounts the admin routes on the server.
func (s *Server) RegisterAdmin(service string, health HealthSource, reg RegistryView) {
	s.engine.GET("/health", HealthHandler(health))
	s.engine.GET("/info", InfoHandler(service))
	s.engine.GET("/registry", RegistryHandler(reg))
	s.engine.GET("/registry/:key", EntryHandler(reg))
}
