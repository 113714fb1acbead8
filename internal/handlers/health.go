package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/microlend_ledger/internal/middleware"
)

const readinessTimeout = 3 * time.Second

// ReadinessCheck probes one backing service for /readyz.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func registerHealthRoutes(r *gin.Engine, checks []ReadinessCheck) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", readinessHandler(checks))
}

// readinessHandler runs every check concurrently and reports each result.
func readinessHandler(checks []ReadinessCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		var mu sync.Mutex
		results := make(map[string]string, len(checks))
		g, gctx := errgroup.WithContext(ctx)
		for _, check := range checks {
			check := check
			g.Go(func() error {
				err := check.Check(gctx)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					results[check.Name] = err.Error()
					return fmt.Errorf("%s: %w", check.Name, err)
				}
				results[check.Name] = "ok"
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			logger.Warn("Readiness check failed", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": results})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": results})
	}
}
