package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/inventory-service/api/responses"
	"github.com/angelmondragon/inventory-service/pkg/db"
	"github.com/angelmondragon/inventory-service/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Dependency is a backing service checked by the readiness endpoint.
type Dependency struct {
	Name   string
	Pinger db.Pinger
}

// HealthLive reports that the process is serving requests.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteStatus(w, http.StatusOK, true, "Server is running")
	}
}

// HealthReady pings every dependency concurrently and answers 503 when any
// of them fails.
func HealthReady(logg *logger.Logger, deps ...Dependency) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		for _, dep := range deps {
			if dep.Pinger == nil {
				continue
			}
			dep := dep
			g.Go(func() error {
				if err := dep.Pinger.Ping(gctx); err != nil {
					return fmt.Errorf("%s: %w", dep.Name, err)
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "health.not_ready")
			}
			responses.WriteStatus(w, http.StatusServiceUnavailable, false, "Server is not ready")
			return
		}
		responses.WriteStatus(w, http.StatusOK, true, "Server is ready")
	}
}
