package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Pinger is satisfied by *pgxpool.Pool and *Mongo.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PoolStats represents Postgres connection pool statistics.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
}

func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
	}
}

type healthResponse struct {
	Status string     `json:"status"`
	Store  string     `json:"store"`
	Pool   *PoolStats `json:"pool,omitempty"`
}

// HealthHandler pings the record store. The ping error is logged, not
// returned to the caller.
func HealthHandler(driver string, p Pinger, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		resp := healthResponse{Status: "healthy", Store: driver}
		if pool, ok := p.(*pgxpool.Pool); ok {
			resp.Pool = GetPoolStats(pool)
		}

		if err := p.Ping(ctx); err != nil {
			logger.Warn().Err(err).Str("store", driver).Msg("store health check failed")
			resp.Status = "unavailable"
			return c.JSON(http.StatusServiceUnavailable, resp)
		}
		return c.JSON(http.StatusOK, resp)
	}
}
