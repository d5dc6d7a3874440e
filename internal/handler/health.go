package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reporta la disponibilidad de las dos dependencias del motor:
// postgres (libro de cupos e inventario de series) y redis (cache de
// resúmenes, cola de trabajos, locks). Sin detalles internos en el payload.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		var pgErr error
		if sqlDB, err := db.DB(); err != nil {
			pgErr = err
		} else {
			pgErr = sqlDB.PingContext(ctx)
		}
		rdErr := rdb.Ping(ctx).Err()

		estado := func(err error) string {
			if err != nil {
				return "caido"
			}
			return "ok"
		}

		status := http.StatusOK
		if pgErr != nil || rdErr != nil {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ok":       status == http.StatusOK,
			"postgres": estado(pgErr),
			"redis":    estado(rdErr),
		})
	}
}
