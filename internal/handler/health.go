package handler

import (
	"net/http"

	"github.com/chris1983admin/quimexar/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health responde el chequeo de vida para el balanceador. Además de vivo/no
// vivo informa el estado de las dependencias y la profundidad de las DLQ,
// que es lo primero que se mira cuando dejan de salir facturas por email.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		estado := http.StatusOK
		deps := gin.H{"postgres": "ok", "redis": "ok"}

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			deps["postgres"] = "down"
			estado = http.StatusServiceUnavailable
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			deps["redis"] = "down"
			estado = http.StatusServiceUnavailable
		}

		dlq := gin.H{}
		for _, cola := range []string{worker.QueueFacturacion, worker.QueueEmail} {
			if n, err := worker.DLQLength(ctx, rdb, cola); err == nil {
				dlq[cola] = n
			}
		}

		c.JSON(estado, gin.H{"status": "ok", "deps": deps, "dlq": dlq})
	}
}
