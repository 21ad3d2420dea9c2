package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/chris1983admin/quimexar/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Limitador de ventana fija sobre Redis: INCR por IP con EXPIRE en la primera
// cuenta de la ventana. Si Redis no responde la request pasa igual; preferimos
// degradar el límite antes que voltear la API entera.

func rateLimit(rdb *redis.Client, prefix string, limit int, window time.Duration, mensaje string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", prefix, c.ClientIP())

		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("rate limiter: redis no disponible, dejando pasar")
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}

		if count > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(mensaje))
			return
		}
		c.Next()
	}
}

// RateLimiter limita requests por IP en toda la API.
func RateLimiter(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return rateLimit(rdb, "api", limit, window, "Demasiadas solicitudes. Intente nuevamente en un momento.")
}

// LoginRateLimiter protege el endpoint de login contra fuerza bruta:
// 20 intentos por minuto por IP.
func LoginRateLimiter(rdb *redis.Client) gin.HandlerFunc {
	return rateLimit(rdb, "login", 20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.")
}
