package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports whether the two backing stores answer a ping. The payload
// is deliberately coarse ("connected"/"error" per store) and carries no DSNs
// or topology.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbOK := false
		if sqlDB, err := db.DB(); err == nil {
			dbOK = sqlDB.PingContext(ctx) == nil
		}
		redisOK := rdb.Ping(ctx).Err() == nil

		code := http.StatusOK
		if !dbOK || !redisOK {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"ok":    dbOK && redisOK,
			"db":    storeStatus(dbOK),
			"redis": storeStatus(redisOK),
		})
	}
}

func storeStatus(ok bool) string {
	if ok {
		return "connected"
	}
	return "error"
}
