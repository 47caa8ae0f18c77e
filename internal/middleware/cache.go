package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey   = "response_meta"
	cacheHitKey       = "cache_hit"
	processingTimeKey = "processing_time_ms"
)

// WithResponseMeta prepares the per-request meta map rendered in envelopes.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
		meta := ensureMeta(c)
		if _, exists := meta[processingTimeKey]; !exists {
			meta[processingTimeKey] = time.Since(start).Milliseconds()
		}
	}
}

// SetCacheHit records whether the payload was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	ensureMeta(c)[cacheHitKey] = hit
}

// SetProcessingTime records the handler processing time.
func SetProcessingTime(c *gin.Context, since time.Time) {
	ensureMeta(c)[processingTimeKey] = time.Since(since).Milliseconds()
}

// ExtractMeta returns the meta map stored on the context, or nil.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	return nil
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if meta := ExtractMeta(c); meta != nil {
		return meta
	}
	meta := make(map[string]interface{})
	if c != nil {
		c.Set(responseMetaKey, meta)
	}
	return meta
}
