package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"union-officer/backend/pkg/response"
)

// BodyLimit caps request bodies at maxBytes. Multipart uploads are capped at
// uploadBytes plus a small envelope allowance so handlers can report the
// file-specific error themselves.
func BodyLimit(maxBytes, uploadBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := maxBytes
		if strings.HasPrefix(c.ContentType(), "multipart/") && uploadBytes > 0 {
			limit = uploadBytes + 1<<20
		}

		if c.Request.ContentLength > limit {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}

		c.Next()
	}
}
