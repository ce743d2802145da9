package server

import (
	"time"

	"github.com/evilsocket/islazy/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hvac-dashboard/internal/common"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestID tags every request with an id, reusing the caller's when given
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLog logs one line per request through the dashboard logger
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("%s %s -> %d in %s [%s]", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start), c.GetString(requestIDKey))
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// requireSession lets a request through only with an active tenant and an
// unexpired token. Either failure asks the user to log in again.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.session.Check(c.Request.Context()); err != nil {
			abortWithError(c, common.ErrExpiredSessionError())
			return
		}
		c.Next()
	}
}
