package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/evilsocket/islazy/log"
	"github.com/gin-gonic/gin"

	"hvac-dashboard/internal/auth"
	"hvac-dashboard/internal/common"
	"hvac-dashboard/internal/sensors"
)

const parquetContentType = "application/vnd.apache.parquet"

func (s *Server) healthCheck(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	if err := s.storage.Health(c.Request.Context()); err != nil {
		log.Warning("storage health check failed: %v", err)
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"service":   "hvac-dashboard",
		"tenant":    s.tenants.State().String(),
		"source":    s.source.Name(),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, common.ErrInvalidInputError("invalid request format"))
		return
	}
	if req.Email == "" || req.Password == "" {
		abortWithError(c, common.ErrInvalidInputError("email and password are required"))
		return
	}

	resp, err := s.session.Login(c.Request.Context(), req)
	if err != nil {
		log.Warning("login failed: %v", err)
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": resp.Message,
		"session": s.session.Info(),
	})
}

func (s *Server) getSession(c *gin.Context) {
	if err := s.session.Check(c.Request.Context()); common.IsErrorCode(err, common.ErrExpiredSession) {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.session.Info())
}

func (s *Server) logout(c *gin.Context) {
	s.session.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// fetchSensors reads the active tenant's sensors from the configured source
func (s *Server) fetchSensors(ctx context.Context) ([]sensors.Record, error) {
	id, ok := s.tenants.Active()
	if !ok {
		return nil, common.ErrNoTenantError()
	}

	key := id.TenantID
	if key == "" {
		key = id.TenantSlug
	}
	return s.source.Sensors(ctx, key)
}

func (s *Server) listSensors(c *gin.Context) {
	records, err := s.fetchSensors(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	q := sensors.ParseRawQuery(c.Request.URL.RawQuery)
	c.JSON(http.StatusOK, sensors.BuildView(records, q))
}

// exportSensors saves every sensor matching the status filter as Parquet
// and returns the file
func (s *Server) exportSensors(c *gin.Context) {
	ctx := c.Request.Context()
	records, err := s.fetchSensors(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}

	q := sensors.ParseRawQuery(c.Request.URL.RawQuery)
	filtered := sensors.Filter(records, q.Status)

	name := c.Query("name")
	if name == "" {
		name = s.exporter.FileName()
	}

	path, err := s.exporter.Save(ctx, name, filtered)
	if err != nil {
		abortWithError(c, err)
		return
	}

	data, err := s.exporter.Load(ctx, name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("X-Report-Path", path)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, parquetContentType, data)
}

func (s *Server) listReports(c *gin.Context) {
	names, err := s.exporter.List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": names})
}

func (s *Server) getReport(c *gin.Context) {
	name := c.Param("name")
	data, err := s.exporter.Load(c.Request.Context(), name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, parquetContentType, data)
}
