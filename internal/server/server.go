// Package server exposes the dashboard session and sensor list over HTTP
// and reports tenant health over gRPC.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hvac-dashboard/internal/report"
	"hvac-dashboard/internal/storage/block"
	"hvac-dashboard/internal/telemetry"
	"hvac-dashboard/internal/tenant"
)

// Deps are the components the HTTP layer drives
type Deps struct {
	Session  *tenant.Session
	Tenants  *tenant.Context
	Source   telemetry.Source
	Exporter *report.Exporter
	Storage  block.Storage
}

// Server is the dashboard's backend-for-frontend
type Server struct {
	session  *tenant.Session
	tenants  *tenant.Context
	source   telemetry.Source
	exporter *report.Exporter
	storage  block.Storage
	started  time.Time
	router   *gin.Engine
}

// New creates a server and its routes
func New(d Deps) *Server {
	s := &Server{
		session:  d.Session,
		tenants:  d.Tenants,
		source:   d.Source,
		exporter: d.Exporter,
		storage:  d.Storage,
		started:  time.Now(),
	}
	s.router = s.setupRoutes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(), cors())

	r.GET("/health", s.healthCheck)

	v1 := r.Group("/api/v1")
	v1.POST("/session", s.login)
	v1.GET("/session", s.getSession)
	v1.DELETE("/session", s.logout)

	scoped := v1.Group("", s.requireSession())
	scoped.GET("/sensors", s.listSensors)
	scoped.GET("/sensors/export", s.exportSensors)
	scoped.GET("/reports", s.listReports)
	scoped.GET("/reports/:name", s.getReport)

	return r
}
