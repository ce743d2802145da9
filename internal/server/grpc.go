package server

import (
	"github.com/evilsocket/islazy/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"hvac-dashboard/internal/tenant"
)

// TenantService is the health service name that is SERVING only while a
// tenant is active
const TenantService = "tenant"

// NewHealth creates a health server that follows the tenant lifecycle
func NewHealth(tenants *tenant.Context) *health.Server {
	h := health.NewServer()
	h.SetServingStatus(TenantService, tenantStatus(tenants.State()))

	tenants.OnChange(func(state tenant.State, _ *tenant.Identity) {
		log.Debug("tenant health -> %s", state)
		h.SetServingStatus(TenantService, tenantStatus(state))
	})
	return h
}

func tenantStatus(state tenant.State) healthpb.HealthCheckResponse_ServingStatus {
	if state == tenant.TenantActive {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}

// NewGRPCServer creates the gRPC server carrying the health service
func NewGRPCServer(h *health.Server) *grpc.Server {
	g := grpc.NewServer()
	healthpb.RegisterHealthServer(g, h)
	reflection.Register(g)
	return g
}
