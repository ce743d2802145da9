package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"hvac-dashboard/internal/api/client"
	"hvac-dashboard/internal/auth"
	"hvac-dashboard/internal/report"
	"hvac-dashboard/internal/sensors"
	"hvac-dashboard/internal/storage/block"
	"hvac-dashboard/internal/storage/kv"
	"hvac-dashboard/internal/telemetry"
	"hvac-dashboard/internal/tenant"
)

type ServerTestSuite struct {
	suite.Suite

	upstream *httptest.Server
	minter   *auth.TokenMinter
	tokenTTL time.Duration
	backend  block.Storage
	tenants  *tenant.Context
	health   *health.Server
	handler  http.Handler
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

// upstreamSensors is 62 sensors; every third one is offline
func upstreamSensors() []sensors.Record {
	records := make([]sensors.Record, 0, 62)
	for i := 0; i < 62; i++ {
		status := sensors.StatusOnline
		if i%3 == 0 {
			status = sensors.StatusOffline
		}
		records = append(records, sensors.Record{
			ID:     fmt.Sprintf("%d", i),
			Tag:    fmt.Sprintf("S-%02d", i),
			Status: status,
			Unit:   "°C",
		})
	}
	return records
}

func (s *ServerTestSuite) SetupTest() {
	s.minter = auth.NewTokenMinter([]byte("server-test-secret"), "hvac-dashboard-test", time.Hour)
	s.tokenTTL = time.Hour

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "correct" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
			return
		}

		access, err := s.minter.MintWithTTL(auth.Claims{UserID: "u-1", TenantSlug: "acme"}, s.tokenTTL)
		s.Require().NoError(err)
		json.NewEncoder(w).Encode(auth.LoginResponse{
			Access:  access,
			Refresh: "refresh-1",
			User:    json.RawMessage(`{"email":"ops@acme.test"}`),
			Tenant: &auth.TenantInfo{
				ID: "t-1", Slug: "acme", Name: "Acme",
				APIBaseURL: s.upstream.URL + "/acme/api",
			},
			Message: "welcome back",
		})
	})
	mux.HandleFunc("/acme/api/sensors/status/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(client.SensorStatusResponse{Count: 62, Results: upstreamSensors()})
	})
	s.upstream = httptest.NewServer(mux)

	api := client.NewClient(&client.ClientConfig{BaseURL: s.upstream.URL + "/api", Timeout: 5 * time.Second})
	s.backend = block.NewMemoryFS()
	store := kv.NewStore(s.backend, "default")
	s.tenants = tenant.NewContext(api, store, s.upstream.URL+"/api", "default")
	s.health = NewHealth(s.tenants)

	s.handler = New(Deps{
		Session:  tenant.NewSession(s.tenants, api, store, "example.test"),
		Tenants:  s.tenants,
		Source:   telemetry.NewAPISource(api),
		Exporter: report.NewExporter(store),
		Storage:  s.backend,
	}).Handler()
}

func (s *ServerTestSuite) TearDownTest() {
	s.upstream.Close()
}

func (s *ServerTestSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *ServerTestSuite) login() {
	w := s.do(http.MethodPost, "/api/v1/session", `{"email":"ops@acme.test","password":"correct"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *ServerTestSuite) tenantHealth() healthpb.HealthCheckResponse_ServingStatus {
	resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: TenantService})
	s.Require().NoError(err)
	return resp.Status
}

func (s *ServerTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "")

	s.Equal(http.StatusOK, w.Code)
	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("healthy", body["status"])
	s.Equal("no_tenant", body["tenant"])
	s.NotEmpty(w.Header().Get(requestIDHeader))
}

func (s *ServerTestSuite) TestRequestIDIsEchoed() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-42")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	s.Equal("req-42", w.Header().Get(requestIDHeader))
}

func (s *ServerTestSuite) TestSensorsRequireSession() {
	w := s.do(http.MethodGet, "/api/v1/sensors", "")

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "please log in again")
}

func (s *ServerTestSuite) TestLoginActivatesTenant() {
	s.Equal(healthpb.HealthCheckResponse_NOT_SERVING, s.tenantHealth())

	w := s.do(http.MethodPost, "/api/v1/session", `{"email":"ops@acme.test","password":"correct"}`)
	s.Require().Equal(http.StatusOK, w.Code)

	var body struct {
		Message string      `json:"message"`
		Session tenant.Info `json:"session"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("welcome back", body.Message)
	s.Equal("tenant_active", body.Session.State)
	s.Require().NotNil(body.Session.Tenant)
	s.Equal("acme", body.Session.Tenant.TenantSlug)
	s.Equal(healthpb.HealthCheckResponse_SERVING, s.tenantHealth())

	w = s.do(http.MethodGet, "/api/v1/session", "")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"tenant_active"`)
}

func (s *ServerTestSuite) TestLoginRejected() {
	w := s.do(http.MethodPost, "/api/v1/session", `{"email":"ops@acme.test","password":"wrong"}`)

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "No active account")
	s.Equal(tenant.NoTenant, s.tenants.State())
}

func (s *ServerTestSuite) TestLoginValidation() {
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/session", `{"email":"x"}`).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/session", `not json`).Code)
}

func (s *ServerTestSuite) TestSensorView() {
	s.login()

	w := s.do(http.MethodGet, "/api/v1/sensors?status=online&page=2", "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var view sensors.View
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &view))
	s.Equal(sensors.Summary{Total: 62, Online: 41, Offline: 21}, view.Summary)
	s.Equal(41, view.Pagination.Total)
	s.Equal(2, view.Pagination.TotalPages)
	s.Len(view.Items, 16)
	s.Equal("page=2&status=online", view.Canonical)
	s.Equal("status=online", view.Links.Prev)
	s.Empty(view.Links.Next)
}

func (s *ServerTestSuite) TestSensorViewClampsPastEnd() {
	s.login()

	w := s.do(http.MethodGet, "/api/v1/sensors?page=5", "")
	s.Require().Equal(http.StatusOK, w.Code)

	var view sensors.View
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &view))
	s.Equal(3, view.Pagination.Page)
	s.Len(view.Items, 12)
	s.Equal("S-50", view.Items[0].Tag)
}

func (s *ServerTestSuite) TestExport() {
	s.login()

	w := s.do(http.MethodGet, "/api/v1/sensors/export?status=offline&name=offline.parquet", "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(parquetContentType, w.Header().Get("Content-Type"))
	s.Equal("acme/reports/offline.parquet", w.Header().Get("X-Report-Path"))
	s.Equal("PAR1", w.Body.String()[:4])

	w = s.do(http.MethodGet, "/api/v1/reports", "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"reports":["offline.parquet"]}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/reports/"+url.PathEscape("offline.parquet"), "")
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/reports/missing.parquet", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ServerTestSuite) TestLogout() {
	s.login()

	w := s.do(http.MethodDelete, "/api/v1/session", "")
	s.Equal(http.StatusNoContent, w.Code)
	s.Equal(tenant.NoTenant, s.tenants.State())
	s.Equal(healthpb.HealthCheckResponse_NOT_SERVING, s.tenantHealth())

	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/sensors", "").Code)
}

func (s *ServerTestSuite) TestExpiredSessionIsCleared() {
	s.tokenTTL = -time.Minute
	s.login()
	s.Equal(tenant.TenantActive, s.tenants.State())

	w := s.do(http.MethodGet, "/api/v1/sensors", "")

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "please log in again")
	s.Equal(tenant.NoTenant, s.tenants.State())
	s.Equal(healthpb.HealthCheckResponse_NOT_SERVING, s.tenantHealth())
}
