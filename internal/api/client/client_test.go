package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hvac-dashboard/internal/auth"
	"hvac-dashboard/internal/common"
	"hvac-dashboard/internal/sensors"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&ClientConfig{
		BaseURL:    baseURL,
		Timeout:    5 * time.Second,
		RetryCount: 0,
	})
}

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login/", r.URL.Path)

		var req auth.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ops@acme.test", req.Email)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access":"a.b.c","refresh":"r","user":{"id":7},"tenant":{"id":"1","slug":"acme","name":"Acme"},"message":"ok"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL + "/api/")
	resp, err := c.Login(context.Background(), auth.LoginRequest{Email: "ops@acme.test", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, "a.b.c", resp.Access)
	require.NotNil(t, resp.Tenant)
	assert.Equal(t, "acme", resp.Tenant.Slug)
	assert.JSONEq(t, `{"id":7}`, string(resp.User))
}

func TestClient_LoginUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Login(context.Background(), auth.LoginRequest{Email: "x", Password: "y"})

	require.Error(t, err)
	assert.True(t, common.IsErrorCode(err, common.ErrUnauthorized))
	assert.Contains(t, err.Error(), "No active account")
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Login(context.Background(), auth.LoginRequest{})

	require.Error(t, err)
	assert.True(t, common.IsErrorCode(err, common.ErrNetworkFailure))
}

func TestClient_SetBaseURLAndToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/acme/api/sensors/status/", r.URL.Path)
		json.NewEncoder(w).Encode(SensorStatusResponse{
			Count: 1,
			Results: []sensors.Record{
				{ID: "1", Tag: "AHU-1-SAT", Status: sensors.StatusOnline, Unit: "°C"},
			},
		})
	}))
	defer server.Close()

	c := newTestClient("http://unused.invalid")
	c.SetBaseURL(server.URL + "/acme/api/")
	c.SetAccessToken("token-1")

	assert.Equal(t, server.URL+"/acme/api", c.BaseURL())

	records, err := c.ListSensorStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "AHU-1-SAT", records[0].Tag)
	assert.Equal(t, "Bearer token-1", gotAuth)
}

func TestClient_EmptyAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"refresh":"r"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Login(context.Background(), auth.LoginRequest{})
	assert.True(t, common.IsErrorCode(err, common.ErrUpstream))
}
