package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"hvac-dashboard/internal/common"
)

func TestStatusFor(t *testing.T) {
	cases := map[common.ErrorCode]int{
		common.ErrInvalidInput:       http.StatusBadRequest,
		common.ErrUnauthorized:       http.StatusUnauthorized,
		common.ErrExpiredSession:     http.StatusUnauthorized,
		common.ErrNoTenant:           http.StatusUnauthorized,
		common.ErrNotFound:           http.StatusNotFound,
		common.ErrNetworkFailure:     http.StatusBadGateway,
		common.ErrUpstream:           http.StatusBadGateway,
		common.ErrStorageUnavailable: http.StatusServiceUnavailable,
		common.ErrInternal:           http.StatusInternalServerError,
	}

	for code, want := range cases {
		assert.Equal(t, want, statusFor(code), "code %d", code)
	}
}
