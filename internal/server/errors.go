package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hvac-dashboard/internal/common"
)

// statusFor maps a dashboard error code to the HTTP status returned to the
// browser
func statusFor(code common.ErrorCode) int {
	switch code {
	case common.ErrInvalidInput:
		return http.StatusBadRequest
	case common.ErrUnauthorized, common.ErrExpiredSession, common.ErrNoTenant, common.ErrMalformedToken:
		return http.StatusUnauthorized
	case common.ErrNotFound:
		return http.StatusNotFound
	case common.ErrNetworkFailure, common.ErrUpstream:
		return http.StatusBadGateway
	case common.ErrStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the error body and stops the handler chain
func abortWithError(c *gin.Context, err error) {
	code := common.CodeOf(err)

	message := err.Error()
	var dashErr *common.DashboardError
	if errors.As(err, &dashErr) {
		message = dashErr.Message
	}

	c.AbortWithStatusJSON(statusFor(code), gin.H{
		"error":      message,
		"code":       int(code),
		"request_id": c.GetString(requestIDKey),
	})
}
