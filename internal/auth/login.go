package auth

import "encoding/json"

// LoginRequest is the credential exchange sent to the upstream API
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TenantInfo is the optional tenant object on a login response
type TenantInfo struct {
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	APIBaseURL string `json:"api_base_url,omitempty"`
}

// LoginResponse is the upstream authentication response. User is passed
// through untouched.
type LoginResponse struct {
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
	User    json.RawMessage `json:"user,omitempty"`
	Tenant  *TenantInfo     `json:"tenant,omitempty"`
	Message string          `json:"message,omitempty"`
}
