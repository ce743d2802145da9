package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hvac-dashboard/internal/common"
)

// Payload is the decoded body of a session token. Only the fields the
// dashboard reads are lifted out; everything else stays in Claims.
type Payload struct {
	Exp        int64
	TenantID   string
	TenantSlug string
	TenantName string
	Claims     jwt.MapClaims
}

// HasTenant reports whether the token carries enough to identify a tenant
func (p *Payload) HasTenant() bool {
	return p != nil && p.TenantSlug != ""
}

// ExpiresAt returns the expiry as a time, or the zero time when absent
func (p *Payload) ExpiresAt() time.Time {
	if p == nil || p.Exp == 0 {
		return time.Time{}
	}
	return time.Unix(p.Exp, 0)
}

// segmentDecoder restores missing base64 padding before decoding
var segmentDecoder = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeToken reads the payload segment of a session token without
// verifying its signature. Any structural or parse failure is reported as
// ErrMalformedToken; callers treat that as "no tenant info available".
func DecodeToken(token string) (*Payload, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[1] == "" {
		return nil, common.NewError(common.ErrMalformedToken, "token must have three segments")
	}

	raw, err := segmentDecoder.DecodeSegment(parts[1])
	if err != nil {
		return nil, common.NewErrorWithCause(common.ErrMalformedToken, "failed to decode token payload", err)
	}

	claims := jwt.MapClaims{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&claims); err != nil {
		return nil, common.NewErrorWithCause(common.ErrMalformedToken, "failed to parse token payload", err)
	}

	payload := &Payload{
		TenantID:   stringClaim(claims, "tenant_id"),
		TenantSlug: stringClaim(claims, "tenant_slug"),
		TenantName: stringClaim(claims, "tenant_name"),
		Claims:     claims,
	}

	// a non-numeric exp leaves Exp at zero, which IsSessionValid rejects
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		payload.Exp = exp.Unix()
	}

	return payload, nil
}

// IsSessionValid reports whether token decodes and its exp is after now.
// Tokens without exp are never valid.
func IsSessionValid(token string, now time.Time) bool {
	payload, err := DecodeToken(token)
	if err != nil {
		return false
	}
	if payload.Exp == 0 {
		return false
	}
	return now.Before(payload.ExpiresAt())
}

func stringClaim(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
