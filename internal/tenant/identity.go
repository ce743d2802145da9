// Package tenant decides which customer organization the dashboard talks
// to and repoints the shared API client and storage namespace at it.
package tenant

import (
	"fmt"
	"net/url"
	"regexp"

	"hvac-dashboard/internal/auth"
	"hvac-dashboard/internal/common"
)

// slugPattern is a lowercase DNS label. Slugs name both a storage
// namespace and a host label, so neither "/" nor "." may appear.
var slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// Identity is the active tenant. It is a value: a new login replaces it
// wholesale.
type Identity struct {
	TenantID   string `json:"tenant_id"`
	TenantSlug string `json:"tenant_slug"`
	TenantName string `json:"tenant_name"`
	APIBaseURL string `json:"api_base_url"`
}

// Validate checks that the identity can be applied
func (id Identity) Validate() error {
	if id.TenantSlug == "" {
		return common.ErrInvalidInputError("tenant slug is required")
	}
	if len(id.TenantSlug) > common.MaxTenantSlugLength {
		return common.ErrInvalidInputError("tenant slug is too long").WithContext("slug", id.TenantSlug)
	}
	if !slugPattern.MatchString(id.TenantSlug) {
		return common.ErrInvalidInputError("tenant slug must be a lowercase DNS label").WithContext("slug", id.TenantSlug)
	}
	if id.TenantSlug == common.DefaultNamespace {
		return common.ErrInvalidInputError("tenant slug is reserved").WithContext("slug", id.TenantSlug)
	}
	if id.APIBaseURL == "" {
		return common.ErrInvalidInputError("tenant api base url is required").WithContext("slug", id.TenantSlug)
	}
	u, err := url.Parse(id.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return common.ErrInvalidInputError("tenant api base url is not absolute").
			WithContext("slug", id.TenantSlug).WithContext("url", id.APIBaseURL)
	}
	return nil
}

// SynthesizeBaseURL builds the conventional per-tenant API origin
func SynthesizeBaseURL(slug, host string) string {
	return fmt.Sprintf("http://%s.%s/api", slug, host)
}

// Source records where a resolved identity came from
type Source int

const (
	SourceNone Source = iota
	SourceResponse
	SourceToken
	SourcePrevious
)

func (s Source) String() string {
	switch s {
	case SourceResponse:
		return "login response"
	case SourceToken:
		return "token payload"
	case SourcePrevious:
		return "previous tenant"
	default:
		return "none"
	}
}

// Resolve picks the tenant for a login. The explicit tenant object on the
// response wins, then tenant claims in the access token, then previous.
// A malformed token is not an error here; it just contributes nothing.
func Resolve(resp *auth.LoginResponse, previous *Identity, host string) (Identity, Source) {
	if resp != nil && resp.Tenant != nil && resp.Tenant.Slug != "" {
		t := resp.Tenant
		baseURL := t.APIBaseURL
		if baseURL == "" {
			baseURL = SynthesizeBaseURL(t.Slug, host)
		}
		return Identity{
			TenantID:   t.ID,
			TenantSlug: t.Slug,
			TenantName: t.Name,
			APIBaseURL: baseURL,
		}, SourceResponse
	}

	if resp != nil {
		if payload, err := auth.DecodeToken(resp.Access); err == nil && payload.HasTenant() {
			return Identity{
				TenantID:   payload.TenantID,
				TenantSlug: payload.TenantSlug,
				TenantName: payload.TenantName,
				APIBaseURL: SynthesizeBaseURL(payload.TenantSlug, host),
			}, SourceToken
		}
	}

	if previous != nil {
		return *previous, SourcePrevious
	}

	return Identity{}, SourceNone
}
