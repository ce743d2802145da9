package common

import "time"

// Constants for system limits
const (
	MaxTenantSlugLength = 63
	DefaultNamespace    = "default"
	DefaultTimeout      = 30 * time.Second
)
