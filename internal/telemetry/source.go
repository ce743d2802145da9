// Package telemetry provides the sources sensor status snapshots are read
// from.
package telemetry

import (
	"context"

	"hvac-dashboard/internal/sensors"
)

// Source returns every sensor visible to a tenant. Implementations return
// records ordered by tag.
type Source interface {
	Sensors(ctx context.Context, tenantID string) ([]sensors.Record, error)
	Name() string
}
