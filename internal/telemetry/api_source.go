package telemetry

import (
	"context"
	"sort"

	"github.com/evilsocket/islazy/log"

	"hvac-dashboard/internal/sensors"
)

// SensorLister is the part of the API client the source reads through
type SensorLister interface {
	ListSensorStatus(ctx context.Context) ([]sensors.Record, error)
}

// APISource reads sensors from the upstream API. Tenant scoping comes from
// the client's base URL, so tenantID is only used for logging.
type APISource struct {
	client SensorLister
}

// NewAPISource creates a source over the shared API client
func NewAPISource(client SensorLister) *APISource {
	return &APISource{client: client}
}

func (s *APISource) Name() string { return "api" }

func (s *APISource) Sensors(ctx context.Context, tenantID string) ([]sensors.Record, error) {
	records, err := s.client.ListSensorStatus(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Tag < records[j].Tag
	})

	log.Debug("fetched %d sensors for tenant %s", len(records), tenantID)
	return records, nil
}
