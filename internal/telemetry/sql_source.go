package telemetry

import (
	"context"
	"time"

	"github.com/evilsocket/islazy/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hvac-dashboard/internal/common"
	"hvac-dashboard/internal/sensors"
)

// DefaultTable is the table sensor snapshots are read from
const DefaultTable = "sensor_status"

// sensorRow is one row of the sensor status table
type sensorRow struct {
	ID                  string `gorm:"primary_key"`
	TenantID            string `gorm:"index"`
	Tag                 string `gorm:"index"`
	Status              string
	EquipmentID         string
	EquipmentName       string
	Type                string
	Unit                string
	ReadingValue        *float64
	ReadingAt           *time.Time
	AvailabilityPercent float64
	LastSeenAt          *time.Time
}

func (r sensorRow) toRecord() sensors.Record {
	rec := sensors.Record{
		ID:                  r.ID,
		Tag:                 r.Tag,
		Status:              sensors.StatusOffline,
		EquipmentID:         r.EquipmentID,
		EquipmentName:       r.EquipmentName,
		Type:                r.Type,
		Unit:                r.Unit,
		AvailabilityPercent: r.AvailabilityPercent,
		LastSeenAt:          r.LastSeenAt,
	}
	if sensors.Status(r.Status) == sensors.StatusOnline {
		rec.Status = sensors.StatusOnline
	}
	if r.ReadingValue != nil {
		rec.LastReading = &sensors.Reading{Value: *r.ReadingValue}
		if r.ReadingAt != nil {
			rec.LastReading.Timestamp = *r.ReadingAt
		}
	}
	return rec
}

// SQLSource reads sensors from a MySQL table shared by all tenants
type SQLSource struct {
	db    *gorm.DB
	table string
}

// OpenSQLSource connects to dsn
func OpenSQLSource(dsn, table string) (*SQLSource, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, common.NewErrorWithCause(common.ErrStorageUnavailable, "failed to connect to sensor database", err)
	}

	log.Debug("connected to the sensor database")
	return NewSQLSource(db, table), nil
}

// NewSQLSource wraps an open connection
func NewSQLSource(db *gorm.DB, table string) *SQLSource {
	if table == "" {
		table = DefaultTable
	}
	return &SQLSource{db: db, table: table}
}

func (s *SQLSource) Name() string { return "sql" }

func (s *SQLSource) Sensors(ctx context.Context, tenantID string) ([]sensors.Record, error) {
	if tenantID == "" {
		return nil, common.ErrNoTenantError()
	}

	var rows []sensorRow
	err := s.db.WithContext(ctx).
		Table(s.table).
		Where("tenant_id = ?", tenantID).
		Order("tag").
		Find(&rows).Error
	if err != nil {
		return nil, common.NewErrorWithCause(common.ErrStorageUnavailable, "failed to query sensors", err).
			WithContext("tenant", tenantID)
	}

	records := make([]sensors.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}
