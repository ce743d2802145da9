package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hvac-dashboard/internal/common"
	"hvac-dashboard/internal/sensors"
	"hvac-dashboard/internal/storage/block"
	"hvac-dashboard/internal/storage/kv"
)

func sampleRecords() []sensors.Record {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []sensors.Record{
		{ID: "1", Tag: "AHU-1-SAT", Status: sensors.StatusOnline, Unit: "°C",
			LastReading: &sensors.Reading{Value: 13.2, Timestamp: at}, AvailabilityPercent: 99.9, LastSeenAt: &at},
		{ID: "2", Tag: "AHU-1-RAT", Status: sensors.StatusOffline, Unit: "°C", AvailabilityPercent: 40},
	}
}

func TestWriteParquet_ReadBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, sampleRecords()))

	table, err := pqarrow.ReadTable(context.Background(), bytes.NewReader(buf.Bytes()),
		parquet.NewReaderProperties(memory.DefaultAllocator), pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	require.NoError(t, err)
	defer table.Release()

	assert.Equal(t, int64(2), table.NumRows())
	assert.Equal(t, int64(len(Schema.Fields())), table.NumCols())

	tags := table.Column(1).Data().Chunk(0).(*array.String)
	assert.Equal(t, "AHU-1-SAT", tags.Value(0))
	assert.Equal(t, "AHU-1-RAT", tags.Value(1))

	values := table.Column(7).Data().Chunk(0).(*array.Float64)
	assert.Equal(t, 13.2, values.Value(0))
	assert.True(t, values.IsNull(1))
}

func TestWriteParquet_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, nil))
	assert.NotZero(t, buf.Len())
}

func TestExporter_SavesIntoTenantNamespace(t *testing.T) {
	ctx := context.Background()
	backend := block.NewMemoryFS()
	store := kv.NewStore(backend, "acme")
	exporter := NewExporter(store)

	path, err := exporter.Save(ctx, "march.parquet", sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, "acme/reports/march.parquet", path)

	meta, err := backend.Stat(ctx, path)
	require.NoError(t, err)
	assert.NotZero(t, meta.Size)

	names, err := exporter.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"march.parquet"}, names)

	store.SwitchNamespace("globex")
	names, err = exporter.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestExporter_RejectsEmptyName(t *testing.T) {
	exporter := NewExporter(kv.NewStore(block.NewMemoryFS(), "acme"))

	_, err := exporter.Save(context.Background(), "../", nil)
	assert.True(t, common.IsErrorCode(err, common.ErrInvalidInput))
}

func TestExporter_FileName(t *testing.T) {
	exporter := NewExporter(kv.NewStore(block.NewMemoryFS(), "acme"))
	exporter.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

	assert.Equal(t, "sensors-20240301T123000Z.parquet", exporter.FileName())
}

func TestExporter_Load(t *testing.T) {
	ctx := context.Background()
	exporter := NewExporter(kv.NewStore(block.NewMemoryFS(), "acme"))

	_, err := exporter.Save(ctx, "a.parquet", sampleRecords())
	require.NoError(t, err)

	data, err := exporter.Load(ctx, "a.parquet")
	require.NoError(t, err)
	assert.Equal(t, "PAR1", string(data[:4]))

	_, err = exporter.Load(ctx, "missing.parquet")
	assert.True(t, common.IsErrorCode(err, common.ErrNotFound))
}
