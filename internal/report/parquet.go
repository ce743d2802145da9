// Package report exports sensor lists as Parquet files.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/compress"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"
	"github.com/evilsocket/islazy/log"

	"hvac-dashboard/internal/common"
	"hvac-dashboard/internal/sensors"
	"hvac-dashboard/internal/storage/kv"
)

// ReportsPrefix is where exports are kept inside a tenant namespace
const ReportsPrefix = "reports"

// Schema is the column layout of a sensor export. Timestamps are unix
// milliseconds.
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: "id", Type: arrow.BinaryTypes.String},
	{Name: "tag", Type: arrow.BinaryTypes.String},
	{Name: "status", Type: arrow.BinaryTypes.String},
	{Name: "equipment_id", Type: arrow.BinaryTypes.String},
	{Name: "equipment_name", Type: arrow.BinaryTypes.String},
	{Name: "type", Type: arrow.BinaryTypes.String},
	{Name: "unit", Type: arrow.BinaryTypes.String},
	{Name: "reading_value", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "reading_timestamp", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	{Name: "availability_percent", Type: arrow.PrimitiveTypes.Float64},
	{Name: "last_seen_at", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
}, nil)

// WriteParquet writes records to w as a single snappy-compressed row group
func WriteParquet(w io.Writer, records []sensors.Record) error {
	rec := toArrowRecord(memory.NewGoAllocator(), records)
	defer rec.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithMaxRowGroupLength(int64(common.Max(len(records), 1))),
	)

	pqWriter, err := pqarrow.NewFileWriter(Schema, w, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("failed to create Parquet writer: %w", err)
	}

	if rec.NumRows() > 0 {
		if err := pqWriter.Write(rec); err != nil {
			pqWriter.Close()
			return fmt.Errorf("failed to write record batch: %w", err)
		}
	}

	if err := pqWriter.Close(); err != nil {
		return fmt.Errorf("failed to close Parquet writer: %w", err)
	}
	return nil
}

func toArrowRecord(mem memory.Allocator, records []sensors.Record) arrow.Record {
	b := array.NewRecordBuilder(mem, Schema)
	defer b.Release()

	for _, r := range records {
		b.Field(0).(*array.StringBuilder).Append(r.ID)
		b.Field(1).(*array.StringBuilder).Append(r.Tag)
		b.Field(2).(*array.StringBuilder).Append(string(r.Status))
		b.Field(3).(*array.StringBuilder).Append(r.EquipmentID)
		b.Field(4).(*array.StringBuilder).Append(r.EquipmentName)
		b.Field(5).(*array.StringBuilder).Append(r.Type)
		b.Field(6).(*array.StringBuilder).Append(r.Unit)

		value := b.Field(7).(*array.Float64Builder)
		readingAt := b.Field(8).(*array.Int64Builder)
		if r.LastReading != nil {
			value.Append(r.LastReading.Value)
			appendMillis(readingAt, &r.LastReading.Timestamp)
		} else {
			value.AppendNull()
			readingAt.AppendNull()
		}

		b.Field(9).(*array.Float64Builder).Append(r.AvailabilityPercent)
		appendMillis(b.Field(10).(*array.Int64Builder), r.LastSeenAt)
	}

	return b.NewRecord()
}

func appendMillis(b *array.Int64Builder, t *time.Time) {
	if t == nil || t.IsZero() {
		b.AppendNull()
		return
	}
	b.Append(t.UnixMilli())
}

// Exporter saves exports into the active tenant's namespace
type Exporter struct {
	store *kv.Store
	now   func() time.Time
}

// NewExporter creates an exporter over the tenant-scoped store
func NewExporter(store *kv.Store) *Exporter {
	return &Exporter{store: store, now: time.Now}
}

// FileName returns the default export name for the current time
func (e *Exporter) FileName() string {
	return fmt.Sprintf("sensors-%s.parquet", e.now().UTC().Format("20060102T150405Z"))
}

// Save writes records as name under reports/ and returns the full backend
// path
func (e *Exporter) Save(ctx context.Context, name string, records []sensors.Record) (string, error) {
	name = common.SanitizeKey(name)
	if name == "" {
		return "", common.ErrInvalidInputError("report name is required")
	}

	var buf bytes.Buffer
	if err := WriteParquet(&buf, records); err != nil {
		return "", common.NewErrorWithCause(common.ErrInternal, "failed to encode report", err)
	}

	key := common.JoinKey(ReportsPrefix, name)
	if err := e.store.Set(ctx, key, buf.Bytes()); err != nil {
		return "", err
	}

	path := e.store.Path(key)
	log.Info("📦 exported %d sensors to %s (%d bytes)", len(records), path, buf.Len())
	return path, nil
}

// List returns the names of saved reports in the active namespace
func (e *Exporter) List(ctx context.Context) ([]string, error) {
	keys, err := e.store.Keys(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, k := range keys {
		if strings.HasPrefix(k, ReportsPrefix+"/") {
			names = append(names, strings.TrimPrefix(k, ReportsPrefix+"/"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load returns a saved report from the active namespace
func (e *Exporter) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := e.store.Get(ctx, common.JoinKey(ReportsPrefix, common.SanitizeKey(name)))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, common.ErrNotFoundError("report not found").WithContext("name", name)
		}
		return nil, err
	}
	return data, nil
}
