// Package export writes precision-sweep results as an Arrow IPC file so
// downstream tooling can load them as a columnar table.
package export

import (
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/23skdu/moe-gauge/internal/estimate"
)

// Schema returns the columnar layout of a sweep export: one row per
// precision, raw byte/FLOP counts plus display units.
func Schema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "precision", Type: arrow.BinaryTypes.String},
		{Name: "weights_bytes", Type: arrow.PrimitiveTypes.Float64},
		{Name: "kv_cache_bytes", Type: arrow.PrimitiveTypes.Float64},
		{Name: "total_bytes", Type: arrow.PrimitiveTypes.Float64},
		{Name: "weights_gb", Type: arrow.PrimitiveTypes.Float64},
		{Name: "kv_cache_gb", Type: arrow.PrimitiveTypes.Float64},
		{Name: "total_gb", Type: arrow.PrimitiveTypes.Float64},
		{Name: "prefill_flops", Type: arrow.PrimitiveTypes.Float64},
		{Name: "decode_flops", Type: arrow.PrimitiveTypes.Float64},
	}, nil)
}

// NewRecord builds a single record batch holding all sweep rows. The
// caller owns the returned record and must Release it.
func NewRecord(results []estimate.Result) arrow.Record {
	b := array.NewRecordBuilder(memory.DefaultAllocator, Schema())
	defer b.Release()

	for _, r := range results {
		b.Field(0).(*array.StringBuilder).Append(r.Precision.String())
		b.Field(1).(*array.Float64Builder).Append(r.WeightsBytes)
		b.Field(2).(*array.Float64Builder).Append(r.KVCacheBytes)
		b.Field(3).(*array.Float64Builder).Append(r.TotalBytes)
		b.Field(4).(*array.Float64Builder).Append(r.WeightsGB)
		b.Field(5).(*array.Float64Builder).Append(r.KVCacheGB)
		b.Field(6).(*array.Float64Builder).Append(r.TotalGB)
		b.Field(7).(*array.Float64Builder).Append(r.PrefillFLOPs)
		b.Field(8).(*array.Float64Builder).Append(r.DecodeFLOPs)
	}

	return b.NewRecord()
}

// WriteFile writes the sweep to path in Arrow IPC file format.
func WriteFile(path string, results []estimate.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(Schema()), ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		f.Close()
		return fmt.Errorf("open arrow writer: %w", err)
	}

	rec := NewRecord(results)
	defer rec.Release()

	if err := w.Write(rec); err != nil {
		w.Close()
		f.Close()
		return fmt.Errorf("write record: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close arrow writer: %w", err)
	}
	return f.Close()
}
