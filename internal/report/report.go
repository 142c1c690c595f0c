// Package report renders estimate results as fixed-layout text. No
// business logic lives here.
package report

import (
	"fmt"
	"strings"

	"github.com/23skdu/moe-gauge/internal/estimate"
)

const separatorWidth = 60

func separator() string {
	return strings.Repeat("=", separatorWidth)
}

// Render produces the two-section report for one estimate. GB values are
// shown to 2 decimal places; decode TFLOPs get 6 places since a single
// decoded token costs orders of magnitude less than a full prefill.
func Render(r estimate.Result) string {
	var b strings.Builder
	sep := separator()

	fmt.Fprintln(&b, sep)
	fmt.Fprintln(&b, "Memory Requirements")
	fmt.Fprintln(&b, sep)
	fmt.Fprintf(&b, "Precision:      %s\n", r.Precision)
	fmt.Fprintf(&b, "Model weights:  %.2f GB\n", r.WeightsGB)
	fmt.Fprintf(&b, "KV cache:       %.2f GB\n", r.KVCacheGB)
	fmt.Fprintf(&b, "Total:          %.2f GB\n", r.TotalGB)
	fmt.Fprintln(&b, sep)
	fmt.Fprintln(&b, "FLOPs Requirements")
	fmt.Fprintln(&b, sep)
	fmt.Fprintf(&b, "Prefill:        %.2f TFLOPs\n", r.PrefillTFLOPs)
	fmt.Fprintf(&b, "Decode:         %.6f TFLOPs\n", r.DecodeTFLOPs)
	fmt.Fprintln(&b, sep)

	return b.String()
}

// RenderSweep produces one aligned row per precision.
func RenderSweep(results []estimate.Result) string {
	var b strings.Builder
	sep := separator()

	fmt.Fprintln(&b, sep)
	fmt.Fprintln(&b, "Precision Sweep")
	fmt.Fprintln(&b, sep)
	fmt.Fprintf(&b, "%-10s %12s %12s %12s %16s %16s\n",
		"precision", "weights GB", "kv GB", "total GB", "prefill TFLOPs", "decode TFLOPs")
	for _, r := range results {
		fmt.Fprintf(&b, "%-10s %12.2f %12.2f %12.2f %16.2f %16.6f\n",
			r.Precision, r.WeightsGB, r.KVCacheGB, r.TotalGB,
			r.PrefillTFLOPs, r.DecodeTFLOPs)
	}
	fmt.Fprintln(&b, sep)

	return b.String()
}
