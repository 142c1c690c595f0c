// Package metrics exposes prometheus collectors for the estimator. The
// binaries only serve them when a metrics address is configured; the
// collectors themselves are always registered so library callers can
// scrape via the default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/23skdu/moe-gauge/internal/estimate"
)

var (
	EstimatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moegauge_estimates_total",
		Help: "Number of estimates computed, by precision",
	}, []string{"precision"})

	ConfigLoadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moegauge_config_load_errors_total",
		Help: "Number of rejected configuration documents",
	})

	ModelWeightsBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moegauge_model_weights_bytes",
		Help: "Model weight footprint of the last estimate",
	})

	KVCacheBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moegauge_kv_cache_bytes",
		Help: "KV cache footprint of the last estimate",
	})

	TotalBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moegauge_total_bytes",
		Help: "Combined memory footprint of the last estimate",
	})

	PrefillFLOPs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moegauge_prefill_flops",
		Help: "Prefill FLOPs of the last estimate",
	})

	DecodeFLOPs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moegauge_decode_flops",
		Help: "Decode FLOPs per token of the last estimate",
	})
)

// Observe records one computed estimate.
func Observe(r estimate.Result) {
	EstimatesTotal.WithLabelValues(r.Precision.String()).Inc()
	ModelWeightsBytes.Set(r.WeightsBytes)
	KVCacheBytes.Set(r.KVCacheBytes)
	TotalBytes.Set(r.TotalBytes)
	PrefillFLOPs.Set(r.PrefillFLOPs)
	DecodeFLOPs.Set(r.DecodeFLOPs)
}

// Serve blocks serving /metrics on addr.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
