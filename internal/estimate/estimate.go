// Package estimate derives the memory footprint and compute cost of a
// Mixture-of-Experts transformer from its hyperparameters and a numeric
// precision. Everything here is closed-form arithmetic: the figures are
// architectural approximations (router and embedding matrices treated as
// dense, gating overhead ignored in the decode path), kept exactly as
// derived rather than tuned against profiled runs.
package estimate

import (
	"github.com/23skdu/moe-gauge/internal/config"
)

const (
	bytesPerGB    = 1 << 30
	flopsPerTFLOP = 1e12
)

// Result is a computed-once snapshot of memory and FLOPs figures for one
// (config, precision) pair. Byte and FLOP counts are carried as float64
// since sub-byte precisions and fractional expert multipliers produce
// non-integral intermediate terms.
type Result struct {
	Precision Precision

	WeightsBytes float64
	KVCacheBytes float64
	TotalBytes   float64

	WeightsGB float64
	KVCacheGB float64
	TotalGB   float64

	PrefillFLOPs float64
	DecodeFLOPs  float64

	PrefillTFLOPs float64
	DecodeTFLOPs  float64
}

// Calculator computes estimates for a fixed model configuration. It holds
// the config by value and never mutates it; the decode path passes an
// explicit query length instead of rewriting the sequence-length field.
type Calculator struct {
	cfg config.Config
}

func NewCalculator(cfg config.Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Estimate computes the full memory and FLOPs snapshot at one precision.
func (c *Calculator) Estimate(p Precision) (Result, error) {
	if _, ok := bytesPerParam[p]; !ok {
		return Result{}, ErrInvalidPrecision
	}

	weights := c.ModelWeightsBytes(p)
	kv := c.KVCacheBytes(p)
	prefill := c.PrefillFLOPs()
	decode := c.DecodeFLOPs()

	return Result{
		Precision:     p,
		WeightsBytes:  weights,
		KVCacheBytes:  kv,
		TotalBytes:    weights + kv,
		WeightsGB:     weights / bytesPerGB,
		KVCacheGB:     kv / bytesPerGB,
		TotalGB:       (weights + kv) / bytesPerGB,
		PrefillFLOPs:  prefill,
		DecodeFLOPs:   decode,
		PrefillTFLOPs: prefill / flopsPerTFLOP,
		DecodeTFLOPs:  decode / flopsPerTFLOP,
	}, nil
}

// Memory terms. k is bytes per parameter.

// embeddingBytes covers separate input and output embedding matrices.
func (c *Calculator) embeddingBytes(k float64) float64 {
	return 2 * k * float64(c.cfg.VocabSize) * float64(c.cfg.HiddenSize)
}

func (c *Calculator) lnBytes(k float64) float64 {
	return 4 * k * float64(c.cfg.HiddenSize)
}

// attentionBytes covers the Q, K, V and O projections, each h x h plus bias.
func (c *Calculator) attentionBytes(k float64) float64 {
	h := float64(c.cfg.HiddenSize)
	return 4 * k * h * (h + 1)
}

func (c *Calculator) routerBytes(k float64) float64 {
	return k * float64(c.cfg.Experts) * (float64(c.cfg.HiddenSize) + 1)
}

// moeBytes covers the three SwiGLU projections of every expert.
func (c *Calculator) moeBytes(k float64) float64 {
	h := float64(c.cfg.HiddenSize)
	f := c.cfg.ExpertMult
	return k * float64(c.cfg.Experts) * h * (3*f*h + 2*f + 1)
}

func (c *Calculator) decoderBytes(k float64) float64 {
	return c.lnBytes(k) + c.attentionBytes(k) + c.routerBytes(k) + c.moeBytes(k)
}

// ModelWeightsBytes is the footprint of all parameters at precision p.
func (c *Calculator) ModelWeightsBytes(p Precision) float64 {
	k := p.BytesPerParam()
	return c.embeddingBytes(k) + float64(c.cfg.Layers)*c.decoderBytes(k)
}

// KVCacheBytes is the footprint of cached keys and values across all
// layers at the full sequence length.
func (c *Calculator) KVCacheBytes(p Precision) float64 {
	k := p.BytesPerParam()
	return 2 * k * float64(c.cfg.Layers) * float64(c.cfg.SeqLen) * float64(c.cfg.HiddenSize)
}

// FLOPs terms, parameterized by query length q so prefill (q = s) and
// decode (q = 1) share one set of formulas.

func (c *Calculator) embeddingFLOPs(q int) float64 {
	return 4 * float64(q) * float64(c.cfg.VocabSize) * float64(c.cfg.HiddenSize)
}

func (c *Calculator) lnFLOPs(q int) float64 {
	return 14 * float64(q) * float64(c.cfg.HiddenSize)
}

// attentionFLOPs scores q query tokens against ctx cached positions.
func (c *Calculator) attentionFLOPs(q, ctx int) float64 {
	h := float64(c.cfg.HiddenSize)
	a := float64(c.cfg.Heads)
	return float64(q) * (8*h*h + 4*float64(ctx)*h + 3*float64(ctx)*a)
}

func (c *Calculator) ropeFLOPs() float64 {
	return 0.75 * float64(c.cfg.HiddenSize)
}

func (c *Calculator) routerFLOPs(q int) float64 {
	return float64(q) * float64(c.cfg.Experts) * (2*float64(c.cfg.HiddenSize) + 3)
}

// moeFLOPs counts only the top_k activated experts per token.
func (c *Calculator) moeFLOPs(q int) float64 {
	h := float64(c.cfg.HiddenSize)
	return 2 * float64(c.cfg.TopK) * float64(q) * c.cfg.ExpertMult * h * (4*h + 3)
}

func (c *Calculator) decoderFLOPs(q, ctx int) float64 {
	return c.lnFLOPs(q) + c.attentionFLOPs(q, ctx) + c.ropeFLOPs() +
		c.routerFLOPs(q) + c.moeFLOPs(q)
}

// PrefillFLOPs processes the full sequence of s tokens at once.
func (c *Calculator) PrefillFLOPs() float64 {
	s := c.cfg.SeqLen
	return c.embeddingFLOPs(s) + float64(c.cfg.Layers)*c.decoderFLOPs(s, s)
}

// DecodeFLOPs generates one token against a cached context of length s.
func (c *Calculator) DecodeFLOPs() float64 {
	return c.embeddingFLOPs(1) + float64(c.cfg.Layers)*c.decoderFLOPs(1, c.cfg.SeqLen)
}

// Sweep estimates at every supported precision, widest first.
func (c *Calculator) Sweep() []Result {
	out := make([]Result, 0, len(Precisions()))
	for _, p := range Precisions() {
		r, err := c.Estimate(p)
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}
