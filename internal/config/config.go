package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrMalformedConfig indicates the JSON document could not be decoded.
	ErrMalformedConfig = errors.New("malformed config")
	// ErrMissingField indicates a required hyperparameter key is absent.
	ErrMissingField = errors.New("missing config field")
	// ErrUnknownField indicates a key outside the hyperparameter set.
	ErrUnknownField = errors.New("unknown config field")
)

// Config holds the architectural hyperparameters of a Mixture-of-Experts
// transformer. It is constructed once from a JSON source (or defaults) and
// read-only thereafter; the estimator never mutates it.
type Config struct {
	VocabSize  int     // V
	HiddenSize int     // h
	Layers     int     // l
	Heads      int     // a
	Experts    int     // N
	ExpertMult float64 // f_mult, expert FFN width multiplier
	SeqLen     int     // s, prefill length and decode context length
	TopK       int     // experts activated per token
}

// fieldNames is the exact JSON key set; loading rejects any deviation.
var fieldNames = []string{"V", "h", "l", "a", "N", "f_mult", "s", "top_k"}

func Default() Config {
	return Config{
		VocabSize:  32000,
		HiddenSize: 4096,
		Layers:     32,
		Heads:      32,
		Experts:    8,
		ExpertMult: 1.25,
		SeqLen:     2048,
		TopK:       2,
	}
}

func (c *Config) Validate() error {
	if c.VocabSize <= 0 {
		return fmt.Errorf("invalid V: %d (must be positive)", c.VocabSize)
	}
	if c.HiddenSize <= 0 {
		return fmt.Errorf("invalid h: %d (must be positive)", c.HiddenSize)
	}
	if c.Layers <= 0 {
		return fmt.Errorf("invalid l: %d (must be positive)", c.Layers)
	}
	if c.Heads <= 0 {
		return fmt.Errorf("invalid a: %d (must be positive)", c.Heads)
	}
	if c.Experts <= 0 {
		return fmt.Errorf("invalid N: %d (must be positive)", c.Experts)
	}
	if c.ExpertMult <= 0 {
		return fmt.Errorf("invalid f_mult: %v (must be positive)", c.ExpertMult)
	}
	if c.SeqLen <= 0 {
		return fmt.Errorf("invalid s: %d (must be positive)", c.SeqLen)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("invalid top_k: %d (must be positive)", c.TopK)
	}
	return nil
}

// FromMap builds a Config from an in-memory key-value mapping. The key set
// must match the eight hyperparameter names exactly; extra or missing keys
// are rejected rather than defaulted.
func FromMap(m map[string]float64) (Config, error) {
	for _, name := range fieldNames {
		if _, ok := m[name]; !ok {
			return Config{}, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}
	for key := range m {
		if !isFieldName(key) {
			return Config{}, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
	}

	cfg := Config{
		VocabSize:  int(m["V"]),
		HiddenSize: int(m["h"]),
		Layers:     int(m["l"]),
		Heads:      int(m["a"]),
		Experts:    int(m["N"]),
		ExpertMult: m["f_mult"],
		SeqLen:     int(m["s"]),
		TopK:       int(m["top_k"]),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromJSON decodes a JSON object with the exact hyperparameter key set.
func FromJSON(data []byte) (Config, error) {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}
	return FromMap(raw)
}

// FromFile reads and decodes a JSON config document.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := FromJSON(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ToMap returns the JSON-key view of the config, the inverse of FromMap.
func (c *Config) ToMap() map[string]float64 {
	return map[string]float64{
		"V":      float64(c.VocabSize),
		"h":      float64(c.HiddenSize),
		"l":      float64(c.Layers),
		"a":      float64(c.Heads),
		"N":      float64(c.Experts),
		"f_mult": c.ExpertMult,
		"s":      float64(c.SeqLen),
		"top_k":  float64(c.TopK),
	}
}

// MarshalJSON emits the eight-key JSON object accepted by FromJSON.
func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToMap())
}

func isFieldName(key string) bool {
	for _, name := range fieldNames {
		if key == name {
			return true
		}
	}
	return false
}
