package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.VocabSize != 32000 {
		t.Errorf("expected VocabSize 32000, got %d", cfg.VocabSize)
	}
	if cfg.HiddenSize != 4096 {
		t.Errorf("expected HiddenSize 4096, got %d", cfg.HiddenSize)
	}
	if cfg.Layers != 32 {
		t.Errorf("expected Layers 32, got %d", cfg.Layers)
	}
	if cfg.Heads != 32 {
		t.Errorf("expected Heads 32, got %d", cfg.Heads)
	}
	if cfg.Experts != 8 {
		t.Errorf("expected Experts 8, got %d", cfg.Experts)
	}
	if cfg.ExpertMult != 1.25 {
		t.Errorf("expected ExpertMult 1.25, got %v", cfg.ExpertMult)
	}
	if cfg.SeqLen != 2048 {
		t.Errorf("expected SeqLen 2048, got %d", cfg.SeqLen)
	}
	if cfg.TopK != 2 {
		t.Errorf("expected TopK 2, got %d", cfg.TopK)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := Default()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"zero vocab", func(c *Config) { c.VocabSize = 0 }, true},
		{"negative hidden", func(c *Config) { c.HiddenSize = -1 }, true},
		{"zero layers", func(c *Config) { c.Layers = 0 }, true},
		{"zero heads", func(c *Config) { c.Heads = 0 }, true},
		{"zero experts", func(c *Config) { c.Experts = 0 }, true},
		{"zero mult", func(c *Config) { c.ExpertMult = 0 }, true},
		{"negative mult", func(c *Config) { c.ExpertMult = -0.5 }, true},
		{"zero seqlen", func(c *Config) { c.SeqLen = 0 }, true},
		{"zero topk", func(c *Config) { c.TopK = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func defaultMap() map[string]float64 {
	return map[string]float64{
		"V": 32000, "h": 4096, "l": 32, "a": 32,
		"N": 8, "f_mult": 1.25, "s": 2048, "top_k": 2,
	}
}

func TestFromMap(t *testing.T) {
	cfg, err := FromMap(defaultMap())
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected default-equivalent config, got %+v", cfg)
	}
}

func TestFromMapMissingField(t *testing.T) {
	for _, name := range fieldNames {
		t.Run(name, func(t *testing.T) {
			m := defaultMap()
			delete(m, name)
			_, err := FromMap(m)
			if !errors.Is(err, ErrMissingField) {
				t.Errorf("expected ErrMissingField for dropped %q, got %v", name, err)
			}
		})
	}
}

func TestFromMapUnknownField(t *testing.T) {
	m := defaultMap()
	m["dropout"] = 0.1
	_, err := FromMap(m)
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestFromJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name: "valid",
			data: `{"V":32000,"h":4096,"l":32,"a":32,"N":8,"f_mult":1.25,"s":2048,"top_k":2}`,
		},
		{
			name:    "malformed json",
			data:    `{"V":32000,`,
			wantErr: ErrMalformedConfig,
		},
		{
			name:    "non-numeric value",
			data:    `{"V":"32000","h":4096,"l":32,"a":32,"N":8,"f_mult":1.25,"s":2048,"top_k":2}`,
			wantErr: ErrMalformedConfig,
		},
		{
			name:    "missing field",
			data:    `{"V":32000,"h":4096,"l":32,"a":32,"N":8,"f_mult":1.25,"s":2048}`,
			wantErr: ErrMissingField,
		},
		{
			name:    "extra field",
			data:    `{"V":32000,"h":4096,"l":32,"a":32,"N":8,"f_mult":1.25,"s":2048,"top_k":2,"extra":1}`,
			wantErr: ErrUnknownField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := FromJSON([]byte(tt.data))
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("FromJSON() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if cfg != (Config{}) {
				t.Errorf("rejection must not return a partial config, got %+v", cfg)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	orig, err := FromMap(defaultMap())
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	back, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if back != orig {
		t.Errorf("round trip changed config: %+v != %+v", back, orig)
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	data := `{"V":50257,"h":2048,"l":24,"a":16,"N":4,"f_mult":2.0,"s":1024,"top_k":1}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	if cfg.VocabSize != 50257 || cfg.HiddenSize != 2048 || cfg.TopK != 1 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}
