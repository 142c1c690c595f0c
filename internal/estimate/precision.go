package estimate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPrecision indicates an unrecognized precision label. The
// calculator is strict; any interactive fallback policy belongs to the
// CLI adapter, not here.
var ErrInvalidPrecision = errors.New("invalid precision")

// Precision is a numeric storage format for model parameters.
type Precision string

const (
	Float32  Precision = "float32"
	BFloat16 Precision = "bfloat16"
	Float16  Precision = "float16"
	Int8     Precision = "int8"
	Int4     Precision = "int4"
)

// bytesPerParam is a fixed lookup table, not extensible at runtime.
var bytesPerParam = map[Precision]float64{
	Float32:  4,
	BFloat16: 2,
	Float16:  2,
	Int8:     1,
	Int4:     0.5,
}

// Precisions lists all supported formats, widest first.
func Precisions() []Precision {
	return []Precision{Float32, BFloat16, Float16, Int8, Int4}
}

// ParsePrecision resolves a label after trimming and lowercasing.
func ParsePrecision(s string) (Precision, error) {
	p := Precision(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := bytesPerParam[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPrecision, s)
	}
	return p, nil
}

// BytesPerParam returns the storage cost of one parameter.
func (p Precision) BytesPerParam() float64 {
	return bytesPerParam[p]
}

func (p Precision) String() string {
	return string(p)
}
