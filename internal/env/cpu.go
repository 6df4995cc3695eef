package env

import "fmt"

// CPU identifies the instruction-set target a container is specialized for.
type CPU int

const (
	// Scalar is the portable fallback with no SIMD assumptions.
	Scalar CPU = iota

	// SSE2 is the x86-64 baseline.
	SSE2

	// AVX2 is 256-bit x86 SIMD with FMA.
	AVX2

	// AVX512 is 512-bit x86 SIMD.
	AVX512

	// NEON is 128-bit ARM SIMD.
	NEON

	// SVE is ARM scalable vectors.
	SVE
)

var cpuNames = [...]string{
	Scalar: "scalar",
	SSE2:   "sse2",
	AVX2:   "avx2",
	AVX512: "avx512",
	NEON:   "neon",
	SVE:    "sve",
}

// CPUs lists every known target in declaration order.
func CPUs() []CPU {
	return []CPU{Scalar, SSE2, AVX2, AVX512, NEON, SVE}
}

// String returns a human-readable name for the target.
func (c CPU) String() string {
	if c < 0 || int(c) >= len(cpuNames) {
		return fmt.Sprintf("cpu(%d)", int(c))
	}
	return cpuNames[c]
}

// Vector reports whether the target has wide SIMD registers worth a
// dedicated kernel variant.
func (c CPU) Vector() bool {
	switch c {
	case AVX2, AVX512, NEON, SVE:
		return true
	default:
		return false
	}
}

// ParseCPU looks a target up by its String name.
func ParseCPU(name string) (CPU, error) {
	for i, n := range cpuNames {
		if n == name {
			return CPU(i), nil
		}
	}
	return Scalar, fmt.Errorf("unknown cpu target %q", name)
}

// detected is fixed at init so that kernel selection never queries the CPU again.
var detected = detectCPU()

// Detected returns the best target supported by the running CPU.
func Detected() CPU {
	return detected
}
