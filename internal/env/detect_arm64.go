//go:build arm64

package env

import "golang.org/x/sys/cpu"

func detectCPU() CPU {
	switch {
	case cpu.ARM64.HasSVE:
		return SVE
	case cpu.ARM64.HasASIMD:
		return NEON
	default:
		return Scalar
	}
}
