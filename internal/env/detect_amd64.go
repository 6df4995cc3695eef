//go:build amd64

package env

import "golang.org/x/sys/cpu"

func detectCPU() CPU {
	switch {
	case cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW:
		return AVX512
	case cpu.X86.HasAVX2 && cpu.X86.HasFMA:
		return AVX2
	case cpu.X86.HasSSE2:
		return SSE2
	default:
		return Scalar
	}
}
