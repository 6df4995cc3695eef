//go:build !amd64 && !arm64

package env

func detectCPU() CPU {
	return Scalar
}
