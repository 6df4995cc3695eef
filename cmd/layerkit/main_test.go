package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestRun_Abs(t *testing.T) {
	out, err := execute(t, "run", "--cpu", "scalar", "--layer", "abs", "--input=-2,0,3", "--grad", "1,1,1", "--shape", "1,3")
	require.NoError(t, err)
	assert.Contains(t, out, "cpu=scalar")
	assert.Contains(t, out, "value:    [2 0 3]")
	assert.Contains(t, out, "gradient: [-1 0 1]")
}

func TestRun_DefaultGradient(t *testing.T) {
	out, err := execute(t, "run", "--cpu", "avx2", "--layer", "relu", "--dtype", "float64", "--input", "1, -1, 2")
	require.NoError(t, err)
	assert.Contains(t, out, "gradient: [1 0 1]")
}

func TestRun_Predict(t *testing.T) {
	out, err := execute(t, "run", "--layer", "logistic", "--input", "0", "--predict")
	require.NoError(t, err)
	assert.Contains(t, out, "value:    [0.5]")
	assert.NotContains(t, out, "gradient")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"unknown layer", []string{"run", "--layer", "softmax", "--input", "1"}, "unknown layer"},
		{"bad dtype", []string{"run", "--dtype", "int32", "--input", "1"}, "unsupported dtype \"int32\""},
		{"bad input", []string{"run", "--input", "1,x"}, "--input"},
		{"shape mismatch", []string{"run", "--input", "1,2", "--shape", "3"}, "requires 3 elements"},
		{"gradient mismatch", []string{"run", "--input", "1,2", "--grad", "1"}, "gradient"},
		{"bad shape", []string{"run", "--input", "1", "--shape", "0"}, "invalid shape"},
		{"bad cpu", []string{"--cpu", "mmx", "version"}, "mmx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestTargets(t *testing.T) {
	out, err := execute(t, "--cpu", "neon", "targets")
	require.NoError(t, err)
	assert.Contains(t, out, "selected: neon")
	assert.Contains(t, out, "float32/0/neon")
	assert.NotContains(t, out, "float32/0/avx2")

	out, err = execute(t, "targets", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "float64/0/sve")
}

func TestParseShape(t *testing.T) {
	s, err := parseShape("2, 3")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, []int(s))
}
