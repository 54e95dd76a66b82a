package cpu

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectFeatures_Architecture(t *testing.T) {
	ResetDetection()
	f := DetectFeatures()
	require.Equal(t, runtime.GOARCH, f.Architecture)
	if runtime.GOARCH != "amd64" {
		require.False(t, f.HasAVX2)
	}
}

func TestSetForcedFeatures(t *testing.T) {
	t.Cleanup(ResetDetection)

	SetForcedFeatures(Features{HasAVX2: true})
	require.True(t, HasAVX2())

	SetForcedFeatures(Features{HasAVX2: true, ForceGeneric: true})
	require.False(t, HasAVX2(), "ForceGeneric must win over HasAVX2")

	SetForcedFeatures(Features{})
	require.False(t, HasAVX2())
}

func TestFeatures_Extensions(t *testing.T) {
	tests := []struct {
		name string
		in   Features
		want []string
	}{
		{name: "none", in: Features{}, want: nil},
		{name: "sse2 only", in: Features{HasSSE2: true}, want: []string{"sse2"}},
		{name: "all", in: Features{HasSSE2: true, HasAVX: true, HasAVX2: true}, want: []string{"sse2", "avx", "avx2"}},
		{name: "forced generic", in: Features{HasSSE2: true, HasAVX2: true, ForceGeneric: true}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.in.Extensions())
		})
	}
}
