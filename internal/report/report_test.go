package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/715d/vecasm/pkg/timing"
)

func sampleReport() *Report {
	return &Report{
		Listing:        "main.s",
		Convention:     "itanium",
		Implementation: "avx2",
		CPU:            "amd64",
		Extensions:     []string{"sse2", "avx", "avx2"},
		Size:           64,
		Kernels: []Kernel{
			{
				Name:   "add",
				Symbol: "_Z3addPiS_S_i",
				Found:  true,
				Sample: timing.Sample{Name: "add", Elapsed: 12345 * time.Nanosecond},
			},
			{
				Name:   "add_vectorized",
				Symbol: "_Z14add_vectorizedPiS_S_i",
				Sample: timing.Sample{Name: "add_vectorized", Elapsed: 5000 * time.Nanosecond},
			},
		},
	}
}

func TestWriteText(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteText(&out, sampleReport()))

	text := out.String()
	require.Contains(t, text, "listing: main.s  convention: itanium  vectorized path: avx2  elements: 64\n")
	require.Contains(t, text, "cpu: amd64  extensions: sse2,avx,avx2\n")
	require.Contains(t, text, "12,345")
	require.Contains(t, text, "5,000")
	require.Contains(t, text, "2.47x")

	var rows []string
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "_Z") {
			rows = append(rows, line)
		}
	}
	require.Len(t, rows, 2)
	require.Len(t, rows[0], len(rows[1]), "table rows must be fixed width")
	require.Contains(t, rows[0], "yes")
	require.Contains(t, rows[1], "no")
}

func TestWriteText_NoSpeedup(t *testing.T) {
	r := sampleReport()
	r.Kernels = r.Kernels[:1]
	r.Extensions = nil

	var out bytes.Buffer
	require.NoError(t, WriteText(&out, r))
	require.NotContains(t, out.String(), "speedup")
	require.Contains(t, out.String(), "extensions: none")
}

func TestWriteJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteJSON(&out, sampleReport(), "test"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	require.Equal(t, "test", doc["version"])
	require.Equal(t, "itanium", doc["convention"])
	require.Equal(t, []any{"sse2", "avx", "avx2"}, doc["extensions"])
	require.InDelta(t, 2.469, doc["speedup"], 1e-9)
	require.Len(t, doc["kernels"], 2)
}
