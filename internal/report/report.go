// Package report renders the result of a vecasm run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/715d/vecasm/pkg/timing"
)

// Kernel is one row of the report.
type Kernel struct {
	Name   string        `json:"name"`
	Symbol string        `json:"symbol"`
	Found  bool          `json:"found"`
	Block  []string      `json:"block,omitempty"`
	Sample timing.Sample `json:"sample"`
}

// Report is everything a run produced apart from the listing text itself.
type Report struct {
	Listing        string   `json:"listing"`
	Convention     string   `json:"convention"`
	Implementation string   `json:"implementation"`
	CPU            string   `json:"cpu"`
	Extensions     []string `json:"extensions"`
	Size           int      `json:"size"`
	Kernels        []Kernel `json:"kernels"`
}

// Speedup compares the last kernel against the first.
func (r *Report) Speedup() float64 {
	if len(r.Kernels) < 2 {
		return 0
	}
	return timing.Speedup(r.Kernels[0].Sample, r.Kernels[len(r.Kernels)-1].Sample)
}

// WriteText writes a fixed-width timing table.
func WriteText(w io.Writer, r *Report) error {
	fmt.Fprintf(w, "\nlisting: %s  convention: %s  vectorized path: %s  elements: %d\n",
		r.Listing, r.Convention, r.Implementation, r.Size)
	fmt.Fprintf(w, "cpu: %s  extensions: %s\n\n", r.CPU, extensionList(r.Extensions))

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Kernel\tSymbol\tIn listing\tTime (ns)\t")
	fmt.Fprintln(tw, "------\t------\t----------\t---------\t")
	for _, k := range r.Kernels {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", k.Name, k.Symbol, yesNo(k.Found), humanize.Comma(k.Sample.Nanoseconds()))
	}
	if speedup := r.Speedup(); speedup > 0 {
		fmt.Fprintf(tw, "speedup\t\t\t%s\t\n", humanize.FtoaWithDigits(speedup, 2)+"x")
	}
	return tw.Flush()
}

func extensionList(exts []string) string {
	if len(exts) == 0 {
		return "none"
	}
	return strings.Join(exts, ",")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

type jOutput struct {
	*Report
	Speedup   float64 `json:"speedup"`
	Version   string  `json:"version"`
	Timestamp string  `json:"timestamp"`
}

// WriteJSON writes r as an indented JSON document.
func WriteJSON(w io.Writer, r *Report, version string) error {
	data, err := json.MarshalIndent(jOutput{
		Report:    r,
		Speedup:   r.Speedup(),
		Version:   version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling json output: %w", err)
	}
	_, err = fmt.Fprintln(w, strings.TrimSpace(string(data)))
	return err
}
