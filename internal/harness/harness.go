package harness

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/715d/vecasm/pkg/assembly"
	"github.com/715d/vecasm/pkg/symbols"
)

// TestHarness manages test execution.
type TestHarness struct {
	// table resolves role-based extractions to symbol names
	table *symbols.Table

	// root is the root directory for test data
	root string
}

// NewHarness creates a new test harness over the built-in symbol table.
func NewHarness(root string) *TestHarness {
	return &TestHarness{
		table: symbols.DefaultTable(),
		root:  root,
	}
}

// ExtractionResult represents the outcome of one expected extraction.
type ExtractionResult struct {
	// Extraction is the expectation that was checked.
	Extraction Extraction

	// Symbol is the resolved symbol name.
	Symbol string

	// Success indicates if the extraction matched the expectation.
	Success bool

	// Details lists every mismatch.
	Details []string
}

// TestResult represents the result of running a test case.
type TestResult struct {
	// TestCase is the test case that was run.
	TestCase *TestCase

	// ExtractionResults contains one result per expected extraction.
	ExtractionResults []ExtractionResult

	// LabelDetails lists label mismatches, if labels were expected.
	LabelDetails []string

	// Success indicates if the test passed.
	Success bool

	// Message provides a summary of the result.
	Message string
}

// Run executes every extraction of a test case over one listing.
func (h *TestHarness) Run(t *testing.T, tc *TestCase) *TestResult {
	t.Helper()
	require.NotEmpty(t, tc.Extractions, "test case has no extractions")
	require.NoError(t, validateExtractions(tc))

	listing, err := assembly.Open(filepath.Join(h.root, tc.Dir, tc.Listing))
	require.NoError(t, err)
	defer listing.Close()

	result := &TestResult{TestCase: tc, Success: true}
	for _, ex := range tc.Extractions {
		require.NoError(t, listing.Rewind())
		exResult := h.runExtraction(t, tc, listing, ex)
		result.ExtractionResults = append(result.ExtractionResults, *exResult)
		if !exResult.Success {
			result.Success = false
		}
	}

	if tc.Labels != nil {
		labels, err := listing.Labels()
		require.NoError(t, err)
		result.LabelDetails = compareLines("label", tc.Labels, labels)
		if len(result.LabelDetails) > 0 {
			result.Success = false
		}
	}

	result.Message = summarize(result)
	return result
}

func (h *TestHarness) runExtraction(t *testing.T, tc *TestCase, listing *assembly.Listing, ex Extraction) *ExtractionResult {
	t.Helper()
	symbol := h.resolveSymbol(t, tc, ex)

	var out bytes.Buffer
	found, err := listing.Extract(&out, symbol)
	require.NoError(t, err)

	res := &ExtractionResult{Extraction: ex, Symbol: symbol}
	if found != ex.Found {
		res.Details = append(res.Details, fmt.Sprintf("found = %v, want %v", found, ex.Found))
	}

	if !ex.Found {
		if out.Len() > 0 {
			res.Details = append(res.Details, fmt.Sprintf("wrote %d bytes for an absent symbol", out.Len()))
		}
		res.Success = len(res.Details) == 0
		return res
	}

	header, body, _ := strings.Cut(out.String(), "\n")
	if header != assembly.BlockHeader(symbol) {
		res.Details = append(res.Details, fmt.Sprintf("header = %q, want %q", header, assembly.BlockHeader(symbol)))
	}

	want, err := readGolden(filepath.Join(h.root, tc.Dir, ex.Golden))
	require.NoError(t, err)
	got := []string{}
	if body = strings.TrimSuffix(body, "\n"); body != "" {
		got = strings.Split(body, "\n")
	}
	res.Details = append(res.Details, compareLines("line", want, got)...)
	res.Success = len(res.Details) == 0
	return res
}

func (h *TestHarness) resolveSymbol(t *testing.T, tc *TestCase, ex Extraction) string {
	t.Helper()
	if ex.Symbol != "" {
		return ex.Symbol
	}

	_, names, err := h.table.Resolve(symbols.Convention(tc.Convention))
	require.NoError(t, err)
	if ex.Role == RoleScalar {
		return names.Scalar
	}
	return names.Vectorized
}

// validateExtractions checks that every extraction names one symbol source
// and that role-based ones do not depend on the build target.
func validateExtractions(tc *TestCase) error {
	for i, ex := range tc.Extractions {
		switch {
		case ex.Symbol == "" && ex.Role == "":
			return fmt.Errorf("extraction %d: one of 'symbol' or 'role' is required", i)
		case ex.Symbol != "" && ex.Role != "":
			return fmt.Errorf("extraction %d: 'symbol' and 'role' are mutually exclusive", i)
		case ex.Role != "" && ex.Role != RoleScalar && ex.Role != RoleVectorized:
			return fmt.Errorf("extraction %d: unknown role %q", i, ex.Role)
		case ex.Role != "" && tc.Convention == "":
			return fmt.Errorf("extraction %d: 'role' requires a 'convention'", i)
		case ex.Found && ex.Golden == "":
			return fmt.Errorf("extraction %d: 'golden' is required when 'found' is true", i)
		}
	}
	return nil
}

// compareLines reports every position where got differs from want.
func compareLines(kind string, want, got []string) []string {
	var details []string
	for i := range max(len(want), len(got)) {
		switch {
		case i >= len(got):
			details = append(details, fmt.Sprintf("missing %s %d: %q", kind, i+1, want[i]))
		case i >= len(want):
			details = append(details, fmt.Sprintf("unexpected %s %d: %q", kind, i+1, got[i]))
		case want[i] != got[i]:
			details = append(details, fmt.Sprintf("%s %d: got %q, want %q", kind, i+1, got[i], want[i]))
		}
	}
	return details
}

func summarize(result *TestResult) string {
	if result.Success {
		return fmt.Sprintf("All %d extractions matched", len(result.ExtractionResults))
	}

	var msgs []string
	failed := 0
	for _, er := range result.ExtractionResults {
		if er.Success {
			continue
		}
		failed++
		msgs = append(msgs, fmt.Sprintf("[%s]\n  %s", er.Symbol, strings.Join(er.Details, "\n  ")))
	}
	if len(result.LabelDetails) > 0 {
		msgs = append(msgs, fmt.Sprintf("[labels]\n  %s", strings.Join(result.LabelDetails, "\n  ")))
	}
	return fmt.Sprintf("%d/%d extractions failed:\n%s",
		failed, len(result.ExtractionResults), strings.Join(msgs, "\n"))
}
