package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	yaml "gopkg.in/yaml.v3"

	"github.com/stretchr/testify/require"
)

// LoadTestCase reads dir/expected.yaml. Unknown keys are rejected so a
// misspelled field cannot silently disable a check. Dir is recorded relative
// to root, the directory the harness resolves listings against.
func LoadTestCase(t *testing.T, dir, root string) *TestCase {
	t.Helper()

	tc, err := decodeTestCase(filepath.Join(dir, "expected.yaml"))
	require.NoError(t, err)

	tc.Dir, err = filepath.Rel(root, dir)
	require.NoError(t, err)

	require.NotEmpty(t, tc.Listing, "%s: listing is required", tc.Dir)
	require.FileExists(t, filepath.Join(dir, tc.Listing))
	return tc
}

func decodeTestCase(path string) (*TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	tc := &TestCase{}
	if err := dec.Decode(tc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return tc, nil
}

// readGolden returns the lines of a golden block file. An empty file is an
// empty block.
func readGolden(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\n"), nil
}
