package assembly

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listing.s")
	require.NoError(t, os.WriteFile(path, []byte(twoFuncListing), 0o600))

	listing, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, listing.Close()) })
	require.Equal(t, path, listing.Name())

	var out bytes.Buffer
	found, err := listing.Extract(&out, "add_vectorized")
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, listing.Rewind())
	out.Reset()
	require.NoError(t, listing.PrintAll(&out))
	require.Contains(t, out.String(), "junk\nadd:\nmov eax, 1\n")
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.s"))
	require.ErrorIs(t, err, os.ErrNotExist)
	require.ErrorContains(t, err, "open listing")
}

func TestListing_Labels(t *testing.T) {
	listing := NewListing("mem", strings.NewReader(twoFuncListing))
	t.Cleanup(func() { require.NoError(t, listing.Close()) })

	labels, err := listing.Labels()
	require.NoError(t, err)
	require.Equal(t, []string{"add", "add_vectorized"}, labels)

	// Labels leaves the listing rewound.
	var out bytes.Buffer
	found, err := listing.Extract(&out, "add:")
	require.NoError(t, err)
	require.True(t, found)
}
