// Package symbols maps a compiler naming convention to the listing symbols
// of the two add kernels.
//
// Symbol names are substrings searched for in a listing, so they are stored
// exactly as the toolchain emits them (mangled for C++ compilers).
package symbols

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"runtime"
	"slices"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Convention identifies a toolchain's symbol naming scheme.
type Convention string

const (
	// Itanium is the C++ ABI mangling used by GCC and Clang.
	Itanium Convention = "itanium"

	// MSVC is Microsoft Visual C++ decorated naming.
	MSVC Convention = "msvc"

	// Go is the `go tool objdump` naming of this module's kernels.
	Go Convention = "go"
)

// ErrUnknownConvention is returned when a convention has no entry in the table.
var ErrUnknownConvention = errors.New("unknown symbol convention")

// Names holds the listing symbols of the kernel pair.
type Names struct {
	Scalar     string `yaml:"scalar"`
	Vectorized string `yaml:"vectorized"`
}

// Table is the {convention -> names} lookup handed to the extractor.
type Table struct {
	// Default is used when no convention is requested. Empty means the
	// build target decides.
	Default Convention `yaml:"default,omitempty"`

	Conventions map[Convention]Names `yaml:"conventions"`
}

// DefaultTable returns the built-in symbol names.
func DefaultTable() *Table {
	return &Table{
		Conventions: map[Convention]Names{
			Itanium: {
				Scalar:     "_Z3addPiS_S_i",
				Vectorized: "_Z14add_vectorizedPiS_S_i",
			},
			// The scalar kernel takes __restrict pointers: MSVC encodes the
			// qualifier (PEIAH), Itanium drops it.
			MSVC: {
				Scalar:     "?add@@YAXPEIAH00H@Z",
				Vectorized: "?add_vectorized@@YAXPEAH00H@Z",
			},
			// Anchored on the TEXT header so CALL sites inside other
			// functions do not open a block.
			Go: {
				Scalar:     "TEXT github.com/715d/vecasm/pkg/kernel.Add(SB)",
				Vectorized: "TEXT github.com/715d/vecasm/pkg/kernel.addVectorizedAVX2",
			},
		},
	}
}

// BuildConvention returns the convention of the native C++ toolchain for the
// target this binary was built for.
func BuildConvention() Convention {
	return conventionFor(runtime.GOOS)
}

func conventionFor(goos string) Convention {
	if goos == "windows" {
		return MSVC
	}
	return Itanium
}

// LoadFile reads a YAML symbol table and merges it over t. Entries in the
// file replace built-in entries of the same convention; a partial entry
// keeps the built-in value for the missing field.
func (t *Table) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read symbol table: %w", err)
	}
	return t.Merge(data)
}

// Merge decodes YAML data and merges it over t.
func (t *Table) Merge(data []byte) error {
	var override Table
	if err := yaml.Unmarshal(data, &override); err != nil {
		return fmt.Errorf("parse symbol table: %w", err)
	}

	if t.Conventions == nil {
		t.Conventions = make(map[Convention]Names)
	}
	for conv, names := range override.Conventions {
		conv = normalize(conv)
		merged := t.Conventions[conv]
		if names.Scalar != "" {
			merged.Scalar = names.Scalar
		}
		if names.Vectorized != "" {
			merged.Vectorized = names.Vectorized
		}
		if merged.Scalar == "" || merged.Vectorized == "" {
			return fmt.Errorf("convention %q: both scalar and vectorized symbols are required", conv)
		}
		t.Conventions[conv] = merged
	}
	if override.Default != "" {
		t.Default = normalize(override.Default)
	}
	return nil
}

// Resolve picks the convention to use: conv when set, otherwise the table
// default, otherwise the build convention.
func (t *Table) Resolve(conv Convention) (Convention, Names, error) {
	switch {
	case conv != "":
		conv = normalize(conv)
	case t.Default != "":
		conv = t.Default
	default:
		conv = BuildConvention()
	}

	names, ok := t.Conventions[conv]
	if !ok {
		return "", Names{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownConvention, conv, strings.Join(t.Known(), ", "))
	}
	return conv, names, nil
}

// Known returns the convention names in the table, sorted.
func (t *Table) Known() []string {
	known := make([]string, 0, len(t.Conventions))
	for _, conv := range slices.Sorted(maps.Keys(t.Conventions)) {
		known = append(known, string(conv))
	}
	return known
}

func normalize(conv Convention) Convention {
	return Convention(strings.ToLower(strings.TrimSpace(string(conv))))
}
