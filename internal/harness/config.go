// Package harness runs the extractor against the listing cases under
// testdata/listings, each described by an expected.yaml.
package harness

// Roles name the kernel whose symbol an extraction looks up.
const (
	RoleScalar     = "scalar"
	RoleVectorized = "vectorized"
)

// Extraction is one expected Extract call. Exactly one of Role and Symbol
// is set; a Role is resolved through the case's convention.
type Extraction struct {
	Role   string `yaml:"role,omitempty"`
	Symbol string `yaml:"symbol,omitempty"`

	// Found is the expected return value of Extract.
	Found bool `yaml:"found"`

	// Golden names a file, relative to the case directory, holding the
	// expected block without its header. Required when Found is true.
	Golden string `yaml:"golden,omitempty"`
}

// TestCase represents a single listing scenario.
type TestCase struct {
	// Dir is the directory containing the listing.
	Dir string `yaml:"-"`

	// Listing is the listing file name, relative to Dir.
	Listing string `yaml:"listing"`

	// Convention selects symbol names for role-based extractions.
	Convention string `yaml:"convention,omitempty"`

	// Extractions run in order over one listing, rewound before each.
	Extractions []Extraction `yaml:"extractions"`

	// Labels, when set, are the expected ScanLabels result.
	Labels []string `yaml:"labels,omitempty"`
}
