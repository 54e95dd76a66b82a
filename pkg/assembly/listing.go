package assembly

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Listing is a seekable, line-oriented view of an assembly listing.
// Extract and PrintAll read from the current position, which a successful
// Extract leaves just past the block it copied; call Rewind between passes.
type Listing struct {
	name   string
	rs     io.ReadSeeker
	br     *bufio.Reader
	closer io.Closer
}

// NewListing wraps rs. name is only used in messages.
func NewListing(name string, rs io.ReadSeeker) *Listing {
	return &Listing{name: name, rs: rs, br: bufio.NewReader(rs)}
}

// Open opens the listing file at path.
func Open(path string) (*Listing, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open listing: %w", err)
	}
	l := NewListing(path, file)
	l.closer = file
	return l, nil
}

// Name returns the listing's file name.
func (l *Listing) Name() string {
	return l.name
}

// Rewind moves the read position back to the first line.
func (l *Listing) Rewind() error {
	if _, err := l.rs.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", l.name, err)
	}
	l.br.Reset(l.rs)
	return nil
}

// Extract writes the block of symbol to w. See Extract.
func (l *Listing) Extract(w io.Writer, symbol string) (bool, error) {
	return Extract(l.br, w, symbol)
}

// PrintAll writes the rest of the listing to w. See PrintAll.
func (l *Listing) PrintAll(w io.Writer) error {
	return PrintAll(w, l.br)
}

// Labels returns every function label in the listing. The whole listing is
// scanned and the position is left at the start.
func (l *Listing) Labels() ([]string, error) {
	if err := l.Rewind(); err != nil {
		return nil, err
	}
	labels, err := ScanLabels(l.br)
	if err != nil {
		return labels, err
	}
	return labels, l.Rewind()
}

// Close releases the underlying file, if any.
func (l *Listing) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
