package assembly

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Frames written around a full listing by PrintAll.
const (
	ListingHeader = "===== full listing ====="
	ListingFooter = "===== end of listing ====="
)

// BlockHeader returns the line Extract writes when a block begins.
func BlockHeader(symbol string) string {
	return fmt.Sprintf("== %s ==", symbol)
}

// Extract copies the instruction block of symbol from r to w.
//
// Scanning starts at the current position of r. The first line containing
// symbol opens the block: a header is written, the label line itself is not.
// Every following line is copied verbatim until an empty line or a line
// holding an end-of-procedure marker, which is not copied either. Reaching
// EOF inside a block still counts as success.
//
// Matching is by substring, so "add" also opens the block of "add_vectorized".
// Only the first block is extracted and r is never rewound. When r is a
// *bufio.Reader it is left just past the terminating line, so a later call
// sees only the rest of the listing.
//
// Extract returns false, having written nothing, when symbol does not occur.
func Extract(r io.Reader, w io.Writer, symbol string) (bool, error) {
	br := lineReader(r)
	inBlock := false

	for {
		line, err := readLine(br)
		if errors.Is(err, io.EOF) {
			return inBlock, nil
		}
		if err != nil {
			return inBlock, fmt.Errorf("scan listing: %w", err)
		}

		if !inBlock {
			if !containsSymbol(line, symbol) {
				continue
			}
			inBlock = true
			if _, err := fmt.Fprintln(w, BlockHeader(symbol)); err != nil {
				return true, fmt.Errorf("write block header: %w", err)
			}
			continue
		}

		if isBlockEnd(line) {
			return true, nil
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return true, fmt.Errorf("write block line: %w", err)
		}
	}
}

// An empty symbol never matches.
func containsSymbol(line, symbol string) bool {
	return symbol != "" && strings.Contains(line, symbol)
}

// PrintAll copies every remaining line of r to w between ListingHeader and
// ListingFooter. An exhausted reader prints only the frames.
func PrintAll(w io.Writer, r io.Reader) error {
	if _, err := fmt.Fprintln(w, ListingHeader); err != nil {
		return fmt.Errorf("write listing header: %w", err)
	}

	br := lineReader(r)
	for {
		line, err := readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("scan listing: %w", err)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write listing line: %w", err)
		}
	}

	if _, err := fmt.Fprintln(w, ListingFooter); err != nil {
		return fmt.Errorf("write listing footer: %w", err)
	}
	return nil
}
