// Package assembly scans compiler-generated assembly listings: it extracts
// one function's instruction block verbatim, echoes whole listings, and
// lists the function labels a listing defines.
//
// The scanner is deliberately dialect-agnostic. It matches symbol names as
// substrings and only knows two end-of-procedure markers.
package assembly

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// End-of-procedure markers: MASM "name ENDP" and the GNU as CFI directive.
const (
	markerENDP    = "ENDP"
	markerEndProc = ".cfi_endproc"
)

// maxLineSize bounds a single listing line. Object dumps with long symbol
// names and raw encodings exceed bufio's 64KiB default.
const maxLineSize = 1 << 20

// Compile label patterns once at package initialization.
var (
	// Go objdump: TEXT pkg/path.func(SB) file.go
	textPattern = regexp.MustCompile(`^TEXT\s+(\S+)\(SB\)`)

	// Go compiler -S: pkg.func STEXT size=...
	stextPattern = regexp.MustCompile(`^(\S+)\s+STEXT\b`)

	// MASM: name PROC
	procPattern = regexp.MustCompile(`^(\S+)\s+PROC\b`)

	// GNU as: name: at column 0.
	gnuLabelPattern = regexp.MustCompile(`^([A-Za-z_.$?@][\w.$?@]*):`)
)

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}

// lineReader returns r itself when it is already buffered, so that read-ahead
// left over by one pass is seen by the next.
func lineReader(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}

// readLine returns the next line of br without its "\n" or "\r\n"
// terminator. It consumes exactly that line and nothing after it. A final
// line without a terminator is returned with a nil error; io.EOF follows.
func readLine(br *bufio.Reader) (string, error) {
	var line []byte
	for {
		chunk, err := br.ReadSlice('\n')
		if len(line)+len(chunk) > maxLineSize+2 {
			return "", bufio.ErrTooLong
		}
		line = append(line, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && (!errors.Is(err, io.EOF) || len(line) == 0) {
			return "", err
		}
		break
	}

	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) > maxLineSize {
		return "", bufio.ErrTooLong
	}
	return string(line), nil
}

// isBlockEnd reports whether line closes a function block.
func isBlockEnd(line string) bool {
	return line == "" ||
		strings.Contains(line, markerENDP) ||
		strings.Contains(line, markerEndProc)
}

// ScanLabels returns the function labels defined in r, in listing order and
// without duplicates. It reads r to EOF.
func ScanLabels(r io.Reader) ([]string, error) {
	var labels []string
	seen := make(map[string]struct{})
	scanner := newLineScanner(r)

	for scanner.Scan() {
		label := matchLabel(scanner.Text())
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	if err := scanner.Err(); err != nil {
		return labels, fmt.Errorf("scan labels: %w", err)
	}
	return labels, nil
}

func matchLabel(line string) string {
	for _, pattern := range []*regexp.Regexp{textPattern, stextPattern, procPattern} {
		if matches := pattern.FindStringSubmatch(line); matches != nil {
			return matches[1]
		}
	}
	if matches := gnuLabelPattern.FindStringSubmatch(line); matches != nil {
		if isLocalLabel(matches[1]) {
			return ""
		}
		return matches[1]
	}
	return ""
}

// isLocalLabel reports jump targets that are not functions: GNU .L labels
// and MSVC $LN/$LL labels.
func isLocalLabel(label string) bool {
	return strings.HasPrefix(label, ".L") || strings.HasPrefix(label, "$")
}

// SuggestLabels returns the labels that share a case-insensitive substring
// with symbol, or that symbol is a substring of.
func SuggestLabels(labels []string, symbol string) []string {
	needle := strings.ToLower(strings.Trim(symbol, ":() "))
	if needle == "" {
		return nil
	}

	var out []string
	for _, label := range labels {
		l := strings.ToLower(label)
		if strings.Contains(l, needle) || strings.Contains(needle, l) {
			out = append(out, label)
		}
	}
	return out
}
