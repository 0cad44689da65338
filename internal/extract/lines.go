package extract

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrInvalidUTF8 = errors.New("upload is not valid UTF-8 text")
	ErrTooLarge    = errors.New("upload exceeds the size limit")
)

// LoadReviews reads r up to limit bytes and splits it into lines. A limit of
// zero or less means unbounded.
func LoadReviews(r io.Reader, limit int64) ([]string, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if limit > 0 && int64(len(raw)) > limit {
		return nil, ErrTooLarge
	}

	text, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return SplitLines(text), nil
}

// Decode validates raw as UTF-8 and drops a leading byte-order mark.
func Decode(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", ErrInvalidUTF8
	}

	decoded, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidUTF8, err)
	}
	return string(decoded), nil
}

// SplitLines breaks text on every line boundary Python's str.splitlines
// recognises: \n, \r, \r\n, \v, \f, \x1c-\x1e, \x85, U+2028 and U+2029.
// Empty lines are kept. A trailing boundary does not produce a final empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	var lines []string
	start := 0
	for i, r := range text {
		if !isLineBoundary(r) {
			continue
		}
		if r == '\n' && i > 0 && text[i-1] == '\r' {
			// second half of \r\n, the line was cut at \r
			start = i + 1
			continue
		}
		lines = append(lines, text[start:i])
		start = i + utf8.RuneLen(r)
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBoundary(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// NonBlank returns the trimmed lines that still have content.
func NonBlank(lines []string) []string {
	units := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			units = append(units, trimmed)
		}
	}
	return units
}
