package collector

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ujupatipanno/trash-note/internal/apperr"
)

// Position addresses a point in a document by zero-based line number and
// rune offset within that line, the way editors count.
type Position struct {
	Line int `json:"line"`
	Ch   int `json:"ch"`
}

// span is a half-open byte range [start, end) to cut from a document, plus
// the text that gets appended to the collector in its place.
type span struct {
	start, end int
	text       string
}

// resolveSelection maps a selection between from and to onto content. The
// endpoints may arrive in either order. The relocated text is exactly the
// selected text.
func resolveSelection(content string, from, to Position) (span, error) {
	a, err := byteOffset(content, from)
	if err != nil {
		return span{}, err
	}
	b, err := byteOffset(content, to)
	if err != nil {
		return span{}, err
	}
	if a > b {
		a, b = b, a
	}
	if a == b {
		return span{}, fmt.Errorf("empty selection: %w", apperr.ErrInvalidSpan)
	}
	return span{start: a, end: b, text: content[a:b]}, nil
}

// resolveLine maps a cursor line onto content. The cut covers the whole line
// including its trailing newline so no blank line is left behind; the
// relocated text is the line without the newline.
func resolveLine(content string, line int) (span, error) {
	if line < 0 {
		return span{}, fmt.Errorf("line %d out of range: %w", line, apperr.ErrInvalidSpan)
	}
	lineStart := 0
	for l := 0; l < line; l++ {
		nl := strings.IndexByte(content[lineStart:], '\n')
		if nl < 0 {
			return span{}, fmt.Errorf("line %d out of range: %w", line, apperr.ErrInvalidSpan)
		}
		lineStart += nl + 1
	}
	lineEnd := len(content)
	cutEnd := len(content)
	if nl := strings.IndexByte(content[lineStart:], '\n'); nl >= 0 {
		lineEnd = lineStart + nl
		cutEnd = lineEnd + 1
	}
	return span{start: lineStart, end: cutEnd, text: content[lineStart:lineEnd]}, nil
}

// byteOffset converts pos into a byte offset in content. A rune offset past
// the end of the line clamps to the line end; a line past the end of the
// document is an error.
func byteOffset(content string, pos Position) (int, error) {
	if pos.Line < 0 || pos.Ch < 0 {
		return 0, fmt.Errorf("negative position %d:%d: %w", pos.Line, pos.Ch, apperr.ErrInvalidSpan)
	}
	lineStart := 0
	for l := 0; l < pos.Line; l++ {
		nl := strings.IndexByte(content[lineStart:], '\n')
		if nl < 0 {
			return 0, fmt.Errorf("line %d out of range: %w", pos.Line, apperr.ErrInvalidSpan)
		}
		lineStart += nl + 1
	}
	lineEnd := len(content)
	if nl := strings.IndexByte(content[lineStart:], '\n'); nl >= 0 {
		lineEnd = lineStart + nl
	}
	off := lineStart
	remaining := pos.Ch
	for _, r := range content[lineStart:lineEnd] {
		if remaining == 0 {
			break
		}
		off += utf8.RuneLen(r)
		remaining--
	}
	return off, nil
}
