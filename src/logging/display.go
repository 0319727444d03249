package logging

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// TextPosition is a position in the source text converted from a byte offset
type TextPosition struct {
	Line, Col int // both starting at 1
}

// PositionOf converts a byte offset into a line and column
func PositionOf(src []byte, offset int) TextPosition {
	if offset > len(src) {
		offset = len(src)
	} else if offset < 0 {
		offset = 0
	}

	before := src[:offset]
	line := bytes.Count(before, []byte{'\n'}) + 1
	col := offset - (bytes.LastIndexByte(before, '\n') + 1) + 1

	return TextPosition{Line: line, Col: col}
}

// Kinds of reported errors, shown in the report banner
const (
	KindSyntaxError = "Syntax Error"
	KindTableFault  = "Table Fault"
	KindInputError  = "Input Error"
)

// DisplayError writes a human readable report for an error of the given kind
// at the byte range [start, end) of a source file: a banner naming the file
// followed by the offending line with the range highlighted.  If the range is
// unknown (start < 0), only the banner and the message are written.
func DisplayError(w io.Writer, kind, path, message string, src []byte, start, end int) {
	banner := "--- " + kind + " "
	fmt.Fprintf(w, "%s%s (file: %s)\n", banner, strings.Repeat("-", 28-len(banner)), filepath.Clean(path))

	if start < 0 || start > len(src) {
		fmt.Fprintln(w, message)
		return
	}

	pos := PositionOf(src, start)
	fmt.Fprintf(w, "%s at (Ln: %d, Col: %d)\n\n", message, pos.Line, pos.Col)

	displayCodeSelection(w, src, pos, start, end)
}

// displayCodeSelection displays the line an error occurs on and highlights the
// part of it covered by the error (at least one column)
func displayCodeSelection(w io.Writer, src []byte, pos TextPosition, start, end int) {
	lineStart := start - (pos.Col - 1)
	lineEnd := bytes.IndexByte(src[lineStart:], '\n')
	if lineEnd < 0 {
		lineEnd = len(src)
	} else {
		lineEnd += lineStart
	}

	if end > lineEnd {
		end = lineEnd
	}

	width := end - start
	if width < 1 {
		width = 1
	}

	lnNumber := strconv.Itoa(pos.Line)
	line := string(src[lineStart:lineEnd])

	// tabs are converted to four spaces (for consistency) so the selection
	// has to be shifted by three columns for every tab in front of it
	prefix := strings.Count(string(src[lineStart:start]), "\t")*3 + pos.Col - 1

	fmt.Fprintf(w, "%s | %s\n", lnNumber, strings.ReplaceAll(strings.TrimRight(line, "\r"), "\t", "    "))
	fmt.Fprintf(w, "%s   %s%s\n", strings.Repeat(" ", len(lnNumber)), strings.Repeat(" ", prefix), strings.Repeat("^", width))
}
