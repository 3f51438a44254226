package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.FgRed, color.Bold)
	gutterColor = color.New(color.FgCyan)
	caretColor  = color.New(color.FgYellow)
)

// Format renders an error for humans. Errors carrying a source span get the
// offending line with a caret underline beneath it; anything else renders
// as its message alone.
func Format(source string, err error) string {
	spanned, ok := err.(Spanned)
	if !ok {
		return headerColor.Sprint(err.Error())
	}

	errSpan := spanned.ErrorSpan()
	lineStart := strings.LastIndexByte(source[:min(errSpan.Start, len(source))], '\n') + 1
	lineEnd := len(source)
	if i := strings.IndexByte(source[lineStart:], '\n'); i >= 0 {
		lineEnd = lineStart + i
	}
	line := source[lineStart:lineEnd]
	lineNumber := 1 + strings.Count(source[:lineStart], "\n")

	caretStart := errSpan.Start - lineStart
	caretWidth := errSpan.Len()
	if caretWidth < 1 {
		caretWidth = 1
	}
	if caretStart+caretWidth > len(line) {
		caretWidth = len(line) - caretStart
		if caretWidth < 1 {
			caretWidth = 1
		}
	}

	var builder strings.Builder
	builder.WriteString(headerColor.Sprint(err.Error()))
	builder.WriteString("\n")
	gutter := fmt.Sprintf("%4d | ", lineNumber)
	builder.WriteString(gutterColor.Sprint(gutter))
	builder.WriteString(line)
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat(" ", len(gutter)+caretStart))
	builder.WriteString(caretColor.Sprint(strings.Repeat("^", caretWidth)))
	return builder.String()
}

// FormatAll renders a list of errors, one formatted block per error.
func FormatAll(source string, errs []error) string {
	blocks := make([]string, 0, len(errs))
	for _, err := range errs {
		blocks = append(blocks, Format(source, err))
	}
	return strings.Join(blocks, "\n")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
