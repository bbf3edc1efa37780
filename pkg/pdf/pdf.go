package pdf

import (
	"fmt"
	"regexp"
	"strings"

	"rsc.io/pdf"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	specialsRe   = regexp.MustCompile(`[^\w\s.,!?;:()\-]`)
	repeatPuncRe = regexp.MustCompile(`([.,!?;:])[.,!?;:]+`)
)

// ExtractText pulls the plain text out of a PDF file, page by page.
func ExtractText(path string) (text string, err error) {
	// rsc.io/pdf panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing %s: %v", path, r)
		}
	}()

	reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		var lastY float64
		for _, t := range page.Content().Text {
			if lastY != 0 && t.Y != lastY {
				sb.WriteString("\n")
			} else if sb.Len() > 0 && !strings.HasSuffix(sb.String(), " ") {
				sb.WriteString(" ")
			}
			sb.WriteString(t.S)
			lastY = t.Y
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// Sanitize normalizes extracted text: collapses whitespace, strips
// characters outside the retained punctuation set, and deduplicates
// consecutive punctuation.
func Sanitize(text string) string {
	text = specialsRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = repeatPuncRe.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
