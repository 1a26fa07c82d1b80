package pdftext

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	pdf "github.com/ledongthuc/pdf"
)

var whitespace = regexp.MustCompile(`[ \t]+`)

// Extract pulls plain text from an uploaded syllabus document. PDF content
// is parsed page by page; plain text passes through; anything else is
// rejected with the detected MIME type.
func Extract(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty document")
	}

	mime := mimetype.Detect(data)
	switch {
	case mime.Is("application/pdf"):
		return extractPDF(data)
	case strings.HasPrefix(mime.String(), "text/"):
		return collapse(string(data)), nil
	default:
		return "", fmt.Errorf("unsupported document type %s", mime.String())
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", pageNum, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	result := collapse(sb.String())
	if result == "" {
		return "", fmt.Errorf("pdf contains no extractable text")
	}
	return result, nil
}

func collapse(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = whitespace.ReplaceAllString(strings.TrimSpace(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
