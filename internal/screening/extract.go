// Package screening matches uploaded resumes against a job description and
// notifies shortlisted candidates.
package screening

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"golang.org/x/text/unicode/norm"
)

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// ExtractText pulls plain text out of a resume upload. PDF and DOCX files are
// parsed, anything else is treated as plain text.
func ExtractText(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDOCX(data)
	default:
		return normalizeText(string(data)), nil
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var buf bytes.Buffer
	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}

	return normalizeText(buf.String()), nil
}

func extractDOCX(data []byte) (string, error) {
	reader, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening docx: %w", err)
	}
	defer reader.Close()

	raw := reader.Editable().GetContent()
	text := xmlTagPattern.ReplaceAllString(raw, " ")

	return normalizeText(text), nil
}

// normalizeText folds accented characters to their base form and drops
// anything outside printable ASCII. Embedding quality drops sharply on
// mojibake, so the pipeline works on clean text only.
func normalizeText(s string) string {
	decomposed := norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if r == '\n' || r == '\t' || (r >= 32 && r < 127) {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}
