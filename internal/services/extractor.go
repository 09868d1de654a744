package services

import (
	"bytes"
	"fmt"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"

	"alfredoptarigan/application-processor/internal/apperrors"
)

// DocumentExtractor turns a resume artifact into plain text. Exactly two
// declared types are supported: ".pdf" and ".docx". Corrupt input becomes an
// input error, never a panic.
type DocumentExtractor interface {
	Extract(data []byte, declaredType string) (string, error)
}

type documentExtractor struct{}

func NewDocumentExtractor() DocumentExtractor {
	return &documentExtractor{}
}

func (d *documentExtractor) Extract(data []byte, declaredType string) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(strings.TrimSpace(declaredType)) {
	case ".pdf":
		text, err = d.extractPDF(data)
	case ".docx":
		text, err = d.extractDOCX(data)
	default:
		return "", apperrors.NewInput("extract", 400,
			"invalid file format, only PDF and DOCX files are supported", nil)
	}

	if err != nil {
		return "", apperrors.NewInput("extract", 422,
			"failed to extract text from resume", err)
	}

	text = CleanText(text)
	if text == "" {
		return "", apperrors.NewInput("extract", 422,
			"failed to extract text from resume", fmt.Errorf("no text content found"))
	}

	return text, nil
}

func (d *documentExtractor) extractPDF(data []byte) (text string, err error) {
	// The pdf package can panic on malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

func (d *documentExtractor) extractDOCX(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed DOCX: %v", r)
		}
	}()

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}

	var textBuilder strings.Builder
	for _, it := range doc.Document.Body.Items {
		switch it.(type) {
		case *docx.Paragraph, *docx.Table:
			textBuilder.WriteString(fmt.Sprint(it))
			textBuilder.WriteString("\n")
		}
	}

	return textBuilder.String(), nil
}

// CleanText normalizes extracted text: trims each line and drops blanks.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
