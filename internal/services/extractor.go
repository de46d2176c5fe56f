package services

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"
)

// TextExtractorService turns an uploaded resume into plain text. Extraction
// is best effort: a corrupt, image-only, or otherwise unreadable file yields
// an empty string, which the scorer maps to the worst score. It never
// returns an error to callers.
type TextExtractorService interface {
	ExtractText(filePath string) string
}

type textExtractorService struct {
	log *zap.Logger
}

func NewTextExtractorService(log *zap.Logger) TextExtractorService {
	return &textExtractorService{log: log}
}

// ExtractText implements TextExtractorService.
func (t *textExtractorService) ExtractText(filePath string) string {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		text, err = t.extractPDF(filePath)
	case ".doc", ".docx":
		text, err = t.extractDocx(filePath)
	default:
		text, err = t.extractPlain(filePath)
	}

	if err != nil {
		t.log.Warn("resume parse failed",
			zap.String("file", filepath.Base(filePath)),
			zap.Error(err),
		)
		return ""
	}

	return text
}

func (t *textExtractorService) extractPDF(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		// Image-only pages extract nothing; keep going with the rest.
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString(" ")
	}

	return textBuilder.String(), nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func (t *textExtractorService) extractDocx(filePath string) (string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()

	// The raw body is WordprocessingML; paragraph closes become spaces so
	// words from adjacent paragraphs do not fuse.
	content = strings.ReplaceAll(content, "</w:p>", " ")
	content = xmlTagPattern.ReplaceAllString(content, "")

	return html.UnescapeString(content), nil
}

func (t *textExtractorService) extractPlain(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return string(data), nil
}
