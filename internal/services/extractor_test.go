package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtractText_PlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("strong Python and Flask experience"), 0644))

	extractor := NewTextExtractorService(zap.NewNop())
	assert.Equal(t, "strong Python and Flask experience", extractor.ExtractText(path))
}

func TestExtractText_MissingFileDegradesToEmpty(t *testing.T) {
	extractor := NewTextExtractorService(zap.NewNop())
	assert.Equal(t, "", extractor.ExtractText(filepath.Join(t.TempDir(), "nope.txt")))
}

func TestExtractText_CorruptPDFDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0644))

	extractor := NewTextExtractorService(zap.NewNop())
	assert.Equal(t, "", extractor.ExtractText(path))
}

func TestExtractText_CorruptDocxDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0644))

	extractor := NewTextExtractorService(zap.NewNop())
	assert.Equal(t, "", extractor.ExtractText(path))
}
