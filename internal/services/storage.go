package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// AllowedExtensions is the set of resume file types the service accepts.
var AllowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
}

// AllowedExtensionList returns the allowed extensions without the leading
// dot, sorted for use in error messages.
func AllowedExtensionList() []string {
	return []string{"doc", "docx", "pdf", "txt"}
}

// IsAllowedFile reports whether the filename carries an accepted extension.
func IsAllowedFile(filename string) bool {
	_, ok := AllowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

type StorageService interface {
	SaveFile(file *multipart.FileHeader) (string, string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

var unsafeFilenamePattern = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SaveFile stores the upload under a UUID-prefixed sanitized name and
// returns the stored filename and its full path.
func (s *storageService) SaveFile(file *multipart.FileHeader) (string, string, error) {
	if !IsAllowedFile(file.Filename) {
		return "", "", fmt.Errorf("invalid file extension: %s", filepath.Ext(file.Filename))
	}

	safeName := sanitizeFilename(file.Filename)
	uniqueFilename := fmt.Sprintf("%s_%s", strings.ReplaceAll(uuid.New().String(), "-", ""), safeName)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// sanitizeFilename strips path components and characters that are unsafe in
// a stored filename. A name reduced to nothing becomes "resume" plus the
// original extension.
func sanitizeFilename(filename string) string {
	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	name := strings.TrimSuffix(base, filepath.Ext(base))

	name = unsafeFilenamePattern.ReplaceAllString(name, "")
	if name == "" {
		name = "resume"
	}

	return name + ext
}
