package ingestion

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fmuoria/interview-coach/internal/models"
)

// ErrDocumentNotFound is returned when a named document is not in the library
var ErrDocumentNotFound = errors.New("document not found")

// FileHandler manages the document library: resumes, cover letters and interview transcripts
type FileHandler struct {
	uploadsDir string
}

// NewFileHandler creates a new file handler
func NewFileHandler(uploadsDir string) *FileHandler {
	return &FileHandler{
		uploadsDir: uploadsDir,
	}
}

// Dir returns the library directory
func (fh *FileHandler) Dir() string {
	return fh.uploadsDir
}

// SaveUploadedFile saves an uploaded file to the uploads directory
func (fh *FileHandler) SaveUploadedFile(filename string, content io.Reader) (string, error) {
	name, err := cleanName(filename)
	if err != nil {
		return "", err
	}
	if !IsSupported(name) {
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(name))
	}

	// Ensure uploads directory exists
	if err := os.MkdirAll(fh.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	filePath := filepath.Join(fh.uploadsDir, name)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, nil
}

// ListDocuments lists the supported documents in the uploads directory, sorted by name
func (fh *FileHandler) ListDocuments() ([]models.Document, error) {
	files, err := os.ReadDir(fh.uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Document{}, nil
		}
		return nil, fmt.Errorf("failed to read uploads directory: %w", err)
	}

	documents := make([]models.Document, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !IsSupported(file.Name()) {
			continue
		}

		info, err := file.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", file.Name(), err)
		}

		documents = append(documents, models.Document{
			Name:       file.Name(),
			Path:       filepath.Join(fh.uploadsDir, file.Name()),
			Kind:       DocumentKind(file.Name()),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(documents, func(i, j int) bool {
		return documents[i].Name < documents[j].Name
	})

	return documents, nil
}

// ReadDocument extracts the text of a document in the library
func (fh *FileHandler) ReadDocument(filename string) (string, error) {
	filePath, err := fh.existingPath(filename)
	if err != nil {
		return "", err
	}

	text, err := ExtractText(filePath)
	if err != nil {
		return "", err
	}
	if IsBinaryData(text) {
		return "", fmt.Errorf("document %s does not contain readable text", filename)
	}

	return text, nil
}

// DeleteDocument removes a document from the library
func (fh *FileHandler) DeleteDocument(filename string) error {
	filePath, err := fh.existingPath(filename)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete %s: %w", filename, err)
	}
	return nil
}

// ClearUploads removes all files from the uploads directory
func (fh *FileHandler) ClearUploads() error {
	if err := os.RemoveAll(fh.uploadsDir); err != nil {
		return fmt.Errorf("failed to clear uploads directory: %w", err)
	}
	return os.MkdirAll(fh.uploadsDir, 0755)
}

func (fh *FileHandler) existingPath(filename string) (string, error) {
	name, err := cleanName(filename)
	if err != nil {
		return "", err
	}

	filePath := filepath.Join(fh.uploadsDir, name)
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrDocumentNotFound
		}
		return "", fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if info.IsDir() {
		return "", ErrDocumentNotFound
	}

	return filePath, nil
}

// cleanName keeps only the base name so callers cannot escape the uploads directory
func cleanName(filename string) (string, error) {
	name := filepath.Base(filepath.Clean(strings.ReplaceAll(filename, "\\", "/")))
	if name == "." || name == ".." || name == "/" || name == "" {
		return "", fmt.Errorf("invalid file name %q", filename)
	}
	return name, nil
}

// DocumentKind infers what a document is from its file name.
// Convention: "Name_Transcript.txt", "Name_CoverLetter.pdf", "Name_CV.docx".
func DocumentKind(filename string) string {
	base := strings.ToLower(strings.TrimSuffix(filename, filepath.Ext(filename)))

	switch {
	case strings.Contains(base, "transcript") || strings.Contains(base, "interview"):
		return models.DocumentKindTranscript
	case strings.Contains(base, "cover") || strings.Contains(base, "letter"):
		return models.DocumentKindCoverLetter
	case strings.Contains(base, "cv") || strings.Contains(base, "resume"):
		return models.DocumentKindResume
	default:
		return models.DocumentKindOther
	}
}
