package photoval

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/marsisca/travelog/internal/models"
)

// LoadFile reads a photo from disk into a PhotoFile. The MIME type comes
// from the extension; an unknown extension leaves it empty, which is exactly
// the case the extension fallback in IsValidFormat exists for.
func LoadFile(path string) (*models.PhotoFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read photo %s: %w", path, err)
	}

	return &models.PhotoFile{
		Name:     filepath.Base(path),
		MIMEType: mime.TypeByExtension(filepath.Ext(path)),
		Size:     int64(len(data)),
		Data:     data,
	}, nil
}

// LoadFiles reads a list of photo paths.
func LoadFiles(paths []string) ([]*models.PhotoFile, error) {
	files := make([]*models.PhotoFile, 0, len(paths))
	for _, path := range paths {
		file, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}
