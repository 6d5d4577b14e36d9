package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/agentdesk/internal/client/models"
)

const (
	// MaxFileSizeMB is the avatar size ceiling in megabytes.
	MaxFileSizeMB = 5

	// MaxFileSize is the avatar size ceiling in bytes.
	MaxFileSize = MaxFileSizeMB * 1024 * 1024
)

// ExtToMIME maps accepted image extensions to their content types.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// Validation errors of Select. They match models.ErrValidation.
var (
	ErrFileTooLarge    = &models.ValidationError{Field: "avatar", Message: fmt.Sprintf("file must be at most %d MiB", MaxFileSizeMB)}
	ErrEmptyFile       = &models.ValidationError{Field: "avatar", Message: "file is empty"}
	ErrUnsupportedType = &models.ValidationError{Field: "avatar", Message: "file must be a jpg, png, webp or gif image"}
)

// File is a file chosen by the user.
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// OpenFile describes the file at path.
func OpenFile(path string) (File, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		Name: filepath.Base(path),
		Size: fi.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// ContentType returns the image type for name's extension.
func ContentType(name string) (string, bool) {
	ct, ok := ExtToMIME[strings.ToLower(filepath.Ext(name))]
	return ct, ok
}

func validate(f File) (string, error) {
	if f.Size > MaxFileSize {
		return "", ErrFileTooLarge
	}
	if f.Size <= 0 {
		return "", ErrEmptyFile
	}
	ct, ok := ContentType(f.Name)
	if !ok {
		return "", ErrUnsupportedType
	}
	return ct, nil
}
