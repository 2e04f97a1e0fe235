// internal/storage/file_storage.go
package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Corphon/DreamLogger/internal/utils"
)

// FileStorage writes generated images under a directory that is served statically.
type FileStorage struct {
	BaseDir   string
	URLPrefix string

	fileLocks sync.Map // path -> *sync.Mutex
}

// NewFileStorage creates baseDir if needed. urlPrefix is the public path baseDir is served under.
func NewFileStorage(baseDir, urlPrefix string) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStorage{
		BaseDir:   baseDir,
		URLPrefix: "/" + strings.Trim(urlPrefix, "/"),
	}, nil
}

func (fs *FileStorage) getFileLock(fullPath string) *sync.Mutex {
	value, _ := fs.fileLocks.LoadOrStore(fullPath, &sync.Mutex{})
	return value.(*sync.Mutex)
}

// SaveImage writes data atomically as filename and returns its public URL.
func (fs *FileStorage) SaveImage(filename string, data []byte) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid image file name %q", filename)
	}
	fullPath := filepath.Join(fs.BaseDir, filename)

	lock := fs.getFileLock(fullPath)
	lock.Lock()
	defer lock.Unlock()

	tempPath := fullPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return "", fmt.Errorf("write temp image: %w", err)
	}

	if err := os.Rename(tempPath, fullPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			utils.GetLogger().Warn("failed to clean up temporary image", map[string]interface{}{
				"path":  tempPath,
				"error": removeErr.Error(),
			})
		}
		return "", fmt.Errorf("save image: %w", err)
	}

	return path.Join(fs.URLPrefix, filename), nil
}

// FileExists reports whether filename exists under BaseDir.
func (fs *FileStorage) FileExists(filename string) bool {
	info, err := os.Stat(filepath.Join(fs.BaseDir, filename))
	return err == nil && !info.IsDir()
}

// DirExists reports whether BaseDir is present and is a directory.
func (fs *FileStorage) DirExists() bool {
	info, err := os.Stat(fs.BaseDir)
	return err == nil && info.IsDir()
}
