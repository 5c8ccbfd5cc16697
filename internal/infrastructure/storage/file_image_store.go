package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid"

	"age-api/internal/domain/port"
)

// FileImageStore сохраняет загруженные фото в каталог на диске под UUID-именами.
type FileImageStore struct {
	dir string
}

// NewFileImageStore создаёт каталог, если его нет.
func NewFileImageStore(dir string) (*FileImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileImageStore{dir: dir}, nil
}

// Save записывает фото как <dir>/<uuid><ext> и возвращает путь.
func (s *FileImageStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("generate file name: %w", err)
	}

	path := filepath.Join(s.dir, id.String()+safeExt(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}

// safeExt оставляет только короткое буквенно-цифровое расширение
func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

var _ port.ImageStore = (*FileImageStore)(nil)
