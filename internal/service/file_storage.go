package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalFileStorage writes uploads under a single directory. Names are made
// unique so repeated uploads of the same file never collide.
type LocalFileStorage struct {
	Dir string
}

func NewLocalFileStorage(dir string) *LocalFileStorage {
	return &LocalFileStorage{Dir: dir}
}

func (s *LocalFileStorage) Save(ctx context.Context, stem string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if stem == "" {
		stem = "resume"
	}
	path := filepath.Join(s.Dir, fmt.Sprintf("%s_%s.pdf", stem, uuid.NewString()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}
