// Package localfs guarda imágenes de producto en un directorio local servido
// bajo /uploads/.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const URLPrefix = "/uploads/"

type Storage struct{ dir string }

func New(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de uploads: %w", err)
	}
	return &Storage{dir: dir}, nil
}

func (s *Storage) Dir() string { return s.dir }

func (s *Storage) path(name string) (string, error) {
	clean := filepath.Clean("/" + strings.TrimPrefix(name, URLPrefix))
	if clean == "/" {
		return "", errors.New("nombre de archivo vacío")
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean)), nil
}

// Save escribe r en dir/name y devuelve la URL pública relativa.
func (s *Storage) Save(_ context.Context, name string, r io.Reader, _ string) (string, error) {
	p, err := s.path(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(p)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	rel, _ := filepath.Rel(s.dir, p)
	return URLPrefix + filepath.ToSlash(rel), nil
}

// Delete acepta la URL devuelta por Save; un archivo inexistente no es error.
func (s *Storage) Delete(_ context.Context, path string) error {
	if !strings.HasPrefix(path, URLPrefix) {
		return nil
	}
	p, err := s.path(path)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
