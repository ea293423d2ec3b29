package localfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.ImageStore = (*ImageStore)(nil)

const stagingDirName = ".staging"

// ImageStore almacén de imágenes sobre el sistema de archivos local.
// Las subidas pasan primero por <dir>/.staging bajo un token UUID y se
// promueven con Commit al nombre definitivo <millis><ext>. Una colisión de
// nombres en el mismo milisegundo se acepta como riesgo despreciable.
type ImageStore struct {
	dir string // directorio de imágenes confirmadas (absoluto)
}

// New construye el almacén y crea los directorios si no existen.
func New(dir string) (*ImageStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolver directorio de imágenes: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(abs, stagingDirName), 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de imágenes: %w", err)
	}
	return &ImageStore{dir: abs}, nil
}

// Dir devuelve el directorio de imágenes confirmadas (para servirlo estático).
func (s *ImageStore) Dir() string {
	return s.dir
}

// Stage escribe los bytes bajo un token temporal en el área de staging.
func (s *ImageStore) Stage(data []byte) (string, error) {
	token := uuid.New().String()
	path := filepath.Join(s.dir, stagingDirName, token)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("escribir imagen en staging: %w", err)
	}
	return token, nil
}

// NextName calcula el nombre definitivo: timestamp en milisegundos más la
// extensión original (misma regla que usaba el nombre en el cliente web).
func (s *ImageStore) NextName(originalExt string) string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + originalExt
}

// Commit promueve un archivo en staging a su nombre definitivo.
func (s *ImageStore) Commit(stagedToken, finalName string) error {
	if !validName(finalName) {
		return domain.ErrInvalidInput
	}
	src := filepath.Join(s.dir, stagingDirName, stagedToken)
	dst := filepath.Join(s.dir, finalName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("confirmar imagen: %w", err)
	}
	return nil
}

// Discard elimina un archivo en staging. Ignora archivos ya inexistentes.
func (s *ImageStore) Discard(stagedToken string) error {
	path := filepath.Join(s.dir, stagingDirName, stagedToken)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("descartar imagen en staging: %w", err)
	}
	return nil
}

// Resolve devuelve la ruta absoluta de un archivo confirmado.
func (s *ImageStore) Resolve(storedFilename string) (string, error) {
	if !validName(storedFilename) {
		return "", domain.ErrFileNotFound
	}
	path := filepath.Join(s.dir, storedFilename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", domain.ErrFileNotFound
		}
		return "", fmt.Errorf("stat imagen: %w", err)
	}
	return path, nil
}

// ReconcileOrphans barre el área de staging y elimina archivos más antiguos
// que el corte: subidas cuya creación de registro nunca llegó a confirmarse.
func (s *ImageStore) ReconcileOrphans(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, stagingDirName))
	if err != nil {
		return 0, fmt.Errorf("leer staging: %w", err)
	}
	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, stagingDirName, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// validName rechaza nombres que escapen del directorio de imágenes.
func validName(name string) bool {
	if name == "" || name == stagingDirName {
		return false
	}
	return filepath.Base(name) == name && !strings.HasPrefix(name, ".")
}
