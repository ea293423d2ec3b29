package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

// Cache copia local del listado de productos en un archivo JSON. Cada fetch
// exitoso la reescribe con su marca de tiempo; la lectura solo se usa como
// respaldo cuando el servidor no responde y la copia sigue fresca.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache construye la caché sobre la ruta dada con el TTL de frescura.
func NewCache(path string, ttl time.Duration) *Cache {
	return &Cache{path: path, ttl: ttl}
}

type cacheSnapshot struct {
	FetchedAt time.Time             `json:"fetchedAt"`
	Products  []dto.ProductResponse `json:"products"`
}

// Save reemplaza la copia local con el listado recién obtenido.
func (c *Cache) Save(products []dto.ProductResponse) error {
	snap := cacheSnapshot{FetchedAt: time.Now(), Products: products}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}

// Load devuelve la copia local si existe y no superó el TTL.
func (c *Cache) Load() ([]dto.ProductResponse, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, false
	}
	var snap cacheSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false
	}
	if time.Since(snap.FetchedAt) > c.ttl {
		return nil, false
	}
	return snap.Products, true
}
